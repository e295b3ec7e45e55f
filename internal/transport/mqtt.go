// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_udp/internal/motion"
)

// mqttClient is the part of mqtt.Client the mirror uses.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTMirror publishes every sample as retained JSON on one topic.
type MQTTMirror struct {
	client mqttClient
	topic  string
}

// NewMQTTMirror connects to broker (e.g. tcp://localhost:1883).
func NewMQTTMirror(broker, clientID, topic string) (*MQTTMirror, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", broker, token.Error())
	}
	return newMQTTMirror(client, topic), nil
}

func newMQTTMirror(client mqttClient, topic string) *MQTTMirror {
	return &MQTTMirror{client: client, topic: topic}
}

func (m *MQTTMirror) Publish(s motion.Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("json marshal error (sample): %w", err)
	}

	token := m.client.Publish(m.topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("MQTT publish error (%s): %w", m.topic, token.Error())
	}
	return nil
}

func (m *MQTTMirror) Close() error {
	m.client.Disconnect(250)
	return nil
}
