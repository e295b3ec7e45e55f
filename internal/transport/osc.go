// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hypebeast/go-osc/osc"

	"github.com/relabs-tech/motion_udp/internal/motion"
)

// OSCAddress is the OSC address pattern carrying samples.
const OSCAddress = "/motion"

// OSCMirror sends each sample as an OSC message with six float32 arguments.
type OSCMirror struct {
	client *osc.Client
}

// NewOSCMirror targets addr in host:port form.
func NewOSCMirror(addr string) (*OSCMirror, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("osc address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("osc port %q: %w", portStr, err)
	}
	return &OSCMirror{client: osc.NewClient(host, port)}, nil
}

func (o *OSCMirror) Publish(s motion.Sample) error {
	msg := osc.NewMessage(OSCAddress)
	for _, v := range s.Fields() {
		msg.Append(float32(v))
	}
	if err := o.client.Send(msg); err != nil {
		return fmt.Errorf("osc send: %w", err)
	}
	return nil
}

// Close is a no-op: the OSC client dials per send.
func (o *OSCMirror) Close() error {
	return nil
}
