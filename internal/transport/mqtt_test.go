package transport

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/motion_udp/internal/motion"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Error() error                   { return t.err }

func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeMQTTClient struct {
	pubs         []published
	err          error
	disconnected []uint
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.pubs = append(c.pubs, published{topic, qos, retained, payload.([]byte)})
	return &doneToken{err: c.err}
}

func (c *fakeMQTTClient) Disconnect(quiesce uint) {
	c.disconnected = append(c.disconnected, quiesce)
}

func TestMQTTMirrorPublishesRetainedJSON(t *testing.T) {
	client := &fakeMQTTClient{}
	m := newMQTTMirror(client, "motion/sample")

	s := motion.Sample{X: 1.5, Y: -2, Z: 3, XTheta: 10, YTheta: 20, ZTheta: -90}
	require.NoError(t, m.Publish(s))

	require.Len(t, client.pubs, 1)
	pub := client.pubs[0]
	assert.Equal(t, "motion/sample", pub.topic)
	assert.Equal(t, byte(0), pub.qos)
	assert.True(t, pub.retained)
	assert.JSONEq(t, `{"x":1.5,"y":-2,"z":3,"x_theta":10,"y_theta":20,"z_theta":-90}`, string(pub.payload))

	var back motion.Sample
	require.NoError(t, json.Unmarshal(pub.payload, &back))
	assert.Equal(t, s, back)
}

func TestMQTTMirrorPublishError(t *testing.T) {
	brokerErr := errors.New("not connected")
	m := newMQTTMirror(&fakeMQTTClient{err: brokerErr}, "motion/sample")

	err := m.Publish(motion.Sample{})
	require.Error(t, err)
	assert.ErrorIs(t, err, brokerErr)
	assert.Contains(t, err.Error(), "motion/sample")
}

func TestMQTTMirrorCloseDisconnects(t *testing.T) {
	client := &fakeMQTTClient{}
	m := newMQTTMirror(client, "motion/sample")

	require.NoError(t, m.Close())
	assert.Equal(t, []uint{250}, client.disconnected)
}
