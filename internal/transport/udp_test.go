package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUDPSenderDeliversOneDatagramPerSend(t *testing.T) {
	l, err := ListenUDP("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- l.Serve(ctx, func(payload []byte, _ net.Addr) {
			got <- string(payload)
		})
	}()

	s, err := DialUDP(l.LocalAddr().String())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, l.LocalAddr().String(), s.RemoteAddr().String())

	require.NoError(t, s.Send([]byte("1,2,3,4,5,6")))
	require.NoError(t, s.Send([]byte("7,8,9,10,11,12")))

	for _, want := range []string{"1,2,3,4,5,6", "7,8,9,10,11,12"} {
		select {
		case p := <-got:
			assert.Equal(t, want, p)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestDialUDPBadAddress(t *testing.T) {
	_, err := DialUDP("not-an-address")
	assert.Error(t, err)
}
