// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// maxDatagram is the largest UDP payload we ever read.
const maxDatagram = 65535

// UDPSender writes one datagram per Send to a fixed destination.
// Nothing is read back: delivery is best effort.
type UDPSender struct {
	conn *net.UDPConn
}

// DialUDP resolves addr (host:port) and opens the socket used for the
// lifetime of the sender.
func DialUDP(addr string) (*UDPSender, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &UDPSender{conn: conn}, nil
}

// Send writes payload as a single datagram.
func (s *UDPSender) Send(payload []byte) error {
	n, err := s.conn.Write(payload)
	if err != nil {
		return fmt.Errorf("udp send: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("udp send: short write %d/%d bytes", n, len(payload))
	}
	return nil
}

// RemoteAddr is the destination of every datagram.
func (s *UDPSender) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *UDPSender) Close() error {
	return s.conn.Close()
}

// UDPListener receives datagrams on a bound address.
type UDPListener struct {
	conn *net.UDPConn
}

// ListenUDP binds addr, e.g. ":5000" or "127.0.0.1:0".
func ListenUDP(addr string) (*UDPListener, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &UDPListener{conn: conn}, nil
}

// LocalAddr is the bound address, useful when listening on port 0.
func (l *UDPListener) LocalAddr() net.Addr {
	return l.conn.LocalAddr()
}

// Serve calls handle for every datagram until ctx is cancelled, then closes
// the socket and returns nil. Any other read error is returned.
func (l *UDPListener) Serve(ctx context.Context, handle func(payload []byte, from net.Addr)) error {
	stop := context.AfterFunc(ctx, func() { l.conn.Close() })
	defer stop()

	buf := make([]byte, maxDatagram)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("udp read: %w", err)
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		handle(payload, from)
	}
}

func (l *UDPListener) Close() error {
	return l.conn.Close()
}
