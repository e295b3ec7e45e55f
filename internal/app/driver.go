// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_udp/internal/motion"
	"github.com/relabs-tech/motion_udp/internal/transport"
)

// ErrSend marks a failed datagram send, as opposed to a source failure.
var ErrSend = errors.New("send failed")

// Sender transmits one formatted payload.
type Sender interface {
	Send(payload []byte) error
}

// Driver runs the generate → format → transmit loop.
type Driver struct {
	Source  motion.Source
	Sender  Sender
	Mirrors []transport.Publisher

	// Interval is the pause between iterations; zero sends back to back.
	Interval time.Duration
	// StopOnSendError makes a failed send fatal. Otherwise it is logged and
	// the loop keeps going.
	StopOnSendError bool

	Log *zap.SugaredLogger

	sent uint64
}

// Step produces one sample, sends it and echoes the payload.
func (d *Driver) Step() (motion.Sample, error) {
	s, err := d.Source.Next()
	if err != nil {
		return motion.Sample{}, err
	}

	payload := s.Format()
	if err := d.Sender.Send([]byte(payload)); err != nil {
		return s, fmt.Errorf("%w: %w", ErrSend, err)
	}
	d.sent++
	d.Log.Infof("sent: %s", payload)

	for _, m := range d.Mirrors {
		if err := m.Publish(s); err != nil {
			d.Log.Warnf("mirror publish error: %v", err)
		}
	}
	return s, nil
}

// Run loops until ctx is cancelled or the source is exhausted, both of which
// return nil. Source errors are returned; send errors depend on StopOnSendError.
// A Source that is also an io.Closer is closed on cancellation, so a Next
// blocked on a silent port returns.
func (d *Driver) Run(ctx context.Context) error {
	if c, ok := d.Source.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() {
			if err := c.Close(); err != nil {
				d.Log.Warnf("close source: %v", err)
			}
		})
		defer stop()
	}

	var tick <-chan time.Time
	if d.Interval > 0 {
		ticker := time.NewTicker(d.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if ctx.Err() != nil {
			d.Log.Infof("driver stopped after %d datagrams", d.sent)
			return nil
		}

		_, err := d.Step()
		if err != nil && ctx.Err() != nil {
			d.Log.Infof("driver stopped after %d datagrams", d.sent)
			return nil
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			d.Log.Infof("source exhausted after %d datagrams", d.sent)
			return nil
		case errors.Is(err, ErrSend) && !d.StopOnSendError:
			d.Log.Warnf("%v", err)
		default:
			return err
		}

		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
		case <-tick:
		}
	}
}

// Sent is the number of datagrams written so far.
func (d *Driver) Sent() uint64 {
	return d.sent
}
