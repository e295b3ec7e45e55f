// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/cursor"
	"github.com/relabs-tech/motion_udp/internal/motion"
	"github.com/relabs-tech/motion_udp/internal/transport"
)

// ErrTerminalLog is returned when the pointer would share the terminal with
// the log output.
var ErrTerminalLog = errors.New("pointer mode draws on the terminal; set LOG_FILE to keep logs off the screen")

// RunSender streams samples from the configured source to cfg.UDPAddr until
// ctx is cancelled, the source runs dry, or a fatal error occurs.
func RunSender(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	if usesTerminal(cfg) && cfg.LogFile == "" {
		return ErrTerminalLog
	}

	session := uuid.NewString()
	log = log.With("session", session[:8])
	log.Infof("starting sender: mode=%s dest=%s interval=%dms", cfg.Mode, cfg.UDPAddr, cfg.SampleInterval)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The terminal cursor owns the screen; Esc there stops the sender.
	openCursor := func() (motion.CursorReader, error) {
		t, err := cursor.NewTerminal()
		if err != nil {
			return nil, err
		}
		go func() {
			select {
			case <-t.Quit():
				cancel()
			case <-ctx.Done():
			}
		}()
		return t, nil
	}

	src, srcCloser, err := NewSource(cfg, openCursor, log)
	if err != nil {
		return fmt.Errorf("sample source: %w", err)
	}
	defer func() {
		if err := srcCloser.Close(); err != nil {
			log.Warnf("close source: %v", err)
		}
	}()

	sender, err := transport.DialUDP(cfg.UDPAddr)
	if err != nil {
		return err
	}
	defer func() {
		if err := sender.Close(); err != nil {
			log.Warnf("close UDP sender: %v", err)
		}
	}()
	log.Infof("sending datagrams to %s", sender.RemoteAddr())

	mirrors, err := openMirrors(cfg, session, log)
	if err != nil {
		return err
	}
	defer closeMirrors(mirrors, log)

	d := &Driver{
		Source:          src,
		Sender:          sender,
		Mirrors:         mirrors,
		Interval:        time.Duration(cfg.SampleInterval) * time.Millisecond,
		StopOnSendError: cfg.SendErrorPolicy == config.SendErrorStop,
		Log:             log,
	}
	return d.Run(ctx)
}

func openMirrors(cfg *config.Config, session string, log *zap.SugaredLogger) ([]transport.Publisher, error) {
	var mirrors []transport.Publisher

	if cfg.MQTTBroker != "" {
		clientID := cfg.MQTTClientID
		if clientID == "" {
			clientID = "motion-sender-" + session[:8]
		}
		m, err := transport.NewMQTTMirror(cfg.MQTTBroker, clientID, cfg.TopicSample)
		if err != nil {
			return nil, err
		}
		log.Infof("mirroring samples to MQTT %s topic %s", cfg.MQTTBroker, cfg.TopicSample)
		mirrors = append(mirrors, m)
	}

	if cfg.OSCAddr != "" {
		m, err := transport.NewOSCMirror(cfg.OSCAddr)
		if err != nil {
			closeMirrors(mirrors, log)
			return nil, err
		}
		log.Infof("mirroring samples to OSC %s%s", cfg.OSCAddr, transport.OSCAddress)
		mirrors = append(mirrors, m)
	}

	return mirrors, nil
}

func closeMirrors(mirrors []transport.Publisher, log *zap.SugaredLogger) {
	for _, m := range mirrors {
		if err := m.Close(); err != nil {
			log.Warnf("mirror close error: %v", err)
		}
	}
}

// usesTerminal reports whether cfg resolves to the pointer source.
func usesTerminal(cfg *config.Config) bool {
	switch cfg.Mode {
	case config.ModePointer:
		return true
	case config.ModeReplay:
		return cfg.ReplayPath == ""
	}
	return false
}
