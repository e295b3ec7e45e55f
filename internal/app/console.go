// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/motion"
	"github.com/relabs-tech/motion_udp/internal/transport"
)

// RunConsole listens where the visualizer would and prints every received
// sample, raw and as the visualizer normalizes it.
func RunConsole(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger, out io.Writer) error {
	l, err := transport.ListenUDP(cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Infof("console: listening on %s", l.LocalAddr())

	norm := normalizerFor(cfg)
	return l.Serve(ctx, func(payload []byte, from net.Addr) {
		s, err := motion.ParseSample(string(payload))
		if err != nil {
			log.Warnf("console: bad payload from %s: %v", from, err)
			return
		}
		printSample(out, s, norm.Apply(s))
	})
}

func normalizerFor(cfg *config.Config) motion.Normalizer {
	return motion.Normalizer{
		Min:         cfg.NormalizeMin,
		Max:         cfg.NormalizeMax,
		Sensibility: cfg.NormalizeSensibility,
		SwapYZ:      cfg.NormalizeSwapYZ,
	}
}

func printSample(out io.Writer, raw, norm motion.Sample) {
	fmt.Fprintf(out,
		"[RAW ] X=%8.2f Y=%8.2f Z=%8.2f  XT=%7.2f YT=%7.2f ZT=%7.2f\n",
		raw.X, raw.Y, raw.Z, raw.XTheta, raw.YTheta, raw.ZTheta,
	)
	fmt.Fprintf(out,
		"[NORM] X=%8.3f Y=%8.3f Z=%8.3f  XT=%7.2f YT=%7.2f ZT=%7.2f\n",
		norm.X, norm.Y, norm.Z, norm.XTheta, norm.YTheta, norm.ZTheta,
	)
}
