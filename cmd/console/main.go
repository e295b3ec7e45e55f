// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/motion_udp/internal/app"
	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (KEY=VALUE or .yaml); empty uses defaults")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting motion console (UDP listener)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsole(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
	logger.Info("console: shutting down")
}
