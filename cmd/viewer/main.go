// Package main is the entry point for the viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/brhx/fabric-sub000/internal/config"
	"github.com/brhx/fabric-sub000/internal/logger"
	"github.com/brhx/fabric-sub000/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app, err := viewer.New(cfg, log)
	if err != nil {
		log.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		log.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("viewer closed normally")
}
