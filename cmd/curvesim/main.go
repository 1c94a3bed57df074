// ====================================
// File: cmd/curvesim/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/launchforge/curve-engine/internal/config"
	"github.com/launchforge/curve-engine/internal/logger"
	"github.com/launchforge/curve-engine/internal/sim"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	logFile := flag.String("log-file", "logs/curvesim.log", "path to log file, empty for console only")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.DebugLogging, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log.Info("Starting curve simulator",
		zap.String("strategy", cfg.Strategy),
		zap.Int("curves", cfg.Curves),
		zap.Int("workers", cfg.Workers))

	runner, err := sim.NewRunner(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize simulator", zap.Error(err))
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatal("Simulation error", zap.Error(err))
	}

	runner.Shutdown()
}
