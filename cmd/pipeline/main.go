// Package main provides the pipeline command that scrapes, normalizes,
// deduplicates, and publishes the event dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eventpipe/internal/config"
	"eventpipe/internal/dataset"
	"eventpipe/internal/logger"
	"eventpipe/internal/pipeline"
	"eventpipe/internal/report"
	"eventpipe/internal/sources"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	outputPath := flag.String("output", "", "Override dataset output path")
	logLevel := flag.String("log-level", "", "Override log level (debug, info, warn, error)")

	flag.Parse()

	// Load .env if present, for source credentials and overrides
	_ = godotenv.Load()

	// 2. Configuration
	// ----------------
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log := logger.NewLogger(cfg.Logging.Level)

	log.Info("🚀 Starting event pipeline",
		"config", *configPath,
		"sources", len(cfg.GetEnabledSources()),
		"output", cfg.Output.Path)

	// 3. Wiring
	// ---------
	fetcher := sources.NewFetcher(cfg.Retry)

	adapters, err := sources.BuildAdapters(cfg, fetcher, log)
	if err != nil {
		log.Error("❌ Source setup failed", "error", err)
		os.Exit(1)
	}

	writer := dataset.NewWriter(
		cfg.Output.Path,
		cfg.Output.PrettyPrint,
		cfg.Output.CreateBackup,
		cfg.Output.GetLockPath(),
	)

	p := pipeline.New(cfg, log, adapters, writer)

	// 4. Run
	// ------
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, dataset.ErrRunInProgress) {
			log.Error("❌ Another run holds the dataset lock", "lock", cfg.Output.GetLockPath())
		} else {
			log.Error("❌ Pipeline run failed", "error", err)
		}

		os.Exit(1)
	}

	log.Info("✨ Pipeline complete",
		"published", stats.Published,
		"duration", stats.Duration)

	// 5. Final Report
	// ---------------
	events, err := dataset.Load(cfg.Output.Path)
	if err != nil {
		log.Warn("⚠️  Could not reload dataset for report", "error", err)
	}

	fmt.Println(report.Render(stats, events))
}
