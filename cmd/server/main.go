// Package main provides the HTTP query service over the published dataset.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"eventpipe/internal/api"
	"eventpipe/internal/config"
	"eventpipe/internal/dataset"
	"eventpipe/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	addr := flag.String("addr", "", "Override listen address")
	datasetPath := flag.String("dataset", "", "Override dataset path")

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if *datasetPath != "" {
		cfg.Output.Path = *datasetPath
	}

	log := logger.NewLogger(cfg.Logging.Level)

	store := dataset.NewStore(cfg.Output.Path)
	server := api.NewServer(store, log)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	server.SetupRoutes(router)

	log.Info("🚀 Starting query service",
		"addr", cfg.Server.Addr,
		"dataset", cfg.Output.Path)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Error("❌ Server failed", "error", err)
		os.Exit(1)
	}
}
