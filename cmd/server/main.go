package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/megaplex/realestate/internal/config"
	"github.com/megaplex/realestate/internal/logger"
	"github.com/megaplex/realestate/internal/server"
	"github.com/megaplex/realestate/internal/tracing"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Options{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
		Sample:   cfg.Tracing.SampleRatio,
		Service:  "realestate-api",
		Version:  version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	// Create server
	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Int("port", cfg.Server.Port).Msg("Starting content server...")

	// Start HTTP server (this blocks until shutdown)
	serveErr := srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		log.Warn().Err(err).Msg("Error flushing traces")
	}

	if serveErr != nil {
		log.Fatal().Err(serveErr).Msg("Server stopped with error")
	}
}
