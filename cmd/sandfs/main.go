package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/sandfs/internal/logger"
	"github.com/marmos91/sandfs/internal/server"
	"github.com/marmos91/sandfs/pkg/config"
)

func main() {
	// Server configuration flags
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	// Load configuration from file, environment, and defaults
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// CLI flag overrides config file and environment
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	// Configure logger
	logger.SetLevel(cfg.Logging.Level)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure log output: %v", err)
	}

	fmt.Println("sandfs - Sandboxed Remote Filesystem Sessions")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create identity store and seed provisioned users
	store, err := config.CreateIdentityStore(ctx, &cfg.Identity)
	if err != nil {
		log.Fatalf("Failed to create identity store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close identity store: %v", err)
		}
	}()

	// Log server configuration
	logger.Info("Server configuration:")
	logger.Info("  Identity store: %s", cfg.Identity.Type)
	logger.Info("  Users provisioned: %d", len(cfg.Identity.Users))
	logger.Info("  Readdir batch size: %d", cfg.Server.ReaddirBatchSize)
	if cfg.Server.RateLimit.RequestsPerSecond > 0 {
		logger.Info("  Rate limit: %d req/s (burst %d)",
			cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst)
	} else {
		logger.Info("  Rate limit: unlimited")
	}
	logger.Info("  Shutdown timeout: %v", cfg.Server.ShutdownTimeout)

	srv := server.New(store, server.Options{
		ReaddirBatchSize:   cfg.Server.ReaddirBatchSize,
		RateLimitPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		RateLimitBurst:     cfg.Server.RateLimit.Burst,
	})

	// The session layer sits behind an authenticating transport owned by the
	// embedding process; standalone runs use the in-process transport, which
	// embedders connect to via server.InprocTransport.Connect.
	transport := server.NewInprocTransport()

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Run(ctx, transport)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
		cancel() // Cancel context so the accept loop stops and sessions drain

		select {
		case err := <-serverDone:
			if err != nil {
				logger.Error("Server shutdown error: %v", err)
				os.Exit(1)
			}
			logger.Info("Server stopped gracefully")
		case <-time.After(cfg.Server.ShutdownTimeout):
			logger.Error("Graceful shutdown timed out after %v", cfg.Server.ShutdownTimeout)
			os.Exit(1)
		}

	case err := <-serverDone:
		if err != nil {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
		logger.Info("Server stopped")
	}
}
