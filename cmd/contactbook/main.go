package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/leengari/contactbook/internal/config"
	"github.com/leengari/contactbook/internal/engine"
	"github.com/leengari/contactbook/internal/logging"
	"github.com/leengari/contactbook/internal/menu"
	"github.com/leengari/contactbook/internal/storage/manager"
)

func main() {
	// A missing .env is fine; the environment and defaults still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeFn := logging.SetupLogger(cfg.Logging, os.Stderr)
	defer closeFn()

	slog.SetDefault(logger)
	logger.Info("Starting contactbook...", "backend", cfg.Storage.Backend)

	ctx := context.Background()

	// Open store
	backend, err := manager.NewRegistry().Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		closeFn()
		os.Exit(1)
	}

	// Close store on shutdown
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	eng := engine.New(backend, logger)
	eng.AddObserver(engine.NewLoggingObserver(logger))

	if err := menu.New(eng, os.Stdin, os.Stdout, os.Stderr, logger).Run(ctx); err != nil {
		logger.Error("menu stopped", "error", err)
	}
}
