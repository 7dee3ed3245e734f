// Package main is the entry point for Warband.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/warband/internal/app"
	"github.com/samdwyer/warband/internal/bestiary"
	"github.com/samdwyer/warband/internal/config"
	"github.com/samdwyer/warband/internal/manager"
	"github.com/samdwyer/warband/internal/storage"
	"github.com/samdwyer/warband/internal/storage/filestore"
	"github.com/samdwyer/warband/internal/storage/memory"
	"github.com/samdwyer/warband/internal/storage/sqlite"
	"github.com/samdwyer/warband/internal/telemetry"
	"github.com/samdwyer/warband/internal/ui"
)

const flushTimeout = 3 * time.Second

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx := context.Background()

	tracer := telemetry.NoopTracer()
	if cfg.Telemetry {
		telemetry.ConfigureHoneycomb(cfg.HoneycombAPIKey, cfg.HoneycombDataset)
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Warband will run without observability")
		} else {
			tracer = telemetry.Tracer("manager")
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.Error("shutdown telemetry", "error", err)
				}
			}()
		}
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage, err)
	}
	defer closeStore()

	reg, err := bestiary.LoadRegistry()
	if err != nil {
		logger.Warn("bestiary unavailable, presets disabled", "error", err)
	}

	m := manager.New(store,
		manager.WithLogger(logger.With("component", "manager")),
		manager.WithTracer(tracer),
	)

	screen, err := ui.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	a := app.New(screen, m, reg, logger.With("component", "app"))
	runErr := a.Run(ctx)
	a.Close()

	flushCtx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := m.Flush(flushCtx); err != nil {
		logger.Warn("pending writes abandoned", "error", err)
	}

	if runErr != nil {
		log.Fatalf("Warband error: %v", runErr)
	}
}

// newLogger writes structured logs to a file so they never draw over the UI.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

// openStore returns the configured backend and a function that releases it.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				slog.Error("close sqlite store", "error", err)
			}
		}, nil
	case config.StorageMemory:
		return memory.NewStore(), func() {}, nil
	default:
		s, err := filestore.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
