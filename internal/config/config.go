// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Storage  string `env:"WARBAND_STORAGE" envDefault:"file"`
	DataDir  string `env:"WARBAND_DATA_DIR"`
	LogLevel string `env:"WARBAND_LOG_LEVEL" envDefault:"info"`

	Telemetry        bool   `env:"WARBAND_TELEMETRY" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_WARBAND_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_WARBAND_DATASET" envDefault:"warband"`
}

// Load parses the environment into a Config and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".warband")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("invalid WARBAND_STORAGE %q: want file, sqlite or memory", c.Storage)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid WARBAND_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// SQLitePath returns the database file used by the sqlite backend.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "warband.db")
}

// LogPath returns the file the application logs to while the terminal UI owns the screen.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "warband.log")
}
