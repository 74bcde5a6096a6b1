package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"puppyparty/internal/store"
)

// Config is read from environment variables with the PUPPY_ prefix,
// e.g. PUPPY_STORE=file PUPPY_DECAY_INTERVAL=30s.
type Config struct {
	Store         string        `envconfig:"STORE"          default:"sqlite"`
	DataDir       string        `envconfig:"DATA_DIR"`
	DecayInterval time.Duration `envconfig:"DECAY_INTERVAL" default:"1m"`
	WriteTimeout  time.Duration `envconfig:"WRITE_TIMEOUT"  default:"5s"`
	LogLevel      string        `envconfig:"LOG_LEVEL"      default:"info"`
}

// Load populates Config from the environment and resolves defaults.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("PUPPY", &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, c.ResolveDefaults()
}

// ResolveDefaults fills the data directory and validates the rest.
func (c *Config) ResolveDefaults() error {
	switch c.Store {
	case store.DriverSQLite, store.DriverFile, store.DriverMemory:
	default:
		return fmt.Errorf("unsupported PUPPY_STORE: %s", c.Store)
	}

	if c.DecayInterval <= 0 {
		return fmt.Errorf("PUPPY_DECAY_INTERVAL must be positive, got %s", c.DecayInterval)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("PUPPY_WRITE_TIMEOUT must be positive, got %s", c.WriteTimeout)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("PUPPY_LOG_LEVEL: %w", err)
	}

	if c.DataDir == "" {
		dir, err := store.DefaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	return nil
}

// Level returns the configured log level; ResolveDefaults has validated it.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
