// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Backends are selected at startup: the in-memory store needs nothing beyond
SESSION_SECRET, while the postgres and redis backends require their URLs.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/bookcircle/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the BookCircle API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreBackend selects the repository implementation ("memory" or "postgres").
	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	// Relational Database (PostgreSQL), required when StoreBackend is "postgres".
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// SessionBackend selects where issued sessions live ("memory" or "redis").
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"memory"`

	// Key-Value Cache (Redis), required when SessionBackend is "redis".
	RedisURL string `env:"REDIS_URL"`

	// Token signing
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Error reporting (Sentry). Empty disables reporting.
	SentryDSN string `env:"SENTRY_DSN"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the backend-dependent requirements that struct tags cannot express.
func (c *Config) Validate() error {
	var problems []error

	switch c.StoreBackend {
	case constants.BackendMemory:
	case constants.BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, errors.New("DATABASE_URL is required when STORE_BACKEND=postgres"))
		}
	default:
		problems = append(problems, fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.SessionBackend {
	case constants.BackendMemory:
	case constants.BackendRedis:
		if c.RedisURL == "" {
			problems = append(problems, errors.New("REDIS_URL is required when SESSION_BACKEND=redis"))
		}
	default:
		problems = append(problems, fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend))
	}

	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("SESSION_TTL must be positive"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %w", errors.Join(problems...))
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the comma-separated EXTRA_ORIGINS as a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
