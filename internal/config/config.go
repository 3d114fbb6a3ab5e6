// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// DBDriver is "sqlite" or "postgres". DBPath is used for SQLite,
	// DatabaseURL for PostgreSQL.
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"./data/rosca.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret enables operator authentication when set.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// RateLimit is the sustained RPC rate per second; zero disables limiting.
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"50"`
	RateBurst int     `env:"RATE_BURST" envDefault:"100"`

	// LateAuditSpec is the cron schedule of the late-payment audit; empty
	// disables it.
	LateAuditSpec string `env:"LATE_AUDIT_SPEC" envDefault:"0 * * * *"`

	// OTelEndpoint is the OTLP/HTTP trace endpoint; empty disables tracing.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*Config, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is not set")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must not be negative")
	}
	return nil
}
