package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ModeDemo  = "demo"
	ModeServe = "serve"
)

type Config struct {
	Mode   string `envconfig:"APP_MODE" default:"demo"`
	Server ServerConfig
	Log    LogConfig
	OTLP   OTLPConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type OTLPConfig struct {
	Endpoint      string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName   string `envconfig:"OTEL_SERVICE_NAME" default:"product-store"`
	Environment   string `envconfig:"OTEL_ENVIRONMENT" default:"development"`
	ExportEnabled bool   `envconfig:"OTEL_EXPORT_ENABLED" default:"false"`
}

// LoadConfig loads configuration from environment variables.
// Nested fields are looked up by their tag name alone, e.g. SERVER_PORT.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot constrain by itself
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDemo, ModeServe:
	default:
		return fmt.Errorf("config: APP_MODE must be %q or %q, got %q", ModeDemo, ModeServe, c.Mode)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps debug, info, warn and error onto slog levels.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}
