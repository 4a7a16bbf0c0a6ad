package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Bridge  BridgeConfig
	Server  ServerConfig
	Logging LogConfig
}

// BridgeConfig holds request-bridging configuration.
type BridgeConfig struct {
	// HostPlaceholder is the Host header synthesized for requests that
	// carry none. It exists so logging and routing always have a host
	// to report; it does not enable virtual hosting.
	HostPlaceholder string `envconfig:"BRIDGE_HOST_PLACEHOLDER" default:"localhost"`
	Scheme          string `envconfig:"BRIDGE_SCHEME" default:"http"`
}

// ServerConfig holds the demo host's HTTP server configuration.
type ServerConfig struct {
	Port           string `envconfig:"PORT" default:"8000"`
	Host           string `envconfig:"HOST" default:"0.0.0.0"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			HostPlaceholder: "localhost",
			Scheme:          "http",
		},
		Server: ServerConfig{
			Port:           "8000",
			Host:           "0.0.0.0",
			MetricsEnabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
