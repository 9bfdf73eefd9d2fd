package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Content sources
const (
	SourceDir   = "dir"
	SourceRedis = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Content    ContentConfig
	Simulation SimulationConfig
	Redis      RedisConfig
	Metrics    MetricsConfig
	LogLevel   slog.Level `env:"NEIGHBORLY_LOG_LEVEL" envDefault:"info"`
}

// ContentConfig says where trait authoring records come from
type ContentConfig struct {
	Dir    string `env:"NEIGHBORLY_CONTENT_DIR"    envDefault:"content"`
	Source string `env:"NEIGHBORLY_CONTENT_SOURCE" envDefault:"dir"`
}

// SimulationConfig sizes a run
type SimulationConfig struct {
	// Seed of zero seeds from the clock
	Seed       uint64 `env:"NEIGHBORLY_SEED"`
	Population int    `env:"NEIGHBORLY_POPULATION" envDefault:"20"`
	Places     int    `env:"NEIGHBORLY_PLACES"     envDefault:"5"`
	Steps      int    `env:"NEIGHBORLY_STEPS"      envDefault:"10"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL       string `env:"REDIS_URL"`
	Namespace string `env:"NEIGHBORLY_REDIS_NAMESPACE" envDefault:"neighborly"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `env:"NEIGHBORLY_METRICS_ADDR"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field combinations env tags cannot express
func (c *Config) Validate() error {
	switch c.Content.Source {
	case SourceDir:
		if c.Content.Dir == "" {
			return fmt.Errorf("NEIGHBORLY_CONTENT_DIR is required when loading content from a directory")
		}
	case SourceRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required when loading content from redis")
		}
	default:
		return fmt.Errorf("NEIGHBORLY_CONTENT_SOURCE must be %q or %q, got %q", SourceDir, SourceRedis, c.Content.Source)
	}

	if c.Simulation.Population < 0 {
		return fmt.Errorf("NEIGHBORLY_POPULATION cannot be negative")
	}
	if c.Simulation.Places < 0 {
		return fmt.Errorf("NEIGHBORLY_PLACES cannot be negative")
	}
	if c.Simulation.Steps < 0 {
		return fmt.Errorf("NEIGHBORLY_STEPS cannot be negative")
	}
	return nil
}
