// Package config loads and validates the console configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Engine   EngineConfig   `yaml:"engine"`
	Registry RegistryConfig `yaml:"registry"`
	Drafts   DraftsConfig   `yaml:"drafts"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// EngineConfig points the console at the platform backend that executes
// campaigns and owns all status.
type EngineConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIToken string        `yaml:"api_token"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RegistryConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type DraftsConfig struct {
	Path string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8090"
	}
	if cfg.Engine.Timeout == 0 {
		cfg.Engine.Timeout = 30 * time.Second
	}
	if cfg.Registry.RefreshInterval == 0 {
		cfg.Registry.RefreshInterval = 60 * time.Second
	}
	if cfg.Drafts.Path == "" {
		cfg.Drafts.Path = "/var/lib/phishdeck/drafts.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validate(cfg *Config) error {
	if cfg.Engine.BaseURL == "" {
		return fmt.Errorf("engine.base_url is required")
	}
	if cfg.Engine.APIToken == "" {
		return fmt.Errorf("engine.api_token is required")
	}
	return nil
}
