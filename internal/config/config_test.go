package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return cfgPath
}

func TestLoad(t *testing.T) {
	content := `
server:
  listen_addr: ":9090"

engine:
  base_url: "https://engine.test.com/api/v1"
  api_token: "test-token"
  timeout: 15s

registry:
  refresh_interval: 30s

drafts:
  path: "/tmp/test-drafts.db"

metrics:
  enabled: true

logging:
  level: "debug"
  format: "text"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("Server.ListenAddr = %v, want :9090", cfg.Server.ListenAddr)
	}
	if cfg.Engine.BaseURL != "https://engine.test.com/api/v1" {
		t.Errorf("Engine.BaseURL = %v, want https://engine.test.com/api/v1", cfg.Engine.BaseURL)
	}
	if cfg.Engine.APIToken != "test-token" {
		t.Errorf("Engine.APIToken = %v, want test-token", cfg.Engine.APIToken)
	}
	if cfg.Engine.Timeout != 15*time.Second {
		t.Errorf("Engine.Timeout = %v, want 15s", cfg.Engine.Timeout)
	}
	if cfg.Registry.RefreshInterval != 30*time.Second {
		t.Errorf("Registry.RefreshInterval = %v, want 30s", cfg.Registry.RefreshInterval)
	}
	if cfg.Drafts.Path != "/tmp/test-drafts.db" {
		t.Errorf("Drafts.Path = %v, want /tmp/test-drafts.db", cfg.Drafts.Path)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `
engine:
  base_url: "https://engine.test.com"
  api_token: "test-token"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ListenAddr != ":8090" {
		t.Errorf("Server.ListenAddr = %v, want :8090", cfg.Server.ListenAddr)
	}
	if cfg.Engine.Timeout != 30*time.Second {
		t.Errorf("Engine.Timeout = %v, want 30s", cfg.Engine.Timeout)
	}
	if cfg.Registry.RefreshInterval != 60*time.Second {
		t.Errorf("Registry.RefreshInterval = %v, want 60s", cfg.Registry.RefreshInterval)
	}
	if cfg.Drafts.Path != "/var/lib/phishdeck/drafts.db" {
		t.Errorf("Drafts.Path = %v, want /var/lib/phishdeck/drafts.db", cfg.Drafts.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
	}
}

func TestLoadMissingEngine(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing base_url", "engine:\n  api_token: \"test-token\"\n"},
		{"missing api_token", "engine:\n  base_url: \"https://engine.test.com\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error for incomplete engine config")
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, `invalid: yaml: content: [`))
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}
