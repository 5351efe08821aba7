package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Path == "" {
		t.Error("expected a default database path")
	}
	if !cfg.Database.AutoSeed {
		t.Error("auto-seed should default to on")
	}
	if cfg.Server.Name != "quote-vault" {
		t.Errorf("unexpected server name: %q", cfg.Server.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: /tmp/test-quotes.db
  auto_seed: false
server:
  name: test-vault
telemetry:
  logging:
    level: debug
    format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/test-quotes.db" {
		t.Errorf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Database.AutoSeed {
		t.Error("auto_seed should be off")
	}
	if cfg.Server.Name != "test-vault" {
		t.Errorf("unexpected server name: %q", cfg.Server.Name)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("unexpected log level: %q", cfg.Telemetry.Logging.Level)
	}
	// Unset file keys keep their defaults.
	if cfg.Telemetry.ServiceName != "quote-vault" {
		t.Errorf("service name default lost: %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUOTEVAULT_DB_PATH", "/tmp/env-quotes.db")
	t.Setenv("QUOTEVAULT_AUTO_SEED", "false")
	t.Setenv("QUOTEVAULT_LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/env-quotes.db" {
		t.Errorf("env db path not applied: %q", cfg.Database.Path)
	}
	if cfg.Database.AutoSeed {
		t.Error("env auto-seed override not applied")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("env log level not applied: %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("database:\n  path: /tmp/file.db\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("QUOTEVAULT_DB_PATH", "/tmp/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("env should beat file, got %q", cfg.Database.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty database path")
	}

	cfg = Default()
	cfg.Telemetry.Tracing.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for sample rate > 1")
	}
}
