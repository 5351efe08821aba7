// Package config loads and validates the server configuration. Settings
// are layered: built-in defaults, then an optional YAML file, then
// QUOTEVAULT_* environment variables, with later layers winning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/quotevault/quotevault/pkg/telemetry"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "QUOTEVAULT_"

// Config is the root configuration for the server.
type Config struct {
	Database  DatabaseConfig   `yaml:"database" validate:"required"`
	Server    ServerConfig     `yaml:"server" validate:"required"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	// Path is the database file location. The special value ":memory:"
	// creates an in-memory database.
	Path string `yaml:"path" validate:"required"`

	// AutoSeed seeds an empty database with the built-in quote corpus on
	// startup.
	AutoSeed bool `yaml:"auto_seed"`
}

// ServerConfig identifies the MCP server to clients.
type ServerConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Version string `yaml:"version"`
}

// Default returns the built-in configuration: a database under
// ~/.quote-vault, auto-seeding on, console logging at info.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:     defaultDatabasePath(),
			AutoSeed: true,
		},
		Server: ServerConfig{
			Name:    "quote-vault",
			Version: "dev",
		},
		Telemetry: telemetry.DefaultConfig("quote-vault", "dev"),
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quotes.db"
	}
	return filepath.Join(home, ".quote-vault", "quotes.db")
}

// Load builds the configuration from defaults, the YAML file at path when
// path is non-empty, and environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays QUOTEVAULT_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v, ok := lookupEnv("DB_PATH"); ok {
		cfg.Database.Path = v
	}
	if v, ok := lookupBool("AUTO_SEED"); ok {
		cfg.Database.AutoSeed = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.Telemetry.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		cfg.Telemetry.Logging.Format = v
	}
	if v, ok := lookupBool("METRICS_ENABLED"); ok {
		cfg.Telemetry.Metrics.Enabled = v
	}
	if v, ok := lookupEnv("METRICS_ADDR"); ok {
		cfg.Telemetry.Metrics.ListenAddress = v
	}
	if v, ok := lookupBool("TRACING_ENABLED"); ok {
		cfg.Telemetry.Tracing.Enabled = v
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func lookupBool(key string) (bool, bool) {
	v, ok := lookupEnv(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, true
	}
	return false, false
}

// Validate checks the configuration against its struct tags and the
// telemetry constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("invalid telemetry configuration: %w", err)
	}
	return nil
}
