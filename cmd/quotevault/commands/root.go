package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotevault/quotevault/pkg/config"
	"github.com/quotevault/quotevault/pkg/stores"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	dbPath     string
	logLevel   string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quotevault",
		Short: "Quote Vault - personal quote catalog over MCP",
		Long: `Quote Vault is a personal quote catalog backed by SQLite and exposed
through the Model Context Protocol.

It stores quotes with author, source, year, and tags, supports substring
and tag-based search, and serves seven MCP tools plus quote:// resources
and prompt templates over stdio.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newServeCommand(version))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newGetCommand())

	return rootCmd
}

// loadConfig builds the effective configuration from the config file, the
// environment, and command-line flag overrides.
func loadConfig(version string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if cfg.Server.Version == "dev" {
		cfg.Server.Version = version
	}
	return cfg, nil
}

// openStore opens the SQLite store and brings the schema up to date.
func openStore(ctx context.Context, cfg *config.Config) (*stores.SQLiteStore, error) {
	store, err := stores.NewSQLiteStore(stores.Config{Path: cfg.Database.Path})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func newLogger(cfg *config.Config) *telemetry.Logger {
	return telemetry.NewLogger(cfg.Telemetry.Logging)
}
