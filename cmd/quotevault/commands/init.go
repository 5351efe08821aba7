package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and schema",
		Long: `Initialize the Quote Vault database: create the parent directory if
needed, open the database file, and bring the schema up to date.
Running init on an existing database is harmless.`,
		Example: `  # Initialize at the default location (~/.quote-vault/quotes.db)
  quotevault init

  # Initialize at a custom path
  quotevault init --db ./quotes.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig("dev")
			if err != nil {
				return err
			}

			if cfg.Database.Path != ":memory:" {
				dir := filepath.Dir(cfg.Database.Path)
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create database directory: %w", err)
				}
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Database initialized at %s (schema v%d)\n", cfg.Database.Path, version)
			return nil
		},
	}

	return cmd
}
