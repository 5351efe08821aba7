package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotevault/quotevault/pkg/seed"
)

func newSeedCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with the built-in quote corpus",
		Long: `Insert the built-in Douglas Adams quotes into the database. Seeding is
idempotent: a database that already contains quotes is left untouched
unless --force is given, in which case the corpus is inserted again
regardless of existing content.`,
		Example: `  # Seed an empty database
  quotevault seed

  # Insert the corpus even if quotes already exist
  quotevault seed --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig("dev")
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			added, total, err := seed.Seed(ctx, store, logger, force)
			if err != nil {
				return err
			}

			if added == 0 {
				fmt.Printf("Database already seeded (%d quotes)\n", total)
			} else {
				fmt.Printf("Added %d quotes (%d total)\n", added, total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "seed even if the database already contains quotes")

	return cmd
}
