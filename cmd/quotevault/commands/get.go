package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotevault/quotevault/pkg/quotes"
)

func newGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <reference>",
		Short: "Resolve a catalog reference and print it as JSON",
		Long: `Resolve a reference against the catalog and print the result as JSON.

References use the same grammar as the MCP resources:

  all                     every quote
  id:42                   a single quote by ID
  author:Douglas Adams    all quotes by an author
  tag:humor               all quotes carrying a tag
  random                  one uniformly random quote
  stats                   catalog statistics
  tags                    all tags with usage counts

The quote:// URI forms (quote://all, quote://id/42, ...) are accepted
as well.`,
		Example: `  quotevault get random
  quotevault get "author:Douglas Adams"
  quotevault get quote://tag/humor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig("dev")
			if err != nil {
				return err
			}

			ref, err := quotes.ParseRef(args[0])
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := quotes.NewResolver(store).Resolve(ctx, ref)
			if err != nil {
				return err
			}
			if ref.Kind == quotes.KindID && result.Quote == nil {
				return fmt.Errorf("quote not found: %d", ref.ID)
			}

			out, err := result.JSON()
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}

	return cmd
}
