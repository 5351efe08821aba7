package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig("dev")
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.GetStatistics(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Quotes:             %d\n", stats.TotalQuotes)
			fmt.Printf("Authors:            %d\n", stats.TotalAuthors)
			fmt.Printf("Tags:               %d\n", stats.TotalTags)
			fmt.Printf("Most quoted author: %s\n", stats.MostQuotedAuthor)
			fmt.Printf("Most common tag:    %s\n", stats.MostCommonTag)
			return nil
		},
	}

	return cmd
}
