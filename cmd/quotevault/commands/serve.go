package commands

import (
	"github.com/spf13/cobra"

	"github.com/quotevault/quotevault/pkg/config"
	"github.com/quotevault/quotevault/pkg/mcp"
	"github.com/quotevault/quotevault/pkg/seed"
	"github.com/quotevault/quotevault/pkg/stores"
	"github.com/quotevault/quotevault/pkg/telemetry"
)

func newServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Start the Quote Vault MCP server. The server speaks the Model Context
Protocol over stdin/stdout, so it is meant to be launched by an MCP
client rather than run interactively.

On startup the database schema is created if missing, and an empty
database is seeded with the built-in quote corpus unless auto-seeding
is disabled.`,
		Example: `  # Serve with the default database location
  quotevault serve

  # Serve an in-memory catalog (useful for testing clients)
  quotevault serve --db :memory:`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(version)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			sqliteStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer sqliteStore.Close()

			if err := sqliteStore.HealthCheck(ctx); err != nil {
				return err
			}

			metrics := telemetry.NewMetrics(cfg.Telemetry.Metrics)
			tracer, err := telemetry.NewTracer(cfg.Telemetry.Tracing,
				cfg.Telemetry.ServiceName, cfg.Server.Version, cfg.Telemetry.Environment)
			if err != nil {
				return err
			}
			defer tracer.Shutdown(ctx)

			store := stores.NewInstrumented(sqliteStore, metrics, tracer)

			if cfg.Database.AutoSeed {
				added, total, err := seed.Seed(ctx, store, logger, false)
				if err != nil {
					return err
				}
				if added > 0 {
					logger.Infof("seeded database with %d quotes (%d total)", added, total)
					metrics.AddSeededQuotes(added)
				}
			}

			if stats, err := store.GetStatistics(ctx); err == nil {
				metrics.SetQuoteCount(stats.TotalQuotes)
			}

			if cfg.Telemetry.Metrics.Enabled {
				go func() {
					if err := metrics.StartServer(ctx, cfg.Telemetry.Metrics); err != nil {
						logger.WithError(err).Error("metrics server stopped")
					}
				}()
			}

			// Watch the config file so a log-level change takes effect
			// without restarting; other settings need a restart.
			if configPath != "" {
				go func() {
					err := config.Watch(ctx, configPath, logger, func(next *config.Config) {
						logger.Infof("log level now %s; other changes apply on restart",
							next.Telemetry.Logging.Level)
						telemetry.SetGlobalLevel(next.Telemetry.Logging.Level)
					})
					if err != nil {
						logger.WithError(err).Warn("config watcher stopped")
					}
				}()
			}

			srv := mcp.NewServer(cfg.Server, store, logger, metrics, tracer)
			return srv.Serve(ctx)
		},
	}

	return cmd
}
