package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prathmeshnaik91/skinet/internal/app"
	"github.com/prathmeshnaik91/skinet/internal/config"
	"github.com/prathmeshnaik91/skinet/migrations"
	"github.com/prathmeshnaik91/skinet/pkg/database"
	"github.com/prathmeshnaik91/skinet/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:           "skinet",
		Short:         "Skinet store API",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())
	root.AddCommand(serve, newMigrateCmd(), newSeedCmd())
	return root
}

// bootstrap loads configuration and builds the logger every command uses.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return nil, nil, err
	}
	return cfg, logger.New(config.ServiceName, cfg.LogLevel), nil
}

func newServeCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			log.Info("starting skinet",
				slog.String("environment", cfg.Environment),
				slog.Int("http_port", cfg.HTTPPort),
				slog.String("version", config.Version),
			)

			application, err := app.NewApp(cfg, log, opts)
			if err != nil {
				log.Error("failed to initialize application", slog.String("error", err.Error()))
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := application.Run(ctx); err != nil {
				log.Error("application error", slog.String("error", err.Error()))
				return err
			}
			log.Info("skinet stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&opts.Seed, "seed", true, "seed the demo catalog into empty tables before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			pool, err := app.OpenPostgres(ctx, cfg, log)
			if err != nil {
				log.Error("migrate failed", slog.String("error", err.Error()))
				return err
			}
			defer pool.Close()

			if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
				log.Error("migrate failed", slog.String("error", err.Error()))
				return err
			}
			log.Info("database migrations completed")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into empty tables and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			pool, err := app.OpenPostgres(ctx, cfg, log)
			if err != nil {
				log.Error("seed failed", slog.String("error", err.Error()))
				return err
			}
			defer pool.Close()

			if err := app.SeedCatalog(ctx, pool, log); err != nil {
				log.Error("seed failed", slog.String("error", err.Error()))
				return err
			}
			return nil
		},
	}
}
