package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// cliOptions holds the flags shared by every subcommand.
type cliOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:   "tasks-api",
		Short: "Task tracking REST API with a cache-aside read path",
		Long: `tasks-api serves CRUD endpoints for tasks backed by PostgreSQL,
with reads cached in Redis or in process memory.

Configuration comes from an optional YAML file and TASKS_* environment
variables; the environment takes precedence.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"path to a config file (default ./config.yaml when present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

// loadConfig reads configuration and installs the process-wide logger.
func loadConfig(opts *cliOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_driver", cfg.Cache.Driver)
	return cfg, log, nil
}

func runServe(ctx context.Context, opts *cliOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", "error", err)
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}
