package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasks-api/internal/platform/postgres"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("error closing database connection", "error", cerr)
				}
			}()

			if err := postgres.Migrate(cmd.Context(), db, args[0], log); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			log.Info("migrations finished", "command", args[0])
			return nil
		},
	}
}
