package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/tasks-api/internal/service"
)

func newSeedCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all tasks with the sample data set",
		Long: `seed deletes every task and inserts a small set of sample tasks.
Cached entries for the removed tasks and the task list are invalidated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(opts)
			if err != nil {
				return err
			}

			app, err := newApplication(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.seed(cmd)
		},
	}
}

func (app *application) seed(cmd *cobra.Command) error {
	seeder := service.NewSeeder(app.taskStore, app.cache, app.logger)

	tasks, err := seeder.Seed(cmd.Context(), service.SampleTasks)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d sample tasks\n", len(tasks))
	return nil
}
