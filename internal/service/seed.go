package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskInput is the user-supplied part of a task.
type TaskInput struct {
	Name        string
	Description string
}

// SampleTasks is the demo data loaded by the seed command.
var SampleTasks = []TaskInput{
	{Name: "Complete project documentation", Description: "Write comprehensive README and API documentation for the project"},
	{Name: "Setup CI/CD pipeline", Description: "Configure GitHub Actions for automated testing and deployment"},
	{Name: "Implement user authentication", Description: "Add JWT-based authentication and authorization to the API"},
	{Name: "Design database schema", Description: "Plan and create the database schema for all entities"},
	{Name: "Write unit tests", Description: "Achieve 80% code coverage with unit and integration tests"},
}

// Seeder replaces the task table contents with a fixed set of tasks.
type Seeder struct {
	tasks  store.TaskStore
	cache  cache.Cache
	logger *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(tasks store.TaskStore, c cache.Cache, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		tasks:  tasks,
		cache:  c,
		logger: logger.With(slog.String("component", "seeder")),
	}
}

// Seed deletes every task, inserts inputs in order and invalidates the
// cached list along with the entries of the removed tasks. When the store
// supports transactions the listing, the delete and the inserts run in one
// transaction.
// It returns the created tasks.
func (s *Seeder) Seed(ctx context.Context, inputs []TaskInput) ([]*domain.Task, error) {
	for _, in := range inputs {
		if err := domain.ValidateTaskInput(in.Name, in.Description); err != nil {
			return nil, err
		}
	}

	var (
		existing []*domain.Task
		removed  int64
		created  []*domain.Task
	)
	err := s.withinTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		var err error
		existing, err = tasks.List(ctx)
		if err != nil {
			return NewTaskServiceError("seed", "failed to list existing tasks", err)
		}
		created = make([]*domain.Task, 0, len(inputs))

		n, err := tasks.DeleteAll(ctx)
		if err != nil {
			return NewTaskServiceError("seed", "failed to clear tasks", err)
		}
		removed = n

		for _, in := range inputs {
			t, err := tasks.Create(ctx, in.Name, in.Description)
			if err != nil {
				return NewTaskServiceError("seed", "failed to create task", err)
			}
			created = append(created, t)
		}
		return nil
	})

	keys := make([]string, 0, len(existing)+1)
	keys = append(keys, TasksListKey)
	for _, t := range existing {
		keys = append(keys, TaskKey(t.ID))
	}
	s.cache.Delete(ctx, keys...)

	if err != nil {
		return nil, err
	}

	s.logger.Info("tasks seeded",
		slog.Int64("removed", removed),
		slog.Int("created", len(created)))
	return created, nil
}

func (s *Seeder) withinTx(ctx context.Context, fn store.TaskTxFn) error {
	if tx, ok := s.tasks.(store.TaskTransactor); ok {
		return tx.WithinTx(ctx, fn)
	}
	return fn(ctx, s.tasks)
}
