package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/cache"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// DefaultCacheTTL is the lifetime of every cached task entry.
const DefaultCacheTTL = 300 * time.Second

// TaskService defines the task use cases.
type TaskService interface {
	// ListTasks returns all tasks, newest first.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask returns one task or ErrTaskNotFound.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// CreateTask validates and persists a new task.
	CreateTask(ctx context.Context, name, description string) (*domain.Task, error)

	// UpdateTask replaces a task's name and description.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id uuid.UUID, name, description string) (*domain.Task, error)

	// DeleteTask removes a task and returns a confirmation.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Message string `json:"message"`
}

// Config holds the cache policy of the task service.
type Config struct {
	// CacheTTL applies to both the list entry and the per-task entries.
	// Zero means DefaultCacheTTL.
	CacheTTL time.Duration
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	c cache.Cache,
	cfg Config,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if c == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "cache cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &taskServiceImpl{
		tasks:  tasks,
		cache:  c,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	// A JSON null leaves cached nil and counts as a miss.
	var cached []*domain.Task
	if s.cache.Get(ctx, TasksListKey, &cached) && cached != nil {
		return cached, nil
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	s.cache.Set(ctx, TasksListKey, tasks, s.ttl)
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	key := TaskKey(id)

	// Entries that decode to another ID, including a JSON null, are misses.
	var cached domain.Task
	if s.cache.Get(ctx, key, &cached) && cached.ID == id {
		return &cached, nil
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	s.cache.Set(ctx, key, task, s.ttl)
	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, name, description string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateTaskInput(name, description); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, name, description)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	s.cache.Delete(ctx, TasksListKey)

	log.Info("task created", slog.String("task_id", task.ID.String()))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
//
// The existence check goes through GetTask and may therefore cache the
// pre-update value under the task key; the invalidation below removes it.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	name, description string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateTaskInput(name, description); err != nil {
		return nil, err
	}

	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	task, err := s.tasks.Update(ctx, id, name, description)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.cache.Delete(ctx, TaskKey(id), TasksListKey)

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.cache.Delete(ctx, TaskKey(id), TasksListKey)

	log.Info("task deleted", slog.String("task_id", id.String()))
	return &DeleteResult{
		Message: fmt.Sprintf("Task with ID %s deleted successfully", id),
	}, nil
}
