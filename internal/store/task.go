package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// The store is the system of record: it assigns CreatedAt and UpdatedAt and
// is the only component allowed to decide whether a task exists.
type TaskStore interface {
	// List returns every task ordered by CreatedAt, newest first.
	// Returns an empty, non-nil slice when there are no tasks.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Create inserts a new task and returns it with server-assigned timestamps.
	Create(ctx context.Context, name, description string) (*domain.Task, error)

	// Update replaces name and description and refreshes UpdatedAt.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, name, description string) (*domain.Task, error)

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAll removes every task and returns the number removed.
	DeleteAll(ctx context.Context) (int64, error)
}
