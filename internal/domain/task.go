package domain

import (
	"time"

	"github.com/google/uuid"
)

// Upper bounds for task fields, counted in characters. Both fields are
// required, so the lower bound is one character.
const (
	TaskNameMaxLength        = 100
	TaskDescriptionMaxLength = 500
)

// Task is the single persisted entity of the tracker.
//
// The JSON field names are part of the cache format: cached snapshots written
// by earlier deployments use the same camelCase shape, so they must not change.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask creates a Task with a fresh ID after validating the input.
// Timestamps are left for the persistence layer to assign.
func NewTask(name, description string) (*Task, error) {
	if err := ValidateTaskInput(name, description); err != nil {
		return nil, err
	}

	return &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}, nil
}

// Validate checks that the task carries an ID and in-bounds fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	return ValidateTaskInput(t.Name, t.Description)
}
