package service

import "github.com/google/uuid"

// TasksListKey caches the full task list, newest first.
const TasksListKey = "tasks:all"

const taskKeyPrefix = "task:"

// TaskKey returns the cache key for a single task.
func TaskKey(id uuid.UUID) string {
	return taskKeyPrefix + id.String()
}
