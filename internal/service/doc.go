// Package service contains the application use cases. Its TaskService
// coordinates the task store (the system of record) with the cache: reads are
// served from the cache when possible and written back on a miss, writes go
// to the store first and then delete every cache key they affect.
//
// Services receive their dependencies through constructor injection and never
// depend on concrete infrastructure. Store errors are translated into service
// errors: missing tasks become ErrTaskNotFound, anything else is wrapped in a
// *TaskServiceError that keeps the original in its chain.
package service
