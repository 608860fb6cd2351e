// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields: set only the fields a test needs and leave the
// rest nil to get a default result.
//
//	svc := &mocks.MockTaskService{
//	    GetTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	        return nil, service.ErrTaskNotFound
//	    },
//	}
package mocks
