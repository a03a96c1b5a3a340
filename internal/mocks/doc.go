// Package mocks provides centralized mock implementations for testing.
//
// Mocks here use function fields: a test sets only the behaviour it needs
// and every other method falls back to the default return values.
//
//	import "github.com/phrazzld/taskmanager/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    svc := &mocks.MockTaskService{
//	        GetTaskFn: func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
//	            return nil, service.ErrTaskNotFound
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
