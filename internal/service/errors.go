package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps each to an HTTP
// status code.
var (
	// ErrTaskNotFound indicates that no task exists with the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTask indicates that a create or update payload failed
	// validation. The returned error also wraps the *domain.ValidationError
	// listing every violation.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidTask = errors.New("invalid task")

	// ErrStoreUnavailable indicates that the task store failed for a reason
	// other than a missing task: lost connectivity, a rejected write, or a
	// cancelled context. The service never retries.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrStoreUnavailable = errors.New("task store unavailable")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "delete_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError classifies err for the given operation.
// Not-found conditions collapse to ErrTaskNotFound, validation failures wrap
// ErrInvalidTask together with the violations, and anything else is a
// TaskServiceError wrapping ErrStoreUnavailable and the cause.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || store.IsNotFoundError(err) {
		return ErrTaskNotFound
	}

	if errors.Is(err, ErrInvalidTask) {
		return err
	}
	if errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if !errors.Is(err, ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
