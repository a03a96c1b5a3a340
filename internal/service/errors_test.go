package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestNewTaskServiceError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewTaskServiceError("get_task", "ignored", nil))

	t.Run("store not found maps to sentinel", func(t *testing.T) {
		err := NewTaskServiceError("get_task", "failed", fmt.Errorf("lookup: %w", store.ErrTaskNotFound))
		assert.Same(t, ErrTaskNotFound, err)
	})

	t.Run("validation wraps invalid task", func(t *testing.T) {
		verr := domain.NewValidationError(domain.FieldTitle, "is required", nil)
		err := NewTaskServiceError("create_task", "invalid", verr)
		assert.ErrorIs(t, err, ErrInvalidTask)
		assert.ErrorIs(t, err, domain.ErrValidation)

		var got *domain.ValidationError
		assert.True(t, errors.As(err, &got))
	})

	t.Run("context cancellation is a store failure", func(t *testing.T) {
		err := NewTaskServiceError("list_tasks", "failed", context.Canceled)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("already classified errors are not double wrapped", func(t *testing.T) {
		inner := NewTaskServiceError("save", "failed", errors.New("boom"))
		outer := NewTaskServiceError("create_task", "failed", inner)
		assert.ErrorIs(t, outer, ErrStoreUnavailable)
		assert.Contains(t, outer.Error(), "task service create_task failed")
	})
}

func TestTaskServiceErrorMessage(t *testing.T) {
	t.Parallel()

	err := &TaskServiceError{Operation: "delete_task", Message: "failed to delete"}
	assert.Equal(t, "task service delete_task failed: failed to delete", err.Error())
	assert.Nil(t, err.Unwrap())

	err.Err = errors.New("boom")
	assert.Equal(t, "task service delete_task failed: failed to delete: boom", err.Error())
}
