// Package storetest holds a behavioural test suite shared by every
// store.TaskStore implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for a single subtest.
type Factory func(t *testing.T) store.TaskStore

// BaseTime is the reference instant used for fixture timestamps.
var BaseTime = time.Date(2030, time.January, 15, 9, 30, 0, 0, time.UTC)

// NewTask builds an unsaved task fixture with the given title and due date.
func NewTask(title string, due *time.Time) *domain.Task {
	return &domain.Task{
		CreatedAt:   BaseTime,
		DueDate:     due,
		Title:       title,
		Description: "description for " + title,
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusOpen,
	}
}

// AssertTaskEqual compares two tasks field by field using time.Equal for
// timestamps.
func AssertTaskEqual(t *testing.T, want, got *domain.Task) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID, "ID")
	assert.Equal(t, want.Title, got.Title, "Title")
	assert.Equal(t, want.Description, got.Description, "Description")
	assert.Equal(t, want.Priority, got.Priority, "Priority")
	assert.Equal(t, want.Status, got.Status, "Status")
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assertTimePtrEqual(t, "UpdatedAt", want.UpdatedAt, got.UpdatedAt)
	assertTimePtrEqual(t, "DueDate", want.DueDate, got.DueDate)
	assertTimePtrEqual(t, "ResolvedAt", want.ResolvedAt, got.ResolvedAt)
}

func assertTimePtrEqual(t *testing.T, name string, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, name)
		return
	}
	if assert.NotNil(t, got, name) {
		assert.True(t, want.Equal(*got), "%s: want %v, got %v", name, *want, *got)
	}
}

func timeAt(d time.Duration) *time.Time {
	t := BaseTime.Add(d)
	return &t
}

// Run executes the shared suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("FindAll on empty store returns empty slice", func(t *testing.T) {
		s := newStore(t)

		tasks, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("Save inserts and assigns ID", func(t *testing.T) {
		s := newStore(t)
		task := NewTask("insert", timeAt(24*time.Hour))
		task.ResolvedAt = timeAt(48 * time.Hour)

		saved, err := s.Save(ctx, task)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, saved.ID)
		assert.Equal(t, uuid.Nil, task.ID, "input task must not be mutated")

		want := task.Clone()
		want.ID = saved.ID
		AssertTaskEqual(t, want, saved)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		AssertTaskEqual(t, want, found)
	})

	t.Run("Save assigns distinct IDs", func(t *testing.T) {
		s := newStore(t)
		seen := make(map[uuid.UUID]bool)
		for i := 0; i < 5; i++ {
			saved, err := s.Save(ctx, NewTask("bulk", nil))
			require.NoError(t, err)
			assert.False(t, seen[saved.ID], "duplicate ID %s", saved.ID)
			seen[saved.ID] = true
		}
	})

	t.Run("FindByID returns not found for unknown ID", func(t *testing.T) {
		s := newStore(t)

		_, err := s.FindByID(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrTaskNotFound))
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("Save replaces existing task", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, NewTask("before", timeAt(time.Hour)))
		require.NoError(t, err)

		update := saved.Clone()
		update.Title = "after"
		update.Description = "changed"
		update.Priority = domain.PriorityHigh
		update.Status = domain.StatusResolved
		update.DueDate = nil
		update.ResolvedAt = timeAt(2 * time.Hour)
		update.UpdatedAt = timeAt(time.Minute)
		update.CreatedAt = BaseTime.Add(-time.Hour)

		replaced, err := s.Save(ctx, update)
		require.NoError(t, err)

		want := update.Clone()
		want.CreatedAt = saved.CreatedAt
		AssertTaskEqual(t, want, replaced)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		AssertTaskEqual(t, want, found)
	})

	t.Run("Save with unknown ID does not insert", func(t *testing.T) {
		s := newStore(t)
		ghost := NewTask("ghost", nil)
		ghost.ID = uuid.New()

		_, err := s.Save(ctx, ghost)
		require.Error(t, err)
		assert.True(t, errors.Is(err, store.ErrTaskNotFound))

		tasks, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("DeleteByID reports whether a row was removed", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, NewTask("doomed", nil))
		require.NoError(t, err)

		deleted, err := s.DeleteByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeleteByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.FindByID(ctx, saved.ID)
		assert.True(t, errors.Is(err, store.ErrTaskNotFound))
	})

	t.Run("FindAll orders by due date with missing due dates last", func(t *testing.T) {
		s := newStore(t)
		fixtures := []*domain.Task{
			NewTask("no due date", nil),
			NewTask("due in three days", timeAt(72*time.Hour)),
			NewTask("due tomorrow", timeAt(24*time.Hour)),
			NewTask("also no due date", nil),
			NewTask("also tomorrow", timeAt(24*time.Hour)),
		}
		saved := make([]*domain.Task, 0, len(fixtures))
		for _, f := range fixtures {
			task, err := s.Save(ctx, f)
			require.NoError(t, err)
			saved = append(saved, task)
		}

		want := make([]*domain.Task, len(saved))
		copy(want, saved)
		store.SortTasks(want)

		got, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].ID, got[i].ID, "position %d", i)
		}
		assert.Nil(t, got[3].DueDate)
		assert.Nil(t, got[4].DueDate)
	})

	t.Run("FindAll is repeatable", func(t *testing.T) {
		s := newStore(t)
		for _, title := range []string{"a", "b", "c"} {
			_, err := s.Save(ctx, NewTask(title, nil))
			require.NoError(t, err)
		}

		first, err := s.FindAll(ctx)
		require.NoError(t, err)
		second, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})

	t.Run("returned tasks are independent copies", func(t *testing.T) {
		s := newStore(t)
		saved, err := s.Save(ctx, NewTask("original", timeAt(time.Hour)))
		require.NoError(t, err)

		saved.Title = "mutated"
		*saved.DueDate = BaseTime

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", found.Title)
		assert.True(t, found.DueDate.Equal(BaseTime.Add(time.Hour)))
	})
}
