package store

import (
	"bytes"
	"context"
	"database/sql"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
)

// DBTX is implemented by both *sql.DB and *sql.Tx, so SQL-backed stores can
// run against either a pooled connection or a caller-managed transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TaskStore defines the interface for task persistence.
//
// Implementations need only single-row atomicity: every method touches at most
// one row, and the service layer never relies on multi-statement transactions.
type TaskStore interface {
	// FindAll returns every task ordered by due date ascending (tasks without
	// a due date last), then by ID. It returns an empty slice, never nil, for
	// an empty store.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// FindByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Save persists a task and returns the stored row.
	// A task whose ID is uuid.Nil is inserted and receives a store-generated ID.
	// Any other task replaces the existing row with that ID; if no such row
	// exists, Save returns ErrTaskNotFound and writes nothing.
	Save(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// DeleteByID removes a task and reports whether a row was removed.
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// SortTasks orders tasks in place using the canonical listing order: due date
// ascending with missing due dates last, ties broken by ID byte order.
func SortTasks(tasks []*domain.Task) {
	slices.SortFunc(tasks, CompareTasks)
}

// CompareTasks compares two tasks by the canonical listing order.
func CompareTasks(a, b *domain.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}
