package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/store"
)

// componentName is the log attribute value for this store.
const componentName = "task_store"

const taskColumns = `id, title, description, priority, status, created_at, updated_at, due_date, resolved_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", componentName)),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// FindAll implements store.TaskStore.FindAll
func (s *PostgresTaskStore) FindAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY due_date ASC NULLS LAST, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindByID implements store.TaskStore.FindByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	return task, nil
}

// Save implements store.TaskStore.Save
// A task with a nil ID is inserted and receives an ID from gen_random_uuid().
// Otherwise the row is replaced in place; created_at is never rewritten.
func (s *PostgresTaskStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, store.NewStoreError("task", "save", "task is nil", store.ErrInvalidEntity)
	}
	if task.ID == uuid.Nil {
		return s.insert(ctx, task)
	}
	return s.update(ctx, task)
}

func (s *PostgresTaskStore) insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `
		INSERT INTO tasks (title, description, priority, status, created_at, updated_at, due_date, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns

	saved, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.CreatedAt,
		nullTime(task.UpdatedAt),
		nullTime(task.DueDate),
		nullTime(task.ResolvedAt),
	))
	if err != nil {
		log.Error("failed to insert task", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to insert task: %w", MapError(err))
	}

	log.Info("task created", slog.String("task_id", saved.ID.String()))
	return saved, nil
}

func (s *PostgresTaskStore) update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5,
			updated_at = $6, due_date = $7, resolved_at = $8
		WHERE id = $1
		RETURNING ` + taskColumns

	saved, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		nullTime(task.UpdatedAt),
		nullTime(task.DueDate),
		nullTime(task.ResolvedAt),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, fmt.Errorf("failed to update task: %w", MapError(err))
	}

	log.Info("task updated",
		slog.String("task_id", saved.ID.String()),
		slog.String("status", string(saved.Status)))
	return saved, nil
}

// DeleteByID implements store.TaskStore.DeleteByID
func (s *PostgresTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return false, nil
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                         domain.Task
		priority, status             string
		updatedAt, dueDate, resolved sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.CreatedAt,
		&updatedAt,
		&dueDate,
		&resolved,
	)
	if err != nil {
		return nil, err
	}

	if task.Priority, err = domain.ParsePriority(priority); err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}
	if task.Status, err = domain.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("task %s: %w", task.ID, err)
	}
	task.CreatedAt = domain.NormalizeTime(task.CreatedAt)
	task.UpdatedAt = timePtr(updatedAt)
	task.DueDate = timePtr(dueDate)
	task.ResolvedAt = timePtr(resolved)
	return &task, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: domain.NormalizeTime(*t), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := domain.NormalizeTime(nt.Time)
	return &t
}
