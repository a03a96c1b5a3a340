package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/store"
)

const componentName = "sqlite_task_store"

const taskColumns = `id, title, description, priority, status, created_at, updated_at, due_date, resolved_at`

// TaskStore implements the store.TaskStore interface using SQLite.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a SQLite implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", componentName)),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// FindAll implements store.TaskStore.FindAll
func (s *TaskStore) FindAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY due_date IS NULL, due_date, id`

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
		return nil, fmt.Errorf("error iterating task rows: %w", MapError(err))
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindByID implements store.TaskStore.FindByID
func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
// SQLite has no UUID generator, so new IDs are created here.
func (s *TaskStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, store.NewStoreError("task", "save", "task is nil", store.ErrInvalidEntity)
	}

	log := logger.ForComponent(ctx, s.logger, componentName)

	if task.ID == uuid.Nil {
		id := uuid.New()
		query := `
			INSERT INTO tasks (` + taskColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING ` + taskColumns

		saved, err := scanTask(s.db.QueryRowContext(ctx, query,
			id.String(),
			task.Title,
			task.Description,
			string(task.Priority),
			string(task.Status),
			toMicros(task.CreatedAt),
			nullMicros(task.UpdatedAt),
			nullMicros(task.DueDate),
			nullMicros(task.ResolvedAt),
		))
		if err != nil {
			log.Error("failed to insert task", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to insert task: %w", MapError(err))
		}

		log.Info("task created", slog.String("task_id", saved.ID.String()))
		return saved, nil
	}

	query := `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, status = ?,
			updated_at = ?, due_date = ?, resolved_at = ?
		WHERE id = ?
		RETURNING ` + taskColumns

	saved, err := scanTask(s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		nullMicros(task.UpdatedAt),
		nullMicros(task.DueDate),
		nullMicros(task.ResolvedAt),
		task.ID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, fmt.Errorf("failed to update task: %w", MapError(err))
	}

	log.Info("task updated", slog.String("task_id", saved.ID.String()))
	return saved, nil
}

// DeleteByID implements store.TaskStore.DeleteByID
func (s *TaskStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		logger.ForComponent(ctx, s.logger, componentName).Info("task deleted", slog.String("task_id", id.String()))
	}
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                         domain.Task
		id, priority, status         string
		createdAt                    int64
		updatedAt, dueDate, resolved sql.NullInt64
	)

	if err := row.Scan(
		&id,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&createdAt,
		&updatedAt,
		&dueDate,
		&resolved,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q in database: %w", id, err)
	}

	task.ID = parsed
	if task.Priority, err = domain.ParsePriority(priority); err != nil {
		return nil, fmt.Errorf("task %s: %w", id, err)
	}
	if task.Status, err = domain.ParseStatus(status); err != nil {
		return nil, fmt.Errorf("task %s: %w", id, err)
	}
	task.CreatedAt = fromMicros(createdAt)
	task.UpdatedAt = timePtr(updatedAt)
	task.DueDate = timePtr(dueDate)
	task.ResolvedAt = timePtr(resolved)
	return &task, nil
}
