package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/redact"
	"github.com/phrazzld/taskmanager/internal/store"
)

// componentName tags every log line written by this package.
const componentName = "task_service"

// TaskService provides the task lifecycle operations.
type TaskService interface {
	// ListTasks returns every task ordered by due date ascending (tasks
	// without a due date last), then by ID. An empty store yields an empty
	// slice, never an error.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask returns the task with the given ID or ErrTaskNotFound.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// CreateTask validates the payload and persists a new task. The store
	// assigns the ID, CreatedAt is the current time, and UpdatedAt is unset.
	// Nothing is written when validation fails.
	CreateTask(ctx context.Context, payload domain.TaskPayload) (*domain.Task, error)

	// UpdateTask fully replaces the mutable fields of an existing task and
	// stamps UpdatedAt. ErrTaskNotFound takes precedence over validation
	// errors, and a missing task is never re-created.
	UpdateTask(ctx context.Context, id uuid.UUID, payload domain.TaskPayload) (*domain.Task, error)

	// DeleteTask hard-deletes a task. Deleting an absent ID, including one
	// that was just deleted, returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// Option configures a TaskService.
type Option func(*taskServiceImpl)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if taskStore is nil.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger, opts ...Option) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  taskStore,
		logger: logger.With(slog.String("component", componentName)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, ErrTaskNotFound
		}
		log.Error("failed to retrieve task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, payload domain.TaskPayload) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	task, err := domain.NewTask(payload, s.now())
	if err != nil {
		log.Debug("rejected invalid task payload", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "invalid task payload", err)
	}

	saved, err := s.tasks.Save(ctx, task)
	if err != nil {
		log.Error("failed to save new task", slog.String("error", redact.Error(err)))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", saved.ID.String()),
		slog.String("priority", string(saved.Priority)),
		slog.String("status", string(saved.Status)))
	return saved, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	payload domain.TaskPayload,
) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, componentName)

	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, ErrTaskNotFound
		}
		log.Error("failed to load task for update",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update_task", "failed to load task", err)
	}

	if err := existing.Replace(payload, s.now()); err != nil {
		log.Debug("rejected invalid task payload",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update_task", "invalid task payload", err)
	}

	saved, err := s.tasks.Save(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task deleted before update was saved", slog.String("task_id", id.String()))
			return nil, ErrTaskNotFound
		}
		log.Error("failed to save updated task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	log.Info("task updated",
		slog.String("task_id", saved.ID.String()),
		slog.String("status", string(saved.Status)))
	return saved, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) error {
	log := logger.ForComponent(ctx, s.logger, componentName)

	deleted, err := s.tasks.DeleteByID(ctx, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	if !deleted {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return ErrTaskNotFound
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}
