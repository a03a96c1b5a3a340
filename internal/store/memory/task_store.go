// Package memory provides an in-process implementation of store.TaskStore.
// It is used when the service runs without a database and as the reference
// store in unit tests.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/store"
)

const componentName = "memory_task_store"

// TaskStore keeps tasks in a map guarded by a read/write mutex. Tasks are
// copied on the way in and out so callers never share memory with the store.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*domain.Task
	logger *slog.Logger
}

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		tasks:  make(map[uuid.UUID]*domain.Task),
		logger: logger.With(slog.String("component", componentName)),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// FindAll implements store.TaskStore.FindAll.
func (s *TaskStore) FindAll(ctx context.Context) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Clone())
	}
	s.mu.RUnlock()

	store.SortTasks(tasks)

	logger.ForComponent(ctx, s.logger, componentName).Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindByID implements store.TaskStore.FindByID.
func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// Save implements store.TaskStore.Save.
func (s *TaskStore) Save(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if task == nil {
		return nil, store.NewStoreError("task", "save", "task is nil", store.ErrInvalidEntity)
	}

	log := logger.ForComponent(ctx, s.logger, componentName)
	stored := task.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
		s.tasks[stored.ID] = stored
		log.Debug("task inserted", slog.String("task_id", stored.ID.String()))
		return stored.Clone(), nil
	}

	existing, ok := s.tasks[stored.ID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	stored.CreatedAt = existing.CreatedAt
	s.tasks[stored.ID] = stored
	log.Debug("task replaced", slog.String("task_id", stored.ID.String()))
	return stored.Clone(), nil
}

// DeleteByID implements store.TaskStore.DeleteByID.
func (s *TaskStore) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
