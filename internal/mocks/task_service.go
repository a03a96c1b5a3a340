package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Custom behavior functions
	ListTasksFn  func(ctx context.Context) ([]*domain.Task, error)
	GetTaskFn    func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	CreateTaskFn func(ctx context.Context, payload domain.TaskPayload) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id uuid.UUID, payload domain.TaskPayload) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id uuid.UUID) error

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	DefaultError error

	// Call tracking for verification
	mu       sync.Mutex
	Payloads []domain.TaskPayload
}

// ListTasks implements the TaskService.ListTasks method
func (m *MockTaskService) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx)
	}
	return m.Tasks, m.DefaultError
}

// GetTask implements the TaskService.GetTask method
func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// CreateTask implements the TaskService.CreateTask method
func (m *MockTaskService) CreateTask(ctx context.Context, payload domain.TaskPayload) (*domain.Task, error) {
	m.record(payload)
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, payload)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements the TaskService.UpdateTask method
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	payload domain.TaskPayload,
) (*domain.Task, error) {
	m.record(payload)
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, payload)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements the TaskService.DeleteTask method
func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.DefaultError
}

// CreateCalls returns the number of payloads received by CreateTask and
// UpdateTask so far.
func (m *MockTaskService) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Payloads)
}

// LastPayload returns the most recent payload passed to CreateTask or
// UpdateTask.
func (m *MockTaskService) LastPayload() (domain.TaskPayload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Payloads) == 0 {
		return domain.TaskPayload{}, false
	}
	return m.Payloads[len(m.Payloads)-1], true
}

func (m *MockTaskService) record(payload domain.TaskPayload) {
	m.mu.Lock()
	m.Payloads = append(m.Payloads, payload)
	m.mu.Unlock()
}
