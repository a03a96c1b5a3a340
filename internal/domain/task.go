package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of a task.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every valid priority in ascending order of urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority converts a string into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Status is the workflow state of a task.
type Status string

// Possible status values
const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Task is a unit of work with a priority, a status and an optional due date.
//
// ID and CreatedAt are assigned once on creation. UpdatedAt stays nil until
// the first successful update.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	DueDate     *time.Time `json:"dueDate"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
}

// TaskPayload is the caller-supplied shape for creating or fully replacing a
// task. CreatedAt is accepted for validation only; the server owns the
// creation timestamp.
type TaskPayload struct {
	Title       string     `json:"title"       validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"required,min=1,max=1000"`
	Priority    Priority   `json:"priority"    validate:"required,oneof=LOW MEDIUM HIGH"`
	Status      Status     `json:"status"      validate:"required,oneof=OPEN IN_PROGRESS RESOLVED"`
	CreatedAt   *time.Time `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

// NewTask validates the payload against now and builds a task ready to be
// persisted. The ID is left as uuid.Nil so that the store assigns it; any
// CreatedAt in the payload is discarded in favour of now.
func NewTask(p TaskPayload, now time.Time) (*Task, error) {
	if err := ValidateTaskPayload(p, now); err != nil {
		return nil, err
	}

	return &Task{
		ID:          uuid.Nil,
		CreatedAt:   NormalizeTime(now),
		DueDate:     normalizeTimePtr(p.DueDate),
		ResolvedAt:  normalizeTimePtr(p.ResolvedAt),
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Status:      p.Status,
	}, nil
}

// Replace overwrites every mutable field with the payload's values and stamps
// UpdatedAt. The task is left untouched when validation fails.
func (t *Task) Replace(p TaskPayload, now time.Time) error {
	if err := ValidateTaskPayload(p, now); err != nil {
		return err
	}

	updatedAt := NormalizeTime(now)
	t.Title = p.Title
	t.Description = p.Description
	t.Priority = p.Priority
	t.Status = p.Status
	t.DueDate = normalizeTimePtr(p.DueDate)
	t.ResolvedAt = normalizeTimePtr(p.ResolvedAt)
	t.UpdatedAt = &updatedAt
	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.UpdatedAt = copyTimePtr(t.UpdatedAt)
	c.DueDate = copyTimePtr(t.DueDate)
	c.ResolvedAt = copyTimePtr(t.ResolvedAt)
	return &c
}

// NormalizeTime converts t to UTC at microsecond precision, which is the
// finest precision every supported store can round-trip.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func normalizeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := NormalizeTime(*t)
	return &n
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
