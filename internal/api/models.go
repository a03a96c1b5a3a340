package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
)

// TasksBasePath is the path prefix of the task resource.
const TasksBasePath = "/api/v1/tasks"

// DateLayout is the calendar-date form accepted for request timestamps.
const DateLayout = time.DateOnly

// Timestamp is a request time value. It accepts RFC 3339 timestamps and
// YYYY-MM-DD dates; a date means midnight UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = parsed
	return nil
}

// ParseTimestamp parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: want RFC 3339 or YYYY-MM-DD", s)
}

func (ts *Timestamp) timePtr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

// TaskRequest is the body of POST and PUT requests. An id in the body is
// accepted but ignored; the path decides which task is updated.
type TaskRequest struct {
	ID          *string    `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   *Timestamp `json:"createdAt"`
	DueDate     *Timestamp `json:"dueDate"`
	ResolvedAt  *Timestamp `json:"resolvedAt"`
}

// ToPayload converts the request into the service payload.
func (r TaskRequest) ToPayload() domain.TaskPayload {
	return domain.TaskPayload{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.Priority(r.Priority),
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt.timePtr(),
		DueDate:     r.DueDate.timePtr(),
		ResolvedAt:  r.ResolvedAt.timePtr(),
	}
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	DueDate     *time.Time `json:"dueDate"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   utcPtr(t.UpdatedAt),
		DueDate:     utcPtr(t.DueDate),
		ResolvedAt:  utcPtr(t.ResolvedAt),
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
