package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/api/shared"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/mocks"
	"github.com/phrazzld/taskmanager/internal/service"
	"github.com/phrazzld/taskmanager/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

func newRouter(svc service.TaskService) http.Handler {
	h := NewTaskHandler(svc, nil)
	r := chi.NewRouter()
	r.Route(TasksBasePath, h.Routes)
	return r
}

func newServiceRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := service.NewTaskService(memory.NewTaskStore(nil), nil,
		service.WithClock(func() time.Time { return handlerNow }))
	require.NoError(t, err)
	return newRouter(svc)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeTask(t *testing.T, rr *httptest.ResponseRecorder) TaskResponse {
	t.Helper()
	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

const createBody = `{
	"title": "Write report",
	"description": "Draft design doc",
	"priority": "HIGH",
	"status": "OPEN",
	"dueDate": "2025-03-11"
}`

func TestTaskLifecycle(t *testing.T) {
	router := newServiceRouter(t)

	rr := do(t, router, http.MethodGet, TasksBasePath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	// Create
	rr = do(t, router, http.MethodPost, TasksBasePath, createBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeTask(t, rr)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, TasksBasePath+"/"+created.ID.String(), rr.Header().Get("Location"))
	assert.True(t, created.CreatedAt.Equal(handlerNow))
	assert.Nil(t, created.UpdatedAt)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "HIGH", created.Priority)
	assert.Equal(t, "OPEN", created.Status)

	// Read
	rr = do(t, router, http.MethodGet, TasksBasePath+"/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decodeTask(t, rr))

	// Update with a body id that differs from the path
	update := `{
		"id": "` + uuid.NewString() + `",
		"title": "Review report",
		"description": "Collect feedback",
		"priority": "LOW",
		"status": "IN_PROGRESS"
	}`
	rr = do(t, router, http.MethodPut, TasksBasePath+"/"+created.ID.String(), update)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeTask(t, rr)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(handlerNow))
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, "Review report", updated.Title)
	assert.Equal(t, "IN_PROGRESS", updated.Status)

	rr = do(t, router, http.MethodGet, TasksBasePath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, updated, list[0])

	// Delete twice
	rr = do(t, router, http.MethodDelete, TasksBasePath+"/"+created.ID.String(), "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = do(t, router, http.MethodDelete, TasksBasePath+"/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, MsgTaskNotFound, decodeError(t, rr).Error)

	rr = do(t, router, http.MethodGet, TasksBasePath+"/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
		wantMsg    string
	}{
		{
			name:       "missing title",
			body:       `{"description":"d","priority":"LOW","status":"OPEN"}`,
			wantFields: []string{"title"},
			wantMsg:    MsgValidationFailed,
		},
		{
			name:       "title too long",
			body:       `{"title":"` + strings.Repeat("t", 256) + `","description":"d","priority":"LOW","status":"OPEN"}`,
			wantFields: []string{"title"},
			wantMsg:    MsgValidationFailed,
		},
		{
			name:       "lowercase enums",
			body:       `{"title":"t","description":"d","priority":"low","status":"open"}`,
			wantFields: []string{"priority", "status"},
			wantMsg:    MsgValidationFailed,
		},
		{
			name:       "due date in the past",
			body:       `{"title":"t","description":"d","priority":"LOW","status":"OPEN","dueDate":"2025-03-09"}`,
			wantFields: []string{"dueDate"},
			wantMsg:    MsgValidationFailed,
		},
		{
			name:       "due date today at midnight",
			body:       `{"title":"t","description":"d","priority":"LOW","status":"OPEN","dueDate":"2025-03-10"}`,
			wantFields: []string{"dueDate"},
			wantMsg:    MsgValidationFailed,
		},
		{
			name:       "createdAt in the future",
			body:       `{"title":"t","description":"d","priority":"LOW","status":"OPEN","createdAt":"2025-03-10T08:00:01Z"}`,
			wantFields: []string{"createdAt"},
			wantMsg:    MsgValidationFailed,
		},
		{name: "malformed json", body: `{"title":`, wantMsg: MsgInvalidRequestFormat},
		{name: "malformed date", body: `{"title":"t","dueDate":"next week"}`, wantMsg: MsgInvalidRequestFormat},
		{name: "empty body", body: ``, wantMsg: MsgInvalidRequestFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newServiceRouter(t)

			rr := do(t, router, http.MethodPost, TasksBasePath, tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			errResp := decodeError(t, rr)
			assert.Equal(t, tc.wantMsg, errResp.Error)
			fields := make([]string, 0, len(errResp.Violations))
			for _, v := range errResp.Violations {
				fields = append(fields, v.Field)
				assert.NotEmpty(t, v.Message)
			}
			if tc.wantFields == nil {
				assert.Empty(t, fields)
			} else {
				assert.ElementsMatch(t, tc.wantFields, fields)
			}

			rr = do(t, router, http.MethodGet, TasksBasePath, "")
			assert.JSONEq(t, "[]", rr.Body.String(), "nothing is persisted on a rejected create")
		})
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	router := newServiceRouter(t)

	rr := do(t, router, http.MethodPost, TasksBasePath, createBody)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decodeTask(t, rr)

	t.Run("unknown id is not found and not created", func(t *testing.T) {
		rr := do(t, router, http.MethodPut, TasksBasePath+"/"+uuid.NewString(), createBody)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = do(t, router, http.MethodGet, TasksBasePath, "")
		var list []TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("unknown id with invalid body is not found", func(t *testing.T) {
		rr := do(t, router, http.MethodPut, TasksBasePath+"/"+uuid.NewString(), `{"title":""}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid body leaves task unchanged", func(t *testing.T) {
		rr := do(t, router, http.MethodPut, TasksBasePath+"/"+created.ID.String(),
			`{"title":"","description":"d","priority":"LOW","status":"OPEN"}`)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		rr = do(t, router, http.MethodGet, TasksBasePath+"/"+created.ID.String(), "")
		assert.Equal(t, created, decodeTask(t, rr))
	})
}

func TestNonUUIDPathIDIsNotFound(t *testing.T) {
	router := newServiceRouter(t)

	for _, id := range []string{"999999", "not-a-uuid"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			t.Run(method+" "+id, func(t *testing.T) {
				rr := do(t, router, method, TasksBasePath+"/"+id, createBody)
				require.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
				errResp := decodeError(t, rr)
				assert.Equal(t, MsgTaskNotFound, errResp.Error)
				assert.Empty(t, errResp.Violations)
			})
		}
	}
}

func TestUpdateNumericIDWithValidPayload(t *testing.T) {
	router := newServiceRouter(t)

	rr := do(t, router, http.MethodPut, TasksBasePath+"/999999", createBody)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodGet, TasksBasePath, "")
	assert.JSONEq(t, "[]", rr.Body.String(), "update of an absent task must not create it")
}

func TestListTasksOrdering(t *testing.T) {
	router := newServiceRouter(t)

	bodies := []string{
		`{"title":"later","description":"d","priority":"LOW","status":"OPEN","dueDate":"2025-03-14"}`,
		`{"title":"undated","description":"d","priority":"LOW","status":"OPEN"}`,
		`{"title":"sooner","description":"d","priority":"LOW","status":"OPEN","dueDate":"2025-03-11T12:00:00Z"}`,
	}
	for _, b := range bodies {
		rr := do(t, router, http.MethodPost, TasksBasePath, b)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := do(t, router, http.MethodGet, TasksBasePath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 3)
	assert.Equal(t, []string{"sooner", "later", "undated"},
		[]string{list[0].Title, list[1].Title, list[2].Title})
}

func TestStoreFailuresReturnMinimalBody(t *testing.T) {
	cause := errors.New("dial tcp db.internal.example.com:5432: connection refused")
	storeErr := service.NewTaskServiceError("op", "failed", cause)
	id := uuid.NewString()

	svc := &mocks.MockTaskService{DefaultError: storeErr}
	router := newRouter(svc)

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, TasksBasePath, ""},
		{http.MethodGet, TasksBasePath + "/" + id, ""},
		{http.MethodPost, TasksBasePath, createBody},
		{http.MethodPut, TasksBasePath + "/" + id, createBody},
		{http.MethodDelete, TasksBasePath + "/" + id, ""},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			rr := do(t, router, req.method, req.path, req.body)
			require.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, rr.Body.String())
			assert.NotContains(t, rr.Body.String(), "db.internal.example.com")
		})
	}
}

func TestHandlerPassesPayloadThrough(t *testing.T) {
	id := uuid.New()
	svc := &mocks.MockTaskService{
		UpdateTaskFn: func(ctx context.Context, gotID uuid.UUID, p domain.TaskPayload) (*domain.Task, error) {
			assert.Equal(t, id, gotID, "path id wins over body id")
			return &domain.Task{ID: gotID, CreatedAt: handlerNow, Title: p.Title,
				Description: p.Description, Priority: p.Priority, Status: p.Status}, nil
		},
	}
	router := newRouter(svc)

	body := `{"id":"` + uuid.NewString() + `","title":"t","description":"d","priority":"MEDIUM",` +
		`"status":"RESOLVED","resolvedAt":"2025-03-12T10:00:00+01:00"}`
	rr := do(t, router, http.MethodPut, TasksBasePath+"/"+id.String(), body)
	require.Equal(t, http.StatusOK, rr.Code)

	payload, ok := svc.LastPayload()
	require.True(t, ok)
	assert.Equal(t, domain.PriorityMedium, payload.Priority)
	assert.Equal(t, domain.StatusResolved, payload.Status)
	require.NotNil(t, payload.ResolvedAt)
	assert.True(t, payload.ResolvedAt.Equal(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, TasksBasePath+"/"+id.String(), rr.Header().Get("Location"))
}

func TestNewTaskHandlerPanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() { NewTaskHandler(nil, nil) })
}
