package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanager/internal/api/shared"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/mocks"
	"github.com/phrazzld/taskmanager/internal/service"
	"github.com/phrazzld/taskmanager/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	verr := domain.NewValidationError(domain.FieldTitle, "is required", nil)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"nil", nil, http.StatusInternalServerError, MsgUnexpected},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound, MsgTaskNotFound},
		{"wrapped store not found", fmt.Errorf("x: %w", store.ErrNotFound), http.StatusNotFound, MsgTaskNotFound},
		{"invalid task", fmt.Errorf("%w: %w", service.ErrInvalidTask, verr), http.StatusBadRequest, MsgValidationFailed},
		{"bare validation", verr, http.StatusBadRequest, MsgValidationFailed},
		{
			"invalid id",
			domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID),
			http.StatusBadRequest,
			MsgInvalidTaskID,
		},
		{
			"path id that names no task",
			fmt.Errorf("%w: %w: %q", service.ErrTaskNotFound, domain.ErrInvalidID, "999999"),
			http.StatusNotFound,
			MsgTaskNotFound,
		},
		{"bad body", fmt.Errorf("%w: EOF", shared.ErrInvalidRequestBody), http.StatusBadRequest, MsgInvalidRequestFormat},
		{
			"store failure wrapping rejected row",
			service.NewTaskServiceError("create_task", "failed", store.ErrInvalidEntity),
			http.StatusInternalServerError,
			MsgUnexpected,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, MsgUnexpected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.wantMessage, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("validation carries violations", func(t *testing.T) {
		verr := domain.NewValidationError(domain.FieldTitle, "is required", nil)
		verr.Add(domain.FieldStatus, "must be one of: OPEN, IN_PROGRESS, RESOLVED")
		rr := httptest.NewRecorder()

		HandleAPIError(rr, httptest.NewRequest(http.MethodPost, TasksBasePath, nil),
			fmt.Errorf("%w: %w", service.ErrInvalidTask, verr))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, MsgValidationFailed, body.Error)
		assert.Equal(t, verr.Violations, body.Violations)
	})

	t.Run("server error hides cause", func(t *testing.T) {
		rr := httptest.NewRecorder()
		cause := errors.New(`pq: relation "tasks" does not exist`)

		HandleAPIError(rr, httptest.NewRequest(http.MethodGet, TasksBasePath, nil),
			service.NewTaskServiceError("list_tasks", "failed", cause))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, rr.Body.String())
	})
}

func TestRouteFallbackHandlers(t *testing.T) {
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)
	r.Route(TasksBasePath, NewTaskHandler(&mocks.MockTaskService{}, nil).Routes)

	t.Run("unknown path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/tasks", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"Resource not found"}`, rr.Body.String())
	})

	t.Run("unrouted method logs at warn", func(t *testing.T) {
		logBuf, log := logger.NewTestLogger(t)
		req := httptest.NewRequest(http.MethodPatch, TasksBasePath, nil)
		req = req.WithContext(logger.WithLogger(req.Context(), log))
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, rr.Body.String())

		entries, err := logBuf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
	})
}
