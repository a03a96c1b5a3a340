package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/service"
)

// taskIDParam is the chi path parameter holding the task ID.
const taskIDParam = "id"

// getPathUUID extracts a task UUID from the URL path parameters.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.Nil, error): an error wrapping service.ErrTaskNotFound and
//     domain.ErrInvalidID if the parameter is missing or malformed. Such an
//     id cannot name a stored task, so it is reported as absent.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %w: %s is required", service.ErrTaskNotFound, domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w: %q", service.ErrTaskNotFound, domain.ErrInvalidID, pathParam)
	}

	return id, nil
}

// taskLocation returns the canonical URL path of a task.
func taskLocation(id uuid.UUID) string {
	return TasksBasePath + "/" + id.String()
}
