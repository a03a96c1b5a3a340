package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/taskmanager/internal/api/shared"
	"github.com/phrazzld/taskmanager/internal/domain"
	"github.com/phrazzld/taskmanager/internal/service"
	"github.com/phrazzld/taskmanager/internal/store"
)

// Client-facing error messages.
const (
	MsgTaskNotFound         = "Task not found"
	MsgValidationFailed     = "Validation failed"
	MsgInvalidTaskID        = "Invalid task ID"
	MsgInvalidRequestFormat = "Invalid request format"
	MsgUnexpected           = "An unexpected error occurred"
	MsgRouteNotFound        = "Resource not found"
	MsgMethodNotAllowed     = "Method not allowed"
)

// NotFound answers requests for paths no route matches.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, MsgRouteNotFound)
}

// MethodNotAllowed answers requests whose path exists but whose method is not
// routed. These are logged at WARN.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithErrorAndLog(w, r, http.StatusMethodNotAllowed, MsgMethodNotAllowed,
		fmt.Errorf("%s %s is not routed", r.Method, r.URL.Path), shared.WithElevatedLogLevel())
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Store failures are server errors even when the cause is a rejected row.
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusInternalServerError

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidTask),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidRequestBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		return MsgUnexpected
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return MsgTaskNotFound
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidTaskID
	case errors.Is(err, shared.ErrInvalidRequestBody):
		return MsgInvalidRequestFormat
	case errors.Is(err, service.ErrInvalidTask),
		errors.Is(err, domain.ErrValidation):
		return MsgValidationFailed
	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the error response for err. Validation failures carry
// their field violations in the body; everything else gets only a safe
// message. The full error is logged redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	var verr *domain.ValidationError
	if status == http.StatusBadRequest && errors.As(err, &verr) {
		opts = append(opts, shared.WithViolations(verr.Violations))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
