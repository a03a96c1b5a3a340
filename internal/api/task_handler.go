package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskmanager/internal/api/shared"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/phrazzld/taskmanager/internal/redact"
	"github.com/phrazzld/taskmanager/internal/service"
)

const componentName = "task_handler"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", componentName)),
	}
}

// Routes registers the task endpoints on r, relative to TasksBasePath.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
}

// ListTasks handles GET /api/v1/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /api/v1/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Location", taskLocation(task.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /api/v1/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.ForComponent(r.Context(), h.logger, componentName)

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid create request body", slog.String("error", redact.Error(err)))
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req.ToPayload())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Location", taskLocation(task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /api/v1/tasks/{id} requests. The body fully
// replaces the task's mutable fields.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.ForComponent(r.Context(), h.logger, componentName)

	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid update request body",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		HandleAPIError(w, r, err)
		return
	}
	if req.ID != nil && *req.ID != id.String() {
		log.Debug("ignoring body id that differs from path id", slog.String("task_id", id.String()))
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.ToPayload())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Location", taskLocation(task.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/v1/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, taskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
