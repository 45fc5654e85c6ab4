package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"courseflow/internal/library"
	"courseflow/internal/storage"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	svc *library.Service
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *library.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// TaskCreateRequest represents the payload for creating a task.
type TaskCreateRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority,omitempty"`
	CourseID string `json:"course_id,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
}

// TaskUpdateRequest represents the payload for updating a task. Omitted
// fields keep their current value.
type TaskUpdateRequest struct {
	Title    string `json:"title,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CourseID  string `json:"course_id,omitempty"`
	VideoID   string `json:"video_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func taskResponse(t *storage.TaskRecord) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    t.Status,
		Priority:  t.Priority,
		CourseID:  t.CourseID,
		VideoID:   t.VideoID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// List handles GET /api/tasks with optional status and course_id filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := h.svc.Tasks(ctx, r.URL.Query().Get("status"), r.URL.Query().Get("course_id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to list tasks")
		return
	}
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskResponse(&tasks[i]))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TaskCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.svc.AddTask(ctx, library.AddTaskRequest{
		Title:    req.Title,
		Priority: req.Priority,
		CourseID: req.CourseID,
		VideoID:  req.VideoID,
	})
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to create task")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, taskResponse(task))
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	task, err := h.svc.Task(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load task")
		return
	}
	writeJSON(ctx, w, http.StatusOK, taskResponse(task))
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TaskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.svc.UpdateTask(ctx, chi.URLParam(r, "id"), library.UpdateTaskRequest{
		Title:    req.Title,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to update task")
		return
	}
	writeJSON(ctx, w, http.StatusOK, taskResponse(task))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.DeleteTask(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
