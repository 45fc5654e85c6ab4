package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"courseflow/internal/library"
	"courseflow/internal/storage"
)

// ProgressHandler handles HTTP requests for playback progress.
type ProgressHandler struct {
	svc *library.Service
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(svc *library.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// CheckpointRequest represents a playback checkpoint payload.
type CheckpointRequest struct {
	VideoID   string  `json:"video_id"`
	WatchTime float64 `json:"watch_time"`
}

// ProgressResponse represents watch progress in API responses.
type ProgressResponse struct {
	VideoID     string  `json:"video_id"`
	CourseID    string  `json:"course_id"`
	WatchTime   float64 `json:"watch_time"`
	Completed   bool    `json:"completed"`
	LastWatched int64   `json:"last_watched"`
}

func progressResponse(p *storage.ProgressRecord) ProgressResponse {
	return ProgressResponse{
		VideoID:     p.VideoID,
		CourseID:    p.CourseID,
		WatchTime:   p.WatchTime,
		Completed:   p.Completed,
		LastWatched: p.LastWatched,
	}
}

// Checkpoint handles POST /api/progress/checkpoint.
func (h *ProgressHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckpointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.VideoID == "" {
		writeError(ctx, w, http.StatusBadRequest, "video_id is required")
		return
	}
	if req.WatchTime < 0 {
		writeError(ctx, w, http.StatusBadRequest, "watch_time must not be negative")
		return
	}

	if err := h.svc.RecordPlaybackCheckpoint(ctx, req.VideoID, req.WatchTime); err != nil {
		writeServiceError(ctx, w, err, "Failed to record checkpoint")
		return
	}

	rec, err := h.svc.ProgressForVideo(ctx, req.VideoID)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load progress")
		return
	}
	writeJSON(ctx, w, http.StatusOK, progressResponse(rec))
}

// ForVideo handles GET /api/videos/{id}/progress. An unwatched video yields
// a zero-progress response rather than a 404.
func (h *ProgressHandler) ForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := chi.URLParam(r, "id")

	rec, err := h.svc.ProgressForVideo(ctx, videoID)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load progress")
		return
	}
	if rec == nil {
		writeJSON(ctx, w, http.StatusOK, ProgressResponse{VideoID: videoID})
		return
	}
	writeJSON(ctx, w, http.StatusOK, progressResponse(rec))
}

// Recent handles GET /api/progress/recent?limit=N.
func (h *ProgressHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := h.svc.RecentProgress(ctx, limit)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load recent progress")
		return
	}
	out := make([]ProgressResponse, 0, len(records))
	for i := range records {
		out = append(out, progressResponse(&records[i]))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}
