package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"courseflow/internal/contextutil"
	"courseflow/internal/library"
	"courseflow/internal/localdir"
	"courseflow/internal/media"
	"courseflow/internal/storage"
)

// CourseHandler handles HTTP requests for courses and their videos.
type CourseHandler struct {
	svc *library.Service
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(svc *library.Service) *CourseHandler {
	return &CourseHandler{svc: svc}
}

func newRefID() string {
	return uuid.New().String()
}

// CourseResponse represents a course in API responses. Binary thumbnails are
// exposed as a separate endpoint, not inlined.
type CourseResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TotalVideos     int     `json:"total_videos"`
	CompletedVideos int     `json:"completed_videos"`
	TotalDuration   float64 `json:"total_duration"`
	DurationLabel   string  `json:"duration_label"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
	LastAccessed    int64   `json:"last_accessed"`
	StorageType     string  `json:"storage_type"`
	DirectoryRoot   string  `json:"directory_root,omitempty"`
	HasThumbnail    bool    `json:"has_thumbnail"`
}

func courseResponse(c *storage.CourseRecord) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Name:            c.Name,
		TotalVideos:     c.TotalVideos,
		CompletedVideos: c.CompletedVideos,
		TotalDuration:   c.TotalDuration,
		DurationLabel:   media.FormatDuration(c.TotalDuration),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		LastAccessed:    c.LastAccessed,
		StorageType:     c.StorageType,
		DirectoryRoot:   c.DirectoryRoot,
		HasThumbnail:    len(c.Thumbnail) > 0,
	}
}

// VideoResponse represents a video in API responses.
type VideoResponse struct {
	ID            string  `json:"id"`
	SectionID     string  `json:"section_id"`
	CourseID      string  `json:"course_id"`
	Title         string  `json:"title"`
	Duration      float64 `json:"duration"`
	DurationLabel string  `json:"duration_label"`
	FilePath      string  `json:"file_path,omitempty"`
	FileSize      int64   `json:"file_size"`
	SizeLabel     string  `json:"size_label"`
	Format        string  `json:"format"`
	Order         int     `json:"order"`
}

func videoResponse(v *storage.VideoRecord) VideoResponse {
	return VideoResponse{
		ID:            v.ID,
		SectionID:     v.SectionID,
		CourseID:      v.CourseID,
		Title:         v.Title,
		Duration:      v.Duration,
		DurationLabel: media.FormatDuration(v.Duration),
		FilePath:      v.FilePath,
		FileSize:      v.FileSize,
		SizeLabel:     media.FormatSize(v.FileSize),
		Format:        v.Format,
		Order:         v.Order,
	}
}

// SectionResponse is one section of a course outline with its videos.
type SectionResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Order  int             `json:"order"`
	Videos []VideoResponse `json:"videos"`
}

// LinkCourseRequest represents the payload for linking a directory as a new
// local-reference course.
type LinkCourseRequest struct {
	Name string `json:"name,omitempty"`
	// RefID identifies the directory reference; generated when empty.
	RefID string `json:"ref_id,omitempty"`
	Root  string `json:"root"`
}

// List handles GET /api/courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courses, err := h.svc.Courses(ctx)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to list courses")
		return
	}
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, courseResponse(&courses[i]))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// Link handles POST /api/courses: it links a local directory as a new
// course. The request is the explicit user action, so the access prompt may
// block inside it.
func (h *CourseHandler) Link(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LinkCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Root == "" {
		writeError(ctx, w, http.StatusBadRequest, "root is required")
		return
	}
	ref := localdir.Ref{ID: req.RefID, Root: req.Root}
	if ref.ID == "" {
		ref.ID = newRefID()
	}

	course, err := h.svc.ImportLinkedDirectory(ctx, ref, req.Name)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to link directory")
		return
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "linked course directory",
		"course_id", course.ID, "root", req.Root)
	writeJSON(ctx, w, http.StatusCreated, courseResponse(course))
}

// Get handles GET /api/courses/{id}.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	course, err := h.svc.Course(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load course")
		return
	}
	writeJSON(ctx, w, http.StatusOK, courseResponse(course))
}

// Outline handles GET /api/courses/{id}/outline.
func (h *CourseHandler) Outline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	outline, err := h.svc.CourseOutline(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load course outline")
		return
	}
	out := make([]SectionResponse, 0, len(outline))
	for _, sec := range outline {
		sr := SectionResponse{
			ID:     sec.Section.ID,
			Name:   sec.Section.Name,
			Order:  sec.Section.Order,
			Videos: make([]VideoResponse, 0, len(sec.Videos)),
		}
		for i := range sec.Videos {
			sr.Videos = append(sr.Videos, videoResponse(&sec.Videos[i]))
		}
		out = append(out, sr)
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// Delete handles DELETE /api/courses/{id}.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.DeleteCourse(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err, "Failed to delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuthorizeResponse reports the outcome of a directory authorization.
type AuthorizeResponse struct {
	Granted bool `json:"granted"`
}

// Authorize handles POST /api/courses/{id}/authorize. This is the only
// route that may trigger the blocking access prompt.
func (h *CourseHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	write := r.URL.Query().Get("write") == "true"
	granted, err := h.svc.AuthorizeCourse(ctx, chi.URLParam(r, "id"), write)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to authorize course directory")
		return
	}
	status := http.StatusOK
	if !granted {
		status = http.StatusForbidden
	}
	writeJSON(ctx, w, status, AuthorizeResponse{Granted: granted})
}

// StatsResponse summarizes watch activity for a course.
type StatsResponse struct {
	CourseID        string  `json:"course_id"`
	TotalVideos     int     `json:"total_videos"`
	CompletedVideos int     `json:"completed_videos"`
	TotalDuration   float64 `json:"total_duration"`
	TotalWatchTime  float64 `json:"total_watch_time"`
	WatchTimeLabel  string  `json:"watch_time_label"`
}

// Stats handles GET /api/courses/{id}/stats.
func (h *CourseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.svc.Stats(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load course stats")
		return
	}
	writeJSON(ctx, w, http.StatusOK, StatsResponse{
		CourseID:        stats.CourseID,
		TotalVideos:     stats.TotalVideos,
		CompletedVideos: stats.CompletedVideos,
		TotalDuration:   stats.TotalDuration,
		TotalWatchTime:  stats.TotalWatchTime,
		WatchTimeLabel:  media.FormatDuration(stats.TotalWatchTime),
	})
}

// GetVideo handles GET /api/videos/{id}.
func (h *CourseHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	video, err := h.svc.Video(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load video")
		return
	}
	writeJSON(ctx, w, http.StatusOK, videoResponse(video))
}

// VideoContent handles GET /api/videos/{id}/content: it streams the video
// bytes, either from the embedded blob or from the referenced file on disk.
func (h *CourseHandler) VideoContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	src, err := h.svc.OpenVideo(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to open video")
		return
	}

	w.Header().Set("Content-Type", src.Video.Format)
	if src.Path != "" {
		http.ServeFile(w, r, src.Path)
		return
	}
	if _, err := w.Write(src.Content); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "video write aborted",
			"video_id", src.Video.ID, "error", err)
	}
}
