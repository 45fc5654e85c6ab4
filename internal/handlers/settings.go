package handlers

import (
	"errors"
	"net/http"

	"courseflow/internal/library"
	"courseflow/internal/media"
	"courseflow/internal/storage"
)

// SettingsHandler handles HTTP requests for user settings, storage usage,
// and library export.
type SettingsHandler struct {
	svc *library.Service
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *library.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// SettingsPayload is the settings shape for both requests and responses.
type SettingsPayload struct {
	AutoPlay     bool    `json:"auto_play"`
	AutoNext     bool    `json:"auto_next"`
	DefaultSpeed float64 `json:"default_speed"`
	Theme        string  `json:"theme"`
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.svc.Settings(ctx)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load settings")
		return
	}
	writeJSON(ctx, w, http.StatusOK, SettingsPayload{
		AutoPlay:     rec.AutoPlay,
		AutoNext:     rec.AutoNext,
		DefaultSpeed: rec.DefaultSpeed,
		Theme:        rec.Theme,
	})
}

// Put handles PUT /api/settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SettingsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.svc.SaveSettings(ctx, &storage.SettingsRecord{
		AutoPlay:     req.AutoPlay,
		AutoNext:     req.AutoNext,
		DefaultSpeed: req.DefaultSpeed,
		Theme:        req.Theme,
	})
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to save settings")
		return
	}
	writeJSON(ctx, w, http.StatusOK, SettingsPayload{
		AutoPlay:     rec.AutoPlay,
		AutoNext:     rec.AutoNext,
		DefaultSpeed: rec.DefaultSpeed,
		Theme:        rec.Theme,
	})
}

// UsageResponse reports the database's on-disk footprint.
type UsageResponse struct {
	Available  bool   `json:"available"`
	UsedBytes  int64  `json:"used_bytes,omitempty"`
	QuotaBytes int64  `json:"quota_bytes,omitempty"`
	UsedLabel  string `json:"used_label,omitempty"`
}

// Usage handles GET /api/storage/usage. When no estimate can be produced the
// response says so instead of failing.
func (h *SettingsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	usage, err := h.svc.StorageUsage()
	if err != nil {
		if errors.Is(err, storage.ErrUsageUnavailable) {
			writeJSON(ctx, w, http.StatusOK, UsageResponse{Available: false})
			return
		}
		writeServiceError(ctx, w, err, "Failed to estimate storage usage")
		return
	}
	writeJSON(ctx, w, http.StatusOK, UsageResponse{
		Available:  true,
		UsedBytes:  usage.UsedBytes,
		QuotaBytes: usage.QuotaBytes,
		UsedLabel:  media.FormatSize(usage.UsedBytes),
	})
}

// Export handles GET /api/export: the full library snapshot as JSON.
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.svc.Export(ctx)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to export library")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="course-library-export.json"`)
	writeJSON(ctx, w, http.StatusOK, snap)
}
