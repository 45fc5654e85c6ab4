package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"courseflow/internal/contextutil"
	"courseflow/internal/library"
	"courseflow/internal/localdir"
	"courseflow/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, ErrorResponse{Error: message})
}

// writeServiceError translates façade errors to HTTP statuses: missing
// records are 404, validation problems 400, a missing directory grant 403, a
// stale file path 409, and a storage quota breach 507.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	logger := contextutil.LoggerFromContext(ctx)

	var verr *library.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(ctx, w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, localdir.ErrPermissionDenied):
		writeError(ctx, w, http.StatusForbidden, "directory access not granted")
	case errors.Is(err, localdir.ErrPathNotFound):
		writeError(ctx, w, http.StatusConflict, "referenced file no longer exists")
	case errors.Is(err, storage.ErrQuotaExceeded):
		writeError(ctx, w, http.StatusInsufficientStorage, err.Error())
	default:
		logger.ErrorContext(ctx, fallback, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
