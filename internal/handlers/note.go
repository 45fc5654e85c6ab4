package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"courseflow/internal/contextutil"
	"courseflow/internal/library"
	"courseflow/internal/media"
	"courseflow/internal/storage"
)

// NoteHandler handles note CRUD and serves notes as rendered HTML pages.
type NoteHandler struct {
	svc      *library.Service
	parser   goldmark.Markdown
	template *template.Template
}

// notePageData holds template data for rendered note pages.
type notePageData struct {
	Title     string
	Course    string
	Timestamp string
	Content   template.HTML
}

// timestampRef matches inline [mm:ss] and [h:mm:ss] references in note text.
var timestampRef = regexp.MustCompile(`\[(\d{1,2}:)?\d{1,2}:\d{2}\]`)

// NewNoteHandler creates a new handler for notes.
func NewNoteHandler(svc *library.Service) *NoteHandler {
	tmpl := template.Must(template.New("note").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 2rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    article h2, article h3, article h4 {
      color: #c7d2fe;
      margin-top: 1.5rem;
    }
    article p {
      color: #cbd5f5;
    }
    pre {
      background: #0f172a;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.2);
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
      color: #cbd5ff;
    }
    pre code {
      background: transparent;
      padding: 0;
    }
    blockquote {
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      padding-left: 1rem;
      margin-left: 0;
      color: #93c5fd;
      background: rgba(59, 130, 246, 0.08);
      border-radius: 6px;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
    a.timestamp {
      background: rgba(96, 165, 250, 0.15);
      padding: 1px 6px;
      border-radius: 6px;
      font-variant-numeric: tabular-nums;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Course: {{.Course}} &middot; At {{.Timestamp}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &NoteHandler{
		svc: svc,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// NoteRequest represents the payload for creating a note. Screenshot is an
// optional base64-encoded image captured at the note's timestamp.
type NoteRequest struct {
	VideoID    string  `json:"video_id"`
	Content    string  `json:"content"`
	Timestamp  float64 `json:"timestamp"`
	Screenshot string  `json:"screenshot,omitempty"`
}

// NoteUpdateRequest represents the payload for updating a note's content.
type NoteUpdateRequest struct {
	Content string `json:"content"`
}

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID            string  `json:"id"`
	CourseID      string  `json:"course_id"`
	VideoID       string  `json:"video_id"`
	Content       string  `json:"content"`
	Timestamp     float64 `json:"timestamp"`
	HasScreenshot bool    `json:"has_screenshot"`
	CreatedAt     int64   `json:"created_at"`
	UpdatedAt     int64   `json:"updated_at"`
}

func noteResponse(n *storage.NoteRecord) NoteResponse {
	return NoteResponse{
		ID:            n.ID,
		CourseID:      n.CourseID,
		VideoID:       n.VideoID,
		Content:       n.Content,
		Timestamp:     n.Timestamp,
		HasScreenshot: len(n.Screenshot) > 0,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.VideoID == "" {
		writeError(ctx, w, http.StatusBadRequest, "video_id is required")
		return
	}

	var screenshot []byte
	if req.Screenshot != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Screenshot)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, "screenshot must be base64-encoded")
			return
		}
		screenshot = decoded
	}

	note, err := h.svc.AddNote(ctx, req.VideoID, req.Content, req.Timestamp, screenshot)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to create note")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, noteResponse(note))
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	note, err := h.svc.Note(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, noteResponse(note))
}

// Update handles PUT /api/notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req NoteUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.svc.UpdateNote(ctx, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to update note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, noteResponse(note))
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.svc.DeleteNote(ctx, chi.URLParam(r, "id")); err != nil {
		writeServiceError(ctx, w, err, "Failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForVideo handles GET /api/videos/{id}/notes.
func (h *NoteHandler) ForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notes, err := h.svc.NotesForVideo(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to list notes")
		return
	}
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, noteResponse(&notes[i]))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// ForCourse handles GET /api/courses/{id}/notes.
func (h *NoteHandler) ForCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notes, err := h.svc.NotesForCourse(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to list notes")
		return
	}
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, noteResponse(&notes[i]))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

// Page handles GET /notes/{id}/page: it renders the note's markdown as an
// HTML page, with [mm:ss] references linked to the video's watch position.
func (h *NoteHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	note, err := h.svc.Note(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to load note")
		return
	}

	courseName := ""
	if course, err := h.svc.Course(ctx, note.CourseID); err == nil {
		courseName = course.Name
	}

	linked := linkifyTimestamps(note.Content, note.VideoID)
	htmlContent, err := h.renderMarkdown([]byte(linked))
	if err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "note_id", note.ID, "error", err)
		http.Error(w, "failed to render note", http.StatusInternalServerError)
		return
	}

	pageData := notePageData{
		Title:     noteTitle(note.Content),
		Course:    courseName,
		Timestamp: media.FormatDuration(note.Timestamp),
		Content:   template.HTML(htmlContent),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute note template", "note_id", note.ID, "error", err)
	}
}

func (h *NoteHandler) renderMarkdown(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := h.parser.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// linkifyTimestamps rewrites [mm:ss] references as markdown links pointing
// at the video's content URL with a position query.
func linkifyTimestamps(content, videoID string) string {
	return timestampRef.ReplaceAllStringFunc(content, func(match string) string {
		label := strings.Trim(match, "[]")
		seconds, ok := parseTimestamp(label)
		if !ok {
			return match
		}
		return fmt.Sprintf(`<a class="timestamp" href="/api/videos/%s/content?t=%d">%s</a>`, videoID, seconds, label)
	})
}

// parseTimestamp converts "mm:ss" or "h:mm:ss" to whole seconds.
func parseTimestamp(label string) (int, bool) {
	parts := strings.Split(label, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// noteTitle derives a page title from the note's first line.
func noteTitle(content string) string {
	line := content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "# "))
	if line == "" {
		return "Note"
	}
	if len(line) > 80 {
		line = line[:80]
	}
	return line
}
