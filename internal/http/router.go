package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courseflow/internal/handlers"
	"courseflow/internal/library"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service *library.Service
	DB      *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	courses := handlers.NewCourseHandler(deps.Service)
	progress := handlers.NewProgressHandler(deps.Service)
	notes := handlers.NewNoteHandler(deps.Service)
	tasks := handlers.NewTaskHandler(deps.Service)
	settings := handlers.NewSettingsHandler(deps.Service)
	health := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", health)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courses.List)
			r.Post("/", courses.Link)
			r.Get("/{id}", courses.Get)
			r.Delete("/{id}", courses.Delete)
			r.Get("/{id}/outline", courses.Outline)
			r.Get("/{id}/stats", courses.Stats)
			r.Get("/{id}/notes", notes.ForCourse)
			r.Post("/{id}/authorize", courses.Authorize)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/{id}", courses.GetVideo)
			r.Get("/{id}/content", courses.VideoContent)
			r.Get("/{id}/progress", progress.ForVideo)
			r.Get("/{id}/notes", notes.ForVideo)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Post("/checkpoint", progress.Checkpoint)
			r.Get("/recent", progress.Recent)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", notes.Create)
			r.Get("/{id}", notes.Get)
			r.Put("/{id}", notes.Update)
			r.Delete("/{id}", notes.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.List)
			r.Post("/", tasks.Create)
			r.Get("/{id}", tasks.Get)
			r.Put("/{id}", tasks.Update)
			r.Delete("/{id}", tasks.Delete)
		})

		r.Get("/settings", settings.Get)
		r.Put("/settings", settings.Put)
		r.Get("/storage/usage", settings.Usage)
		r.Get("/export", settings.Export)
	})

	// Rendered note pages live outside /api: they are HTML, not JSON.
	r.Get("/notes/{id}/page", notes.Page)

	return r
}
