package library

import (
	"fmt"
	"log/slog"
	"time"

	"courseflow/internal/localdir"
	"courseflow/internal/media"
	"courseflow/internal/storage"
)

// Policy holds the tunable behavior of the library. The completion threshold
// and checkpoint cadence are policy choices, not structural requirements, so
// they are configured rather than fixed.
type Policy struct {
	// CompletionThreshold is the watched fraction of a video's duration
	// beyond which it counts as completed.
	CompletionThreshold float64
	// CheckpointInterval is the cadence of playback progress writes.
	CheckpointInterval time.Duration
	// MaxEmbedBytes caps a single embedded video blob. 0 means no cap.
	MaxEmbedBytes int64
	// QuotaBytes caps total database size for embedded imports. 0 means no
	// quota and makes the usage estimate report no quota.
	QuotaBytes int64
	// DBPath is the database file location, used for usage estimates.
	DBPath string
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		CompletionThreshold: 0.95,
		CheckpointInterval:  5 * time.Second,
	}
}

// Deps bundles the stores and collaborators the Service composes.
type Deps struct {
	Courses  storage.CourseStore
	Sections storage.SectionStore
	Videos   storage.VideoStore
	Progress storage.ProgressStore
	Notes    storage.NoteStore
	Tasks    storage.TaskStore
	Settings storage.SettingsStore

	Dirs *localdir.Manager

	// Extractor and Thumbs are optional; without them imports fall back to
	// extension-based format detection and no thumbnails.
	Extractor media.MetadataExtractor
	Thumbs    media.ThumbnailGenerator
}

// Service is the single entry point consumers use. It composes the record
// store and the directory access adapter, applies business rules, and
// returns domain records.
type Service struct {
	courses  storage.CourseStore
	sections storage.SectionStore
	videos   storage.VideoStore
	progress storage.ProgressStore
	notes    storage.NoteStore
	tasks    storage.TaskStore
	settings storage.SettingsStore

	dirs      *localdir.Manager
	extractor media.MetadataExtractor
	thumbs    media.ThumbnailGenerator

	policy Policy
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(deps Deps, policy Policy) *Service {
	if policy.CompletionThreshold <= 0 || policy.CompletionThreshold > 1 {
		policy.CompletionThreshold = DefaultPolicy().CompletionThreshold
	}
	if policy.CheckpointInterval <= 0 {
		policy.CheckpointInterval = DefaultPolicy().CheckpointInterval
	}
	return &Service{
		courses:   deps.Courses,
		sections:  deps.Sections,
		videos:    deps.Videos,
		progress:  deps.Progress,
		notes:     deps.Notes,
		tasks:     deps.Tasks,
		settings:  deps.Settings,
		dirs:      deps.Dirs,
		extractor: deps.Extractor,
		thumbs:    deps.Thumbs,
		policy:    policy,
		logger:    slog.Default(),
	}
}

// Policy returns the service's active policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// nowMillis is the record timestamp source (Unix milliseconds).
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
