package storage

// Storage strategies for a course's video bytes.
const (
	// StorageEmbedded stores video content directly in the database.
	StorageEmbedded = "embedded"
	// StorageLocalRef keeps video bytes on disk and stores only a relative
	// path plus a revocable directory reference.
	StorageLocalRef = "local-reference"
)

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// SettingsID is the fixed identifier of the user settings singleton.
const SettingsID = "current"

// CourseRecord represents a course in the database.
// Timestamps are Unix milliseconds.
type CourseRecord struct {
	ID              string
	Name            string
	Thumbnail       []byte // optional JPEG still
	TotalVideos     int
	CompletedVideos int
	TotalDuration   float64 // seconds
	CreatedAt       int64
	UpdatedAt       int64
	LastAccessed    int64
	StorageType     string // StorageEmbedded or StorageLocalRef
	DirectoryRefID  string // only for StorageLocalRef
	DirectoryRoot   string // only for StorageLocalRef
}

// SectionRecord represents a section (one per source subfolder) in a course.
// Sections are never updated after creation.
type SectionRecord struct {
	ID        string
	CourseID  string
	Name      string
	Order     int // zero-based, unique within the course
	CreatedAt int64
}

// VideoRecord represents a single video in a section.
// Exactly one of Content and FilePath is populated, determined by the owning
// course's storage type.
type VideoRecord struct {
	ID        string
	CourseID  string
	SectionID string
	Title     string
	Duration  float64 // seconds
	Content   []byte  // embedded storage only
	Thumbnail []byte
	FilePath  string // local-reference storage: '/'-separated path relative to the course root
	FileSize  int64
	Format    string // MIME string
	Order     int    // zero-based, unique within the section
	CreatedAt int64
}

// ProgressRecord tracks watch progress, keyed one-to-one by video ID.
type ProgressRecord struct {
	VideoID     string
	CourseID    string
	WatchTime   float64 // cumulative seconds
	Completed   bool
	LastWatched int64
	CreatedAt   int64
	UpdatedAt   int64
}

// NoteRecord is a timestamped markdown note attached to a video.
type NoteRecord struct {
	ID         string
	CourseID   string
	VideoID    string
	Content    string  // markdown, may contain [mm:ss] timestamp references
	Timestamp  float64 // seconds into the video
	Screenshot []byte
	CreatedAt  int64
	UpdatedAt  int64
}

// TaskRecord is a standalone to-do item, optionally linked to a course/video.
type TaskRecord struct {
	ID        string
	Title     string
	Status    string
	Priority  string
	CourseID  string // empty when unlinked
	VideoID   string // empty when unlinked
	CreatedAt int64
	UpdatedAt int64
}

// SettingsRecord is the user settings singleton (ID is always SettingsID).
type SettingsRecord struct {
	ID           string
	AutoPlay     bool
	AutoNext     bool
	DefaultSpeed float64
	Theme        string
}
