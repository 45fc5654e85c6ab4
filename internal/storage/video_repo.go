package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_video_store.go -package=mocks courseflow/internal/storage VideoStore

import (
	"context"
	"database/sql"
	"fmt"
)

// VideoStore defines the interface for video storage operations.
// Videos are immutable after creation and are removed only by the owning
// course's cascade delete.
type VideoStore interface {
	// Insert inserts a single video.
	Insert(ctx context.Context, video *VideoRecord) error
	// GetByID gets a video by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*VideoRecord, error)
	// ListBySection returns all videos in a section in display order.
	ListBySection(ctx context.Context, sectionID string) ([]VideoRecord, error)
	// ListByCourse returns all videos of a course ordered by section and
	// display order.
	ListByCourse(ctx context.Context, courseID string) ([]VideoRecord, error)
}

// VideoRepo provides methods for video operations.
// It implements the VideoStore interface.
type VideoRepo struct {
	db *sql.DB
}

// NewVideoRepo creates a new VideoRepo.
func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

const videoColumns = `id, course_id, section_id, title, duration, content, thumbnail,
	file_path, file_size, format, ord, created_at`

func scanVideo(row interface{ Scan(...any) error }) (*VideoRecord, error) {
	var v VideoRecord
	var filePath, format sql.NullString
	err := row.Scan(
		&v.ID, &v.CourseID, &v.SectionID, &v.Title, &v.Duration, &v.Content, &v.Thumbnail,
		&filePath, &v.FileSize, &format, &v.Order, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.FilePath = filePath.String
	v.Format = format.String
	return &v, nil
}

// Insert inserts a single video.
func (r *VideoRepo) Insert(ctx context.Context, video *VideoRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (`+videoColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		video.ID, video.CourseID, video.SectionID, video.Title, video.Duration,
		video.Content, video.Thumbnail, nullStr(video.FilePath), video.FileSize,
		video.Format, video.Order, video.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", mapDriverError(err))
	}
	return nil
}

// GetByID gets a video by its ID. Returns ErrNotFound if not found.
func (r *VideoRepo) GetByID(ctx context.Context, id string) (*VideoRecord, error) {
	video, err := scanVideo(r.db.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}
	return video, nil
}

// ListBySection returns all videos in a section ordered by display order.
func (r *VideoRepo) ListBySection(ctx context.Context, sectionID string) ([]VideoRecord, error) {
	return r.list(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE section_id = ? ORDER BY ord", sectionID)
}

// ListByCourse returns all videos of a course ordered by section then display
// order.
func (r *VideoRepo) ListByCourse(ctx context.Context, courseID string) ([]VideoRecord, error) {
	return r.list(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE course_id = ? ORDER BY section_id, ord", courseID)
}

func (r *VideoRepo) list(ctx context.Context, query string, arg any) ([]VideoRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var videos []VideoRecord
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return videos, nil
}
