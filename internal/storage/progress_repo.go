package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_progress_store.go -package=mocks courseflow/internal/storage ProgressStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ProgressStore defines the interface for watch-progress storage operations.
type ProgressStore interface {
	// GetByVideo gets the progress record for a video.
	// Returns ErrNotFound if the video has never been checkpointed.
	GetByVideo(ctx context.Context, videoID string) (*ProgressRecord, error)
	// Upsert inserts a new progress record or replaces the existing one,
	// keyed by video ID. The original created_at is preserved on update.
	Upsert(ctx context.Context, progress *ProgressRecord) error
	// ListByCourse returns all progress records for a course.
	ListByCourse(ctx context.Context, courseID string) ([]ProgressRecord, error)
	// ListRecent returns up to limit progress records, most recently watched
	// first.
	ListRecent(ctx context.Context, limit int) ([]ProgressRecord, error)
	// CountCompletedByCourse counts completed videos for a course.
	CountCompletedByCourse(ctx context.Context, courseID string) (int, error)
}

// ProgressRepo provides methods for progress operations.
// It implements the ProgressStore interface.
type ProgressRepo struct {
	db *sql.DB
}

// NewProgressRepo creates a new ProgressRepo.
func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

const progressColumns = "video_id, course_id, watch_time, completed, last_watched, created_at, updated_at"

func scanProgress(row interface{ Scan(...any) error }) (*ProgressRecord, error) {
	var p ProgressRecord
	err := row.Scan(&p.VideoID, &p.CourseID, &p.WatchTime, &p.Completed,
		&p.LastWatched, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByVideo gets the progress record for a video.
// Returns ErrNotFound if the video has never been checkpointed.
func (r *ProgressRepo) GetByVideo(ctx context.Context, videoID string) (*ProgressRecord, error) {
	progress, err := scanProgress(r.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM progress WHERE video_id = ?", videoID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	return progress, nil
}

// Upsert inserts a new progress record or replaces the existing one.
// Uses SQLite INSERT ... ON CONFLICT so repeated identical checkpoints
// converge on the same stored state.
func (r *ProgressRepo) Upsert(ctx context.Context, progress *ProgressRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (video_id) DO UPDATE SET
		 watch_time = excluded.watch_time, completed = excluded.completed,
		 last_watched = excluded.last_watched, updated_at = excluded.updated_at`,
		progress.VideoID, progress.CourseID, progress.WatchTime, progress.Completed,
		progress.LastWatched, progress.CreatedAt, progress.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", mapDriverError(err))
	}
	return nil
}

// ListByCourse returns all progress records for a course.
func (r *ProgressRepo) ListByCourse(ctx context.Context, courseID string) ([]ProgressRecord, error) {
	return r.list(ctx,
		"SELECT "+progressColumns+" FROM progress WHERE course_id = ?", courseID)
}

// ListRecent returns up to limit progress records, most recently watched first.
func (r *ProgressRepo) ListRecent(ctx context.Context, limit int) ([]ProgressRecord, error) {
	return r.list(ctx,
		"SELECT "+progressColumns+" FROM progress ORDER BY last_watched DESC LIMIT ?", limit)
}

// CountCompletedByCourse counts completed videos for a course.
func (r *ProgressRepo) CountCompletedByCourse(ctx context.Context, courseID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM progress WHERE course_id = ? AND completed = 1", courseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed progress: %w", err)
	}
	return n, nil
}

func (r *ProgressRepo) list(ctx context.Context, query string, arg any) ([]ProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ProgressRecord
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		records = append(records, *progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
