package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_course_store.go -package=mocks courseflow/internal/storage CourseStore

import (
	"context"
	"database/sql"
	"fmt"
)

// CourseStore defines the interface for course storage operations.
type CourseStore interface {
	// InsertGraph persists a course together with all of its sections and
	// videos as one atomic unit.
	InsertGraph(ctx context.Context, course *CourseRecord, sections []SectionRecord, videos []VideoRecord) error
	// GetByID gets a course by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*CourseRecord, error)
	// ListByLastAccessed returns all courses, freshest first.
	ListByLastAccessed(ctx context.Context) ([]CourseRecord, error)
	// ListByCreated returns all courses ordered by creation time.
	ListByCreated(ctx context.Context) ([]CourseRecord, error)
	// UpdateCounters updates the denormalized completed-videos counter and
	// bumps last_accessed/updated_at.
	UpdateCounters(ctx context.Context, id string, completedVideos int, at int64) error
	// TouchLastAccessed bumps last_accessed without changing counters.
	TouchLastAccessed(ctx context.Context, id string, at int64) error
	// DeleteCascade removes the course and every section, video, progress,
	// note, and linked task scoped to it, all or nothing.
	DeleteCascade(ctx context.Context, id string) error
}

// CourseRepo provides methods for course operations.
// It implements the CourseStore interface.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepo.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

const courseColumns = `id, name, thumbnail, total_videos, completed_videos, total_duration,
	created_at, updated_at, last_accessed, storage_type, directory_ref_id, directory_root`

func scanCourse(row interface{ Scan(...any) error }) (*CourseRecord, error) {
	var c CourseRecord
	var refID, root sql.NullString
	err := row.Scan(
		&c.ID, &c.Name, &c.Thumbnail, &c.TotalVideos, &c.CompletedVideos, &c.TotalDuration,
		&c.CreatedAt, &c.UpdatedAt, &c.LastAccessed, &c.StorageType, &refID, &root,
	)
	if err != nil {
		return nil, err
	}
	c.DirectoryRefID = refID.String
	c.DirectoryRoot = root.String
	return &c, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// InsertGraph persists a course together with all of its sections and videos
// in a single transaction, so a reader never observes a partially imported
// course.
func (r *CourseRepo) InsertGraph(ctx context.Context, course *CourseRecord, sections []SectionRecord, videos []VideoRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO courses (`+courseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID, course.Name, course.Thumbnail, course.TotalVideos, course.CompletedVideos,
		course.TotalDuration, course.CreatedAt, course.UpdatedAt, course.LastAccessed,
		course.StorageType, nullStr(course.DirectoryRefID), nullStr(course.DirectoryRoot),
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", mapDriverError(err))
	}

	for i := range sections {
		s := &sections[i]
		_, err = tx.ExecContext(ctx,
			"INSERT INTO sections (id, course_id, name, ord, created_at) VALUES (?, ?, ?, ?, ?)",
			s.ID, s.CourseID, s.Name, s.Order, s.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert section %q: %w", s.Name, mapDriverError(err))
		}
	}

	for i := range videos {
		v := &videos[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO videos (id, course_id, section_id, title, duration, content, thumbnail,
			 file_path, file_size, format, ord, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.CourseID, v.SectionID, v.Title, v.Duration, v.Content, v.Thumbnail,
			nullStr(v.FilePath), v.FileSize, v.Format, v.Order, v.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert video %q: %w", v.Title, mapDriverError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", mapDriverError(err))
	}
	return nil
}

// GetByID gets a course by its ID. Returns ErrNotFound if not found.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*CourseRecord, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return course, nil
}

// ListByLastAccessed returns all courses ordered by last access, freshest first.
func (r *CourseRepo) ListByLastAccessed(ctx context.Context) ([]CourseRecord, error) {
	return r.list(ctx, "SELECT "+courseColumns+" FROM courses ORDER BY last_accessed DESC")
}

// ListByCreated returns all courses ordered by creation time, oldest first.
func (r *CourseRepo) ListByCreated(ctx context.Context) ([]CourseRecord, error) {
	return r.list(ctx, "SELECT "+courseColumns+" FROM courses ORDER BY created_at")
}

func (r *CourseRepo) list(ctx context.Context, query string) ([]CourseRecord, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var courses []CourseRecord
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return courses, nil
}

// UpdateCounters updates the completed-videos counter and bumps
// last_accessed/updated_at. The counter is clamped so it never exceeds
// total_videos.
func (r *CourseRepo) UpdateCounters(ctx context.Context, id string, completedVideos int, at int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE courses SET completed_videos = MIN(?, total_videos), last_accessed = ?, updated_at = ?
		 WHERE id = ?`,
		completedVideos, at, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update course counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastAccessed bumps last_accessed without changing counters.
func (r *CourseRepo) TouchLastAccessed(ctx context.Context, id string, at int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE courses SET last_accessed = ? WHERE id = ?", at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade removes a course and all dependent records in one
// transaction. Dependents go first so foreign keys hold at every step, and
// readers never observe a partial cascade.
func (r *CourseRepo) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cascade transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range []string{
		"DELETE FROM notes WHERE course_id = ?",
		"DELETE FROM progress WHERE course_id = ?",
		"DELETE FROM tasks WHERE course_id = ?",
		"DELETE FROM videos WHERE course_id = ?",
		"DELETE FROM sections WHERE course_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to cascade course delete: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cascade: %w", err)
	}
	return nil
}
