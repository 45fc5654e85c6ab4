package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks courseflow/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"fmt"
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Insert inserts a new note. The note.ID must be set (UUID).
	Insert(ctx context.Context, note *NoteRecord) error
	// GetByID gets a note by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*NoteRecord, error)
	// UpdateContent replaces a note's content and refreshes updated_at.
	UpdateContent(ctx context.Context, id, content string, at int64) error
	// Delete removes a note by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// ListByVideo returns all notes for a video ordered by capture timestamp.
	ListByVideo(ctx context.Context, videoID string) ([]NoteRecord, error)
	// ListByCourse returns all notes for a course ordered by creation time.
	ListByCourse(ctx context.Context, courseID string) ([]NoteRecord, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

const noteColumns = "id, course_id, video_id, content, timestamp, screenshot, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (*NoteRecord, error) {
	var n NoteRecord
	err := row.Scan(&n.ID, &n.CourseID, &n.VideoID, &n.Content, &n.Timestamp,
		&n.Screenshot, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Insert inserts a new note.
func (r *NoteRepo) Insert(ctx context.Context, note *NoteRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.CourseID, note.VideoID, note.Content, note.Timestamp,
		note.Screenshot, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", mapDriverError(err))
	}
	return nil
}

// GetByID gets a note by its ID. Returns ErrNotFound if not found.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*NoteRecord, error) {
	note, err := scanNote(r.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// UpdateContent replaces a note's content and refreshes updated_at.
func (r *NoteRepo) UpdateContent(ctx context.Context, id, content string, at int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notes SET content = ?, updated_at = ? WHERE id = ?", content, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note by ID. Returns ErrNotFound if absent.
func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByVideo returns all notes for a video ordered by capture timestamp.
func (r *NoteRepo) ListByVideo(ctx context.Context, videoID string) ([]NoteRecord, error) {
	return r.list(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE video_id = ? ORDER BY timestamp", videoID)
}

// ListByCourse returns all notes for a course ordered by creation time.
func (r *NoteRepo) ListByCourse(ctx context.Context, courseID string) ([]NoteRecord, error) {
	return r.list(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE course_id = ? ORDER BY created_at", courseID)
}

func (r *NoteRepo) list(ctx context.Context, query string, arg any) ([]NoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []NoteRecord
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return notes, nil
}
