package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SectionStore defines the interface for section storage operations.
// Sections are immutable after creation and are removed only by the owning
// course's cascade delete.
type SectionStore interface {
	// Insert inserts a single section.
	Insert(ctx context.Context, section *SectionRecord) error
	// GetByID gets a section by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*SectionRecord, error)
	// ListByCourse returns all sections of a course in display order.
	ListByCourse(ctx context.Context, courseID string) ([]SectionRecord, error)
}

// SectionRepo provides methods for section operations.
// It implements the SectionStore interface.
type SectionRepo struct {
	db *sql.DB
}

// NewSectionRepo creates a new SectionRepo.
func NewSectionRepo(db *sql.DB) *SectionRepo {
	return &SectionRepo{db: db}
}

// Insert inserts a single section.
func (r *SectionRepo) Insert(ctx context.Context, section *SectionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sections (id, course_id, name, ord, created_at) VALUES (?, ?, ?, ?, ?)",
		section.ID, section.CourseID, section.Name, section.Order, section.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert section: %w", mapDriverError(err))
	}
	return nil
}

// GetByID gets a section by its ID. Returns ErrNotFound if not found.
func (r *SectionRepo) GetByID(ctx context.Context, id string) (*SectionRecord, error) {
	var s SectionRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, course_id, name, ord, created_at FROM sections WHERE id = ?", id,
	).Scan(&s.ID, &s.CourseID, &s.Name, &s.Order, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query section: %w", err)
	}
	return &s, nil
}

// ListByCourse returns all sections of a course ordered by display order.
func (r *SectionRepo) ListByCourse(ctx context.Context, courseID string) ([]SectionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, course_id, name, ord, created_at FROM sections WHERE course_id = ? ORDER BY ord",
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sections: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sections []SectionRecord
	for rows.Next() {
		var s SectionRecord
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Name, &s.Order, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sections, nil
}
