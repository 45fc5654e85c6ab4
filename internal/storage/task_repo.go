package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// TaskStore defines the interface for task storage operations.
// Status transitions are unconstrained; any status may move to any other.
type TaskStore interface {
	// Insert inserts a new task. The task.ID must be set (UUID).
	Insert(ctx context.Context, task *TaskRecord) error
	// GetByID gets a task by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)
	// Update replaces a task's mutable fields. updated_at must be set by the
	// caller. Returns ErrNotFound if absent.
	Update(ctx context.Context, task *TaskRecord) error
	// Delete removes a task by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
	// ListAll returns every task, newest first.
	ListAll(ctx context.Context) ([]TaskRecord, error)
	// ListByStatus returns tasks with the given status, newest first.
	ListByStatus(ctx context.Context, status string) ([]TaskRecord, error)
	// ListByCourse returns the tasks linked to a course, newest first.
	ListByCourse(ctx context.Context, courseID string) ([]TaskRecord, error)
}

// TaskRepo provides methods for task operations.
// It implements the TaskStore interface.
type TaskRepo struct {
	db *sql.DB
}

// NewTaskRepo creates a new TaskRepo.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = "id, title, status, priority, course_id, video_id, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (*TaskRecord, error) {
	var t TaskRecord
	var courseID, videoID sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &courseID, &videoID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.CourseID = courseID.String
	t.VideoID = videoID.String
	return &t, nil
}

// Insert inserts a new task.
func (r *TaskRepo) Insert(ctx context.Context, task *TaskRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Status, task.Priority,
		nullStr(task.CourseID), nullStr(task.VideoID), task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", mapDriverError(err))
	}
	return nil
}

// GetByID gets a task by its ID. Returns ErrNotFound if not found.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*TaskRecord, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return task, nil
}

// Update replaces a task's mutable fields.
func (r *TaskRepo) Update(ctx context.Context, task *TaskRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, status = ?, priority = ?, course_id = ?, video_id = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, task.Status, task.Priority,
		nullStr(task.CourseID), nullStr(task.VideoID), task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. Returns ErrNotFound if absent.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every task, newest first.
func (r *TaskRepo) ListAll(ctx context.Context) ([]TaskRecord, error) {
	return r.list(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at DESC")
}

// ListByStatus returns tasks with the given status, newest first.
func (r *TaskRepo) ListByStatus(ctx context.Context, status string) ([]TaskRecord, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status = ? ORDER BY created_at DESC", status)
}

// ListByCourse returns the tasks linked to a course, newest first.
func (r *TaskRepo) ListByCourse(ctx context.Context, courseID string) ([]TaskRecord, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE course_id = ? ORDER BY created_at DESC", courseID)
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []TaskRecord
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tasks, nil
}
