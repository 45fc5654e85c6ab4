package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"courseflow/internal/storage"
)

func validStatus(s string) bool {
	switch s {
	case storage.TaskPending, storage.TaskInProgress, storage.TaskCompleted:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch p {
	case storage.PriorityLow, storage.PriorityMedium, storage.PriorityHigh:
		return true
	}
	return false
}

// AddTaskRequest describes a new task. CourseID and VideoID are optional
// links; a linked task is removed when its course is deleted.
type AddTaskRequest struct {
	Title    string
	Priority string
	CourseID string
	VideoID  string
}

// AddTask creates a task in pending status.
func (s *Service) AddTask(ctx context.Context, req AddTaskRequest) (*storage.TaskRecord, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "task title is required"}
	}
	if req.Priority == "" {
		req.Priority = storage.PriorityMedium
	}
	if !validPriority(req.Priority) {
		return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", req.Priority)}
	}
	if req.CourseID != "" {
		if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
			return nil, fmt.Errorf("adding task for course %s: %w", req.CourseID, err)
		}
	}

	now := nowMillis()
	task := &storage.TaskRecord{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Status:    storage.TaskPending,
		Priority:  req.Priority,
		CourseID:  req.CourseID,
		VideoID:   req.VideoID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	return task, nil
}

// Task returns a single task.
func (s *Service) Task(ctx context.Context, id string) (*storage.TaskRecord, error) {
	return s.tasks.GetByID(ctx, id)
}

// UpdateTaskRequest holds the mutable task fields. Empty fields keep their
// current value.
type UpdateTaskRequest struct {
	Title    string
	Status   string
	Priority string
}

// UpdateTask applies the request to an existing task.
func (s *Service) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*storage.TaskRecord, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Status != "" {
		if !validStatus(req.Status) {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", req.Status)}
		}
		task.Status = req.Status
	}
	if req.Priority != "" {
		if !validPriority(req.Priority) {
			return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", req.Priority)}
		}
		task.Priority = req.Priority
	}
	task.UpdatedAt = nowMillis()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	return task, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// Tasks lists tasks, optionally filtered by status or course. Both filters
// empty lists everything, newest first.
func (s *Service) Tasks(ctx context.Context, status, courseID string) ([]storage.TaskRecord, error) {
	switch {
	case status != "":
		if !validStatus(status) {
			return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
		}
		return s.tasks.ListByStatus(ctx, status)
	case courseID != "":
		return s.tasks.ListByCourse(ctx, courseID)
	default:
		return s.tasks.ListAll(ctx)
	}
}
