package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"courseflow/internal/storage"
)

// AddNote attaches a markdown note to a video at a playback timestamp. The
// owning course is derived from the video, so a note can never point at a
// course the video does not belong to.
func (s *Service) AddNote(ctx context.Context, videoID, content string, timestamp float64, screenshot []byte) (*storage.NoteRecord, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "note content is required"}
	}
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("adding note to video %s: %w", videoID, err)
	}

	now := nowMillis()
	note := &storage.NoteRecord{
		ID:         uuid.New().String(),
		CourseID:   video.CourseID,
		VideoID:    videoID,
		Content:    content,
		Timestamp:  timestamp,
		Screenshot: screenshot,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.notes.Insert(ctx, note); err != nil {
		return nil, fmt.Errorf("adding note to video %s: %w", videoID, err)
	}
	return note, nil
}

// Note returns a single note.
func (s *Service) Note(ctx context.Context, id string) (*storage.NoteRecord, error) {
	return s.notes.GetByID(ctx, id)
}

// UpdateNote replaces a note's markdown content.
func (s *Service) UpdateNote(ctx context.Context, id, content string) (*storage.NoteRecord, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "note content is required"}
	}
	if err := s.notes.UpdateContent(ctx, id, content, nowMillis()); err != nil {
		return nil, fmt.Errorf("updating note %s: %w", id, err)
	}
	return s.notes.GetByID(ctx, id)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	return nil
}

// NotesForVideo lists a video's notes ordered by playback timestamp.
func (s *Service) NotesForVideo(ctx context.Context, videoID string) ([]storage.NoteRecord, error) {
	return s.notes.ListByVideo(ctx, videoID)
}

// NotesForCourse lists every note in a course.
func (s *Service) NotesForCourse(ctx context.Context, courseID string) ([]storage.NoteRecord, error) {
	return s.notes.ListByCourse(ctx, courseID)
}
