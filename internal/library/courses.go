package library

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/storage"
)

// Courses lists all courses, most recently accessed first.
func (s *Service) Courses(ctx context.Context) ([]storage.CourseRecord, error) {
	return s.courses.ListByLastAccessed(ctx)
}

// Course returns a single course and marks it as accessed.
func (s *Service) Course(ctx context.Context, id string) (*storage.CourseRecord, error) {
	if err := s.courses.TouchLastAccessed(ctx, id, nowMillis()); err != nil {
		return nil, fmt.Errorf("loading course %s: %w", id, err)
	}
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading course %s: %w", id, err)
	}
	return course, nil
}

// SectionOutline is a section with its videos in playback order.
type SectionOutline struct {
	Section storage.SectionRecord
	Videos  []storage.VideoRecord
}

// CourseOutline returns the course's sections in order, each with its
// ordered videos.
func (s *Service) CourseOutline(ctx context.Context, courseID string) ([]SectionOutline, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("outline for course %s: %w", courseID, err)
	}
	sections, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("outline for course %s: %w", courseID, err)
	}
	outline := make([]SectionOutline, 0, len(sections))
	for _, sec := range sections {
		videos, err := s.videos.ListBySection(ctx, sec.ID)
		if err != nil {
			return nil, fmt.Errorf("outline for course %s: %w", courseID, err)
		}
		outline = append(outline, SectionOutline{Section: sec, Videos: videos})
	}
	return outline, nil
}

// DeleteCourse removes a course together with everything attached to it:
// sections, videos, progress, notes, and any tasks linked to the course.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting course %s: %w", id, err)
	}
	if err := s.courses.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("deleting course %s: %w", id, err)
	}
	s.logger.Info("deleted course", "course_id", id, "name", course.Name)
	return nil
}

// Video returns a single video record.
func (s *Service) Video(ctx context.Context, id string) (*storage.VideoRecord, error) {
	return s.videos.GetByID(ctx, id)
}

// ProgressForVideo returns the watch progress for a video, or nil when the
// video has never been watched.
func (s *Service) ProgressForVideo(ctx context.Context, videoID string) (*storage.ProgressRecord, error) {
	rec, err := s.progress.GetByVideo(ctx, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("progress for video %s: %w", videoID, err)
	}
	return rec, nil
}

// CourseProgress returns every progress record for a course.
func (s *Service) CourseProgress(ctx context.Context, courseID string) ([]storage.ProgressRecord, error) {
	return s.progress.ListByCourse(ctx, courseID)
}

// RecentProgress returns the most recently watched progress records across
// all courses.
func (s *Service) RecentProgress(ctx context.Context, limit int) ([]storage.ProgressRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.progress.ListRecent(ctx, limit)
}

// CourseStats summarizes watch activity for a course.
type CourseStats struct {
	CourseID        string
	TotalVideos     int
	CompletedVideos int
	TotalDuration   float64
	TotalWatchTime  float64
}

// Stats computes watch statistics for a course.
func (s *Service) Stats(ctx context.Context, courseID string) (*CourseStats, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("stats for course %s: %w", courseID, err)
	}
	records, err := s.progress.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("stats for course %s: %w", courseID, err)
	}
	stats := &CourseStats{
		CourseID:        courseID,
		TotalVideos:     course.TotalVideos,
		CompletedVideos: course.CompletedVideos,
		TotalDuration:   course.TotalDuration,
	}
	for _, rec := range records {
		stats.TotalWatchTime += rec.WatchTime
	}
	return stats, nil
}
