package library

import (
	"context"
	"fmt"
	"time"

	"courseflow/internal/storage"
)

// Snapshot is a portable JSON view of the whole library. Binary fields
// (video content, thumbnails, screenshots) are nulled out so the export
// stays reviewable and small; local-reference paths survive intact.
type Snapshot struct {
	ExportedAt string           `json:"exported_at"`
	Courses    []CourseExport   `json:"courses"`
	Sections   []SectionExport  `json:"sections"`
	Videos     []VideoExport    `json:"videos"`
	Progress   []ProgressExport `json:"progress"`
	Notes      []NoteExport     `json:"notes"`
	Tasks      []TaskExport     `json:"tasks"`
	Settings   *SettingsExport  `json:"settings"`
}

type CourseExport struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Thumbnail       any     `json:"thumbnail"`
	TotalVideos     int     `json:"total_videos"`
	CompletedVideos int     `json:"completed_videos"`
	TotalDuration   float64 `json:"total_duration"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
	LastAccessed    int64   `json:"last_accessed"`
	StorageType     string  `json:"storage_type"`
	DirectoryRoot   string  `json:"directory_root,omitempty"`
}

type SectionExport struct {
	ID        string `json:"id"`
	CourseID  string `json:"course_id"`
	Name      string `json:"name"`
	Order     int    `json:"order"`
	CreatedAt int64  `json:"created_at"`
}

type VideoExport struct {
	ID        string  `json:"id"`
	SectionID string  `json:"section_id"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Content   any     `json:"content"`
	Thumbnail any     `json:"thumbnail"`
	FilePath  string  `json:"file_path,omitempty"`
	FileSize  int64   `json:"file_size"`
	Format    string  `json:"format"`
	Order     int     `json:"order"`
	CreatedAt int64   `json:"created_at"`
}

type ProgressExport struct {
	VideoID     string  `json:"video_id"`
	CourseID    string  `json:"course_id"`
	WatchTime   float64 `json:"watch_time"`
	Completed   bool    `json:"completed"`
	LastWatched int64   `json:"last_watched"`
}

type NoteExport struct {
	ID         string  `json:"id"`
	CourseID   string  `json:"course_id"`
	VideoID    string  `json:"video_id"`
	Content    string  `json:"content"`
	Timestamp  float64 `json:"timestamp"`
	Screenshot any     `json:"screenshot"`
	CreatedAt  int64   `json:"created_at"`
	UpdatedAt  int64   `json:"updated_at"`
}

type TaskExport struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
	CourseID  string `json:"course_id,omitempty"`
	VideoID   string `json:"video_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type SettingsExport struct {
	AutoPlay     bool    `json:"auto_play"`
	AutoNext     bool    `json:"auto_next"`
	DefaultSpeed float64 `json:"default_speed"`
	Theme        string  `json:"theme"`
}

// Export assembles a snapshot of every course, its outline, all progress,
// notes, tasks, and settings.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	courses, err := s.courses.ListByCreated(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting library: %w", err)
	}

	snap := &Snapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Courses:    make([]CourseExport, 0, len(courses)),
		Sections:   []SectionExport{},
		Videos:     []VideoExport{},
		Progress:   []ProgressExport{},
		Notes:      []NoteExport{},
		Tasks:      []TaskExport{},
	}

	for _, course := range courses {
		snap.Courses = append(snap.Courses, CourseExport{
			ID:              course.ID,
			Name:            course.Name,
			TotalVideos:     course.TotalVideos,
			CompletedVideos: course.CompletedVideos,
			TotalDuration:   course.TotalDuration,
			CreatedAt:       course.CreatedAt,
			UpdatedAt:       course.UpdatedAt,
			LastAccessed:    course.LastAccessed,
			StorageType:     course.StorageType,
			DirectoryRoot:   course.DirectoryRoot,
		})

		sections, err := s.sections.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting course %s: %w", course.ID, err)
		}
		for _, sec := range sections {
			snap.Sections = append(snap.Sections, SectionExport{
				ID:        sec.ID,
				CourseID:  sec.CourseID,
				Name:      sec.Name,
				Order:     sec.Order,
				CreatedAt: sec.CreatedAt,
			})
			videos, err := s.videos.ListBySection(ctx, sec.ID)
			if err != nil {
				return nil, fmt.Errorf("exporting course %s: %w", course.ID, err)
			}
			for _, v := range videos {
				snap.Videos = append(snap.Videos, VideoExport{
					ID:        v.ID,
					SectionID: v.SectionID,
					Title:     v.Title,
					Duration:  v.Duration,
					FilePath:  v.FilePath,
					FileSize:  v.FileSize,
					Format:    v.Format,
					Order:     v.Order,
					CreatedAt: v.CreatedAt,
				})
			}
		}

		progress, err := s.progress.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting course %s: %w", course.ID, err)
		}
		for _, p := range progress {
			snap.Progress = append(snap.Progress, ProgressExport{
				VideoID:     p.VideoID,
				CourseID:    p.CourseID,
				WatchTime:   p.WatchTime,
				Completed:   p.Completed,
				LastWatched: p.LastWatched,
			})
		}

		notes, err := s.notes.ListByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("exporting course %s: %w", course.ID, err)
		}
		for _, n := range notes {
			snap.Notes = append(snap.Notes, NoteExport{
				ID:        n.ID,
				CourseID:  n.CourseID,
				VideoID:   n.VideoID,
				Content:   n.Content,
				Timestamp: n.Timestamp,
				CreatedAt: n.CreatedAt,
				UpdatedAt: n.UpdatedAt,
			})
		}
	}

	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting library: %w", err)
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, TaskExport{
			ID:        t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			CourseID:  t.CourseID,
			VideoID:   t.VideoID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting library: %w", err)
	}
	snap.Settings = &SettingsExport{
		AutoPlay:     settings.AutoPlay,
		AutoNext:     settings.AutoNext,
		DefaultSpeed: settings.DefaultSpeed,
		Theme:        settings.Theme,
	}

	return snap, nil
}

// StorageUsage returns the current database footprint against the
// configured quota.
func (s *Service) StorageUsage() (storage.Usage, error) {
	return storage.UsageEstimate(s.policy.DBPath, s.policy.QuotaBytes)
}
