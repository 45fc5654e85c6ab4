package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"courseflow/internal/storage"
)

// RecordPlaybackCheckpoint persists the current watch position for a video
// and refreshes the owning course's completion counter. A video counts as
// completed once the watched fraction of its duration passes the configured
// threshold; once set, completion never reverts, even if the player later
// reports an earlier position.
func (s *Service) RecordPlaybackCheckpoint(ctx context.Context, videoID string, watchTime float64) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("checkpoint for video %s: %w", videoID, err)
	}

	existing, err := s.progress.GetByVideo(ctx, videoID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("checkpoint for video %s: %w", videoID, err)
	}

	now := nowMillis()
	completed := existing != nil && existing.Completed
	if !completed && video.Duration > 0 && watchTime/video.Duration > s.policy.CompletionThreshold {
		completed = true
	}

	rec := &storage.ProgressRecord{
		VideoID:     videoID,
		CourseID:    video.CourseID,
		WatchTime:   watchTime,
		Completed:   completed,
		LastWatched: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}
	if err := s.progress.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("checkpoint for video %s: %w", videoID, err)
	}

	count, err := s.progress.CountCompletedByCourse(ctx, video.CourseID)
	if err != nil {
		return fmt.Errorf("checkpoint for video %s: %w", videoID, err)
	}
	if err := s.courses.UpdateCounters(ctx, video.CourseID, count, now); err != nil {
		return fmt.Errorf("checkpoint for video %s: %w", videoID, err)
	}
	return nil
}

// PositionFunc reports the player's current position in seconds. ok is false
// while the player has no position to report (paused before start, seeking).
type PositionFunc func() (seconds float64, ok bool)

// RunPlaybackSession records checkpoints at the configured interval until
// ctx is canceled, then flushes one final checkpoint so the last observed
// position is not lost. Individual checkpoint failures are logged and do not
// stop the session.
func (s *Service) RunPlaybackSession(ctx context.Context, videoID string, position PositionFunc) error {
	ticker := time.NewTicker(s.policy.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			pos, ok := position()
			if !ok {
				return nil
			}
			// The session context is already canceled; give the final
			// write its own deadline.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.RecordPlaybackCheckpoint(flushCtx, videoID, pos); err != nil {
				return fmt.Errorf("final checkpoint: %w", err)
			}
			return nil
		case <-ticker.C:
			pos, ok := position()
			if !ok {
				continue
			}
			if err := s.RecordPlaybackCheckpoint(ctx, videoID, pos); err != nil {
				s.logger.Warn("checkpoint failed",
					slog.Any("error", err),
					slog.String("video_id", videoID))
			}
		}
	}
}
