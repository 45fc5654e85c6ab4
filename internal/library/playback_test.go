package library

import (
	"context"
	"errors"
	"testing"

	"courseflow/internal/storage"
)

// firstVideo returns the first video of the course's outline.
func firstVideo(t *testing.T, svc *Service, courseID string) storage.VideoRecord {
	t.Helper()
	outline, err := svc.CourseOutline(context.Background(), courseID)
	if err != nil {
		t.Fatalf("CourseOutline() error = %v", err)
	}
	if len(outline) == 0 || len(outline[0].Videos) == 0 {
		t.Fatal("course has no videos")
	}
	return outline[0].Videos[0]
}

func TestRecordPlaybackCheckpoint_CompletesPastThreshold(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	ctx := context.Background()
	course := importAlgebra(t, env.svc)
	video := firstVideo(t, env.svc, course.ID) // 120s

	if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 60); err != nil {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
	}
	rec, err := env.svc.ProgressForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if rec.Completed {
		t.Error("video completed at 60/120, want not completed")
	}
	if rec.WatchTime != 60 {
		t.Errorf("WatchTime = %v, want 60", rec.WatchTime)
	}

	// 115/120 = 0.958, over the 0.95 threshold.
	if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 115); err != nil {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
	}
	rec, err = env.svc.ProgressForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if !rec.Completed {
		t.Error("video not completed at 115/120")
	}

	got, err := env.svc.Course(ctx, course.ID)
	if err != nil {
		t.Fatalf("Course() error = %v", err)
	}
	if got.CompletedVideos != 1 {
		t.Errorf("CompletedVideos = %d, want 1", got.CompletedVideos)
	}
}

func TestRecordPlaybackCheckpoint_CompletionNeverReverts(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	ctx := context.Background()
	course := importAlgebra(t, env.svc)
	video := firstVideo(t, env.svc, course.ID)

	if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 118); err != nil {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
	}
	// Rewatching from the start reports an early position again.
	if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 10); err != nil {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
	}

	rec, err := env.svc.ProgressForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if !rec.Completed {
		t.Error("completion reverted after rewatch checkpoint")
	}
	if rec.WatchTime != 10 {
		t.Errorf("WatchTime = %v, want 10 (position still tracks the player)", rec.WatchTime)
	}

	got, err := env.svc.Course(ctx, course.ID)
	if err != nil {
		t.Fatalf("Course() error = %v", err)
	}
	if got.CompletedVideos != 1 {
		t.Errorf("CompletedVideos = %d, want 1", got.CompletedVideos)
	}
}

func TestRecordPlaybackCheckpoint_Idempotent(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	ctx := context.Background()
	course := importAlgebra(t, env.svc)
	video := firstVideo(t, env.svc, course.ID)

	for i := 0; i < 3; i++ {
		if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 42); err != nil {
			t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
		}
	}

	rec, err := env.svc.ProgressForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if rec.WatchTime != 42 || rec.Completed {
		t.Errorf("progress = (%v, %v), want (42, false)", rec.WatchTime, rec.Completed)
	}

	records, err := env.svc.CourseProgress(ctx, course.ID)
	if err != nil {
		t.Fatalf("CourseProgress() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("progress records = %d, want 1 (keyed by video)", len(records))
	}
}

func TestRecordPlaybackCheckpoint_ZeroDurationNeverCompletes(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, map[string]float64{"live.mp4": 0}), Policy{})
	ctx := context.Background()

	course, err := env.svc.ImportCourse(ctx, ImportRequest{
		Name:        "Live",
		StorageType: storage.StorageEmbedded,
		Entries:     []FileEntry{byteEntry("live.mp4", 8)},
	})
	if err != nil {
		t.Fatalf("ImportCourse() error = %v", err)
	}
	video := firstVideo(t, env.svc, course.ID)

	if err := env.svc.RecordPlaybackCheckpoint(ctx, video.ID, 9999); err != nil {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v", err)
	}
	rec, err := env.svc.ProgressForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if rec.Completed {
		t.Error("zero-duration video marked completed")
	}
}

func TestRecordPlaybackCheckpoint_UnknownVideo(t *testing.T) {
	env := newTestEnv(t, nil, Policy{})

	err := env.svc.RecordPlaybackCheckpoint(context.Background(), "nope", 10)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("RecordPlaybackCheckpoint() error = %v, want ErrNotFound", err)
	}
}

func TestRunPlaybackSession_FlushesFinalCheckpoint(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	course := importAlgebra(t, env.svc)
	video := firstVideo(t, env.svc, course.ID)

	// Cancel immediately: the session must still flush the last position.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := env.svc.RunPlaybackSession(ctx, video.ID, func() (float64, bool) {
		return 33, true
	})
	if err != nil {
		t.Fatalf("RunPlaybackSession() error = %v", err)
	}

	rec, err := env.svc.ProgressForVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if rec == nil || rec.WatchTime != 33 {
		t.Fatalf("final checkpoint not recorded, progress = %+v", rec)
	}
}

func TestRunPlaybackSession_NoPositionNoWrite(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	course := importAlgebra(t, env.svc)
	video := firstVideo(t, env.svc, course.ID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := env.svc.RunPlaybackSession(ctx, video.ID, func() (float64, bool) {
		return 0, false
	})
	if err != nil {
		t.Fatalf("RunPlaybackSession() error = %v", err)
	}

	rec, err := env.svc.ProgressForVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("ProgressForVideo() error = %v", err)
	}
	if rec != nil {
		t.Errorf("progress written without a reported position: %+v", rec)
	}
}
