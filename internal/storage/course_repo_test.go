package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// seedCourse inserts a course with two sections and four videos and returns
// the inserted records.
func seedCourse(t *testing.T, db *sql.DB, name string) (*CourseRecord, []SectionRecord, []VideoRecord) {
	t.Helper()
	ctx := context.Background()

	course := &CourseRecord{
		ID:            uuid.New().String(),
		Name:          name,
		TotalVideos:   4,
		TotalDuration: 1200,
		CreatedAt:     1000,
		UpdatedAt:     1000,
		LastAccessed:  1000,
		StorageType:   StorageEmbedded,
	}

	sections := []SectionRecord{
		{ID: uuid.New().String(), CourseID: course.ID, Name: "Unit1", Order: 0, CreatedAt: 1000},
		{ID: uuid.New().String(), CourseID: course.ID, Name: "Unit2", Order: 1, CreatedAt: 1000},
	}

	var videos []VideoRecord
	for i := 0; i < 4; i++ {
		videos = append(videos, VideoRecord{
			ID:        uuid.New().String(),
			CourseID:  course.ID,
			SectionID: sections[i/2].ID,
			Title:     "video",
			Duration:  300,
			Content:   []byte("fake-bytes"),
			FileSize:  10,
			Format:    "video/mp4",
			Order:     i % 2,
			CreatedAt: 1000,
		})
	}

	if err := NewCourseRepo(db).InsertGraph(ctx, course, sections, videos); err != nil {
		t.Fatalf("InsertGraph() error = %v", err)
	}
	return course, sections, videos
}

func TestCourseRepo_InsertGraphAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	course, sections, videos := seedCourse(t, db, "Algebra")

	got, err := NewCourseRepo(db).GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Algebra" || got.TotalVideos != 4 || got.StorageType != StorageEmbedded {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.CompletedVideos > got.TotalVideos {
		t.Errorf("counter invariant violated: completed %d > total %d", got.CompletedVideos, got.TotalVideos)
	}

	gotSections, err := NewSectionRepo(db).ListByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(gotSections) != len(sections) {
		t.Errorf("ListByCourse() = %d sections, want %d", len(gotSections), len(sections))
	}
	for i, s := range gotSections {
		if s.Order != i {
			t.Errorf("section %d has order %d", i, s.Order)
		}
	}

	gotVideos, err := NewVideoRepo(db).ListByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListByCourse() error = %v", err)
	}
	if len(gotVideos) != len(videos) {
		t.Errorf("ListByCourse() = %d videos, want %d", len(gotVideos), len(videos))
	}
}

func TestCourseRepo_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewCourseRepo(db).GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestCourseRepo_ListByLastAccessed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db)

	older, _, _ := seedCourse(t, db, "Older")
	newer, _, _ := seedCourse(t, db, "Newer")

	if err := repo.TouchLastAccessed(ctx, newer.ID, 2000); err != nil {
		t.Fatalf("TouchLastAccessed() error = %v", err)
	}

	courses, err := repo.ListByLastAccessed(ctx)
	if err != nil {
		t.Fatalf("ListByLastAccessed() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("ListByLastAccessed() = %d courses, want 2", len(courses))
	}
	if courses[0].ID != newer.ID || courses[1].ID != older.ID {
		t.Errorf("unexpected order: got %q then %q", courses[0].Name, courses[1].Name)
	}
}

func TestCourseRepo_UpdateCounters_Clamped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db)
	course, _, _ := seedCourse(t, db, "Clamp")

	// A count above total_videos must be clamped, keeping the invariant.
	if err := repo.UpdateCounters(ctx, course.ID, 99, 2000); err != nil {
		t.Fatalf("UpdateCounters() error = %v", err)
	}

	got, err := repo.GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.CompletedVideos != got.TotalVideos {
		t.Errorf("CompletedVideos = %d, want clamped to %d", got.CompletedVideos, got.TotalVideos)
	}
	if got.LastAccessed != 2000 {
		t.Errorf("LastAccessed = %d, want 2000", got.LastAccessed)
	}
}

func TestCourseRepo_DeleteCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	course, sections, videos := seedCourse(t, db, "Doomed")
	keeper, _, keeperVideos := seedCourse(t, db, "Keeper")

	progressRepo := NewProgressRepo(db)
	noteRepo := NewNoteRepo(db)
	taskRepo := NewTaskRepo(db)

	for _, v := range videos {
		if err := progressRepo.Upsert(ctx, &ProgressRecord{
			VideoID: v.ID, CourseID: course.ID, WatchTime: 10,
			LastWatched: 1000, CreatedAt: 1000, UpdatedAt: 1000,
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}
	note := &NoteRecord{
		ID: uuid.New().String(), CourseID: course.ID, VideoID: videos[0].ID,
		Content: "check this at [01:30]", Timestamp: 90, CreatedAt: 1000, UpdatedAt: 1000,
	}
	if err := noteRepo.Insert(ctx, note); err != nil {
		t.Fatalf("Insert() note error = %v", err)
	}
	linked := &TaskRecord{
		ID: uuid.New().String(), Title: "rewatch unit 1", Status: TaskPending,
		Priority: PriorityHigh, CourseID: course.ID, CreatedAt: 1000, UpdatedAt: 1000,
	}
	unlinked := &TaskRecord{
		ID: uuid.New().String(), Title: "buy notebook", Status: TaskPending,
		Priority: PriorityLow, CreatedAt: 1000, UpdatedAt: 1000,
	}
	for _, task := range []*TaskRecord{linked, unlinked} {
		if err := taskRepo.Insert(ctx, task); err != nil {
			t.Fatalf("Insert() task error = %v", err)
		}
	}

	if err := NewCourseRepo(db).DeleteCascade(ctx, course.ID); err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}

	// Every dependent lookup must now report ErrNotFound.
	if _, err := NewCourseRepo(db).GetByID(ctx, course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("course lookup after cascade = %v, want ErrNotFound", err)
	}
	for _, s := range sections {
		if _, err := NewSectionRepo(db).GetByID(ctx, s.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("section lookup after cascade = %v, want ErrNotFound", err)
		}
	}
	for _, v := range videos {
		if _, err := NewVideoRepo(db).GetByID(ctx, v.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("video lookup after cascade = %v, want ErrNotFound", err)
		}
		if _, err := progressRepo.GetByVideo(ctx, v.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("progress lookup after cascade = %v, want ErrNotFound", err)
		}
	}
	if _, err := noteRepo.GetByID(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("note lookup after cascade = %v, want ErrNotFound", err)
	}
	if _, err := taskRepo.GetByID(ctx, linked.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("linked task lookup after cascade = %v, want ErrNotFound", err)
	}

	// Unrelated records survive.
	if _, err := taskRepo.GetByID(ctx, unlinked.ID); err != nil {
		t.Errorf("unlinked task should survive cascade: %v", err)
	}
	if _, err := NewCourseRepo(db).GetByID(ctx, keeper.ID); err != nil {
		t.Errorf("other course should survive cascade: %v", err)
	}
	if _, err := NewVideoRepo(db).GetByID(ctx, keeperVideos[0].ID); err != nil {
		t.Errorf("other course's video should survive cascade: %v", err)
	}
}

func TestCourseRepo_DeleteCascade_NotFound(t *testing.T) {
	db := newTestDB(t)
	err := NewCourseRepo(db).DeleteCascade(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCascade() error = %v, want ErrNotFound", err)
	}
}
