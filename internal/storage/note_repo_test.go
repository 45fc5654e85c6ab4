package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNoteRepo_CRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)
	course, _, videos := seedCourse(t, db, "Course")

	note := &NoteRecord{
		ID:        uuid.New().String(),
		CourseID:  course.ID,
		VideoID:   videos[0].ID,
		Content:   "key definition at [02:15]",
		Timestamp: 135,
		CreatedAt: 1000,
		UpdatedAt: 1000,
	}
	if err := repo.Insert(ctx, note); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Content != note.Content || got.Timestamp != 135 {
		t.Errorf("GetByID() = %+v", got)
	}

	if err := repo.UpdateContent(ctx, note.ID, "revised", 2000); err != nil {
		t.Fatalf("UpdateContent() error = %v", err)
	}
	got, err = repo.GetByID(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Content != "revised" {
		t.Errorf("Content = %q after update", got.Content)
	}
	if got.UpdatedAt != 2000 {
		t.Errorf("UpdatedAt = %d, want refreshed to 2000", got.UpdatedAt)
	}

	if err := repo.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, note.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestNoteRepo_ListByVideo_OrderedByTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)
	course, _, videos := seedCourse(t, db, "Course")

	for _, ts := range []float64{300, 30, 120} {
		err := repo.Insert(ctx, &NoteRecord{
			ID: uuid.New().String(), CourseID: course.ID, VideoID: videos[0].ID,
			Content: "n", Timestamp: ts, CreatedAt: 1000, UpdatedAt: 1000,
		})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	notes, err := repo.ListByVideo(ctx, videos[0].ID)
	if err != nil {
		t.Fatalf("ListByVideo() error = %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("ListByVideo() = %d notes, want 3", len(notes))
	}
	for i := 1; i < len(notes); i++ {
		if notes[i].Timestamp < notes[i-1].Timestamp {
			t.Errorf("notes not ordered by timestamp: %+v", notes)
		}
	}
}

func TestNoteRepo_UpdateContent_NotFound(t *testing.T) {
	db := newTestDB(t)
	err := NewNoteRepo(db).UpdateContent(context.Background(), "missing", "x", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateContent() error = %v, want ErrNotFound", err)
	}
}
