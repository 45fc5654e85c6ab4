package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"courseflow/internal/localdir"
	"courseflow/internal/storage"
)

func TestImportCourse_GroupsFilesIntoSections(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, algebraDurations()), Policy{})
	ctx := context.Background()

	course := importAlgebra(t, env.svc)

	if course.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", course.TotalVideos)
	}
	if course.CompletedVideos != 0 {
		t.Errorf("CompletedVideos = %d, want 0", course.CompletedVideos)
	}
	if course.TotalDuration != 420 {
		t.Errorf("TotalDuration = %v, want 420", course.TotalDuration)
	}
	if course.StorageType != storage.StorageEmbedded {
		t.Errorf("StorageType = %q, want %q", course.StorageType, storage.StorageEmbedded)
	}

	outline, err := env.svc.CourseOutline(ctx, course.ID)
	if err != nil {
		t.Fatalf("CourseOutline() error = %v", err)
	}
	if len(outline) != 1 {
		t.Fatalf("sections = %d, want 1", len(outline))
	}
	sec := outline[0]
	if sec.Section.Name != "Unit 1" || sec.Section.Order != 0 {
		t.Errorf("section = %q order %d, want Unit 1 order 0", sec.Section.Name, sec.Section.Order)
	}
	if len(sec.Videos) != 2 {
		t.Fatalf("videos = %d, want 2", len(sec.Videos))
	}
	for i, want := range []struct {
		title    string
		duration float64
	}{
		{"01 - Intro", 120},
		{"02 - Equations", 300},
	} {
		v := sec.Videos[i]
		if v.Title != want.title {
			t.Errorf("video[%d].Title = %q, want %q", i, v.Title, want.title)
		}
		if v.Order != i {
			t.Errorf("video[%d].Order = %d, want %d", i, v.Order, i)
		}
		if v.Duration != want.duration {
			t.Errorf("video[%d].Duration = %v, want %v", i, v.Duration, want.duration)
		}
		if len(v.Content) == 0 {
			t.Errorf("video[%d] has no embedded content", i)
		}
		if v.FilePath != "" {
			t.Errorf("video[%d].FilePath = %q, want empty for embedded", i, v.FilePath)
		}
	}
}

func TestImportCourse_RootFilesLandInGeneral(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, map[string]float64{
		"intro.mp4":  60,
		"lesson.mp4": 90,
	}), Policy{})
	ctx := context.Background()

	course, err := env.svc.ImportCourse(ctx, ImportRequest{
		Name:        "Mixed",
		StorageType: storage.StorageEmbedded,
		Entries: []FileEntry{
			byteEntry("intro.mp4", 8),
			byteEntry("Week 1/lesson.mp4", 8),
		},
	})
	if err != nil {
		t.Fatalf("ImportCourse() error = %v", err)
	}

	outline, err := env.svc.CourseOutline(ctx, course.ID)
	if err != nil {
		t.Fatalf("CourseOutline() error = %v", err)
	}
	if len(outline) != 2 {
		t.Fatalf("sections = %d, want 2", len(outline))
	}
	names := []string{outline[0].Section.Name, outline[1].Section.Name}
	if names[0] != "General" || names[1] != "Week 1" {
		t.Errorf("section names = %v, want [General, Week 1]", names)
	}
}

func TestImportCourse_SkipsUnreadableFiles(t *testing.T) {
	// The extractor only knows one of the two files; the other is skipped,
	// not fatal.
	env := newTestEnv(t, durationExtractor(t, map[string]float64{"good.mp4": 60}), Policy{})

	course, err := env.svc.ImportCourse(context.Background(), ImportRequest{
		Name:        "Partial",
		StorageType: storage.StorageEmbedded,
		Entries: []FileEntry{
			byteEntry("good.mp4", 8),
			byteEntry("corrupt.mp4", 8),
		},
	})
	if err != nil {
		t.Fatalf("ImportCourse() error = %v", err)
	}
	if course.TotalVideos != 1 {
		t.Errorf("TotalVideos = %d, want 1", course.TotalVideos)
	}
}

func TestImportCourse_Validation(t *testing.T) {
	env := newTestEnv(t, nil, Policy{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  ImportRequest
	}{
		{"missing name", ImportRequest{StorageType: storage.StorageEmbedded, Entries: []FileEntry{byteEntry("a.mp4", 1)}}},
		{"unknown storage type", ImportRequest{Name: "X", StorageType: "cloud", Entries: []FileEntry{byteEntry("a.mp4", 1)}}},
		{"local-reference without ref", ImportRequest{Name: "X", StorageType: storage.StorageLocalRef, Entries: []FileEntry{byteEntry("a.mp4", 1)}}},
		{"no entries", ImportRequest{Name: "X", StorageType: storage.StorageEmbedded}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.ImportCourse(ctx, tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("ImportCourse() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestImportCourse_EmbedLimitExceeded(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, map[string]float64{"big.mp4": 60}), Policy{MaxEmbedBytes: 4})

	_, err := env.svc.ImportCourse(context.Background(), ImportRequest{
		Name:        "Big",
		StorageType: storage.StorageEmbedded,
		Entries:     []FileEntry{byteEntry("big.mp4", 64)},
	})
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("ImportCourse() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestImportLinkedDirectory(t *testing.T) {
	env := newTestEnv(t, durationExtractor(t, map[string]float64{
		"a.mp4": 100,
		"b.mp4": 200,
	}), Policy{})
	ctx := context.Background()

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Unit 1"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"Unit 1/a.mp4", "Unit 1/b.mp4", "Unit 1/notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, p), []byte("vvvv"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ref := localdir.Ref{ID: "dir-1", Root: root}
	course, err := env.svc.ImportLinkedDirectory(ctx, ref, "")
	if err != nil {
		t.Fatalf("ImportLinkedDirectory() error = %v", err)
	}

	if course.Name != filepath.Base(root) {
		t.Errorf("Name = %q, want directory basename %q", course.Name, filepath.Base(root))
	}
	if course.StorageType != storage.StorageLocalRef {
		t.Errorf("StorageType = %q, want %q", course.StorageType, storage.StorageLocalRef)
	}
	if course.DirectoryRefID != "dir-1" || course.DirectoryRoot != root {
		t.Errorf("directory ref = (%q, %q), want (dir-1, %q)", course.DirectoryRefID, course.DirectoryRoot, root)
	}
	if course.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2 (non-video files excluded)", course.TotalVideos)
	}
	if course.TotalDuration != 300 {
		t.Errorf("TotalDuration = %v, want 300", course.TotalDuration)
	}

	outline, err := env.svc.CourseOutline(ctx, course.ID)
	if err != nil {
		t.Fatalf("CourseOutline() error = %v", err)
	}
	for _, sec := range outline {
		for _, v := range sec.Videos {
			if len(v.Content) != 0 {
				t.Errorf("video %q has embedded content in a local-reference course", v.Title)
			}
			if v.FilePath == "" {
				t.Errorf("video %q has no stored file path", v.Title)
			}
		}
	}
}

func TestImportLinkedDirectory_Denied(t *testing.T) {
	env := newTestEnv(t, nil, Policy{})
	// Replace the always-yes prompter with an always-no one.
	env.svc.dirs = localdir.NewManager(localdir.PrompterFunc(
		func(_ context.Context, _ localdir.Ref, _ bool) (bool, error) {
			return false, nil
		}))

	_, err := env.svc.ImportLinkedDirectory(context.Background(), localdir.Ref{ID: "d", Root: t.TempDir()}, "X")
	if !errors.Is(err, localdir.ErrPermissionDenied) {
		t.Fatalf("ImportLinkedDirectory() error = %v, want ErrPermissionDenied", err)
	}
}
