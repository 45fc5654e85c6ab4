package localdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// grantedManager returns a Manager holding a read grant on a temp root.
func grantedManager(t *testing.T) (*Manager, Ref) {
	t.Helper()
	m := NewManager(PrompterFunc(func(ctx context.Context, ref Ref, write bool) (bool, error) {
		return true, nil
	}))
	ref := Ref{ID: "ref-1", Root: t.TempDir()}
	granted, err := m.CheckOrRequestAccess(context.Background(), ref, false)
	if err != nil || !granted {
		t.Fatalf("CheckOrRequestAccess() = %v, %v", granted, err)
	}
	return m, ref
}

func writeFile(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("video-bytes"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestManager_ResolveFile(t *testing.T) {
	m, ref := grantedManager(t)
	writeFile(t, ref.Root, "Lesson 2", "intro.mp4")

	tests := []struct {
		name     string
		segments []string
		wantErr  error
	}{
		{
			name:     "nested file exists",
			segments: []string{"Lesson 2", "intro.mp4"},
			wantErr:  nil,
		},
		{
			name:     "missing file in existing directory",
			segments: []string{"Lesson 2", "outro.mp4"},
			wantErr:  ErrPathNotFound,
		},
		{
			name:     "missing intermediate directory",
			segments: []string{"Lesson 9", "intro.mp4"},
			wantErr:  ErrPathNotFound,
		},
		{
			name:     "segment is a directory not a file",
			segments: []string{"Lesson 2"},
			wantErr:  ErrPathNotFound,
		},
		{
			name:     "empty path",
			segments: nil,
			wantErr:  ErrPathNotFound,
		},
		{
			name:     "traversal segment rejected",
			segments: []string{"..", "intro.mp4"},
			wantErr:  ErrPathNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := m.ResolveFile(ref, tt.segments)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ResolveFile() error = %v", err)
				}
				want := filepath.Join(ref.Root, "Lesson 2", "intro.mp4")
				if path != want {
					t.Errorf("ResolveFile() = %q, want %q", path, want)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveFile() error = %v, want %v", err, tt.wantErr)
			}
			// A verified-permission resolution failure must never surface
			// as a permission error.
			if errors.Is(err, ErrPermissionDenied) {
				t.Errorf("ResolveFile() conflated path failure with permission: %v", err)
			}
		})
	}
}

func TestManager_ResolveFile_RootRemoved(t *testing.T) {
	m, ref := grantedManager(t)
	writeFile(t, ref.Root, "intro.mp4")
	if err := os.RemoveAll(ref.Root); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	// The reference is no longer backed by a directory, so the failure is
	// an authorization problem rather than a missing file.
	_, err := m.ResolveFile(ref, []string{"intro.mp4"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ResolveFile() with removed root = %v, want ErrPermissionDenied", err)
	}
	if errors.Is(err, ErrPathNotFound) {
		t.Errorf("ResolveFile() with removed root surfaced ErrPathNotFound: %v", err)
	}
}

func TestManager_ResolveFile_NoGrant(t *testing.T) {
	m := NewManager(PrompterFunc(func(ctx context.Context, ref Ref, write bool) (bool, error) {
		return false, nil
	}))
	ref := Ref{ID: "ref-1", Root: t.TempDir()}
	writeFile(t, ref.Root, "intro.mp4")

	_, err := m.ResolveFile(ref, []string{"intro.mp4"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ResolveFile() without grant = %v, want ErrPermissionDenied", err)
	}
}

func TestManager_EnumerateVideoFiles(t *testing.T) {
	m, ref := grantedManager(t)

	writeFile(t, ref.Root, "intro.mp4")
	writeFile(t, ref.Root, "Unit1", "a.mp4")
	writeFile(t, ref.Root, "Unit1", "b.MKV")
	writeFile(t, ref.Root, "Unit1", "._a.mp4")    // AppleDouble metadata, skipped
	writeFile(t, ref.Root, "Unit1", "slides.pdf") // not a video
	writeFile(t, ref.Root, ".cache", "c.mp4")     // hidden directory, skipped
	writeFile(t, ref.Root, "Unit2", "deep", "d.webm")

	entries, err := m.EnumerateVideoFiles(context.Background(), ref)
	if err != nil {
		t.Fatalf("EnumerateVideoFiles() error = %v", err)
	}

	got := make(map[string]bool)
	for _, e := range entries {
		got[filepath.ToSlash(filepath.Join(e.Segments...))] = true
	}
	want := []string{"intro.mp4", "Unit1/a.mp4", "Unit1/b.MKV", "Unit2/deep/d.webm"}
	if len(entries) != len(want) {
		t.Fatalf("EnumerateVideoFiles() = %d entries (%v), want %d", len(entries), got, len(want))
	}
	for _, rel := range want {
		if !got[rel] {
			t.Errorf("missing entry %q", rel)
		}
	}
}

func TestManager_EnumerateVideoFiles_NoGrant(t *testing.T) {
	m := NewManager(PrompterFunc(func(ctx context.Context, ref Ref, write bool) (bool, error) {
		return false, nil
	}))
	ref := Ref{ID: "ref-1", Root: t.TempDir()}

	_, err := m.EnumerateVideoFiles(context.Background(), ref)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("EnumerateVideoFiles() without grant = %v, want ErrPermissionDenied", err)
	}
}
