package localdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// videoExtensions are the filename extensions recognized as video files
// during enumeration.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
}

// Entry is a video file found during enumeration. Segments is the full chain
// of directory names from the walk root down to the file, recorded as the
// video's relative path at import time.
type Entry struct {
	AbsPath  string
	Segments []string
	Size     int64
}

// IsVideoFilename reports whether a file name has a recognized video
// extension and is not a hidden metadata file (the AppleDouble "._" naming
// convention).
func IsVideoFilename(name string) bool {
	if strings.HasPrefix(name, "._") {
		return false
	}
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// EnumerateVideoFiles recursively walks all subdirectories of an authorized
// reference and collects video files. Hidden directories are skipped. The
// walk is a long-running operation with no cancellation protocol of its own;
// ctx is honored between directories, so callers wanting a bound should
// impose a deadline.
func (m *Manager) EnumerateVideoFiles(ctx context.Context, ref Ref) ([]Entry, error) {
	if !m.Granted(ref, false) {
		return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, ref.Root)
	}
	return m.walk(ctx, ref.Root, nil)
}

func (m *Manager) walk(ctx context.Context, dir string, segments []string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			sub, err := m.walk(ctx, filepath.Join(dir, name), append(append([]string{}, segments...), name))
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
			continue
		}

		if !IsVideoFilename(name) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		entries = append(entries, Entry{
			AbsPath:  filepath.Join(dir, name),
			Segments: append(append([]string{}, segments...), name),
			Size:     info.Size(),
		})
	}

	return entries, nil
}
