package localdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ResolveFile walks the segment list under an authorized reference,
// descending one subdirectory per segment except the last, which is resolved
// as a regular file within the final directory. It returns the absolute path
// of the file. A missing segment is ErrPathNotFound, never a permission
// failure; calling without a read grant, or against a root that no longer
// exists, is ErrPermissionDenied.
func (m *Manager) ResolveFile(ref Ref, segments []string) (string, error) {
	if !m.Granted(ref, false) {
		return "", fmt.Errorf("%w: %s", ErrPermissionDenied, ref.Root)
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: empty path", ErrPathNotFound)
	}

	// A vanished root means the reference itself is no longer valid, which
	// is an authorization problem rather than a missing file.
	if info, err := os.Stat(ref.Root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: directory reference %s is no longer valid", ErrPermissionDenied, ref.Root)
	}

	current := ref.Root
	for i, segment := range segments {
		if segment == "" || segment == "." || segment == ".." || strings.ContainsRune(segment, os.PathSeparator) {
			return "", fmt.Errorf("%w: invalid segment %q", ErrPathNotFound, segment)
		}

		current = filepath.Join(current, segment)
		info, err := os.Stat(current)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPathNotFound, strings.Join(segments[:i+1], "/"))
		}
		if errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, current)
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", current, err)
		}

		last := i == len(segments)-1
		if last && info.IsDir() {
			return "", fmt.Errorf("%w: %s is a directory", ErrPathNotFound, strings.Join(segments, "/"))
		}
		if !last && !info.IsDir() {
			return "", fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, strings.Join(segments[:i+1], "/"))
		}
	}

	return current, nil
}
