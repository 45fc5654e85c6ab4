package library

import (
	"context"
	"fmt"
	"strings"

	"courseflow/internal/localdir"
	"courseflow/internal/storage"
)

// VideoSource is a playable video resolved to its bytes or its on-disk
// location, depending on the owning course's storage type.
type VideoSource struct {
	Video *storage.VideoRecord
	// Content holds the video bytes for embedded courses.
	Content []byte
	// Path is the absolute file path for local-reference courses.
	Path string
}

// OpenVideo resolves a video to a playable source. For embedded courses the
// stored bytes are returned directly. For local-reference courses the stored
// relative path is resolved against the course's directory reference, which
// requires a live access grant for this session.
func (s *Service) OpenVideo(ctx context.Context, videoID string) (*VideoSource, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("opening video %s: %w", videoID, err)
	}

	course, err := s.courses.GetByID(ctx, video.CourseID)
	if err != nil {
		return nil, fmt.Errorf("opening video %s: %w", videoID, err)
	}

	if course.StorageType == storage.StorageEmbedded {
		return &VideoSource{Video: video, Content: video.Content}, nil
	}

	ref := localdir.Ref{ID: course.DirectoryRefID, Root: course.DirectoryRoot}
	segments := relativeSegments(video.FilePath, course.Name)
	path, err := s.dirs.ResolveFile(ref, segments)
	if err != nil {
		return nil, fmt.Errorf("opening video %s from %q: %w", videoID, video.FilePath, err)
	}
	return &VideoSource{Video: video, Path: path}, nil
}

// AuthorizeCourse requests directory access for a local-reference course.
// It is the explicit user action behind which the blocking access prompt
// sits; embedded courses need no authorization and always succeed.
func (s *Service) AuthorizeCourse(ctx context.Context, courseID string, write bool) (bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return false, fmt.Errorf("authorizing course %s: %w", courseID, err)
	}
	if course.StorageType != storage.StorageLocalRef {
		return true, nil
	}
	ref := localdir.Ref{ID: course.DirectoryRefID, Root: course.DirectoryRoot}
	granted, err := s.dirs.CheckOrRequestAccess(ctx, ref, write)
	if err != nil {
		return false, fmt.Errorf("authorizing course %s: %w", courseID, err)
	}
	return granted, nil
}

// relativeSegments splits a stored '/'-separated file path into segments,
// dropping a leading segment that merely repeats the course name. Older
// imports recorded paths that way, so resolution tolerates both forms.
func relativeSegments(filePath, courseName string) []string {
	segments := strings.Split(filePath, "/")
	if len(segments) > 1 && segments[0] == courseName {
		segments = segments[1:]
	}
	return segments
}
