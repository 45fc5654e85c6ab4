package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"courseflow/internal/localdir"
	"courseflow/internal/media"
	"courseflow/internal/storage"
)

// FileEntry is one video file offered for import. Open is called at most
// twice per entry (metadata extraction and thumbnail generation share the
// first read for embedded imports).
type FileEntry struct {
	// Segments is the file's path relative to the course root, one element
	// per directory level, last element the filename.
	Segments []string
	// Size is the file size in bytes.
	Size int64
	// Open returns the file content for reading.
	Open func() (io.ReadCloser, error)
}

// ImportRequest describes a course to import.
type ImportRequest struct {
	Name        string
	StorageType string
	// DirectoryRef must be set for local-reference imports.
	DirectoryRef *localdir.Ref
	Entries     []FileEntry
}

// ImportCourse creates a course with its sections and videos in a single
// transaction. Section membership is derived from each entry's parent
// directory name, with "General" for files at the root. Entries whose
// metadata cannot be read are skipped with a warning rather than failing
// the import.
func (s *Service) ImportCourse(ctx context.Context, req ImportRequest) (*storage.CourseRecord, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "course name is required"}
	}
	switch req.StorageType {
	case storage.StorageEmbedded:
	case storage.StorageLocalRef:
		if req.DirectoryRef == nil {
			return nil, &ValidationError{Field: "directory_ref", Message: "local-reference courses require a directory reference"}
		}
	default:
		return nil, &ValidationError{Field: "storage_type", Message: fmt.Sprintf("unknown storage type %q", req.StorageType)}
	}
	if len(req.Entries) == 0 {
		return nil, &ValidationError{Field: "entries", Message: "no files to import"}
	}

	embedded := req.StorageType == storage.StorageEmbedded
	if embedded {
		if err := s.checkImportQuota(req.Entries); err != nil {
			return nil, err
		}
	}

	now := nowMillis()
	courseID := uuid.New().String()

	var sections []storage.SectionRecord
	sectionIndex := make(map[string]int)
	videosBySection := make(map[string][]storage.VideoRecord)
	var totalDuration float64
	var totalVideos int
	var courseThumb []byte

	for _, entry := range req.Entries {
		if len(entry.Segments) == 0 {
			continue
		}
		filename := entry.Segments[len(entry.Segments)-1]
		sectionName := "General"
		if len(entry.Segments) >= 2 {
			sectionName = entry.Segments[len(entry.Segments)-2]
		}

		meta, content, thumb, err := s.readEntry(ctx, entry, filename, embedded)
		if err != nil {
			s.logger.Warn("skipping unreadable file",
				slog.Any("error", err),
				slog.String("file", strings.Join(entry.Segments, "/")))
			continue
		}

		idx, ok := sectionIndex[sectionName]
		if !ok {
			idx = len(sections)
			sectionIndex[sectionName] = idx
			sections = append(sections, storage.SectionRecord{
				ID:        uuid.New().String(),
				CourseID:  courseID,
				Name:      sectionName,
				Order:     idx,
				CreatedAt: now,
			})
		}
		secID := sections[idx].ID

		video := storage.VideoRecord{
			ID:        uuid.New().String(),
			SectionID: secID,
			CourseID:  courseID,
			Title:     media.TitleFromFilename(filename),
			Duration:  meta.Duration,
			Order:     len(videosBySection[secID]),
			Content:   content,
			Thumbnail: thumb,
			FileSize:  entry.Size,
			Format:    meta.Format,
			CreatedAt: now,
		}
		if !embedded {
			video.FilePath = strings.Join(entry.Segments, "/")
		}
		videosBySection[secID] = append(videosBySection[secID], video)
		totalDuration += meta.Duration
		totalVideos++
		if courseThumb == nil && thumb != nil {
			courseThumb = thumb
		}
	}

	if totalVideos == 0 {
		return nil, &ValidationError{Field: "entries", Message: "no importable video files"}
	}

	course := &storage.CourseRecord{
		ID:              courseID,
		Name:            req.Name,
		Thumbnail:       courseThumb,
		TotalVideos:     totalVideos,
		CompletedVideos: 0,
		TotalDuration:   totalDuration,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastAccessed:    now,
		StorageType:     req.StorageType,
	}
	if req.DirectoryRef != nil {
		course.DirectoryRefID = req.DirectoryRef.ID
		course.DirectoryRoot = req.DirectoryRef.Root
	}

	var videos []storage.VideoRecord
	for _, sec := range sections {
		videos = append(videos, videosBySection[sec.ID]...)
	}
	if err := s.courses.InsertGraph(ctx, course, sections, videos); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			return nil, fmt.Errorf("importing course %q: %w (re-import with local-reference storage to keep video files outside the database)", req.Name, err)
		}
		return nil, fmt.Errorf("importing course %q: %w", req.Name, err)
	}

	s.logger.Info("imported course",
		slog.String("course_id", courseID),
		slog.String("name", req.Name),
		slog.String("storage_type", req.StorageType),
		slog.Int("videos", totalVideos))
	return course, nil
}

// ImportLinkedDirectory imports a directory on local disk as a
// local-reference course. The video files stay in place; only names,
// metadata and the directory reference are persisted.
func (s *Service) ImportLinkedDirectory(ctx context.Context, ref localdir.Ref, name string) (*storage.CourseRecord, error) {
	granted, err := s.dirs.CheckOrRequestAccess(ctx, ref, false)
	if err != nil {
		return nil, fmt.Errorf("linking directory %q: %w", ref.Root, err)
	}
	if !granted {
		return nil, fmt.Errorf("linking directory %q: %w", ref.Root, localdir.ErrPermissionDenied)
	}

	found, err := s.dirs.EnumerateVideoFiles(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("scanning directory %q: %w", ref.Root, err)
	}
	if len(found) == 0 {
		return nil, &ValidationError{Field: "directory", Message: "no video files found in directory"}
	}

	entries := make([]FileEntry, 0, len(found))
	for _, f := range found {
		path := f.AbsPath
		entries = append(entries, FileEntry{
			Segments: f.Segments,
			Size:     f.Size,
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
	}

	if name == "" {
		name = filepath.Base(ref.Root)
	}
	return s.ImportCourse(ctx, ImportRequest{
		Name:         name,
		StorageType:  storage.StorageLocalRef,
		DirectoryRef: &ref,
		Entries:      entries,
	})
}

// readEntry reads one entry's metadata and, for embedded imports, its
// content and thumbnail.
func (s *Service) readEntry(ctx context.Context, entry FileEntry, filename string, embedded bool) (media.Metadata, []byte, []byte, error) {
	meta := media.Metadata{Format: media.TypeByExtension(filename)}

	var content []byte
	if embedded {
		rc, err := entry.Open()
		if err != nil {
			return meta, nil, nil, err
		}
		content, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return meta, nil, nil, err
		}
	}

	if s.extractor != nil {
		var r io.Reader
		var closer io.Closer
		if content != nil {
			r = bytes.NewReader(content)
		} else {
			rc, err := entry.Open()
			if err != nil {
				return meta, nil, nil, err
			}
			r = rc
			closer = rc
		}
		m, err := s.extractor.Extract(ctx, filename, r)
		if closer != nil {
			closer.Close()
		}
		if err != nil {
			return meta, nil, nil, err
		}
		if m.Format == "" {
			m.Format = meta.Format
		}
		meta = m
	}

	var thumb []byte
	if s.thumbs != nil {
		var r io.Reader
		var closer io.Closer
		if content != nil {
			r = bytes.NewReader(content)
		} else {
			rc, err := entry.Open()
			if err != nil {
				return meta, nil, nil, err
			}
			r = rc
			closer = rc
		}
		t, err := s.thumbs.Thumbnail(ctx, filename, r, 1)
		if closer != nil {
			closer.Close()
		}
		if err != nil {
			// Thumbnails are nice to have; the video is still importable.
			s.logger.Warn("thumbnail generation failed", slog.Any("error", err), slog.String("file", filename))
		} else {
			thumb = t
		}
	}

	return meta, content, thumb, nil
}

// checkImportQuota rejects embedded imports that obviously exceed the
// configured size limits before any file content is read.
func (s *Service) checkImportQuota(entries []FileEntry) error {
	var total int64
	for _, e := range entries {
		if s.policy.MaxEmbedBytes > 0 && e.Size > s.policy.MaxEmbedBytes {
			return fmt.Errorf("file %q is %s, over the %s embedded limit: %w (import with local-reference storage instead)",
				strings.Join(e.Segments, "/"), media.FormatSize(e.Size), media.FormatSize(s.policy.MaxEmbedBytes), storage.ErrQuotaExceeded)
		}
		total += e.Size
	}
	if s.policy.QuotaBytes == 0 {
		return nil
	}
	usage, err := storage.UsageEstimate(s.policy.DBPath, s.policy.QuotaBytes)
	if err != nil {
		// No usable estimate; let the database enforce its own limits.
		return nil
	}
	if usage.UsedBytes+total > s.policy.QuotaBytes {
		return fmt.Errorf("import needs %s but only %s of the %s quota remains: %w (import with local-reference storage instead)",
			media.FormatSize(total), media.FormatSize(s.policy.QuotaBytes-usage.UsedBytes), media.FormatSize(s.policy.QuotaBytes), storage.ErrQuotaExceeded)
	}
	return nil
}
