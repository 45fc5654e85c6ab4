package media

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_media.go -package=mocks courseflow/internal/media MetadataExtractor,ThumbnailGenerator

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// Metadata describes a raw video byte source.
type Metadata struct {
	Duration float64 // seconds
	Width    int
	Height   int
	Format   string // MIME string
}

// MetadataExtractor yields metadata from a raw video byte source.
// Implementations decode media headers; this package only defines the
// contract.
type MetadataExtractor interface {
	Extract(ctx context.Context, name string, r io.Reader) (Metadata, error)
}

// ThumbnailGenerator yields a single still image from a raw video byte
// source at the given timestamp.
type ThumbnailGenerator interface {
	Thumbnail(ctx context.Context, name string, r io.Reader, atSeconds float64) ([]byte, error)
}

// extensionTypes covers video extensions the stdlib MIME table misses.
var extensionTypes = map[string]string{
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mp4":  "video/mp4",
}

// TypeByExtension returns the MIME type for a video filename, falling back
// to the host's MIME table and finally to application/octet-stream.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// TitleFromFilename strips the extension from a video file name.
func TitleFromFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FormatDuration renders seconds as m:ss or h:mm:ss.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSize renders a byte count with a binary unit suffix.
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}
