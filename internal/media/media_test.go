package media

import "testing"

func TestTypeByExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"intro.mp4", "video/mp4"},
		{"lecture.MKV", "video/x-matroska"},
		{"clip.webm", "video/webm"},
		{"old.avi", "video/x-msvideo"},
		{"unknown.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := TypeByExtension(tt.name); got != tt.want {
			t.Errorf("TypeByExtension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	if got := TitleFromFilename("01 - Welcome.mp4"); got != "01 - Welcome" {
		t.Errorf("TitleFromFilename() = %q", got)
	}
	if got := TitleFromFilename("noext"); got != "noext" {
		t.Errorf("TitleFromFilename() = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{75, "1:15"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
