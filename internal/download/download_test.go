package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://youtube.com/watch?v=abc", true},
		{"youtube.com/shorts/abc", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"  https://youtu.be/abc  ", true},
		{"https://vimeo.com/12345", false},
		{"https://www.youtube.com/", false},
		{"not a url", false},
		{"", false},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateURL(%q) error = %v, want valid=%v", tt.url, err, tt.valid)
		}
		if err != nil && !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidURL", tt.url, err)
		}
	}
}

func TestDownload_InvalidURL(t *testing.T) {
	d := New("", t.TempDir())
	if d.Binary != "yt-dlp" {
		t.Errorf("Binary = %q, want default yt-dlp", d.Binary)
	}
	_, err := d.Download(context.Background(), "https://example.com/video")
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Download() error = %v, want ErrInvalidURL", err)
	}
}

func TestParseInfo(t *testing.T) {
	dir := t.TempDir()
	merged := filepath.Join(dir, "Talk.mp4")
	if err := os.WriteFile(merged, nil, 0644); err != nil {
		t.Fatal(err)
	}

	out := []byte(`[download] progress noise
{"title": "Talk", "duration": 61.5, "view_count": 1200, "uploader": "Someone", "_filename": "` + filepath.Join(dir, "Talk.webm") + `"}
`)
	meta, err := parseInfo(out, dir)
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}
	if meta.Title != "Talk" || meta.Duration != 61.5 || meta.Views != 1200 || meta.Author != "Someone" {
		t.Errorf("parseInfo() = %+v", meta)
	}
	if meta.FilePath != merged {
		t.Errorf("FilePath = %q, want merged %q", meta.FilePath, merged)
	}
}

func TestParseInfo_Fallbacks(t *testing.T) {
	dir := t.TempDir()
	meta, err := parseInfo([]byte(`{"_filename": "/nowhere/x.webm"}`), dir)
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}
	if meta.Title != "Unknown Title" || meta.Author != "Unknown Author" {
		t.Errorf("defaults = %q/%q", meta.Title, meta.Author)
	}
	if meta.FilePath != filepath.Join(dir, "Unknown Title.mp4") {
		t.Errorf("FilePath = %q, want title-based fallback", meta.FilePath)
	}

	if _, err := parseInfo(nil, dir); err == nil {
		t.Error("expected error for empty output")
	}
	if _, err := parseInfo([]byte("garbage"), dir); err == nil {
		t.Error("expected error for non-JSON output")
	}
}
