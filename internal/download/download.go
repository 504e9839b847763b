package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned for a link that is not a YouTube video URL.
var ErrInvalidURL = errors.New("invalid YouTube link")

var youtubeURL = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+$`)

// ValidateURL reports whether link looks like a YouTube video URL.
func ValidateURL(link string) error {
	if !youtubeURL.MatchString(strings.TrimSpace(link)) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, link)
	}
	return nil
}

// Metadata describes a downloaded video.
type Metadata struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Views    int64   `json:"views"`
	Author   string  `json:"author"`
	FilePath string  `json:"file_path"`
	URL      string  `json:"url"`
}

// Downloader fetches videos with yt-dlp into Dir as merged .mp4 files.
type Downloader struct {
	Binary string
	Dir    string
}

// New creates a Downloader writing into dir.
func New(binary, dir string) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Downloader{Binary: binary, Dir: dir}
}

// Download validates link, downloads the best video and audio streams merged
// into one mp4, and returns the video's metadata. Playlists are not expanded.
func (d *Downloader) Download(ctx context.Context, link string) (*Metadata, error) {
	if err := ValidateURL(link); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(d.Binary); err != nil {
		return nil, fmt.Errorf("%s not found: %w", d.Binary, err)
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	slog.Info("downloading video", "url", link)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Binary,
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"--no-playlist",
		"-o", filepath.Join(d.Dir, "%(title)s.%(ext)s"),
		"--dump-json",
		"--no-simulate",
		strings.TrimSpace(link),
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w\n%s", err, stderr.String())
	}

	meta, err := parseInfo(stdout.Bytes(), d.Dir)
	if err != nil {
		return nil, err
	}
	meta.URL = link

	slog.Info("video downloaded", "title", meta.Title, "file", filepath.Base(meta.FilePath))
	return meta, nil
}

// info is the subset of the yt-dlp info JSON that is used.
type info struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	ViewCount int64   `json:"view_count"`
	Uploader  string  `json:"uploader"`
	Filename  string  `json:"_filename"`
}

// parseInfo reads the last JSON line yt-dlp printed. The reported filename
// carries the pre-merge extension, so it is rewritten to .mp4; when that file
// is missing the path falls back to <dir>/<title>.mp4.
func parseInfo(out []byte, dir string) (*Metadata, error) {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		return nil, fmt.Errorf("yt-dlp printed no metadata")
	}

	var in info
	if err := json.Unmarshal(lines[len(lines)-1], &in); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}

	meta := &Metadata{
		Title:    in.Title,
		Duration: in.Duration,
		Views:    in.ViewCount,
		Author:   in.Uploader,
	}
	if meta.Title == "" {
		meta.Title = "Unknown Title"
	}
	if meta.Author == "" {
		meta.Author = "Unknown Author"
	}

	if in.Filename != "" {
		meta.FilePath = strings.TrimSuffix(in.Filename, filepath.Ext(in.Filename)) + ".mp4"
	}
	if _, err := os.Stat(meta.FilePath); meta.FilePath == "" || err != nil {
		meta.FilePath = filepath.Join(dir, meta.Title+".mp4")
	}
	return meta, nil
}
