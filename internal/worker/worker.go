package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Arslanex/CurFusion/internal/download"
	"github.com/Arslanex/CurFusion/internal/media"

	"github.com/google/uuid"
)

// Downloader fetches one video.
type Downloader interface {
	Download(ctx context.Context, link string) (*download.Metadata, error)
}

// Transcriber turns an audio file into a transcript file.
type Transcriber interface {
	Load(ctx context.Context) error
	Transcribe(ctx context.Context, audioPath string) (string, error)
	OutputPath(audioPath string) string
}

// AudioExtractor writes the audio track of a video into audioDir.
type AudioExtractor func(ctx context.Context, videoPath, audioDir string) (string, error)

// Options configures an ingest run.
type Options struct {
	URLs     []string
	VideoDir string
	AudioDir string

	MaxConcurrent   int
	MaxRetries      int
	RateLimitPerMin int

	// Force re-transcribes audio that already has a transcript.
	Force bool

	Downloader   Downloader
	Transcriber  Transcriber
	ExtractAudio AudioExtractor
}

// Report counts what an ingest run did. Failures are per item and never stop
// the remaining items.
type Report struct {
	RunID       string
	Downloaded  int
	Extracted   int
	Transcribed int
	Skipped     int
	Failed      int
	Videos      []download.Metadata
}

// Ingest downloads every URL, extracts audio from every video in VideoDir and
// transcribes every audio file in AudioDir. Only cancellation and a failed
// model load abort the run.
func Ingest(ctx context.Context, opts Options) (*Report, error) {
	if opts.ExtractAudio == nil {
		opts.ExtractAudio = media.ExtractAudio
	}

	report := &Report{RunID: uuid.NewString()}
	log := slog.With("run_id", report.RunID)

	if len(opts.URLs) > 0 {
		if opts.Downloader == nil {
			return nil, fmt.Errorf("ingest: no downloader configured")
		}
		if err := downloadAll(ctx, log, opts, report); err != nil {
			return report, err
		}
		log.Info("downloads finished", "downloaded", report.Downloaded, "requested", len(opts.URLs))
	}

	videos, err := listFiles(opts.VideoDir, ".mp4")
	if err != nil {
		return report, err
	}
	if err := extractAll(ctx, log, videos, opts, report); err != nil {
		return report, err
	}

	audio, err := listFiles(opts.AudioDir, ".wav")
	if err != nil {
		return report, err
	}
	if len(audio) > 0 {
		if opts.Transcriber == nil {
			return report, fmt.Errorf("ingest: no transcriber configured")
		}
		if err := opts.Transcriber.Load(ctx); err != nil {
			return report, fmt.Errorf("load transcriber: %w", err)
		}
		if err := transcribeAll(ctx, log, audio, opts, report); err != nil {
			return report, err
		}
	}

	log.Info("ingest finished",
		"downloaded", report.Downloaded,
		"extracted", report.Extracted,
		"transcribed", report.Transcribed,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return report, nil
}

// listFiles returns the regular files in dir with the given extension,
// sorted. A missing directory yields no files.
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
