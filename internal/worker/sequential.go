package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Arslanex/CurFusion/internal/download"
	"github.com/Arslanex/CurFusion/internal/transcribe"
)

// extractAll extracts audio from each video one at a time.
func extractAll(ctx context.Context, log *slog.Logger, videos []string, opts Options, report *Report) error {
	for i, video := range videos {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		log.Info("extracting audio",
			"item", fmt.Sprintf("%d/%d", i+1, len(videos)),
			"file", filepath.Base(video))

		if _, err := opts.ExtractAudio(ctx, video, opts.AudioDir); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			report.Failed++
			log.Error("audio extraction failed", "file", filepath.Base(video), "err", err)
			continue
		}
		report.Extracted++
	}
	return nil
}

// transcribeAll transcribes each audio file one at a time. Audio that
// already has a transcript is skipped unless opts.Force is set.
func transcribeAll(ctx context.Context, log *slog.Logger, audio []string, opts Options, report *Report) error {
	for i, path := range audio {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !opts.Force {
			if _, err := os.Stat(opts.Transcriber.OutputPath(path)); err == nil {
				report.Skipped++
				log.Debug("transcript exists, skipping", "file", filepath.Base(path))
				continue
			}
		}

		log.Info("transcribing",
			"item", fmt.Sprintf("%d/%d", i+1, len(audio)),
			"file", filepath.Base(path))

		if _, err := opts.Transcriber.Transcribe(ctx, path); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, transcribe.ErrModelNotLoaded) {
				return err
			}
			report.Failed++
			log.Error("transcription failed", "file", filepath.Base(path), "err", err)
			continue
		}
		report.Transcribed++
	}
	return nil
}

// retryable reports whether another download attempt can succeed.
func retryable(err error) bool {
	return !errors.Is(err, download.ErrInvalidURL) && !errors.Is(err, exec.ErrNotFound)
}
