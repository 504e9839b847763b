package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Range is a time span of a source video, in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ValidateRanges rejects an empty list and any range with end <= start or a
// negative start.
func ValidateRanges(ranges []Range) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: no segments provided", ErrInvalidRange)
	}
	for i, r := range ranges {
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("%w: segment %d [%.3f, %.3f]", ErrInvalidRange, i, r.Start, r.End)
		}
	}
	return nil
}

// SegmentName is the file name CutSegment uses for a range.
func SegmentName(r Range) string {
	return fmt.Sprintf("segment_%s_%s.mp4", formatSeconds(r.Start), formatSeconds(r.End))
}

// CutSegment re-encodes [r.Start, r.End) of videoPath into outDir with H.264
// video and AAC audio and returns the output path.
func CutSegment(ctx context.Context, videoPath string, r Range, outDir string) (string, error) {
	if err := requireFile(videoPath); err != nil {
		return "", err
	}
	if err := ValidateRanges([]Range{r}); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create segment dir: %w", err)
	}

	outputPath := filepath.Join(outDir, SegmentName(r))
	slog.Debug("cutting segment", "input", filepath.Base(videoPath), "start", r.Start, "end", r.End)

	if err := run(ctx, "cut segment",
		"-ss", formatSeconds(r.Start),
		"-i", videoPath,
		"-t", formatSeconds(r.End-r.Start),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-y",
		outputPath,
	); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Concat joins segments with the concat demuxer into outputPath. Segments
// must share codecs, which CutSegment guarantees.
func Concat(ctx context.Context, segments []string, outputPath string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: no segments provided for concatenation", ErrInvalidRange)
	}
	for _, s := range segments {
		if err := requireFile(s); err != nil {
			return "", err
		}
	}

	list, err := os.CreateTemp(filepath.Dir(outputPath), ".concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())

	if _, err := list.WriteString(concatList(segments)); err != nil {
		list.Close()
		return "", fmt.Errorf("write concat list: %w", err)
	}
	if err := list.Close(); err != nil {
		return "", fmt.Errorf("close concat list: %w", err)
	}

	if err := run(ctx, "concat",
		"-f", "concat",
		"-safe", "0",
		"-i", list.Name(),
		"-c", "copy",
		"-y",
		outputPath,
	); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Compile cuts every range out of videoPath and joins them into one file in
// outDir named <video>_compiled.mp4. The intermediate segments are removed.
func Compile(ctx context.Context, videoPath string, ranges []Range, outDir string) (string, error) {
	if err := requireFile(videoPath); err != nil {
		return "", err
	}
	if err := ValidateRanges(ranges); err != nil {
		return "", err
	}
	// Without ffprobe the ranges are cut as given.
	if info, err := Probe(ctx, videoPath); err != nil {
		slog.Debug("probe failed, ranges not clamped", "file", filepath.Base(videoPath), "err", err)
	} else if info.Duration > 0 {
		slog.Debug("compiling clip",
			"file", filepath.Base(videoPath),
			"duration", info.Duration,
			"codec", info.Codec,
			"ranges", len(ranges))
		clamped, err := clampRanges(ranges, info.Duration)
		if err != nil {
			return "", err
		}
		ranges = clamped
	}

	segments := make([]string, 0, len(ranges))
	defer func() {
		for _, s := range segments {
			if err := os.Remove(s); err != nil && !os.IsNotExist(err) {
				slog.Debug("cleanup segment", "file", filepath.Base(s), "err", err)
			}
		}
	}()

	for i, r := range ranges {
		seg, err := CutSegment(ctx, videoPath, r, outDir)
		if err != nil {
			return "", fmt.Errorf("segment %d/%d: %w", i+1, len(ranges), err)
		}
		segments = append(segments, seg)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	outputPath := filepath.Join(outDir, base+"_compiled.mp4")
	slog.Info("concatenating segments", "count", len(segments), "output", filepath.Base(outputPath))
	return Concat(ctx, segments, outputPath)
}

// clampRanges cuts every range off at duration. A range starting at or past
// the end of the media is an error.
func clampRanges(ranges []Range, duration float64) ([]Range, error) {
	out := make([]Range, len(ranges))
	for i, r := range ranges {
		if r.Start >= duration {
			return nil, fmt.Errorf("%w: segment %d starts at %.3f, media ends at %.3f", ErrInvalidRange, i, r.Start, duration)
		}
		out[i] = Range{Start: r.Start, End: min(r.End, duration)}
	}
	return out, nil
}

func concatList(segments []string) string {
	var sb strings.Builder
	for _, s := range segments {
		abs, err := filepath.Abs(s)
		if err != nil {
			abs = s
		}
		fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return sb.String()
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
