package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when an input media file does not exist.
	ErrNotFound = errors.New("media file not found")
	// ErrUnsupported is returned for an input with an unexpected extension.
	ErrUnsupported = errors.New("unsupported media format")
	// ErrInvalidRange is returned for an empty or inverted range list.
	ErrInvalidRange = errors.New("invalid segment range")
)

// Info holds duration and codec information from ffprobe.
type Info struct {
	Duration float64
	Codec    string
}

// Available returns true if ffmpeg is on the PATH.
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// probeOutput mirrors ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// Probe uses ffprobe to get media duration and audio codec.
func Probe(ctx context.Context, path string) (*Info, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	cmd := exec.CommandContext(ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(out)
}

func parseProbe(out []byte) (*Info, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("ffprobe JSON parse error: %w", err)
	}

	dur, _ := strconv.ParseFloat(probe.Format.Duration, 64)

	codec := "N/A"
	if len(probe.Streams) > 0 && probe.Streams[0].CodecName != "" {
		codec = probe.Streams[0].CodecName
	}

	return &Info{Duration: dur, Codec: codec}, nil
}

// AudioPath returns where ExtractAudio writes the audio of videoPath.
func AudioPath(videoPath, audioDir string) string {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(audioDir, base+".wav")
}

// ExtractAudio writes the audio track of an .mp4 file to audioDir as 16 kHz
// mono PCM, the input format whisper expects, and returns the output path.
// An existing output is overwritten.
func ExtractAudio(ctx context.Context, videoPath, audioDir string) (string, error) {
	if err := requireFile(videoPath); err != nil {
		return "", err
	}
	if !strings.EqualFold(filepath.Ext(videoPath), ".mp4") {
		return "", fmt.Errorf("%w: %s (want .mp4)", ErrUnsupported, filepath.Base(videoPath))
	}
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	outputPath := AudioPath(videoPath, audioDir)
	if _, err := os.Stat(outputPath); err == nil {
		slog.Warn("audio file exists, overwriting", "file", filepath.Base(outputPath))
	}

	slog.Info("extracting audio", "input", filepath.Base(videoPath), "output", filepath.Base(outputPath))

	if err := run(ctx, "extract audio",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	); err != nil {
		return "", err
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio produced no output: %w", err)
	}
	return outputPath, nil
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// run executes ffmpeg and folds its combined output into the error.
func run(ctx context.Context, op string, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", append([]string{"-hide_banner", "-loglevel", "error"}, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg %s failed: %w\n%s", op, err, string(out))
	}
	return nil
}
