package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrModelNotLoaded is returned by Transcribe before Load succeeded.
	ErrModelNotLoaded = errors.New("whisper model is not loaded, call Load first")
	// ErrNotFound is returned when the audio file does not exist.
	ErrNotFound = errors.New("audio file not found")
)

// Whisper drives the openai-whisper command line. Transcripts are written as
// JSON with word-level timestamps, the format the transcript index reads.
type Whisper struct {
	Binary    string
	Model     string
	Language  string
	OutputDir string

	mu     sync.Mutex
	path   string
	loaded bool
}

// NewWhisper creates a transcriber writing into outputDir. language is the
// value for whisper's --language flag; empty means auto-detect.
func NewWhisper(binary, model, language, outputDir string) *Whisper {
	if binary == "" {
		binary = "whisper"
	}
	if model == "" {
		model = "base"
	}
	return &Whisper{
		Binary:    binary,
		Model:     model,
		Language:  language,
		OutputDir: outputDir,
	}
}

// Load resolves the whisper binary and prepares the output directory. It must
// be called before Transcribe.
func (w *Whisper) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	slog.Info("loading whisper model", "model", w.Model)

	path, err := exec.LookPath(w.Binary)
	if err != nil {
		return fmt.Errorf("model loading failed: %s not found: %w", w.Binary, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	w.path = path
	w.loaded = true
	slog.Info("whisper model ready", "model", w.Model, "binary", path)
	return nil
}

// Loaded reports whether Load succeeded.
func (w *Whisper) Loaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

// OutputPath returns where the transcript of audioPath is written.
func (w *Whisper) OutputPath(audioPath string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(w.OutputDir, base+".json")
}

// Transcribe runs whisper on audioPath and returns the transcript path.
// Calls are serialized; whisper saturates the machine on its own.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, audioPath)
		}
		return "", fmt.Errorf("stat audio: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return "", ErrModelNotLoaded
	}

	slog.Info("transcribing", "file", filepath.Base(audioPath), "model", w.Model)

	cmd := exec.CommandContext(ctx, w.path, w.args(audioPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w\n%s", err, string(out))
	}

	outputPath := w.OutputPath(audioPath)
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("whisper produced no transcript: %w", err)
	}

	slog.Info("transcript saved", "path", outputPath)
	return outputPath, nil
}

func (w *Whisper) args(audioPath string) []string {
	args := []string{
		audioPath,
		"--model", w.Model,
		"--output_dir", w.OutputDir,
		"--output_format", "json",
		"--word_timestamps", "True",
		"--fp16", "False",
		"--verbose", "False",
	}
	if w.Language != "" {
		args = append(args, "--language", w.Language)
	}
	return args
}
