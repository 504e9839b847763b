package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SummaryFileName is the summary written into the transcript directory when
// no explicit summary path is configured.
const SummaryFileName = "transcript_summary.json"

// MatchSettings holds the fuzzy matching parameters.
type MatchSettings struct {
	Threshold float64 `yaml:"threshold"`
	TopN      int     `yaml:"top_n"`
}

// WhisperSettings configures the transcription collaborator.
type WhisperSettings struct {
	Binary   string `yaml:"binary"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

// DownloadSettings configures the media acquisition collaborator.
type DownloadSettings struct {
	Binary          string `yaml:"binary"`
	MaxConcurrent   int    `yaml:"max_concurrent"`
	MaxRetries      int    `yaml:"max_retries"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// SubtitleSettings holds the SRT export parameters.
type SubtitleSettings struct {
	MaxSubtitleDuration float64 `yaml:"max_duration"`
	MinSubtitleGap      float64 `yaml:"min_gap"`
	CharsPerLine        int     `yaml:"chars_per_line"`
}

// Config holds the full application configuration.
type Config struct {
	ProjectDir    string `yaml:"project_dir"`
	VideoDir      string `yaml:"video_dir"`
	AudioDir      string `yaml:"audio_dir"`
	TranscriptDir string `yaml:"transcript_dir"`
	SegmentDir    string `yaml:"segment_dir"`
	SubtitleDir   string `yaml:"subtitle_dir"`
	SummaryPath   string `yaml:"summary_path"`

	// ClipPadding widens every compiled clip range on both sides, in seconds.
	ClipPadding float64 `yaml:"clip_padding"`

	Match    MatchSettings    `yaml:"match"`
	Whisper  WhisperSettings  `yaml:"whisper"`
	Download DownloadSettings `yaml:"download"`
	Subtitle SubtitleSettings `yaml:"subtitle"`
}

// Default returns a Config with hardcoded defaults. Directory fields are left
// empty and derived from ProjectDir by Resolve.
func Default() *Config {
	return &Config{
		ProjectDir:  "projects",
		ClipPadding: 0.15,
		Match: MatchSettings{
			Threshold: 0.7,
			TopN:      3,
		},
		Whisper: WhisperSettings{
			Binary:   "whisper",
			Model:    "base",
			Language: "auto",
		},
		Download: DownloadSettings{
			Binary:          "yt-dlp",
			MaxConcurrent:   2,
			MaxRetries:      3,
			RateLimitPerMin: 20,
		},
		Subtitle: SubtitleSettings{
			MaxSubtitleDuration: 7.0,
			MinSubtitleGap:      0.083,
			CharsPerLine:        42,
		},
	}
}

// Load reads a YAML file and overlays it onto the defaults. An empty path
// returns the resolved defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Resolve()
	return cfg, nil
}

// Resolve fills every unset directory from ProjectDir using the fixed project
// layout (videos/, audio/, transcription/, segments/, subtitles/).
func (c *Config) Resolve() {
	if c.VideoDir == "" {
		c.VideoDir = filepath.Join(c.ProjectDir, "videos")
	}
	if c.AudioDir == "" {
		c.AudioDir = filepath.Join(c.ProjectDir, "audio")
	}
	if c.TranscriptDir == "" {
		c.TranscriptDir = filepath.Join(c.ProjectDir, "transcription")
	}
	if c.SegmentDir == "" {
		c.SegmentDir = filepath.Join(c.ProjectDir, "segments")
	}
	if c.SubtitleDir == "" {
		c.SubtitleDir = filepath.Join(c.ProjectDir, "subtitles")
	}
	if c.SummaryPath == "" {
		c.SummaryPath = filepath.Join(c.TranscriptDir, SummaryFileName)
	}
}

// SetProject moves the project root. Directories that were derived from the
// old root are derived again from dir; explicitly configured ones are kept.
func (c *Config) SetProject(dir string) {
	if c.SummaryPath == filepath.Join(c.TranscriptDir, SummaryFileName) {
		c.SummaryPath = ""
	}
	old := Config{ProjectDir: c.ProjectDir}
	old.Resolve()
	dirs := []struct {
		cur     *string
		derived string
	}{
		{&c.VideoDir, old.VideoDir},
		{&c.AudioDir, old.AudioDir},
		{&c.TranscriptDir, old.TranscriptDir},
		{&c.SegmentDir, old.SegmentDir},
		{&c.SubtitleDir, old.SubtitleDir},
	}
	for _, d := range dirs {
		if *d.cur == d.derived {
			*d.cur = ""
		}
	}
	c.ProjectDir = dir
	c.Resolve()
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		return fmt.Errorf("match threshold %.2f outside [0,1]", c.Match.Threshold)
	}
	if c.Match.TopN < 0 {
		return fmt.Errorf("match top_n must not be negative, got %d", c.Match.TopN)
	}
	if c.ClipPadding < 0 {
		return fmt.Errorf("clip padding must not be negative, got %.2f", c.ClipPadding)
	}
	if c.Subtitle.CharsPerLine < 1 {
		return fmt.Errorf("subtitle chars_per_line must be at least 1, got %d", c.Subtitle.CharsPerLine)
	}
	if c.Subtitle.MaxSubtitleDuration < 0 || c.Subtitle.MinSubtitleGap < 0 {
		return fmt.Errorf("subtitle durations must not be negative")
	}
	if c.Download.MaxConcurrent < 1 {
		return fmt.Errorf("download max_concurrent must be at least 1, got %d", c.Download.MaxConcurrent)
	}
	if c.Download.MaxRetries < 1 {
		return fmt.Errorf("download max_retries must be at least 1, got %d", c.Download.MaxRetries)
	}
	if c.Download.RateLimitPerMin < 1 {
		return fmt.Errorf("download rate_limit_per_min must be at least 1, got %d", c.Download.RateLimitPerMin)
	}
	return nil
}

// EnsureDirs creates every working directory.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.VideoDir, c.AudioDir, c.TranscriptDir, c.SegmentDir, c.SubtitleDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
