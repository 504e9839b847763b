package cmd

import (
	"fmt"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/download"
	"github.com/Arslanex/CurFusion/internal/media"
	"github.com/Arslanex/CurFusion/internal/transcribe"
	"github.com/Arslanex/CurFusion/internal/worker"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Download videos, extract their audio and transcribe it",
	Long: `Ingest downloads every given YouTube URL into the project's video directory,
extracts a 16 kHz mono track from every video and transcribes every track with
whisper. Without URLs the videos already in the project are processed.
Audio that already has a transcript is skipped unless --force is set.`,
	RunE: runIngest,
}

var (
	ingestForce         bool
	ingestMaxConcurrent int
	ingestMaxRetries    int
	ingestRateLimit     int
	ingestModel         string
	ingestLanguage      string
)

func init() {
	defaults := config.Default()

	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "transcribe audio that already has a transcript")
	ingestCmd.Flags().IntVarP(&ingestMaxConcurrent, "max-concurrent", "j", defaults.Download.MaxConcurrent, "max concurrent downloads")
	ingestCmd.Flags().IntVar(&ingestMaxRetries, "max-retries", defaults.Download.MaxRetries, "max attempts per download")
	ingestCmd.Flags().IntVar(&ingestRateLimit, "rate-limit", defaults.Download.RateLimitPerMin, "downloads started per minute")
	ingestCmd.Flags().StringVar(&ingestModel, "model", defaults.Whisper.Model, "whisper model")
	ingestCmd.Flags().StringVarP(&ingestLanguage, "language", "l", defaults.Whisper.Language, "language: en, tr, de, fr, es, ja, ko, zh, auto")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("max-concurrent") {
		cfg.Download.MaxConcurrent = ingestMaxConcurrent
	}
	if flags.Changed("max-retries") {
		cfg.Download.MaxRetries = ingestMaxRetries
	}
	if flags.Changed("rate-limit") {
		cfg.Download.RateLimitPerMin = ingestRateLimit
	}
	if flags.Changed("model") {
		cfg.Whisper.Model = ingestModel
	}
	if flags.Changed("language") {
		cfg.Whisper.Language = ingestLanguage
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, link := range args {
		if err := download.ValidateURL(link); err != nil {
			return err
		}
	}
	if !media.Available() {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	opts := worker.Options{
		URLs:            args,
		VideoDir:        cfg.VideoDir,
		AudioDir:        cfg.AudioDir,
		MaxConcurrent:   cfg.Download.MaxConcurrent,
		MaxRetries:      cfg.Download.MaxRetries,
		RateLimitPerMin: cfg.Download.RateLimitPerMin,
		Force:           ingestForce,
		Downloader:      download.New(cfg.Download.Binary, cfg.VideoDir),
		Transcriber: transcribe.NewWhisper(
			cfg.Whisper.Binary,
			cfg.Whisper.Model,
			config.WhisperLanguage(cfg.Whisper.Language),
			cfg.TranscriptDir,
		),
	}

	rep, err := worker.Ingest(ctx, opts)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d, extracted %d, transcribed %d, skipped %d, failed %d\n",
			rep.Downloaded, rep.Extracted, rep.Transcribed, rep.Skipped, rep.Failed)
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d item(s) failed, see log (run %s)", rep.Failed, rep.RunID)
	}
	return nil
}
