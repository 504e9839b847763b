package cmd

import (
	"fmt"
	"strings"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/media"
	"github.com/Arslanex/CurFusion/internal/report"
	"github.com/Arslanex/CurFusion/internal/worker"

	"github.com/spf13/cobra"
)

var clipCmd = &cobra.Command{
	Use:   "clip <sentence...>",
	Short: "Compile the best-matching moment of every word into clips",
	Long: `Clip finds the best match of every word of the sentence and cuts those
moments out of the source videos, joining them into one clip per video in the
project's segment directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClip,
}

var (
	clipPadding   float64
	clipThreshold float64
)

func init() {
	defaults := config.Default()

	clipCmd.Flags().Float64VarP(&clipPadding, "padding", "p", defaults.ClipPadding, "seconds added around every word")
	clipCmd.Flags().Float64VarP(&clipThreshold, "threshold", "t", defaults.Match.Threshold, "minimum similarity in [0,1]")

	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("padding") {
		cfg.ClipPadding = clipPadding
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Match.Threshold = clipThreshold
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !media.Available() {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := worker.Clip(ctx, worker.ClipOptions{
		Query:         strings.Join(args, " "),
		Threshold:     cfg.Match.Threshold,
		Padding:       cfg.ClipPadding,
		TranscriptDir: cfg.TranscriptDir,
		Exclude:       []string{cfg.SummaryPath},
		VideoDir:      cfg.VideoDir,
		OutputDir:     cfg.SegmentDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "%s: failed: %v\n", r.SourceFile, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s -> %s\n", r.SourceFile, r.Output)
		for _, m := range r.Words {
			fmt.Fprintf(out, "  '%s' [%s]\n", m.Word, report.FormatRange(m.Start, m.End))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d clip(s) failed", failed, len(results))
	}
	return nil
}
