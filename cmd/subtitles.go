package cmd

import (
	"fmt"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/subtitle"

	"github.com/spf13/cobra"
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles",
	Short: "Write an SRT file for every transcript",
	Args:  cobra.NoArgs,
	RunE:  runSubtitles,
}

var (
	subtitlesOutput      string
	subtitlesCPL         int
	subtitlesMaxDuration float64
	subtitlesMinGap      float64
)

func init() {
	defaults := config.Default()

	subtitlesCmd.Flags().StringVarP(&subtitlesOutput, "output", "o", "", "output directory (default from config)")
	subtitlesCmd.Flags().IntVar(&subtitlesCPL, "cpl", defaults.Subtitle.CharsPerLine, "characters per line limit")
	subtitlesCmd.Flags().Float64Var(&subtitlesMaxDuration, "max-duration", defaults.Subtitle.MaxSubtitleDuration, "maximum subtitle duration in seconds (0 keeps whole sentences)")
	subtitlesCmd.Flags().Float64Var(&subtitlesMinGap, "min-gap", defaults.Subtitle.MinSubtitleGap, "minimum gap between subtitles in seconds")

	rootCmd.AddCommand(subtitlesCmd)
}

func runSubtitles(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("cpl") {
		cfg.Subtitle.CharsPerLine = subtitlesCPL
	}
	if flags.Changed("max-duration") {
		cfg.Subtitle.MaxSubtitleDuration = subtitlesMaxDuration
	}
	if flags.Changed("min-gap") {
		cfg.Subtitle.MinSubtitleGap = subtitlesMinGap
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := subtitlesOutput
	if dir == "" {
		dir = cfg.SubtitleDir
	}

	idx, err := newManager().Build()
	if err != nil {
		return err
	}
	paths, err := subtitle.Export(idx, dir, cfg.Subtitle)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	if len(paths) == 0 && !quiet {
		fmt.Fprintln(out, "no timed transcripts")
	}
	return nil
}
