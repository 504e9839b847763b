package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/transcript"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	projectDir string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "curfusion",
	Short: "Search and fuzzy-match words across video transcripts",
	Long: `CurFusion indexes word-timestamped transcripts, fuzzy-matches query words
against every spoken word, and compiles the matching moments of the source
videos into clips.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return loadConfig()
	},
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func loadConfig() error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if projectDir != "" {
		c.SetProject(projectDir)
	}
	slog.Debug("config loaded",
		"project", c.ProjectDir,
		"transcripts", c.TranscriptDir,
		"summary", c.SummaryPath)
	cfg = c
	return nil
}

// newManager returns a manager over the transcript directory. The summary
// export and any extra paths are never read as transcripts.
func newManager(exclude ...string) *transcript.Manager {
	return transcript.NewManager(cfg.TranscriptDir, append([]string{cfg.SummaryPath}, exclude...)...)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory (default from config)")
}
