package cmd

import (
	"github.com/Arslanex/CurFusion/internal/report"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-file sentence and word statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsPreview int

func init() {
	statsCmd.Flags().IntVar(&statsPreview, "preview", 3, "sentences previewed per file (0 for all)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	idx, err := newManager().Build()
	if err != nil {
		return err
	}
	report.Stats(cmd.OutOrStdout(), idx, statsPreview)
	return nil
}
