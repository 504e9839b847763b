package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Export a JSON summary of every transcript",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var summaryOutput string

func init() {
	summaryCmd.Flags().StringVarP(&summaryOutput, "output", "o", "", "summary path (default from config)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	output := summaryOutput
	if output == "" {
		output = cfg.SummaryPath
	}

	path, err := newManager(output).ExportSummary(output)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
