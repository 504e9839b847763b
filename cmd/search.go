package cmd

import (
	"strings"

	"github.com/Arslanex/CurFusion/internal/report"
	"github.com/Arslanex/CurFusion/internal/transcript"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Case-insensitive substring search over sentences or words",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchMode string

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", string(transcript.ModeSentence), "search mode: sentence, word")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	mode, err := transcript.ParseMode(searchMode)
	if err != nil {
		return err
	}

	idx, err := newManager().Build()
	if err != nil {
		return err
	}

	res, err := idx.Search(strings.Join(args, " "), mode)
	if err != nil {
		return err
	}
	report.Search(cmd.OutOrStdout(), res)
	return nil
}
