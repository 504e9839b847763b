package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/match"
	"github.com/Arslanex/CurFusion/internal/report"
	"github.com/Arslanex/CurFusion/internal/transcript"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [sentence...]",
	Short: "Fuzzy-match every word of a sentence against the transcripts",
	Long: `Match splits the sentence into words and lists, for each word, the most
similar spoken words with their source file and time range. Without arguments
sentences are read from standard input, one per line, until EOF.`,
	RunE: runMatch,
}

var (
	matchThreshold float64
	matchTop       int
)

func init() {
	defaults := config.Default()

	matchCmd.Flags().Float64VarP(&matchThreshold, "threshold", "t", defaults.Match.Threshold, "minimum similarity in [0,1]")
	matchCmd.Flags().IntVarP(&matchTop, "top", "n", defaults.Match.TopN, "matches shown per word (0 for all)")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	threshold := cfg.Match.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = matchThreshold
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold %.2f outside [0,1]", threshold)
	}
	top := cfg.Match.TopN
	if cmd.Flags().Changed("top") {
		top = matchTop
	}

	idx, err := newManager().Build()
	if err != nil {
		return err
	}
	m := match.New(threshold)
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		matchSentence(out, m, idx, strings.Join(args, " "), top)
		return nil
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "Enter a sentence: ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		if line := strings.TrimSpace(in.Text()); line != "" {
			matchSentence(out, m, idx, line, top)
		}
	}
}

func matchSentence(w io.Writer, m *match.Matcher, idx *transcript.Index, sentence string, top int) {
	terms := match.Terms(sentence)
	report.Matches(w, terms, m.Find(terms, idx.Words()), top)
}
