package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Arslanex/CurFusion/internal/match"
	"github.com/Arslanex/CurFusion/internal/transcript"
)

// FormatTimestamp converts seconds to HH:MM:SS,mmm, rounded to the nearest
// millisecond.
func FormatTimestamp(seconds float64) string {
	ms := int64(math.Round(math.Abs(seconds) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// FormatRange renders a start/end pair.
func FormatRange(start, end float64) string {
	return FormatTimestamp(start) + " --> " + FormatTimestamp(end)
}

// Matches writes the top matches of every term, in term order. A topN of
// zero or less prints every match. Repeated terms are printed once.
func Matches(w io.Writer, terms []string, ms match.Matches, topN int) {
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true

		fmt.Fprintf(w, "\nQuery word: '%s'\n", term)
		found := ms[term]
		if len(found) == 0 {
			fmt.Fprintln(w, "  no matches")
			continue
		}
		if topN > 0 && len(found) > topN {
			found = found[:topN]
		}
		fmt.Fprintln(w, "Top matches:")
		for _, m := range found {
			fmt.Fprintf(w, "  - '%s' (similarity: %.2f%%)\n", m.Word, m.Similarity*100)
			fmt.Fprintf(w, "    file: %s [%s]\n", m.SourceFile, FormatRange(m.Start, m.End))
		}
	}
}

// Search writes the hits of a substring search.
func Search(w io.Writer, res transcript.SearchResult) {
	if res.Len() == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for _, s := range res.Sentences {
		fmt.Fprintf(w, "%s [%s] %s\n", s.SourceFile, FormatRange(s.Start, s.End), s.Text)
	}
	for _, word := range res.Words {
		fmt.Fprintf(w, "%s [%s] %s  (%s)\n",
			word.SourceFile, FormatRange(word.Start, word.End), word.Text, word.SegmentText)
	}
	fmt.Fprintf(w, "%d result(s)\n", res.Len())
}

// Stats writes the per-file analysis followed by the first sentences of each
// file, up to preview sentences.
func Stats(w io.Writer, idx *transcript.Index, preview int) {
	sentences := idx.Sentences()
	for _, st := range idx.Stats() {
		fmt.Fprintf(w, "\nFile: %s\n", st.Key)
		fmt.Fprintf(w, "Total sentences: %d\n", st.Sentences)
		fmt.Fprintf(w, "Total duration: %.2f seconds\n", st.TotalDuration)
		fmt.Fprintf(w, "Average sentence duration: %.2f seconds\n", st.AverageDuration)
		fmt.Fprintf(w, "Total words: %d\n", st.Words)

		list := sentences[st.Key]
		if preview > 0 && len(list) > preview {
			list = list[:preview]
		}
		for _, s := range list {
			fmt.Fprintf(w, "- %s\n", s.Text)
			fmt.Fprintf(w, "  start: %.2f, end: %.2f, words: %d\n", s.Start, s.End, len(s.Words))
		}
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Transcripts: %d, indexed words: %d\n", idx.Files(), len(idx.Words()))
}
