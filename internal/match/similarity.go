package match

import "github.com/pmezard/go-difflib/difflib"

// Similarity scores two strings in [0,1]. Identical strings score 1.
type Similarity func(a, b string) float64

// SequenceRatio is difflib's SequenceMatcher ratio computed over runes:
// 2*M/T where M is the number of runes in matching blocks and T the total
// rune count of both strings.
func SequenceRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
