package match

import (
	"sort"
	"strings"

	"github.com/Arslanex/CurFusion/internal/transcript"
)

// DefaultThreshold is tuned for SequenceRatio.
const DefaultThreshold = 0.7

// Match is one candidate word accepted for a query term.
type Match struct {
	Word       string  `json:"word"`
	Similarity float64 `json:"similarity"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	SourceFile string  `json:"source_file"`
}

// Matches maps each query term to its matches, best first.
type Matches map[string][]Match

// Matcher scores query terms against transcript words.
type Matcher struct {
	Similarity Similarity
	Threshold  float64
}

// New returns a Matcher using SequenceRatio.
func New(threshold float64) *Matcher {
	return &Matcher{Similarity: SequenceRatio, Threshold: threshold}
}

// FindMatches scores every term against every word with SequenceRatio.
func FindMatches(terms []string, words []transcript.Word, threshold float64) Matches {
	return New(threshold).Find(terms, words)
}

// Find compares each lower-cased term with each lower-cased word text and
// keeps the words scoring at least the threshold, sorted by similarity
// descending. Ties keep candidate order. Inputs are not modified.
func (m *Matcher) Find(terms []string, words []transcript.Word) Matches {
	sim := m.Similarity
	if sim == nil {
		sim = SequenceRatio
	}

	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = transcript.Lower(w.Text)
	}

	out := make(Matches, len(terms))
	for _, term := range terms {
		if _, done := out[term]; done {
			continue
		}
		q := transcript.Lower(term)

		// Transcripts repeat words a lot; score each distinct text once.
		scores := make(map[string]float64)
		matches := []Match{}
		for i, w := range words {
			score, ok := scores[lowered[i]]
			if !ok {
				score = sim(q, lowered[i])
				scores[lowered[i]] = score
			}
			if score < m.Threshold {
				continue
			}
			matches = append(matches, Match{
				Word:       w.Text,
				Similarity: score,
				Start:      w.Start,
				End:        w.End,
				SourceFile: w.SourceFile,
			})
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Similarity > matches[j].Similarity
		})
		out[term] = matches
	}
	return out
}

// Terms splits a free-text query on whitespace.
func Terms(sentence string) []string {
	return strings.Fields(sentence)
}

// Best returns the highest-ranked match of every term that has one, in term
// order. Repeated terms are reported once.
func (ms Matches) Best(terms []string) []Match {
	seen := make(map[string]bool, len(terms))
	var best []Match
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		if found := ms[term]; len(found) > 0 {
			best = append(best, found[0])
		}
	}
	return best
}
