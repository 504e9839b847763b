package transcript

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects what Search scans.
type Mode string

const (
	ModeSentence Mode = "sentence"
	ModeWord     Mode = "word"
)

// ErrInvalidMode is returned for a search mode other than sentence or word.
var ErrInvalidMode = errors.New("search mode must be 'sentence' or 'word'")

// ParseMode validates a user-supplied search mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSentence, ModeWord:
		return m, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
}

// SearchResult holds the hits of one search. Only the slice matching Mode is
// populated.
type SearchResult struct {
	Mode      Mode
	Sentences []Sentence
	Words     []Word
}

// Len returns the number of hits.
func (r SearchResult) Len() int {
	if r.Mode == ModeWord {
		return len(r.Words)
	}
	return len(r.Sentences)
}

// Search returns the sentences or words whose text contains query,
// ignoring case. Sentences are visited file by file in key order.
func (idx *Index) Search(query string, mode Mode) (SearchResult, error) {
	q := Lower(query)
	res := SearchResult{Mode: mode}

	switch mode {
	case ModeSentence:
		for _, key := range idx.keys {
			for _, s := range idx.sentences[key] {
				if strings.Contains(Lower(s.Text), q) {
					res.Sentences = append(res.Sentences, s)
				}
			}
		}
	case ModeWord:
		for _, w := range idx.words {
			if strings.Contains(Lower(w.Text), q) {
				res.Words = append(res.Words, w)
			}
		}
	default:
		return SearchResult{}, fmt.Errorf("%w: got %q", ErrInvalidMode, mode)
	}
	return res, nil
}

// Lower lower-cases s with Unicode-aware rules.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
