package subtitle

import (
	"strings"
	"unicode/utf8"
)

// breakAfter holds the punctuation a line may end on when no space is near.
var breakAfter = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, ';': {}, ':': {}, ',': {}, ')': {}, ']': {}, '-': {},
	'…': {}, '。': {}, '！': {}, '？': {}, '，': {}, '、': {},
}

// wrapLines returns text on a single line if it fits within maxCPL,
// otherwise splits it into at most two lines.
func wrapLines(text string, maxCPL int) string {
	text = strings.TrimSpace(text)
	if text == "" || maxCPL <= 0 || utf8.RuneCountInString(text) <= maxCPL {
		return text
	}

	runes := []rune(text)
	pos := splitPosition(runes, maxCPL)
	first := strings.TrimSpace(string(runes[:pos]))
	rest := strings.TrimSpace(string(runes[pos:]))
	if rest == "" {
		return first
	}
	return first + "\n" + rest
}

// splitPosition finds the last space or punctuation at or before maxLen.
// Without one the text is cut hard at maxLen.
func splitPosition(runes []rune, maxLen int) int {
	if len(runes) <= maxLen {
		return len(runes)
	}
	for i := min(maxLen, len(runes)-1); i > 0; i-- {
		r := runes[i]
		if r == ' ' {
			return i
		}
		if _, ok := breakAfter[r]; ok && i < maxLen {
			return i + 1
		}
	}
	return maxLen
}

// endsSentence reports whether a word closes a sentence.
func endsSentence(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimSpace(word))
	switch r {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}
