package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/report"
	"github.com/Arslanex/CurFusion/internal/transcript"
)

// Entry is one subtitle block.
type Entry struct {
	Start float64
	End   float64
	Text  string
}

// Build turns a file's sentences into subtitle entries. A sentence longer
// than MaxSubtitleDuration is split between its words, preferring a word that
// ends a sentence. Overlapping entries are trimmed to keep MinSubtitleGap.
func Build(sentences []transcript.Sentence, s config.SubtitleSettings) []Entry {
	entries := make([]Entry, 0, len(sentences))
	for _, sent := range sentences {
		if strings.TrimSpace(sent.Text) == "" {
			continue
		}
		if s.MaxSubtitleDuration <= 0 || sent.Duration() <= s.MaxSubtitleDuration || len(sent.Words) < 2 {
			entries = append(entries, Entry{Start: sent.Start, End: sent.End, Text: sent.Text})
			continue
		}
		entries = append(entries, splitWords(sent.Words, s.MaxSubtitleDuration)...)
	}
	return fixOverlaps(entries, s.MinSubtitleGap)
}

func splitWords(words []transcript.Word, maxDuration float64) []Entry {
	var entries []Entry
	var group []transcript.Word

	flush := func() {
		if len(group) == 0 {
			return
		}
		texts := make([]string, len(group))
		for i, w := range group {
			texts[i] = w.Text
		}
		entries = append(entries, Entry{
			Start: group[0].Start,
			End:   group[len(group)-1].End,
			Text:  strings.Join(texts, " "),
		})
		group = nil
	}

	for _, w := range words {
		if len(group) > 0 && w.End-group[0].Start > maxDuration {
			flush()
		}
		group = append(group, w)
		if endsSentence(w.Text) && w.End-group[0].Start >= maxDuration/2 {
			flush()
		}
	}
	flush()
	return entries
}

func fixOverlaps(entries []Entry, minGap float64) []Entry {
	for i := 0; i+1 < len(entries); i++ {
		next := entries[i+1].Start
		if entries[i].End > next-minGap {
			entries[i].End = max(next-minGap, entries[i].Start)
		}
	}
	return entries
}

// Write renders entries in SRT format.
func Write(w io.Writer, entries []Entry, charsPerLine int) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%d\n%s\n%s\n", i+1, report.FormatRange(e.Start, e.End), wrapLines(e.Text, charsPerLine)); err != nil {
			return err
		}
	}
	return nil
}

// Export writes one <name>.srt per indexed file into dir and returns the
// written paths. Files without segments have no timing and are skipped.
func Export(idx *transcript.Index, dir string, s config.SubtitleSettings) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create subtitle dir: %w", err)
	}

	sentences := idx.Sentences()
	paths := make([]string, 0, len(idx.Keys()))
	for _, key := range idx.Keys() {
		entries := Build(sentences[key], s)
		if len(entries) == 0 {
			slog.Debug("no subtitles for file", "file", key)
			continue
		}

		var buf bytes.Buffer
		if err := Write(&buf, entries, s.CharsPerLine); err != nil {
			return paths, err
		}

		path := filepath.Join(dir, strings.TrimSuffix(key, filepath.Ext(key))+".srt")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return paths, fmt.Errorf("write subtitles: %w", err)
		}
		slog.Info("subtitles written", "file", key, "entries", len(entries), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
