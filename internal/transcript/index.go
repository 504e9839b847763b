package transcript

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// SummaryFileName is the summary written into the transcript directory when
// no explicit path is given. It is never indexed as a transcript.
const SummaryFileName = "transcript_summary.json"

// Index is an immutable snapshot of every transcript in a directory. Callers
// must treat the returned slices and maps as read-only; rebuild instead of
// mutating.
type Index struct {
	files     int
	keys      []string
	sentences map[string][]Sentence
	words     []Word
	bulk      []BulkWord
}

// Files returns the number of transcript files that decoded successfully.
func (idx *Index) Files() int { return idx.files }

// Keys returns the file keys that carried segments, in discovery order.
func (idx *Index) Keys() []string { return idx.keys }

// Sentences returns the per-file sentence lists, each sorted by start time.
func (idx *Index) Sentences() map[string][]Sentence { return idx.sentences }

// Words returns every word of every file sorted by start time.
func (idx *Index) Words() []Word { return idx.words }

// BulkWords returns the reduced word projection sorted by start time,
// including text-split words of transcripts without segments.
func (idx *Index) BulkWords() []BulkWord { return idx.bulk }

// Manager discovers and indexes the transcripts of one directory. It holds no
// state between builds.
type Manager struct {
	dir     string
	exclude map[string]struct{}
}

// NewManager creates a manager for dir. The default summary file and any
// extra paths in exclude are skipped during discovery.
func NewManager(dir string, exclude ...string) *Manager {
	m := &Manager{
		dir:     dir,
		exclude: make(map[string]struct{}, len(exclude)+1),
	}
	m.exclude[cleanPath(filepath.Join(dir, SummaryFileName))] = struct{}{}
	for _, p := range exclude {
		if p != "" {
			m.exclude[cleanPath(p)] = struct{}{}
		}
	}
	return m
}

// Dir returns the transcript directory.
func (m *Manager) Dir() string { return m.dir }

// FindFiles returns the transcript files in lexical order.
func (m *Manager) FindFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob transcripts: %w", err)
	}
	files := matches[:0]
	for _, path := range matches {
		if _, skip := m.exclude[cleanPath(path)]; skip {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// Build parses every transcript once and derives all projections from that
// single pass. Files that cannot be read or decoded are logged and skipped.
func (m *Manager) Build() (*Index, error) {
	files, err := m.FindFiles()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		sentences: make(map[string][]Sentence),
		words:     []Word{},
		bulk:      []BulkWord{},
	}

	for _, path := range files {
		doc, err := ParseFile(path)
		if err != nil {
			slog.Warn("skipping malformed transcript", "file", filepath.Base(path), "err", err)
			continue
		}
		idx.files++
		idx.add(FileKey(path), doc)
	}

	sort.SliceStable(idx.words, func(i, j int) bool {
		return idx.words[i].Start < idx.words[j].Start
	})
	sort.SliceStable(idx.bulk, func(i, j int) bool {
		return idx.bulk[i].Start < idx.bulk[j].Start
	})

	slog.Debug("transcript index built",
		"dir", m.dir,
		"files", idx.files,
		"files_with_segments", len(idx.keys),
		"words", len(idx.words))
	return idx, nil
}

func (idx *Index) add(key string, doc *Document) {
	if !doc.HasSegments {
		for _, w := range strings.Fields(doc.Text) {
			idx.bulk = append(idx.bulk, BulkWord{Text: w, SourceFile: key})
		}
		return
	}

	sentences := make([]Sentence, 0, len(doc.segments))
	for i, seg := range doc.segments {
		s := newSentence(seg, key, i)
		sentences = append(sentences, s)

		// Flatten in recognition order so equal start times keep segment order.
		for _, w := range s.Words {
			idx.words = append(idx.words, w)
			idx.bulk = append(idx.bulk, BulkWord{
				Text:       w.Text,
				Start:      w.Start,
				End:        w.End,
				SourceFile: key,
			})
		}
	}

	sort.SliceStable(sentences, func(i, j int) bool {
		return sentences[i].Start < sentences[j].Start
	})
	idx.keys = append(idx.keys, key)
	idx.sentences[key] = sentences
}

// CollectSentences rebuilds the index and returns the per-file sentences.
func (m *Manager) CollectSentences() (map[string][]Sentence, error) {
	idx, err := m.Build()
	if err != nil {
		return nil, err
	}
	return idx.Sentences(), nil
}

// ExtractWordDetails rebuilds the index and returns the global word list.
func (m *Manager) ExtractWordDetails() ([]Word, error) {
	idx, err := m.Build()
	if err != nil {
		return nil, err
	}
	return idx.Words(), nil
}

// CollectWords rebuilds the index and returns the bulk word projection.
func (m *Manager) CollectWords() ([]BulkWord, error) {
	idx, err := m.Build()
	if err != nil {
		return nil, err
	}
	return idx.BulkWords(), nil
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
