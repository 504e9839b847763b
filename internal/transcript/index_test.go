package transcript

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const hiThere = `{"segments": [{"text": "hi there", "start": 0.0, "end": 1.0, "words": [
	{"word": "hi", "start": 0.0, "end": 0.3},
	{"word": "there", "start": 0.4, "end": 1.0}
]}]}`

func buildIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := NewManager(dir).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", hiThere)

	words, err := NewManager(dir).ExtractWordDetails()
	if err != nil {
		t.Fatalf("ExtractWordDetails() error = %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}

	want := []Word{
		{Text: "hi", Start: 0, End: 0.3, Confidence: 1, SourceFile: "a.mp4", SegmentText: "hi there"},
		{Text: "there", Start: 0.4, End: 1.0, Confidence: 1, SourceFile: "a.mp4", WordIndexInSegment: 1, SegmentText: "hi there"},
	}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("words = %+v\nwant %+v", words, want)
	}
}

func TestBuild_SortsSentencesAndWords(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", `{"segments": [
		{"text": "third", "start": 5, "end": 6, "words": [{"word": "third", "start": 5, "end": 6}]},
		{"text": "first", "start": 0, "end": 1, "words": [{"word": "first", "start": 0, "end": 1}]},
		{"text": "second", "start": 2, "end": 3, "words": [{"word": "second", "start": 2, "end": 3}]}
	]}`)
	writeTranscript(t, dir, "b.json", `{"segments": [
		{"text": "middle", "start": 4, "end": 4.5, "words": [{"word": "middle", "start": 4, "end": 4.5}]},
		{"text": "early", "start": 1, "end": 1.5, "words": [{"word": "early", "start": 1, "end": 1.5}]}
	]}`)

	idx := buildIndex(t, dir)

	for key, sentences := range idx.Sentences() {
		for i := 1; i < len(sentences); i++ {
			if sentences[i].Start < sentences[i-1].Start {
				t.Errorf("%s: sentence %d starts before sentence %d", key, i, i-1)
			}
		}
	}

	var got []string
	for i, w := range idx.Words() {
		if i > 0 && w.Start < idx.Words()[i-1].Start {
			t.Errorf("word %d starts before word %d", i, i-1)
		}
		got = append(got, w.Text)
	}
	want := []string{"first", "early", "second", "middle", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("word order = %v, want %v", got, want)
	}

	// Segment indices are positional in the source, not in the sorted order.
	first := idx.Sentences()["a.mp4"][0]
	if first.Text != "first" || first.Words[0].SegmentIndex != 1 {
		t.Errorf("first sentence = %q with segment index %d, want 'first' with 1",
			first.Text, first.Words[0].SegmentIndex)
	}
}

func TestBuild_StableTies(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", `{"segments": [
		{"text": "one", "start": 1, "end": 2, "words": [{"word": "one", "start": 1, "end": 2}]},
		{"text": "two", "start": 1, "end": 2, "words": [{"word": "two", "start": 1, "end": 2}]}
	]}`)
	writeTranscript(t, dir, "b.json", `{"segments": [
		{"text": "three", "start": 1, "end": 2, "words": [{"word": "three", "start": 1, "end": 2}]}
	]}`)

	idx := buildIndex(t, dir)

	sentences := idx.Sentences()["a.mp4"]
	if sentences[0].Text != "one" || sentences[1].Text != "two" {
		t.Errorf("tied sentences reordered: %q, %q", sentences[0].Text, sentences[1].Text)
	}

	var got []string
	for _, w := range idx.Words() {
		got = append(got, w.Text)
	}
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tied words = %v, want discovery order %v", got, want)
	}
}

func TestBuild_SentenceTimesNotRecomputed(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", `{"segments": [{"text": "odd", "start": 1, "end": 2, "words": [
		{"word": "odd", "start": 0.5, "end": 2.5}
	]}]}`)

	s := buildIndex(t, dir).Sentences()["a.mp4"][0]
	if s.Start != 1 || s.End != 2 {
		t.Errorf("sentence = [%v, %v], want verbatim [1, 2]", s.Start, s.End)
	}
	if s.Words[0].Start != 0.5 || s.Words[0].End != 2.5 {
		t.Errorf("word = [%v, %v], want uncorrected [0.5, 2.5]", s.Words[0].Start, s.Words[0].End)
	}
}

func TestBuild_MalformedFileIsolation(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", hiThere)
	writeTranscript(t, dir, "b.json", `{"segments": [`)
	writeTranscript(t, dir, "c.json", hiThere)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	sentences, err := NewManager(dir).CollectSentences()
	if err != nil {
		t.Fatalf("CollectSentences() error = %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 files, got %d", len(sentences))
	}
	for _, key := range []string{"a.mp4", "c.mp4"} {
		if _, ok := sentences[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := sentences["b.mp4"]; ok {
		t.Error("malformed file should not be indexed")
	}
	if out := logs.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "file=b.json") {
		t.Errorf("expected a warning naming b.json, got %q", out)
	}
	if out := logs.String(); !strings.Contains(out, "files=2") || !strings.Contains(out, "files_with_segments=2") {
		t.Errorf("expected build counts in the debug log, got %q", out)
	}
}

func TestBuild_TextFallback(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "plain.json", `{"text": "hello world"}`)

	m := NewManager(dir)
	words, err := m.CollectWords()
	if err != nil {
		t.Fatalf("CollectWords() error = %v", err)
	}
	want := []BulkWord{
		{Text: "hello", SourceFile: "plain.mp4"},
		{Text: "world", SourceFile: "plain.mp4"},
	}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("CollectWords() = %+v, want %+v", words, want)
	}

	idx := buildIndex(t, dir)
	if len(idx.Words()) != 0 {
		t.Errorf("fallback must not feed word details, got %d", len(idx.Words()))
	}
	if len(idx.Sentences()) != 0 {
		t.Errorf("fallback must not feed sentences, got %d", len(idx.Sentences()))
	}
	if idx.Files() != 1 {
		t.Errorf("Files() = %d, want 1", idx.Files())
	}
}

func TestBuild_EmptySegmentsKeepsKey(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "quiet.json", `{"segments": []}`)

	idx := buildIndex(t, dir)
	sentences, ok := idx.Sentences()["quiet.mp4"]
	if !ok {
		t.Fatal("expected key for transcript with empty segments")
	}
	if len(sentences) != 0 {
		t.Errorf("expected no sentences, got %d", len(sentences))
	}
}

func TestBuild_SkipsSummaryAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", hiThere)
	writeTranscript(t, dir, SummaryFileName, `{"total_transcripts": 1}`)
	writeTranscript(t, dir, "notes.txt", "not a transcript")
	extra := writeTranscript(t, dir, "custom_summary.json", `{"total_transcripts": 1}`)

	files, err := NewManager(dir, extra).FindFiles()
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.json" {
		t.Errorf("FindFiles() = %v, want only a.json", files)
	}
}

func TestBuild_MissingDir(t *testing.T) {
	idx := buildIndex(t, filepath.Join(t.TempDir(), "absent"))
	if idx.Files() != 0 || len(idx.Words()) != 0 {
		t.Errorf("expected empty index, got %d files %d words", idx.Files(), len(idx.Words()))
	}
}

func TestBuild_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.json", hiThere)
	writeTranscript(t, dir, "b.json", `{"text": "fallback words"}`)

	first := buildIndex(t, dir)
	second := buildIndex(t, dir)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated builds over unchanged files differ")
	}
}
