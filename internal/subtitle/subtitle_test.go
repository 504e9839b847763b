package subtitle

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Arslanex/CurFusion/internal/config"
	"github.com/Arslanex/CurFusion/internal/transcript"
)

func settings() config.SubtitleSettings {
	return config.SubtitleSettings{MaxSubtitleDuration: 4, MinSubtitleGap: 0.125, CharsPerLine: 42}
}

func word(text string, start, end float64) transcript.Word {
	return transcript.Word{Text: text, Start: start, End: end}
}

func TestWrapLines(t *testing.T) {
	tests := []struct {
		text string
		cpl  int
		want string
	}{
		{"Hello world", 42, "Hello world"},
		{"", 42, ""},
		{"  padded  ", 42, "padded"},
		{"Hello world foo bar baz", 12, "Hello world\nfoo bar baz"},
		{"one,two three", 5, "one,\ntwo three"},
		{"abcdefghij", 4, "abcd\nefghij"},
	}
	for _, tt := range tests {
		if got := wrapLines(tt.text, tt.cpl); got != tt.want {
			t.Errorf("wrapLines(%q, %d) = %q, want %q", tt.text, tt.cpl, got, tt.want)
		}
	}
}

func TestEndsSentence(t *testing.T) {
	tests := map[string]bool{"done.": true, "what?": true, "so,": false, "word": false, "": false}
	for in, want := range tests {
		if got := endsSentence(in); got != want {
			t.Errorf("endsSentence(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuild_ShortSentences(t *testing.T) {
	sentences := []transcript.Sentence{
		{Text: "first", Start: 0, End: 1},
		{Text: "  ", Start: 1, End: 2},
		{Text: "second", Start: 2, End: 3},
	}
	got := Build(sentences, settings())
	want := []Entry{{Start: 0, End: 1, Text: "first"}, {Start: 2, End: 3, Text: "second"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}

func TestBuild_SplitsLongSentence(t *testing.T) {
	sent := transcript.Sentence{
		Text:  "one two. three four five",
		Start: 0,
		End:   9,
		Words: []transcript.Word{
			word("one", 0, 1),
			word("two.", 1, 2.5),
			word("three", 3, 4),
			word("four", 4, 6),
			word("five", 7.5, 9),
		},
	}
	got := Build([]transcript.Sentence{sent}, settings())
	want := []Entry{
		{Start: 0, End: 2.5, Text: "one two."},
		{Start: 3, End: 6, Text: "three four"},
		{Start: 7.5, End: 9, Text: "five"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v\nwant %+v", got, want)
	}
}

func TestBuild_TrimsOverlaps(t *testing.T) {
	sentences := []transcript.Sentence{
		{Text: "a", Start: 0, End: 2},
		{Text: "b", Start: 1.5, End: 3},
		{Text: "c", Start: 1.5, End: 4},
	}
	got := Build(sentences, settings())
	want := []Entry{
		{Start: 0, End: 1.375, Text: "a"},
		{Start: 1.5, End: 1.5, Text: "b"},
		{Start: 1.5, End: 4, Text: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %+v\nwant %+v", got, want)
	}
}

func TestWrite(t *testing.T) {
	entries := []Entry{
		{Start: 0, End: 1.5, Text: "hello there"},
		{Start: 61, End: 62.25, Text: "general kenobi"},
	}
	var sb strings.Builder
	if err := Write(&sb, entries, 8); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nhello\nthere\n\n" +
		"2\n00:01:01,000 --> 00:01:02,250\ngeneral\nkenobi\n"
	if sb.String() != want {
		t.Errorf("Write() =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("talk.json", `{"segments": [{"text": "hi there", "start": 0.0, "end": 1.0, "words": [
		{"word": "hi", "start": 0.0, "end": 0.5},
		{"word": "there", "start": 0.5, "end": 1.0}
	]}]}`)
	writeFile("flat.json", `{"text": "no timing here"}`)

	idx, err := transcript.NewManager(dir).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "subs")
	paths, err := Export(idx, out, settings())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "talk.srt" {
		t.Fatalf("paths = %v, want [talk.srt]", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,000\nhi there\n"
	if string(data) != want {
		t.Errorf("talk.srt = %q, want %q", data, want)
	}
}
