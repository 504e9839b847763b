package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Document is a decoded transcript file.
type Document struct {
	// Text is the whole-document transcript, used when Segments is absent.
	Text string

	// HasSegments reports whether the file carried a segments array. Files
	// without one contribute no sentences or word details.
	HasSegments bool

	segments []rawSegment
}

// Segments returns the number of decoded segments.
func (d *Document) Segments() int {
	return len(d.segments)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var aux struct {
		Text     text            `json:"text"`
		Segments json.RawMessage `json:"segments"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	d.Text = string(aux.Text)
	d.HasSegments = false
	d.segments = nil

	raw := bytes.TrimSpace(aux.Segments)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, &d.segments); err != nil {
		return fmt.Errorf("decode segments: %w", err)
	}
	d.HasSegments = true
	return nil
}

// Parse decodes a transcript document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile reads and decodes one transcript file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// FileKey derives the media file name a transcript belongs to: the base name
// with its extension replaced by .mp4. No lookup is performed.
func FileKey(path string) string {
	base := filepath.Base(path)
	stem := base
	if ext := filepath.Ext(base); ext != base {
		stem = strings.TrimSuffix(base, ext)
	}
	return stem + ".mp4"
}

type rawSegment struct {
	Text  text     `json:"text"`
	Start number   `json:"start"`
	End   number   `json:"end"`
	Words rawWords `json:"words"`
}

type rawWord struct {
	Word        text    `json:"word"`
	Start       number  `json:"start"`
	End         number  `json:"end"`
	Confidence  *number `json:"confidence"`
	Probability *number `json:"probability"`
}

// confidence falls back to whisper's probability, then to 1.0.
func (w rawWord) confidence() float64 {
	c := 1.0
	switch {
	case w.Confidence != nil:
		c = float64(*w.Confidence)
	case w.Probability != nil:
		c = float64(*w.Probability)
	}
	return min(max(c, 0), 1)
}

// number accepts a JSON number or a numeric string. Anything else,
// including NaN and infinities, is 0.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	*n = 0
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if !math.IsNaN(f) && !math.IsInf(f, 0) {
		*n = number(f)
	}
	return nil
}

// text accepts a JSON string and trims it. Anything else is "".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = text(strings.TrimSpace(s))
	return nil
}

// rawWords ignores a words field that is not an array, and elements of the
// array that are not objects.
type rawWords []rawWord

func (w *rawWords) UnmarshalJSON(data []byte) error {
	*w = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}
	words := make([]rawWord, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		var rw rawWord
		if err := json.Unmarshal(e, &rw); err != nil {
			return err
		}
		words = append(words, rw)
	}
	*w = words
	return nil
}
