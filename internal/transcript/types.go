package transcript

// Word is one recognized token with its timing and provenance.
type Word struct {
	Text               string  `json:"text"`
	Start              float64 `json:"start"`
	End                float64 `json:"end"`
	Confidence         float64 `json:"confidence"`
	SourceFile         string  `json:"source_file"`
	SegmentIndex       int     `json:"segment_index"`
	WordIndexInSegment int     `json:"word_index_in_segment"`
	SegmentText        string  `json:"segment_text"`
}

// Duration is zero when the source had no word-level timing.
func (w Word) Duration() float64 {
	return w.End - w.Start
}

// Sentence is one transcribed segment. Start and End come verbatim from the
// source segment, not from its words.
type Sentence struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	SourceFile string  `json:"source_file"`
	Words      []Word  `json:"words"`
}

// Duration returns End - Start.
func (s Sentence) Duration() float64 {
	return s.End - s.Start
}

// BulkWord is the reduced word record of the bulk projection. Transcripts
// without segments contribute text-split words with zero timing.
type BulkWord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	SourceFile string  `json:"source_file"`
}

// newWord applies the field defaults for a decoded word.
func newWord(raw rawWord, key string, segIdx, wordIdx int, segText string) Word {
	return Word{
		Text:               string(raw.Word),
		Start:              float64(raw.Start),
		End:                float64(raw.End),
		Confidence:         raw.confidence(),
		SourceFile:         key,
		SegmentIndex:       segIdx,
		WordIndexInSegment: wordIdx,
		SegmentText:        segText,
	}
}

// newSentence builds a Sentence and its words from one decoded segment.
func newSentence(raw rawSegment, key string, segIdx int) Sentence {
	text := string(raw.Text)
	words := make([]Word, 0, len(raw.Words))
	for i, w := range raw.Words {
		words = append(words, newWord(w, key, segIdx, i, text))
	}
	return Sentence{
		Text:       text,
		Start:      float64(raw.Start),
		End:        float64(raw.End),
		SourceFile: key,
		Words:      words,
	}
}
