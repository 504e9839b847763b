package transcript

// FileStats summarizes one indexed transcript.
type FileStats struct {
	Key             string
	Sentences       int
	Words           int
	TotalDuration   float64
	AverageDuration float64
}

// Stats returns per-file statistics in key order. TotalDuration sums the
// sentence durations, so silence between segments is not counted.
func (idx *Index) Stats() []FileStats {
	stats := make([]FileStats, 0, len(idx.keys))
	for _, key := range idx.keys {
		st := FileStats{Key: key}
		for _, s := range idx.sentences[key] {
			st.Sentences++
			st.Words += len(s.Words)
			st.TotalDuration += s.Duration()
		}
		if st.Sentences > 0 {
			st.AverageDuration = st.TotalDuration / float64(st.Sentences)
		}
		stats = append(stats, st)
	}
	return stats
}
