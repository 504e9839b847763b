package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Summary is the flat report written by ExportSummary.
type Summary struct {
	TotalTranscripts int                   `json:"total_transcripts"`
	Sentences        map[string][]Sentence `json:"sentences"`
	Words            []BulkWord            `json:"words"`
}

// NewSummary builds the report for idx. TotalTranscripts counts the files
// that decoded successfully.
func NewSummary(idx *Index) Summary {
	return Summary{
		TotalTranscripts: idx.Files(),
		Sentences:        idx.Sentences(),
		Words:            idx.BulkWords(),
	}
}

// ExportSummary writes the summary of idx to path as indented JSON. The file
// is written to a temporary sibling and renamed into place, replacing any
// existing file. Concurrent exports to the same path must be serialized by the
// caller.
func ExportSummary(idx *Index, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("export summary: empty path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create summary dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp summary: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSummary(idx)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close summary: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("chmod summary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename summary: %w", err)
	}
	return path, nil
}

// ExportSummary rebuilds the index and writes its summary. An empty path
// writes SummaryFileName inside the transcript directory.
func (m *Manager) ExportSummary(path string) (string, error) {
	if path == "" {
		path = filepath.Join(m.dir, SummaryFileName)
	}
	idx, err := m.Build()
	if err != nil {
		return "", err
	}
	return ExportSummary(idx, path)
}

// ReadSummary decodes a summary written by ExportSummary.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &s, nil
}
