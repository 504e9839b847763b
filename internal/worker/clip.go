package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Arslanex/CurFusion/internal/match"
	"github.com/Arslanex/CurFusion/internal/media"
	"github.com/Arslanex/CurFusion/internal/transcript"
)

// ErrNoTerms is returned when a clip query contains no words.
var ErrNoTerms = errors.New("query has no words")

// Compiler cuts ranges out of a video and joins them into one file.
type Compiler func(ctx context.Context, videoPath string, ranges []media.Range, outDir string) (string, error)

// ClipOptions configures a clip run.
type ClipOptions struct {
	Query     string
	Threshold float64
	// Padding in seconds added before and after every matched word.
	Padding float64

	TranscriptDir string
	// Exclude lists files in TranscriptDir that are not transcripts, such
	// as the summary export.
	Exclude   []string
	VideoDir  string
	OutputDir string

	Compile Compiler
}

// ClipResult is the outcome for one source video.
type ClipResult struct {
	SourceFile string
	Words      []match.Match
	Ranges     []media.Range
	Output     string
	Err        error
}

// Clip matches every word of the query against the transcript index and
// compiles the best match of each word into one clip per source video.
// A video that fails to compile is reported in its result and does not stop
// the others.
func Clip(ctx context.Context, opts ClipOptions) ([]ClipResult, error) {
	if opts.Compile == nil {
		opts.Compile = media.Compile
	}

	terms := match.Terms(opts.Query)
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}

	idx, err := transcript.NewManager(opts.TranscriptDir, opts.Exclude...).Build()
	if err != nil {
		return nil, err
	}

	best := match.New(opts.Threshold).Find(terms, idx.Words()).Best(terms)
	groups := groupBySource(best)
	if len(groups) == 0 {
		slog.Info("no matches for query", "query", opts.Query)
		return nil, nil
	}

	results := make([]ClipResult, 0, len(groups))
	for _, g := range groups {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		res := ClipResult{SourceFile: g.source, Words: g.words}
		res.Ranges = padRanges(g.words, opts.Padding)
		if len(res.Ranges) == 0 {
			res.Err = fmt.Errorf("%s: no timed words to cut", g.source)
			slog.Warn("no usable ranges", "file", g.source)
			results = append(results, res)
			continue
		}

		video := filepath.Join(opts.VideoDir, g.source)
		res.Output, res.Err = opts.Compile(ctx, video, res.Ranges, opts.OutputDir)
		if res.Err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			slog.Error("clip failed", "file", g.source, "err", res.Err)
		} else {
			slog.Info("clip compiled", "file", g.source, "output", res.Output, "segments", len(res.Ranges))
		}
		results = append(results, res)
	}
	return results, nil
}

type sourceGroup struct {
	source string
	words  []match.Match
}

// groupBySource groups matches by source file in order of first appearance.
func groupBySource(ms []match.Match) []sourceGroup {
	var groups []sourceGroup
	pos := make(map[string]int)
	for _, m := range ms {
		i, ok := pos[m.SourceFile]
		if !ok {
			i = len(groups)
			pos[m.SourceFile] = i
			groups = append(groups, sourceGroup{source: m.SourceFile})
		}
		groups[i].words = append(groups[i].words, m)
	}
	return groups
}

// padRanges widens each word's span by padding on both sides, clamping the
// start at zero. Words whose padded span is empty are dropped.
func padRanges(ms []match.Match, padding float64) []media.Range {
	padding = max(padding, 0)
	ranges := make([]media.Range, 0, len(ms))
	for _, m := range ms {
		r := media.Range{Start: max(m.Start-padding, 0), End: m.End + padding}
		if r.End <= r.Start {
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges
}
