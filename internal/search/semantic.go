package search

import (
	"context"
	"sort"

	"clipgrep/internal/embed"
	"clipgrep/internal/logging"
	"clipgrep/internal/services"
)

// searchSemantic scores every segment against every query embedding and
// keeps segments at or above the threshold. A segment hit by several queries
// keeps its best score. Results sort by score descending; the stable sort
// preserves first-encountered order on ties.
func (e *Engine) searchSemantic(ctx context.Context, files []string, queries []string, opts Options) ([]Match, Summary, error) {
	if e.index == nil {
		return nil, Summary{}, services.Wrap(services.ErrCapabilityUnavailable, "search", "semantic", "no embedding provider configured", nil)
	}

	queryVectors, err := e.index.Queries(ctx, queries)
	if err != nil {
		return nil, Summary{}, services.Wrap(services.ErrCapabilityUnavailable, "search", "semantic", "encode queries", err)
	}

	var matches []Match
	var summary Summary
	for _, file := range files {
		segments, ok := e.loadSegments(file, opts, &summary)
		if !ok {
			continue
		}
		if len(segments) == 0 {
			continue
		}
		texts := make([]string, len(segments))
		for i, segment := range segments {
			texts[i] = segment.Content
		}
		segmentVectors, err := e.index.SegmentVectors(ctx, file, texts, opts.Reindex)
		if err != nil {
			e.logger.Error("skipping file", logging.String("file", file), logging.Error(err))
			summary.Searched = summary.Searched[:len(summary.Searched)-1]
			summary.Skipped = append(summary.Skipped, FileError{File: file, Err: err})
			continue
		}
		for i, segment := range segments {
			best := -1.0
			for _, queryVector := range queryVectors {
				if score := embed.Cosine(queryVector, segmentVectors[i]); score > best {
					best = score
				}
			}
			if best >= opts.Threshold {
				matches = append(matches, Match{Segment: segment, Score: best, Scored: true})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, summary, nil
}
