package search

// searchSentence matches whole segments: any query matching a segment's
// content yields that segment once, regardless of how many queries hit it.
func (e *Engine) searchSentence(files []string, queries []string, opts Options) ([]Match, Summary, error) {
	patterns := make([]*queryPattern, 0, len(queries))
	for _, query := range queries {
		pattern, err := compileQuery(query, opts.ExactMatch)
		if err != nil {
			return nil, Summary{}, err
		}
		patterns = append(patterns, pattern)
	}

	var matches []Match
	var summary Summary
	for _, file := range files {
		segments, ok := e.loadSegments(file, opts, &summary)
		if !ok {
			continue
		}
		for _, segment := range segments {
			for _, pattern := range patterns {
				if pattern.MatchString(segment.Content) {
					matches = append(matches, Match{Segment: segment})
					break
				}
			}
		}
	}
	return matches, summary, nil
}
