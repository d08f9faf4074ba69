package search

import (
	"strings"

	"clipgrep/internal/logging"
	"clipgrep/internal/transcript"
)

// searchMash builds a sequence of single-word matches, one uniformly random
// occurrence per query token, in token order. A token with zero occurrences
// anywhere in the corpus empties the whole result: a mash with a missing
// word is meaningless, so there is no partial output.
func (e *Engine) searchMash(files []string, queries []string, opts Options) ([]Match, Summary, error) {
	var summary Summary
	var corpus []transcript.Word
	for _, file := range files {
		segments, ok := e.loadSegments(file, opts, &summary)
		if !ok {
			continue
		}
		corpus = append(corpus, transcript.Words(segments)...)
	}

	// Occurrences of each normalized word, in corpus order.
	occurrences := make(map[string][]transcript.Word)
	for _, word := range corpus {
		key := normalizeToken(word.Word)
		if key == "" {
			continue
		}
		occurrences[key] = append(occurrences[key], word)
	}

	var matches []Match
	for _, query := range queries {
		for _, token := range strings.Fields(query) {
			key := normalizeToken(token)
			candidates := occurrences[key]
			if len(candidates) == 0 {
				e.logger.Warn("mash token has no occurrences; returning empty result",
					logging.String("token", token),
				)
				summary.MissingToken = token
				return nil, summary, nil
			}
			pick := candidates[e.rand.Intn(len(candidates))]
			matches = append(matches, Match{Segment: transcript.Segment{
				File:    pick.File,
				Start:   pick.Start,
				End:     pick.End,
				Content: pick.Word,
			}})
		}
	}
	return matches, summary, nil
}
