package search

import (
	"regexp"
	"strings"

	"clipgrep/internal/services"
	"clipgrep/internal/transcript"
)

// searchFragment finds contiguous word runs matching a multi-token query.
// Word timing comes from the transcript, synthesized when the source format
// lacks it. Fragments never span file boundaries: the window sweeps each
// file's word sequence independently.
func (e *Engine) searchFragment(files []string, queries []string, opts Options) ([]Match, Summary, error) {
	type tokenSet struct {
		patterns []*regexp.Regexp
	}
	sets := make([]tokenSet, 0, len(queries))
	for _, query := range queries {
		tokens := strings.Fields(query)
		if len(tokens) == 0 {
			continue
		}
		set := tokenSet{patterns: make([]*regexp.Regexp, 0, len(tokens))}
		for _, token := range tokens {
			pattern, err := tokenPattern(token, opts.ExactMatch)
			if err != nil {
				return nil, Summary{}, services.Wrap(services.ErrValidation, "search", "compile query", query, err)
			}
			set.patterns = append(set.patterns, pattern)
		}
		sets = append(sets, set)
	}

	var matches []Match
	var summary Summary
	for _, file := range files {
		segments, ok := e.loadSegments(file, opts, &summary)
		if !ok {
			continue
		}
		words := transcript.Words(segments)
		for _, set := range sets {
			n := len(set.patterns)
			for i := 0; i+n <= len(words); i++ {
				if !windowMatches(words[i:i+n], set.patterns) {
					continue
				}
				window := words[i : i+n]
				texts := make([]string, n)
				for j, word := range window {
					texts[j] = word.Word
				}
				matches = append(matches, Match{Segment: transcript.Segment{
					File:    file,
					Start:   window[0].Start,
					End:     window[n-1].End,
					Content: strings.Join(texts, " "),
					Words:   append([]transcript.Word(nil), window...),
				}})
			}
		}
	}
	return matches, summary, nil
}

func windowMatches(window []transcript.Word, patterns []*regexp.Regexp) bool {
	for i, pattern := range patterns {
		if !pattern.MatchString(window[i].Word) {
			return false
		}
	}
	return true
}
