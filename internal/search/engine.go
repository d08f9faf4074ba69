package search

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"clipgrep/internal/embed"
	"clipgrep/internal/logging"
	"clipgrep/internal/services"
	"clipgrep/internal/transcript"
)

// Type selects a search strategy.
type Type string

const (
	TypeSentence Type = "sentence"
	TypeFragment Type = "fragment"
	TypeMash     Type = "mash"
	TypeSemantic Type = "semantic"
)

// ParseType validates a search-type string from the CLI.
func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case TypeSentence:
		return TypeSentence, nil
	case TypeFragment:
		return TypeFragment, nil
	case TypeMash:
		return TypeMash, nil
	case TypeSemantic:
		return TypeSemantic, nil
	default:
		return "", services.Wrap(services.ErrUnknownSearchType, "search", "parse type", value, nil)
	}
}

// Match is a segment-shaped search hit. Scored is set by semantic search
// only. Matches are never mutated after creation; the composition builder
// copies them before padding.
type Match struct {
	transcript.Segment
	Score  float64 `json:"score,omitempty"`
	Scored bool    `json:"scored,omitempty"`
}

// FileError records a file skipped during a multi-file search.
type FileError struct {
	File string
	Err  error
}

// Summary reports which files a search actually covered. An empty match list
// with a fully-searched summary is a distinct outcome from a failure.
type Summary struct {
	Searched []string
	Skipped  []FileError
	// MissingToken is set when a mash search hit a token with zero
	// occurrences, which empties the whole result.
	MissingToken string
}

// Options tunes a search call.
type Options struct {
	// ExactMatch wraps query terms in word boundaries.
	ExactMatch bool
	// Threshold is the minimum cosine similarity for semantic matches.
	Threshold float64
	// Reindex forces a rebuild of per-media embedding caches.
	Reindex bool
	// PreferredExtension is tried first during transcript lookup.
	PreferredExtension string
}

// Engine runs searches against a transcript store. The embedding index may
// be nil, in which case semantic search reports the capability as
// unavailable. The random source drives mash selection and is injectable so
// tests can fix the seed.
type Engine struct {
	store  *transcript.Store
	index  *embed.Index
	rand   *rand.Rand
	logger *slog.Logger
}

// NewEngine creates a search engine. index may be nil; rng may be nil, in
// which case a time-seeded source is used.
func NewEngine(store *transcript.Store, index *embed.Index, rng *rand.Rand, logger *slog.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		store:  store,
		index:  index,
		rand:   rng,
		logger: logging.WithComponent(logger, "search"),
	}
}

// Search runs the given strategy over the files. queries are independent
// terms OR'd together. Results are ordered per strategy: encounter order for
// sentence and fragment, token order for mash, score descending for semantic.
func (e *Engine) Search(ctx context.Context, files []string, queries []string, searchType Type, opts Options) ([]Match, Summary, error) {
	if len(files) == 0 {
		return nil, Summary{}, services.Wrap(services.ErrValidation, "search", "input", "no files given", nil)
	}
	queries = trimQueries(queries)
	if len(queries) == 0 {
		return nil, Summary{}, services.Wrap(services.ErrValidation, "search", "input", "no query terms given", nil)
	}

	switch searchType {
	case TypeSentence:
		return e.searchSentence(files, queries, opts)
	case TypeFragment:
		return e.searchFragment(files, queries, opts)
	case TypeMash:
		return e.searchMash(files, queries, opts)
	case TypeSemantic:
		return e.searchSemantic(ctx, files, queries, opts)
	default:
		return nil, Summary{}, services.Wrap(services.ErrUnknownSearchType, "search", "dispatch", string(searchType), nil)
	}
}

// loadSegments fetches a file's transcript, recording skippable failures in
// the summary instead of failing the batch.
func (e *Engine) loadSegments(file string, opts Options, summary *Summary) ([]transcript.Segment, bool) {
	segments, err := e.store.Parse(file, opts.PreferredExtension)
	if err != nil {
		msg := "skipping file"
		if !services.Skippable(err) {
			msg = "skipping file after unexpected error"
		}
		e.logger.Error(msg, logging.String("file", file), logging.Error(err))
		summary.Skipped = append(summary.Skipped, FileError{File: file, Err: err})
		return nil, false
	}
	summary.Searched = append(summary.Searched, file)
	return segments, true
}

func trimQueries(queries []string) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func compileQuery(query string, exact bool) (*queryPattern, error) {
	pattern, err := newQueryPattern(query, exact)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "search", "compile query", fmt.Sprintf("%q", query), err)
	}
	return pattern, nil
}
