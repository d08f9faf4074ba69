package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// normalizeToken lowercases via Unicode case folding and strips punctuation,
// so "Tendencies," compares equal to "tendencies".
func normalizeToken(token string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, token)
	return foldCaser.String(stripped)
}

// queryPattern wraps a compiled case-insensitive query regex.
type queryPattern struct {
	re *regexp.Regexp
}

// newQueryPattern compiles a query term. Terms are regular expressions; with
// exact set, the pattern is wrapped in word boundaries so only whole words
// match.
func newQueryPattern(query string, exact bool) (*queryPattern, error) {
	expr := "(?i)" + query
	if exact {
		expr = `(?i)\b(?:` + query + `)\b`
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &queryPattern{re: re}, nil
}

func (p *queryPattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// tokenPattern compiles one whitespace-separated query token for fragment
// matching against a single word. Exact tokens must span the whole word.
func tokenPattern(token string, exact bool) (*regexp.Regexp, error) {
	if exact {
		return regexp.Compile(`(?i)^(?:` + token + `)$`)
	}
	return regexp.Compile("(?i)" + token)
}
