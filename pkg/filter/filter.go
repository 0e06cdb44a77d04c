// Package filter implements the line predicate that decides which log lines
// survive sanitization.
package filter

import "strings"

// DefaultKeywords are the marker substrings retained when no keywords are
// configured. Matching is case-sensitive, so "error" does not match "ERROR".
var DefaultKeywords = []string{"Failed", "ERROR", "Critical"}

// Filter retains lines containing at least one of its keywords.
// The zero value matches nothing.
type Filter struct {
	keywords []string
}

// New creates a [Filter] for the given marker substrings.
func New(keywords ...string) *Filter {
	f := &Filter{
		keywords: make([]string, 0, len(keywords)),
	}
	for _, kw := range keywords {
		if kw == "" {
			// An empty keyword would match every line.
			continue
		}

		f.keywords = append(f.keywords, kw)
	}

	return f
}

// Default returns a [Filter] for [DefaultKeywords].
func Default() *Filter {
	return New(DefaultKeywords...)
}

// Match reports whether the line contains any of the filter's keywords.
// The match is a case-sensitive substring test, not a whole-word test.
func (f *Filter) Match(line string) bool {
	for _, kw := range f.keywords {
		if strings.Contains(line, kw) {
			return true
		}
	}

	return false
}

// Keywords returns a copy of the configured marker substrings.
func (f *Filter) Keywords() []string {
	out := make([]string, len(f.keywords))
	copy(out, f.keywords)

	return out
}

func (f *Filter) String() string {
	return strings.Join(f.keywords, ", ")
}
