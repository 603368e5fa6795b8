// Package search owns the search state of the site: the post index handed to it,
// the fuzzy match engines that rank posts for a query, and the Controller that keeps
// the current query, its derived results and the address bar in agreement.
package search

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// QueryParam is the URL query parameter holding the active search text.
const QueryParam = "q"

// Tag references a tag by slug.
type Tag struct {
	Slug string
}

// PostRecord is the searchable summary of a published post. Records are treated
// as immutable once handed to an Engine.
type PostRecord struct {
	Slug    string
	Title   string
	Summary string
	Tags    []Tag
	Cover   string
	Date    string // YYYY-MM-DD
}

// TagString flattens the record's tag slugs into a single comma separated string.
func (p PostRecord) TagString() string {
	return strings.Join(lo.Map(p.Tags, func(t Tag, _ int) string { return t.Slug }), ",")
}

// Href is the canonical path of the post.
func (p PostRecord) Href() string {
	return "/blog/" + p.Slug + "/"
}

// Engine ranks the posts it was built over against a query.
type Engine interface {
	// Search returns matching posts ordered best first. It never returns nil.
	Search(query string) []PostRecord
}

// Logger receives errors that engines swallow.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Options tune the matching engines.
type Options struct {
	// Threshold is the largest normalized edit distance (0 exact, 1 anything)
	// a word may have from a query term and still match.
	Threshold float64
	// MinMatchCharLength is the shortest query term considered at all.
	MinMatchCharLength int
	// Limit caps the number of results. Zero means unlimited.
	Limit int
}

// DefaultOptions returns the options the site ships with.
func DefaultOptions() Options {
	return Options{Threshold: 0.5, MinMatchCharLength: 2}
}

func (o *Options) setDefaults() {
	if o.Threshold <= 0 || o.Threshold > 1 {
		o.Threshold = 0.5
	}
	if o.MinMatchCharLength < 1 {
		o.MinMatchCharLength = 2
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
}

// Engine kinds accepted by NewEngine.
const (
	EngineFuzzy = "fuzzy"
	EngineBleve = "bleve"
)

// NewEngine builds the engine named by kind over posts. An empty kind selects
// the fuzzy engine.
func NewEngine(kind string, posts []PostRecord, opts Options, log Logger) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", EngineFuzzy:
		return NewFuzzyEngine(posts, opts), nil
	case EngineBleve:
		return NewBleveEngine(posts, opts, log)
	default:
		return nil, fmt.Errorf("search: unknown engine %q", kind)
	}
}

// DeriveResults computes the result set for query. Queries of one character
// or less have not been searched and yield nil; anything longer yields the
// engine's ranking, which is an empty, non-nil slice when nothing matched.
func DeriveResults(query string, engine Engine) []PostRecord {
	if utf8.RuneCountInString(query) <= 1 {
		return nil
	}
	if engine == nil {
		return []PostRecord{}
	}
	results := engine.Search(query)
	if results == nil {
		return []PostRecord{}
	}
	return results
}

// tokenize lowercases s and splits it into letter/digit runs, dropping runs
// shorter than min runes and duplicates.
func tokenize(s string, min int) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words = lo.Filter(words, func(w string, _ int) bool {
		return utf8.RuneCountInString(w) >= min
	})
	return lo.Uniq(words)
}
