package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Field weights. Title hits outrank tag hits, which outrank summary hits.
const (
	titleWeight   = 3.0
	tagWeight     = 2.0
	summaryWeight = 1.0

	// typoPenalty scales approximate word matches below exact substring hits.
	typoPenalty = 0.8
	// subsequenceWeight is the ceiling for posts matched only as a subsequence
	// of their title and tags.
	subsequenceWeight = 0.5
)

type field struct {
	text   string
	words  []string
	weight float64
}

type document struct {
	fields   []field
	headline string // title and tags, for subsequence matching
}

// FuzzyEngine matches query terms against title, summary and the flattened
// tag string of each post. A term matches a field on a case-insensitive
// substring hit, or when some word of the field (or that word's prefix) is
// within the edit distance threshold. Posts that miss a term can still match
// when the whole query is a subsequence of their title and tags.
type FuzzyEngine struct {
	posts []PostRecord
	docs  []document
	opts  Options
}

// NewFuzzyEngine indexes posts. The slice is not copied and must not change.
func NewFuzzyEngine(posts []PostRecord, opts Options) *FuzzyEngine {
	opts.setDefaults()
	docs := lo.Map(posts, func(p PostRecord, _ int) document {
		return newDocument(p, opts.MinMatchCharLength)
	})
	return &FuzzyEngine{posts: posts, docs: docs, opts: opts}
}

func newDocument(p PostRecord, min int) document {
	tags := p.TagString()
	mk := func(text string, weight float64) field {
		return field{text: strings.ToLower(text), words: tokenize(text, min), weight: weight}
	}
	return document{
		fields: []field{
			mk(p.Title, titleWeight),
			mk(tags, tagWeight),
			mk(p.Summary, summaryWeight),
		},
		headline: p.Title + " " + strings.ReplaceAll(tags, ",", " "),
	}
}

// Search implements Engine.
func (e *FuzzyEngine) Search(query string) []PostRecord {
	terms := tokenize(query, e.opts.MinMatchCharLength)
	if len(terms) == 0 || len(e.posts) == 0 {
		return []PostRecord{}
	}

	scores := make([]float64, len(e.docs))
	for i, d := range e.docs {
		scores[i] = e.scoreDocument(d, terms)
	}

	pattern := strings.Join(terms, "")
	matches := fuzzy.FindFrom(pattern, headlines(e.docs))
	for rank, m := range matches {
		if scores[m.Index] > 0 {
			continue
		}
		scores[m.Index] = subsequenceWeight * (1 - float64(rank)/float64(len(matches)+1))
	}

	order := make([]int, 0, len(e.docs))
	for i, s := range scores {
		if s > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if e.opts.Limit > 0 && len(order) > e.opts.Limit {
		order = order[:e.opts.Limit]
	}

	out := make([]PostRecord, len(order))
	for i, idx := range order {
		out[i] = e.posts[idx]
	}
	return out
}

// scoreDocument sums the best field score of every term. A document missing
// any term scores zero.
func (e *FuzzyEngine) scoreDocument(d document, terms []string) float64 {
	total := 0.0
	for _, term := range terms {
		best := 0.0
		for _, f := range d.fields {
			s := e.scoreField(f, term) * f.weight
			if s > best {
				best = s
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}
	return total
}

func (e *FuzzyEngine) scoreField(f field, term string) float64 {
	if f.text == "" {
		return 0
	}
	if strings.Contains(f.text, term) {
		return 1
	}
	best := 0.0
	termLen := utf8.RuneCountInString(term)
	for _, w := range f.words {
		sim := similarity(term, w)
		if r := []rune(w); len(r) > termLen {
			if p := similarity(term, string(r[:termLen])); p > sim {
				sim = p
			}
		}
		if sim > best {
			best = sim
		}
	}
	if 1-best > e.opts.Threshold {
		return 0
	}
	return best * typoPenalty
}

func similarity(a, b string) float64 {
	s, err := edlib.StringsSimilarity(a, b, edlib.DamerauLevenshtein)
	if err != nil {
		return 0
	}
	return float64(s)
}

// headlines adapts documents to fuzzy.Source.
type headlines []document

func (h headlines) Len() int            { return len(h) }
func (h headlines) String(i int) string { return h[i].headline }
