package search

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"

	_ "github.com/blevesearch/bleve/v2/config"
)

// maxFuzziness is the largest edit distance bleve's fuzzy query accepts.
const maxFuzziness = 2

// BleveEngine ranks posts with an in-memory bleve index. Every query term must
// match some field, either fuzzily, as a prefix or as an analyzed match.
type BleveEngine struct {
	index bleve.Index
	posts map[string]PostRecord
	size  int
	opts  Options
	log   Logger
}

type bleveDoc struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Tags    string `json:"tags"`
}

// NewBleveEngine indexes posts into a memory-only bleve index.
func NewBleveEngine(posts []PostRecord, opts Options, log Logger) (*BleveEngine, error) {
	opts.setDefaults()
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("search: create bleve index: %w", err)
	}

	batch := index.NewBatch()
	bySlug := make(map[string]PostRecord, len(posts))
	for _, p := range posts {
		bySlug[p.Slug] = p
		doc := bleveDoc{Title: p.Title, Summary: p.Summary, Tags: p.TagString()}
		if err := batch.Index(p.Slug, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("search: index %s: %w", p.Slug, err)
		}
	}
	if batch.Size() == 0 {
		return &BleveEngine{index: index, posts: bySlug, opts: opts, log: log}, nil
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("search: apply batch: %w", err)
	}

	size := len(posts)
	if opts.Limit > 0 && opts.Limit < size {
		size = opts.Limit
	}
	return &BleveEngine{index: index, posts: bySlug, size: size, opts: opts, log: log}, nil
}

// Search implements Engine. Index errors are logged and yield no results.
func (e *BleveEngine) Search(query string) []PostRecord {
	terms := tokenize(query, e.opts.MinMatchCharLength)
	if len(terms) == 0 || e.size == 0 {
		return []PostRecord{}
	}

	conj := bleve.NewConjunctionQuery()
	for _, t := range terms {
		fq := bleve.NewFuzzyQuery(t)
		fq.SetFuzziness(e.fuzziness(t))
		conj.AddQuery(bleve.NewDisjunctionQuery(
			fq,
			bleve.NewPrefixQuery(t),
			bleve.NewMatchQuery(t),
		))
	}

	req := bleve.NewSearchRequestOptions(conj, e.size, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	res, err := e.index.Search(req)
	if err != nil {
		if e.log != nil {
			e.log.Errorf("search: bleve query %q: %v", query, err)
		}
		return []PostRecord{}
	}

	out := make([]PostRecord, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if p, ok := e.posts[hit.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// fuzziness scales the allowed edit distance with term length.
func (e *BleveEngine) fuzziness(term string) int {
	n := float64(utf8.RuneCountInString(term))
	f := int(math.Round(e.opts.Threshold * n / 2))
	if f > maxFuzziness {
		return maxFuzziness
	}
	return f
}

// Close releases the index.
func (e *BleveEngine) Close() error {
	return e.index.Close()
}
