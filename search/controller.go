package search

import (
	"sync"
	"unicode/utf8"
)

// URLSync is the address bar as seen by the Controller. Implementations must
// update the address in place: no navigation and no new history entry.
type URLSync interface {
	// Query returns the q parameter of the current address. Absent or
	// unparsable parameters report ok == false.
	Query() (q string, ok bool)
	// ReplaceQuery sets q, keeping any other parameters.
	ReplaceQuery(q string)
	// ClearQuery drops the query string, leaving the bare path.
	ClearQuery()
}

// Controller is the single source of truth for the current query and its
// results. After every SetQuery, Results() == DeriveResults(Query(), engine).
//
// A Controller belongs to one page load and is not safe for concurrent use.
type Controller struct {
	engine Engine
	url    URLSync

	once    sync.Once
	query   string
	results []PostRecord
	cursor  int
}

// NewController returns a Controller searching with engine and syncing url.
func NewController(engine Engine, url URLSync) *Controller {
	return &Controller{engine: engine, url: url}
}

// Initialize restores the query from the address bar. Only the first call has
// any effect.
func (c *Controller) Initialize() {
	c.once.Do(func() {
		q, ok := c.url.Query()
		if !ok || q == "" {
			c.SetQuery("")
			return
		}
		c.SetQuery(q)
		c.cursor = utf8.RuneCountInString(q)
	})
}

// SetQuery replaces the query, re-derives the results and writes the query
// back to the address bar.
func (c *Controller) SetQuery(v string) {
	c.query = v
	c.results = DeriveResults(v, c.engine)
	if v != "" {
		c.url.ReplaceQuery(v)
	} else {
		c.url.ClearQuery()
	}
}

// Query returns the current search text.
func (c *Controller) Query() string { return c.query }

// Results returns the results for the current query, nil when no search has
// run.
func (c *Controller) Results() []PostRecord { return c.results }

// Searched reports whether the current query was long enough to search.
func (c *Controller) Searched() bool { return c.results != nil }

// Cursor is the input caret position restored by Initialize, in runes.
func (c *Controller) Cursor() int { return c.cursor }
