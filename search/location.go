package search

import (
	"net/url"
	"sync"
)

// QueryFrom extracts the q parameter from u. A query string that fails to
// parse counts as absent.
func QueryFrom(u *url.URL) (string, bool) {
	if u == nil {
		return "", false
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil || !values.Has(QueryParam) {
		return "", false
	}
	return values.Get(QueryParam), true
}

// WithQuery returns a copy of u with q set, other parameters preserved.
func WithQuery(u *url.URL, q string) *url.URL {
	next := *u
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Set(QueryParam, q)
	next.RawQuery = values.Encode()
	next.ForceQuery = false
	return &next
}

// BarePath returns a copy of u reduced to its path.
func BarePath(u *url.URL) *url.URL {
	next := *u
	next.RawQuery = ""
	next.ForceQuery = false
	next.Fragment = ""
	next.RawFragment = ""
	return &next
}

// Location is an in-memory address bar. It backs the terminal palette and
// tests, and counts history entries so replacement can be told apart from
// navigation.
type Location struct {
	mu      sync.Mutex
	u       *url.URL
	entries int
}

// NewLocation parses raw as the initial address.
func NewLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Location{u: u, entries: 1}, nil
}

// Navigate moves to raw, adding a history entry.
func (l *Location) Navigate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.u = u
	l.entries++
	l.mu.Unlock()
	return nil
}

func (l *Location) Query() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return QueryFrom(l.u)
}

func (l *Location) ReplaceQuery(q string) {
	l.mu.Lock()
	l.u = WithQuery(l.u, q)
	l.mu.Unlock()
}

func (l *Location) ClearQuery() {
	l.mu.Lock()
	l.u = BarePath(l.u)
	l.mu.Unlock()
}

// Entries is the number of history entries created so far.
func (l *Location) Entries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries
}

// URL returns a copy of the current address.
func (l *Location) URL() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := *l.u
	return &u
}

func (l *Location) String() string {
	return l.URL().String()
}
