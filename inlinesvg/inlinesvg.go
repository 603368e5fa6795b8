// Package inlinesvg fetches remote SVG covers and prepares them for inlining
// into a page.
package inlinesvg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 5 * time.Second

	// FailureTTL is how long a failed URL is answered with "" before it is
	// fetched again.
	FailureTTL = time.Minute

	maxBodyBytes = 2 << 20
)

// ErrNoSVG is returned when a document holds no <svg> element.
var ErrNoSVG = errors.New("inlinesvg: no svg element")

// Logger is the subset of echo.Logger the fetcher reports failures through.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// Fetcher downloads SVGs and caches the transformed markup by URL. Failures
// are remembered for FailureTTL so an unreachable host slows at most one
// request per window.
type Fetcher struct {
	client *http.Client
	log    Logger
	now    func() time.Time

	mu     sync.RWMutex
	cache  map[string]string
	failed map[string]time.Time
}

// New returns a Fetcher. A nil client gets one with DefaultTimeout.
func New(client *http.Client, log Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{
		client: client,
		log:    log,
		now:    time.Now,
		cache:  make(map[string]string),
		failed: make(map[string]time.Time),
	}
}

// IsSVG reports whether src names an SVG resource.
func IsSVG(src string) bool {
	path := src
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.ToLower(path), ".svg")
}

// Inline returns the transformed markup for url, or "" when it cannot be
// fetched or parsed. Errors are logged, never returned.
func (f *Fetcher) Inline(ctx context.Context, url string) string {
	f.mu.RLock()
	out, ok := f.cache[url]
	retryAt, failed := f.failed[url]
	f.mu.RUnlock()
	if ok {
		return out
	}
	if failed && f.now().Before(retryAt) {
		return ""
	}

	out, err := f.fetch(ctx, url)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.failed[url] = f.now().Add(FailureTTL)
		if f.log != nil {
			f.log.Errorf("inlinesvg: %s: %v", url, err)
		}
		return ""
	}
	delete(f.failed, url)
	f.cache[url] = out
	return out
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "image/svg+xml")
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	return Transform(io.LimitReader(resp.Body, maxBodyBytes))
}

// Transform parses an SVG document and returns its root <svg> element with a
// white background, full width and automatic height.
func Transform(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	root := findSVG(doc)
	if root == nil {
		return "", ErrNoSVG
	}
	setAttr(root, "style", "background-color: white")
	setAttr(root, "width", "100%")
	setAttr(root, "height", "auto")

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "svg" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
