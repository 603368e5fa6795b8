// Package views holds the default templ components for a folio site. They
// are written as plain templ.ComponentFuncs, so the package needs no
// generated code.
package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		fn(h)
		return h.err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// safeHref sanitizes a URL for an href or src attribute.
func safeHref(s string) string {
	return templ.EscapeString(string(templ.URL(s)))
}

// IsExternal reports whether href leaves the site. Root-relative and anchor
// links are internal; everything else, including an empty href, is not.
func IsExternal(href string) bool {
	return !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "#")
}

// Link renders an anchor. External links open in a new tab without an opener
// or referrer.
func Link(href, class, text string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<a href="`, safeHref(href), `"`)
		if class != "" {
			h.raw(` class="`, esc(class), `"`)
		}
		if IsExternal(href) {
			h.raw(` target="_blank" rel="noopener noreferrer"`)
		}
		h.raw(`>`)
		h.text(text)
		h.raw(`</a>`)
	})
}

var translations = map[string]string{
	"nav.home":                         "Home",
	"nav.tags":                         "Tags",
	"nav.search":                       "Search",
	"components.mobileNav.toggleMenu":  "Toggle Menu",
	"components.themeSwitcher.toDark":  "Switch to dark theme",
	"components.themeSwitcher.toLight": "Switch to light theme",
	"components.scrollTop.label":       "Scroll to top",
	"pages.home.latest":                "Latest",
	"pages.home.readMore":              "Read more",
	"pages.home.noPosts":               "No posts found.",
	"pages.tags.title":                 "Tags",
	"pages.post.related":               "Related posts",
	"pages.search.title":               "Search",
	"pages.search.placeholder":         "Search for anything...",
	"pages.notFound.title":             "404",
	"pages.notFound.message":           "Sorry we couldn't find this page.",
	"pages.serverError.title":          "500",
	"pages.serverError.message":        "Something went wrong on our side.",
	"pages.backHome":                   "Back to homepage",
	"pagination.previous":              "Previous",
	"pagination.next":                  "Next",
	"footer.rss":                       "RSS",
}

// T translates key, returning the key itself when no translation exists.
func T(key string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return key
}
