package views

import (
	"fmt"

	"github.com/a-h/templ"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/search"
)

// Search is the search page. The input restores the query from the URL and
// places the cursor at its end.
func Search(p folio.Page, view folio.SearchView) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="search"><h1>`)
		h.text(T("pages.search.title"))
		h.raw(`</h1><form action="/search/" method="get" role="search">`)
		h.raw(`<label class="search-label"><span class="sr-only">`, esc(T("pages.search.title")), `</span>`)
		h.raw(`<input id="search-input" class="search-input" type="search" name="`, search.QueryParam, `" autocomplete="off" autofocus`)
		h.raw(` placeholder="`, esc(T("pages.search.placeholder")), `"`)
		h.raw(` value="`, esc(view.Query), `"`)
		h.raw(fmt.Sprintf(` data-cursor="%d">`, view.Cursor))
		h.raw(`</label></form><div id="search-results" aria-live="polite">`)
		h.render(SearchResults(view))
		h.raw(`</div></section>`)
	})
	return Layout(p, body)
}

// SearchResults renders the result count and list. Nothing is drawn before a
// search has run.
func SearchResults(view folio.SearchView) templ.Component {
	return component(func(h *htmlWriter) {
		if !view.Searched {
			return
		}
		h.raw(`<p class="search-count">`)
		h.text(ResultCount(len(view.Results), view.Query))
		h.raw(`</p><ul class="search-results">`)
		for _, r := range view.Results {
			h.raw(`<li>`)
			h.render(ResultItem(r))
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}

// ResultCount is the summary line above the results.
func ResultCount(n int, query string) string {
	noun := "results"
	if n == 1 {
		noun = "result"
	}
	return fmt.Sprintf("Found %d %s for '%s'", n, noun, query)
}

// ResultItem projects a search record into a list entry.
func ResultItem(r search.PostRecord) templ.Component {
	post := folio.Post{
		Title:   r.Title,
		Date:    r.Date,
		Summary: r.Summary,
		Cover:   r.Cover,
		Slug:    r.Slug,
		Link:    r.Href(),
	}
	for _, t := range r.Tags {
		post.Tags = append(post.Tags, t.Slug)
	}
	return Card(post)
}
