package views

import (
	"github.com/a-h/templ"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/inlinesvg"
)

// Card is the listing entry for a post.
func Card(post folio.Post) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<article class="card">`)
		if post.Cover != "" {
			h.raw(`<a href="`, safeHref(post.Link), `" class="card-cover" tabindex="-1" aria-hidden="true">`)
			h.render(Cover(post))
			h.raw(`</a>`)
		}
		h.raw(`<div class="card-body"><time datetime="`, esc(post.Date), `">`)
		h.text(post.Date)
		h.raw(`</time><h2 class="card-title"><a href="`, safeHref(post.Link), `">`)
		h.text(post.Title)
		h.raw(`</a></h2>`)
		if post.Summary != "" {
			h.raw(`<p class="card-summary">`)
			h.text(post.Summary)
			h.raw(`</p>`)
		}
		h.render(TagList(post.Tags))
		h.raw(`<a href="`, safeHref(post.Link), `" class="read-more">`)
		h.text(T("pages.home.readMore"))
		h.raw(`</a></div></article>`)
	})
}

// Cover draws a post's cover. Inlined SVG markup goes into a container; an
// SVG cover that could not be fetched leaves the container empty. Raster
// covers point at their thumbnail route.
func Cover(post folio.Post) templ.Component {
	return component(func(h *htmlWriter) {
		switch {
		case post.CoverSVG != "":
			h.raw(`<div class="cover cover-svg">`, post.CoverSVG, `</div>`)
		case inlinesvg.IsSVG(post.Cover):
			h.raw(`<div class="cover cover-svg"></div>`)
		default:
			h.raw(`<img class="cover" src="`, safeHref(folio.ThumbnailURL(post.Cover)), `" alt="`, esc(post.Title), `" loading="lazy" decoding="async">`)
		}
	})
}

// TagList links each tag to its page.
func TagList(tags []string) templ.Component {
	return component(func(h *htmlWriter) {
		if len(tags) == 0 {
			return
		}
		h.raw(`<ul class="tags">`)
		for _, t := range tags {
			h.raw(`<li><a class="tag" href="`, safeHref(folio.TagURL(t)), `">#`)
			h.text(t)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul>`)
	})
}
