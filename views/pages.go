package views

import (
	"fmt"

	"github.com/a-h/templ"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

// Default returns the stock components.
func Default() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home:          Home,
		Tags:          Tags,
		Tag:           Tag,
		Post:          Post,
		Search:        Search,
		SearchResults: SearchResults,
		NotFound:      NotFound,
		ServerError:   ServerError,
	}
}

// Home lists one page of posts, newest first.
func Home(p folio.Page, posts []folio.Post, pager folio.Pager) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="listing"><h1>`)
		h.text(T("pages.home.latest"))
		h.raw(`</h1>`)
		h.render(postList(posts))
		h.render(Pagination(pager))
		h.raw(`</section>`)
	})
	return Layout(p, body)
}

func postList(posts []folio.Post) templ.Component {
	return component(func(h *htmlWriter) {
		if len(posts) == 0 {
			h.raw(`<p class="empty">`)
			h.text(T("pages.home.noPosts"))
			h.raw(`</p>`)
			return
		}
		h.raw(`<ul class="posts">`)
		for _, post := range posts {
			h.raw(`<li>`)
			h.render(Card(post))
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}

// Pagination renders previous/next links and the page position.
func Pagination(pager folio.Pager) templ.Component {
	return component(func(h *htmlWriter) {
		if pager.Total <= 1 {
			return
		}
		h.raw(`<nav class="pager" aria-label="Pagination">`)
		if pager.HasPrev() {
			h.raw(`<a rel="prev" href="`, safeHref(pager.PrevURL()), `">`)
			h.text(T("pagination.previous"))
			h.raw(`</a>`)
		} else {
			h.raw(`<span class="disabled">`)
			h.text(T("pagination.previous"))
			h.raw(`</span>`)
		}
		h.raw(fmt.Sprintf(`<span class="pager-position">%d of %d</span>`, pager.Page, pager.Total))
		if pager.HasNext() {
			h.raw(`<a rel="next" href="`, safeHref(pager.NextURL()), `">`)
			h.text(T("pagination.next"))
			h.raw(`</a>`)
		} else {
			h.raw(`<span class="disabled">`)
			h.text(T("pagination.next"))
			h.raw(`</span>`)
		}
		h.raw(`</nav>`)
	})
}

// Tags lists every tag with its post count.
func Tags(p folio.Page, tags []folio.TagCount) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="tag-index"><h1>`)
		h.text(T("pages.tags.title"))
		h.raw(`</h1><ul class="tags">`)
		for _, t := range tags {
			h.raw(`<li><a class="tag" href="`, safeHref(folio.TagURL(t.Tag)), `">#`)
			h.text(t.Tag)
			h.raw(fmt.Sprintf(`</a> <span class="tag-count">(%d)</span></li>`, t.Count))
		}
		h.raw(`</ul></section>`)
	})
	return Layout(p, body)
}

// Tag lists the posts carrying tag.
func Tag(p folio.Page, tag string, posts []folio.Post) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="listing"><h1>#`)
		h.text(tag)
		h.raw(`</h1>`)
		h.render(postList(posts))
		h.raw(`</section>`)
	})
	return Layout(p, body)
}

// Post renders a single article with its related posts and comments.
func Post(p folio.Page, post folio.Post, related []folio.Post) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<article class="post"><header class="post-header">`)
		h.raw(`<time datetime="`, esc(post.Date), `">`)
		h.text(post.Date)
		h.raw(`</time><h1>`)
		h.text(post.Title)
		h.raw(`</h1>`)
		h.render(TagList(post.Tags))
		h.raw(`</header>`)
		if post.Cover != "" {
			h.raw(`<figure class="post-cover">`)
			h.render(Cover(post))
			h.raw(`</figure>`)
		}
		h.raw(`<div class="prose">`)
		h.render(markdown.Markdown(post.Content))
		h.raw(`</div></article>`)
		if len(related) > 0 {
			h.raw(`<aside class="related"><h2>`)
			h.text(T("pages.post.related"))
			h.raw(`</h2>`)
			h.render(postList(related))
			h.raw(`</aside>`)
		}
		h.render(Comments(p.Site.Comments.DisqusShortname, p.Meta.URL, post.Slug, post.Title))
	})
	return Layout(p, body, folio.BlogPostingJsonLD(post, p.Site))
}

// NotFound is the 404 page.
func NotFound(p folio.Page) templ.Component {
	return errorPage(p, T("pages.notFound.title"), T("pages.notFound.message"))
}

// ServerError is the 500 page.
func ServerError(p folio.Page) templ.Component {
	return errorPage(p, T("pages.serverError.title"), T("pages.serverError.message"))
}

func errorPage(p folio.Page, title, message string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="error-page"><h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p><a href="/" class="button">`)
		h.text(T("pages.backHome"))
		h.raw(`</a></section>`)
	})
	return Layout(p, body)
}
