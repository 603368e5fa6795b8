package views

import (
	"github.com/a-h/templ"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/theme"
)

// Layout wraps body in the site chrome. Extra JSON-LD documents are emitted
// after the site-wide WebSite schema.
func Layout(p folio.Page, body templ.Component, jsonLD ...string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"`)
		if p.ThemeClass != "" {
			h.raw(` class="`, esc(p.ThemeClass), `"`)
		}
		h.raw(`><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`, esc(p.Meta.Title), `</title>`)
		h.raw(`<meta name="description" content="`, esc(p.Meta.Description), `">`)
		if p.Site.Robots != "" {
			h.raw(`<meta name="robots" content="`, esc(p.Site.Robots), `">`)
		}
		if p.Site.Author != "" {
			h.raw(`<meta name="author" content="`, esc(p.Site.Author), `">`)
		}
		h.raw(`<meta name="color-scheme" content="light dark">`)
		h.raw(`<meta name="csrf-token" content="`, esc(p.CSRFToken), `">`)
		h.raw(`<link rel="canonical" href="`, safeHref(p.Meta.URL), `">`)
		h.raw(`<meta property="og:title" content="`, esc(p.Meta.Title), `">`)
		h.raw(`<meta property="og:description" content="`, esc(p.Meta.Description), `">`)
		h.raw(`<meta property="og:type" content="`, esc(p.Meta.OGType), `">`)
		h.raw(`<meta property="og:url" content="`, safeHref(p.Meta.URL), `">`)
		h.raw(`<meta property="og:site_name" content="`, esc(p.Site.Name), `">`)
		if p.Meta.Image != "" {
			h.raw(`<meta property="og:image" content="`, safeHref(p.Meta.Image), `">`)
			h.raw(`<meta name="twitter:card" content="summary_large_image">`)
		} else {
			h.raw(`<meta name="twitter:card" content="summary">`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`, esc(p.Site.Name), `" href="/feed.xml">`)
		h.raw(`<link rel="icon" type="image/svg+xml" href="/favicon.svg">`)
		h.raw(`<link rel="stylesheet" href="/public/folio.css">`)
		h.render(jsonLDScript(folio.WebsiteJsonLD(p.Site)))
		for _, doc := range jsonLD {
			h.render(jsonLDScript(doc))
		}
		h.raw(`<script src="/public/folio.js" defer></script>`)
		h.raw(`</head><body`)
		if p.LiveReload {
			h.raw(` data-live`)
		}
		h.raw(`>`)
		h.render(header(p))
		h.raw(`<main class="container">`)
		h.render(body)
		h.raw(`</main>`)
		h.render(footer(p))
		h.render(scrollTop())
		h.raw(`</body></html>`)
	})
}

// jsonLDScript embeds a JSON document. "</" is escaped so the payload cannot
// close the script element.
func jsonLDScript(doc string) templ.Component {
	return component(func(h *htmlWriter) {
		if doc == "" {
			return
		}
		h.raw(`<script type="application/ld+json">`, escapeScript(doc), `</script>`)
	})
}

func escapeScript(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && i+1 < len(s) && s[i+1] == '/' {
			out = append(out, `<\/`...)
			i++
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func header(p folio.Page) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="site-header"><div class="container">`)
		h.raw(`<a href="/" class="site-title">`)
		h.text(p.Site.Name)
		h.raw(`</a><nav class="site-nav" aria-label="Main">`)
		h.render(navLinks(p, ""))
		h.raw(`</nav><div class="site-actions">`)
		h.render(ThemeSwitcher(p))
		h.render(MobileNav{Items: p.Site.Navigation}.Render(p))
		h.raw(`</div></div></header>`)
	})
}

func navLinks(p folio.Page, class string) templ.Component {
	return component(func(h *htmlWriter) {
		for _, item := range p.Site.Navigation {
			h.raw(`<a href="`, safeHref(item.Href), `"`)
			if class != "" {
				h.raw(` class="`, esc(class), `"`)
			}
			if p.IsActive(item.Href) {
				h.raw(` aria-current="page"`)
			}
			h.raw(`>`)
			h.text(T(item.Title))
			h.raw(`</a>`)
		}
	})
}

// ThemeSwitcher is a form that posts to the toggle endpoint. The page script
// intercepts the submit; without it the form still works through a redirect.
func ThemeSwitcher(p folio.Page) templ.Component {
	return component(func(h *htmlWriter) {
		label := T("components.themeSwitcher.toDark")
		if p.Theme == theme.Dark {
			label = T("components.themeSwitcher.toLight")
		}
		h.raw(`<form method="post" action="/theme/" data-theme-toggle>`)
		h.raw(`<input type="hidden" name="_csrf" value="`, esc(p.CSRFToken), `">`)
		h.raw(`<button type="submit" class="theme-toggle" data-theme-label aria-label="`, esc(label), `" title="`, esc(label), `">`)
		h.raw(`<svg class="theme-icon-sun" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true">`)
		h.raw(`<circle cx="12" cy="12" r="4"/><path d="M12 2v2M12 20v2M4.93 4.93l1.41 1.41M17.66 17.66l1.41 1.41M2 12h2M20 12h2M6.34 17.66l-1.41 1.41M19.07 4.93l-1.41 1.41"/></svg>`)
		h.raw(`<svg class="theme-icon-moon" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true">`)
		h.raw(`<path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/></svg>`)
		h.raw(`</button></form>`)
	})
}

// MobileNav is the slide-in navigation for small screens. Visibility is an
// explicit flag; the page script keeps its own copy in sync with the panel.
type MobileNav struct {
	Open  bool
	Items []folio.NavItem
}

// Toggle flips the panel visibility.
func (m *MobileNav) Toggle() {
	m.Open = !m.Open
}

// PanelClass returns the panel classes for the current visibility.
func (m MobileNav) PanelClass() string {
	if m.Open {
		return "mobile-nav translate-x-0"
	}
	return "mobile-nav translate-x-full"
}

// Render draws the toggle button and the panel.
func (m MobileNav) Render(p folio.Page) templ.Component {
	return component(func(h *htmlWriter) {
		expanded := "false"
		if m.Open {
			expanded = "true"
		}
		h.raw(`<button type="button" class="nav-toggle" data-nav-toggle aria-controls="mobile-nav" aria-expanded="`, expanded, `" aria-label="`, esc(T("components.mobileNav.toggleMenu")), `">`)
		h.raw(`<svg viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M3 6h18M3 12h18M3 18h18"/></svg>`)
		h.raw(`</button>`)
		h.raw(`<div id="mobile-nav" class="`, m.PanelClass(), `" data-nav-panel>`)
		h.raw(`<button type="button" class="nav-toggle nav-close" data-nav-toggle aria-label="`, esc(T("components.mobileNav.toggleMenu")), `">`)
		h.raw(`<svg viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M6 6l12 12M18 6L6 18"/></svg>`)
		h.raw(`</button><nav aria-label="Mobile">`)
		mp := p
		mp.Site.Navigation = m.Items
		h.render(navLinks(mp, "mobile-nav-link"))
		h.raw(`</nav></div>`)
	})
}

func footer(p folio.Page) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<footer class="site-footer"><div class="container"><div class="social">`)
		for _, s := range p.Site.Social {
			h.render(Link(s.URL, "social-link", s.Name))
		}
		if p.Site.Email != "" {
			h.render(Link("mailto:"+p.Site.Email, "social-link", "Email"))
		}
		h.render(Link("/feed.xml", "social-link", T("footer.rss")))
		h.raw(`</div><p class="copyright">`)
		owner := p.Site.Author
		if owner == "" {
			owner = p.Site.Name
		}
		h.text("© " + owner)
		h.raw(`</p></div></footer>`)
	})
}

func scrollTop() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<button type="button" class="scroll-top" data-scroll-top aria-label="`, esc(T("components.scrollTop.label")), `">`)
		h.raw(`<svg viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M12 19V5M5 12l7-7 7 7"/></svg>`)
		h.raw(`</button>`)
	})
}
