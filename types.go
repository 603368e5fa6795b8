package folio

import (
	"strings"

	"github.com/samber/lo"

	"github.com/eringen/folio/search"
	"github.com/eringen/folio/theme"
)

// Post is the core content type stored in SQLite and rendered by templates.
type Post struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Cover     string
	Link      string
	Slug      string
	Content   string
	Published bool

	// CoverSVG holds inlined markup for .svg covers, filled per request.
	CoverSVG string
}

// Record converts the post into the summary the search engines index.
func (p Post) Record() search.PostRecord {
	return search.PostRecord{
		Slug:    p.Slug,
		Title:   p.Title,
		Summary: p.Summary,
		Tags:    lo.Map(p.Tags, func(t string, _ int) search.Tag { return search.Tag{Slug: t} }),
		Cover:   p.Cover,
		Date:    p.Date,
	}
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// Page is the per-request context every view receives.
type Page struct {
	Site       SiteConfig
	Meta       PageMeta
	Path       string
	Theme      theme.Theme
	ThemeClass string
	CSRFToken  string
	LiveReload bool
}

// IsActive reports whether href is the current section.
func (p Page) IsActive(href string) bool {
	if href == "/" {
		return p.Path == "/" || strings.HasPrefix(p.Path, "/page/")
	}
	return strings.HasPrefix(p.Path, strings.TrimSuffix(href, "/"))
}

// TagCount is a tag and the number of published posts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// Pager describes one page of a paginated listing.
type Pager struct {
	Page  int
	Total int
}

// HasPrev reports whether an earlier page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a later page exists.
func (p Pager) HasNext() bool { return p.Page < p.Total }

// PrevURL is the path of the previous page.
func (p Pager) PrevURL() string { return PageURL(p.Page - 1) }

// NextURL is the path of the next page.
func (p Pager) NextURL() string { return PageURL(p.Page + 1) }

// SearchView is the rendered state of the search page.
type SearchView struct {
	Query    string
	Searched bool
	Results  []search.PostRecord
	Cursor   int
}
