package folio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// sitemapURLs lists the home page, listing pages, tag pages and every
// published post, in that order.
func sitemapURLs(cfg SiteConfig, posts []Post, tags []string) []sitemapURL {
	base := cfg.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "tags")},
		{Loc: BuildURL(base, "search")},
	}
	_, pager := Paginate(posts, 1, cfg.ItemsPerPage)
	for n := 2; n <= pager.Total; n++ {
		urls = append(urls, sitemapURL{Loc: absoluteURL(base, PageURL(n))})
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: absoluteURL(base, TagURL(t))})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "blog", p.Slug), LastMod: p.Date})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, posts []Post, tags []string) error {
	out, err := xml.MarshalIndent(sitemapURLSet{
		XMLNS: sitemapNS,
		URLs:  sitemapURLs(a.Config, posts, tags),
	}, "", "  ")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}
