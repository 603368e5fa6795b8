package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/markdown"
)

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	AtomLink    atomLink  `xml:"atom:link"`
	Items       []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	PubDate     string      `xml:"pubDate,omitempty"`
	GUID        string      `xml:"guid"`
	Content     *rssContent `xml:"content:encoded,omitempty"`
}

type rssContent struct {
	Body string `xml:",cdata"`
}

// feedItem builds the RSS entry for p. Bodies are rendered to HTML and
// sanitized; a body that fails to render is left out.
func feedItem(base string, p Post) rssItem {
	pubDate := ""
	if t, err := time.Parse("2006-01-02", p.Date); err == nil {
		pubDate = t.Format(time.RFC1123Z)
	}
	postURL := BuildURL(base, "blog", p.Slug)
	item := rssItem{
		Title:       p.Title,
		Link:        postURL,
		Description: p.Summary,
		PubDate:     pubDate,
		GUID:        postURL,
	}
	if p.Content != "" {
		if body, err := markdown.RenderSanitized(p.Content); err == nil {
			item.Content = &rssContent{Body: body}
		}
	}
	return item
}

func (a *App) renderRSS(c echo.Context, posts []Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, feedItem(base, p))
	}
	feed := rssXML{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		AtomNS:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			AtomLink: atomLink{
				Href: absoluteURL(base, "/feed.xml"),
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
