package markdown

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// feedElements is the allow-list for syndicated HTML: common text markup plus
// images.
var feedElements = []string{
	"address", "article", "aside", "footer", "header",
	"h1", "h2", "h3", "h4", "h5", "h6", "hgroup",
	"main", "nav", "section",
	"blockquote", "dd", "div", "dl", "dt", "figcaption", "figure",
	"hr", "li", "main", "ol", "p", "pre", "ul",
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn",
	"em", "i", "kbd", "mark", "q",
	"rb", "rp", "rt", "rtc", "ruby",
	"s", "samp", "small", "span", "strong", "sub", "sup", "time", "u", "var", "wbr",
	"caption", "col", "colgroup", "table", "tbody", "td", "tfoot", "th",
	"thead", "tr",
	"img",
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func feedPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(feedElements...)
		p.AllowAttrs("href", "name", "target").OnElements("a")
		p.AllowAttrs("src", "srcset", "alt", "title", "width", "height", "loading").OnElements("img")
		p.AllowURLSchemes("http", "https", "ftp", "mailto", "tel")
		p.RequireParseableURLs(true)
		policy = p
	})
	return policy
}

// Sanitize strips every element and attribute outside the feed allow-list.
func Sanitize(html string) string {
	return feedPolicy().Sanitize(html)
}

// RenderSanitized renders content and sanitizes the result.
func RenderSanitized(content string) (string, error) {
	out, err := ToHTML(content)
	if err != nil {
		return "", err
	}
	return Sanitize(out), nil
}
