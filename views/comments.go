package views

import (
	"encoding/json"
	"regexp"

	"github.com/a-h/templ"
)

var shortnameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

type disqusConfig struct {
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

// Comments embeds the Disqus thread for a post. An empty or malformed
// shortname renders nothing.
func Comments(shortname, url, id, title string) templ.Component {
	return component(func(h *htmlWriter) {
		if !shortnameRe.MatchString(shortname) {
			return
		}
		cfg, err := json.Marshal(disqusConfig{URL: url, Identifier: id, Title: title})
		if err != nil {
			h.err = err
			return
		}
		h.raw(`<section class="comments"><div id="disqus_thread"></div><script>`)
		h.raw(`var disqus_config=function(){var c=`, escapeScript(string(cfg)), `;`)
		h.raw(`this.page.url=c.url;this.page.identifier=c.identifier;this.page.title=c.title;};`)
		h.raw(`(function(){var d=document,s=d.createElement("script");`)
		h.raw(`s.src="https://`, shortname, `.disqus.com/embed.js";`)
		h.raw(`s.setAttribute("data-timestamp",+new Date());(d.head||d.body).appendChild(s);})();`)
		h.raw(`</script></section>`)
	})
}
