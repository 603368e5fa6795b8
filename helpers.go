package folio

import (
	"encoding/json"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PageURL is the path of listing page n. Page 1 is the home page.
func PageURL(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/page/" + strconv.Itoa(n) + "/"
}

// TagURL is the path of a tag's listing.
func TagURL(tag string) string {
	return "/tags/" + url.PathEscape(normalizeTag(tag)) + "/"
}

// Paginate returns page n of posts, clamped to the valid range, and the pager
// describing it.
func Paginate(posts []Post, n, perPage int) ([]Post, Pager) {
	if perPage <= 0 {
		perPage = len(posts)
	}
	total := 1
	if perPage > 0 && len(posts) > 0 {
		total = (len(posts) + perPage - 1) / perPage
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	start := (n - 1) * perPage
	end := lo.Min([]int{start + perPage, len(posts)})
	if start > end {
		start = end
	}
	return posts[start:end], Pager{Page: n, Total: total}
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	return lo.Filter(posts, func(p Post, _ int) bool {
		if p.Slug == current.Slug {
			return false
		}
		return lo.ContainsBy(p.Tags, func(t string) bool {
			_, ok := tagSet[normalizeTag(t)]
			return ok
		})
	})
}

// ThumbnailURL maps a raster cover under /public/covers/ to its resized
// thumbnail route. Other covers are returned unchanged.
func ThumbnailURL(cover string) string {
	const prefix = "/public/covers/"
	if !strings.HasPrefix(cover, prefix) || !isRaster(cover) {
		return cover
	}
	return "/covers/" + strings.TrimPrefix(cover, prefix)
}

func isRaster(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
		"potentialAction": map[string]string{
			"@type":       "SearchAction",
			"target":      BuildURL(cfg.URL, "search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post Post, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if post.Cover != "" {
		data["image"] = absoluteURL(cfg.URL, post.Cover)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func absoluteURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}
