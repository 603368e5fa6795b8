package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/inlinesvg"
	"github.com/eringen/folio/search"
	"github.com/eringen/folio/theme"
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// page builds the per-request view context.
func (a *App) page(c echo.Context, meta PageMeta) Page {
	ctl, marker := a.themeFor(c, prefersDark(c.Request()))
	if meta.URL == "" {
		meta.URL = absoluteURL(a.Config.URL, c.Request().URL.Path)
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.Description == "" {
		meta.Description = a.Config.Description
	}
	return Page{
		Site:       a.Config,
		Meta:       meta,
		Path:       c.Request().URL.Path,
		Theme:      ctl.Current(),
		ThemeClass: strings.Join(marker.Classes(), " "),
		CSRFToken:  CsrfToken(c),
		LiveReload: a.live != nil,
	}
}

// withCovers returns a copy of posts with .svg covers inlined.
func (a *App) withCovers(ctx context.Context, posts []Post) []Post {
	out := make([]Post, len(posts))
	copy(out, posts)
	for i := range out {
		if a.svg != nil && inlinesvg.IsSVG(out[i].Cover) {
			out[i].CoverSVG = a.svg.Inline(ctx, svgSource(out[i].Cover))
		}
	}
	return out
}

// svgSource maps site-local covers onto the fetcher's file transport.
func svgSource(cover string) string {
	if strings.HasPrefix(cover, "/public/") {
		return "file://" + strings.TrimPrefix(cover, "/public")
	}
	return cover
}

func (a *App) handleHome(c echo.Context) error {
	return a.renderListing(c, 1)
}

func (a *App) handlePage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		return echo.ErrNotFound
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	return a.renderListing(c, n)
}

func (a *App) renderListing(c echo.Context, n int) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	items, pager := Paginate(posts, n, a.Config.ItemsPerPage)
	if pager.Page != n {
		return echo.ErrNotFound
	}
	meta := PageMeta{Title: a.Config.Name}
	if n > 1 {
		meta.Title = fmt.Sprintf("Page %d | %s", n, a.Config.Name)
	}
	return Render(c, a.Views.Home(a.page(c, meta), a.withCovers(c.Request().Context(), items), pager))
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	meta := PageMeta{Title: "Tags | " + a.Config.Name, Description: "Things I blog about"}
	return Render(c, a.Views.Tags(a.page(c, meta), tags))
}

func (a *App) handleTag(c echo.Context) error {
	tag := normalizeTag(c.Param("tag"))
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	meta := PageMeta{
		Title:       tag + " | " + a.Config.Name,
		Description: fmt.Sprintf("%s tagged content", tag),
	}
	return Render(c, a.Views.Tag(a.page(c, meta), tag, a.withCovers(c.Request().Context(), posts)))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	related := FilterRelatedPosts(post, posts)
	if len(related) > 3 {
		related = related[:3]
	}
	meta := PageMeta{
		Title:       post.Title + " | " + a.Config.Name,
		Description: post.Summary,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
	}
	if post.Cover != "" {
		meta.Image = absoluteURL(a.Config.URL, post.Cover)
	}
	return Render(c, a.Views.Post(a.page(c, meta), a.withCovers(ctx, []Post{post})[0], a.withCovers(ctx, related)))
}

func (a *App) handleSearch(c echo.Context) error {
	engine, err := a.Cache.Engine()
	if err != nil {
		return err
	}
	ctl := search.NewController(engine, newRequestURLSync(c))
	ctl.Initialize()
	view := SearchView{
		Query:    ctl.Query(),
		Searched: ctl.Searched(),
		Results:  ctl.Results(),
		Cursor:   ctl.Cursor(),
	}
	if isHTMX(c) && c.QueryParam("partial") == "results" {
		return Render(c, a.Views.SearchResults(view))
	}
	meta := PageMeta{Title: "Search | " + a.Config.Name}
	return Render(c, a.Views.Search(a.page(c, meta), view))
}

type themeResponse struct {
	Theme    string `json:"theme"`
	Explicit bool   `json:"explicit"`
}

func (a *App) respondTheme(c echo.Context, ctl *theme.Controller) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return c.JSON(http.StatusOK, themeResponse{Theme: ctl.Current().String(), Explicit: ctl.Explicit()})
	}
	return c.Redirect(http.StatusSeeOther, backTo(c))
}

// backTo returns the same-site path the request came from, or "/".
func backTo(c echo.Context) string {
	ref := c.Request().Referer()
	if ref == "" {
		return "/"
	}
	if i := strings.Index(ref, "://"); i >= 0 {
		rest := ref[i+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 || rest[:slash] != c.Request().Host {
			return "/"
		}
		ref = rest[slash:]
	}
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return "/"
	}
	return ref
}

func (a *App) handleThemeToggle(c echo.Context) error {
	ctl, _ := a.themeFor(c, systemDarkParam(c))
	ctl.Toggle()
	return a.respondTheme(c, ctl)
}

func (a *App) handleThemeSystem(c echo.Context) error {
	dark := systemDarkParam(c)
	ctl, _ := a.themeFor(c, !dark)
	ctl.SystemChanged(dark)
	return a.respondTheme(c, ctl)
}

// systemDarkParam reads the OS preference the browser reports, falling back
// to the client hint.
func systemDarkParam(c echo.Context) bool {
	if v := c.FormValue("dark"); v != "" {
		dark, err := strconv.ParseBool(v)
		return err == nil && dark
	}
	return prefersDark(c.Request())
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, tags)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	body := "User-agent: *\nAllow: /\n\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	if strings.Contains(strings.ToLower(a.Config.Robots), "noindex") {
		body = "User-agent: *\nDisallow: /\n"
	}
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		meta := PageMeta{Title: "Not Found | " + a.Config.Name}
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, meta)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		meta := PageMeta{Title: "Error | " + a.Config.Name}
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, meta)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
