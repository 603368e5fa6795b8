// Package folio is a personal blog engine built with Go, Echo, and templ.
// It imports Markdown posts into SQLite and serves paginated listings, tag
// pages, fuzzy search with a shareable URL, a persisted light/dark theme, RSS,
// and a sitemap.
//
// Templates are provided through the ViewFuncs struct; folio handles the
// handler logic, middleware, and storage.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/inlinesvg"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
type ViewFuncs struct {
	Home          func(p Page, posts []Post, pager Pager) templ.Component
	Tags          func(p Page, tags []TagCount) templ.Component
	Tag           func(p Page, tag string, posts []Post) templ.Component
	Post          func(p Page, post Post, related []Post) templ.Component
	Search        func(p Page, view SearchView) templ.Component
	SearchResults func(view SearchView) templ.Component
	NotFound      func(p Page) templ.Component
	ServerError   func(p Page) templ.Component
}

// SVGInliner turns a cover URL into inline SVG markup, or "" on failure.
type SVGInliner interface {
	Inline(ctx context.Context, url string) string
}

// App is the central folio application. It wires together the store, cache,
// importer, handlers, middleware, and templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Importer *Importer
	Views    ViewFuncs

	limiter      *RateLimiter
	live         *LiveHub
	svg          SVGInliner
	customRoutes []func(*App)
	cancel       context.CancelFunc
}

// New creates a folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, imports content, and registers middleware and
// routes. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	logger := a.Echo.Logger
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL, a.Config.Search, logger)
	a.limiter = NewRateLimiter(a.Config.RateLimit, a.Config.RateWindow)
	if a.svg == nil {
		a.svg = newSVGFetcher(a.Config.StaticDir, logger)
	}
	if a.Config.Watch {
		a.live = NewLiveHub(logger)
	}
	a.Importer = NewImporter(a.Config.ContentDir, a.Store, a.Cache, a.live, logger)

	if n, err := a.Importer.Import(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("folio: import content: %w", err)
		}
		logger.Warnf("content directory %s not found, serving existing posts", a.Config.ContentDir)
	} else {
		logger.Infof("imported %d posts from %s", n, a.Config.ContentDir)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up, starts the content watcher in watch mode, and
// serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}

	if a.Config.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		a.cancel = cancel
		go func() {
			if err := a.Importer.Watch(ctx); err != nil {
				a.Echo.Logger.Errorf("content watcher stopped: %v", err)
			}
		}()
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are served under /public/ ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/folio.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/covers/:file", a.handleCover)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/rss.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/page/:n/", a.handlePage)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/blog/:slug/", a.handlePost)

	e.GET("/search/", a.handleSearch, a.limiter.Middleware)
	e.POST("/theme/", a.handleThemeToggle, a.limiter.Middleware)
	e.POST("/theme/system/", a.handleThemeSystem, a.limiter.Middleware)

	if a.live != nil {
		e.GET("/_live/", a.live.Handle)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.live != nil {
		a.live.Close()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func newSVGFetcher(staticDir string, log inlinesvg.Logger) *inlinesvg.Fetcher {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir(staticDir)))
	return inlinesvg.New(&http.Client{Transport: t, Timeout: inlinesvg.DefaultTimeout}, log)
}

// PostFromSource converts a parsed content file into a storable post.
func PostFromSource(src content.Source) Post {
	return Post{
		Slug:      src.Slug,
		Title:     src.Title,
		Date:      src.DateString(),
		Tags:      src.Tags,
		Summary:   src.Summary,
		Cover:     src.Cover,
		Content:   src.Body,
		Link:      "/blog/" + src.Slug + "/",
		Published: !src.Draft,
	}
}
