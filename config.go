package folio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eringen/folio/search"
)

// NavItem is one header navigation link. Title may be a translation key.
type NavItem struct {
	Href  string `mapstructure:"href"`
	Title string `mapstructure:"title"`
}

// SocialLink is a footer profile link.
type SocialLink struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// SearchConfig selects and tunes the search engine.
type SearchConfig struct {
	Engine             string  `mapstructure:"engine"`    // "fuzzy" or "bleve"
	Threshold          float64 `mapstructure:"threshold"` // 0 exact .. 1 anything
	MinMatchCharLength int     `mapstructure:"min_match_char_length"`
	Limit              int     `mapstructure:"limit"`
}

// Options converts the config into engine options.
func (s SearchConfig) Options() search.Options {
	return search.Options{
		Threshold:          s.Threshold,
		MinMatchCharLength: s.MinMatchCharLength,
		Limit:              s.Limit,
	}
}

// CommentsConfig configures the Disqus embed. An empty shortname disables it.
type CommentsConfig struct {
	DisqusShortname string `mapstructure:"disqus_shortname"`
}

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Blog")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:4000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD
	Email       string `mapstructure:"email"`
	Repo        string `mapstructure:"repo"`
	Theme       string `mapstructure:"theme"`  // "system", "light" or "dark"
	Robots      string `mapstructure:"robots"` // robots meta directive

	Addr         string `mapstructure:"addr"`          // Listen address (default ":4000")
	DatabasePath string `mapstructure:"database_path"` // SQLite path (default "data/folio.db")
	ContentDir   string `mapstructure:"content_dir"`   // Markdown posts (default "content/blog")
	StaticDir    string `mapstructure:"static_dir"`    // User assets (default "public")
	Watch        bool   `mapstructure:"watch"`         // Re-import on content changes

	SessionSecret string `mapstructure:"session_secret"` // Required: cookie signing secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	PostCacheTTL time.Duration `mapstructure:"cache_ttl"`      // Post cache TTL (default 5min)
	ItemsPerPage int           `mapstructure:"items_per_page"` // Home page size (default 5)

	RateLimit  int           `mapstructure:"rate_limit"`  // Requests per window on /search/ and /theme/
	RateWindow time.Duration `mapstructure:"rate_window"` // (default 60 per minute)

	Search     SearchConfig   `mapstructure:"search"`
	Comments   CommentsConfig `mapstructure:"comments"`
	Navigation []NavItem      `mapstructure:"navigation"`
	Social     []SocialLink   `mapstructure:"social"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:4000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Theme == "" {
		c.Theme = "system"
	}
	if c.Robots == "" {
		c.Robots = "index, follow"
	}
	if c.Addr == "" {
		c.Addr = ":4000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.ItemsPerPage <= 0 {
		c.ItemsPerPage = 5
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 60
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.Search.Engine == "" {
		c.Search.Engine = search.EngineFuzzy
	}
	defaults := search.DefaultOptions()
	if c.Search.Threshold <= 0 {
		c.Search.Threshold = defaults.Threshold
	}
	if c.Search.MinMatchCharLength <= 0 {
		c.Search.MinMatchCharLength = defaults.MinMatchCharLength
	}
	if len(c.Navigation) == 0 {
		c.Navigation = []NavItem{
			{Href: "/", Title: "nav.home"},
			{Href: "/tags/", Title: "nav.tags"},
			{Href: "/search/", Title: "nav.search"},
		}
	}
}

// WithDefaults returns a copy of c with every unset field defaulted.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}

// LoadConfig reads path (or ./folio.yaml when path is empty) and FOLIO_*
// environment variables into a SiteConfig. A missing default file is not an
// error.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment lookups only reach keys viper knows about.
	for _, key := range []string{
		"name", "url", "description", "author", "email", "repo", "theme", "robots",
		"addr", "database_path", "content_dir", "static_dir", "watch",
		"session_secret", "cookie_secure", "cache_ttl", "items_per_page",
		"rate_limit", "rate_window",
		"search.engine", "search.threshold", "search.min_match_char_length", "search.limit",
		"comments.disqus_shortname",
	} {
		v.SetDefault(key, nil)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return SiteConfig{}, fmt.Errorf("folio: read config: %w", err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("folio: parse config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSVGFetcher replaces the fetcher used to inline .svg covers.
func WithSVGFetcher(f SVGInliner) Option {
	return func(a *App) {
		a.svg = f
	}
}
