package folio

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s) id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			k := classifyPath(c.Request().URL.Path)
			return k == pathAsset || k == pathLive
		},
	}))

	csp := "default-src 'self'; script-src 'self' 'unsafe-inline' https://*.disqus.com https://*.disquscdn.com; style-src 'self' 'unsafe-inline' https://*.disquscdn.com; img-src 'self' https: data:; font-src 'self'; connect-src 'self' ws: wss: https://*.disqus.com; frame-src https://disqus.com https://*.disqus.com; media-src 'self' data:"
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: csp,
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(clientHintsMiddleware)

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper: func(c echo.Context) bool {
			k := classifyPath(c.Request().URL.Path)
			return k == pathAsset || k == pathLive
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/public" || path == "/favicon.svg" || classifyPath(path) <= pathFeed
		},
	}))

	e.Use(cacheControlMiddleware)
}

// clientHintsMiddleware asks browsers to send their color scheme preference
// so the first paint already carries the right theme.
func clientHintsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Accept-CH", headerPrefersColorScheme)
		h.Set("Critical-CH", headerPrefersColorScheme)
		h.Add(echo.HeaderVary, headerPrefersColorScheme)
		return next(c)
	}
}

type pathKind int

const (
	pathAsset pathKind = iota
	pathFeed
	pathLive
	pathDynamic
	pathPage
)

// classifyPath buckets a request path for the middleware that treats static
// files, machine-readable feeds and per-visitor pages differently.
func classifyPath(path string) pathKind {
	switch {
	case strings.HasPrefix(path, "/public/"), strings.HasPrefix(path, "/covers/"):
		return pathAsset
	case path == "/sitemap.xml", path == "/feed.xml", path == "/rss.xml", path == "/robots.txt":
		return pathFeed
	case path == "/_live/":
		return pathLive
	case strings.HasPrefix(path, "/search/"), strings.HasPrefix(path, "/theme/"):
		return pathDynamic
	}
	return pathPage
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		h := c.Response().Header()
		switch classifyPath(path) {
		case pathAsset:
			if path == "/public/folio.js" || path == "/public/folio.css" {
				h.Set("Cache-Control", "public, max-age=3600")
			} else {
				h.Set("Cache-Control", "public, max-age=31536000, immutable")
			}
		case pathFeed:
			h.Set("Cache-Control", "public, max-age=86400")
		case pathLive, pathDynamic:
			h.Set("Cache-Control", "no-store")
		default:
			// Pages carry the visitor's theme, so shared caches must not keep them.
			h.Set("Cache-Control", "private, max-age=0, must-revalidate")
			h.Add(echo.HeaderVary, echo.HeaderCookie)
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
