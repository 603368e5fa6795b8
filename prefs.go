package folio

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/search"
	"github.com/eringen/folio/theme"
)

const (
	prefsSession = "prefs"

	// Client hint carrying the visitor's OS color scheme.
	headerPrefersColorScheme = "Sec-CH-Prefers-Color-Scheme"
	headerReplaceURL         = "HX-Replace-Url"
)

// sessionThemeStore persists the theme in the signed prefs cookie. A cookie
// that fails to decode reads as no saved choice.
type sessionThemeStore struct {
	c echo.Context
}

func (s sessionThemeStore) Load() (theme.Theme, bool) {
	sess, err := session.Get(prefsSession, s.c)
	if err != nil {
		return "", false
	}
	v, _ := sess.Values[theme.StorageKey].(string)
	return theme.Parse(v)
}

func (s sessionThemeStore) Save(t theme.Theme) error {
	sess, err := session.Get(prefsSession, s.c)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[theme.StorageKey] = string(t)
	return sess.Save(s.c.Request(), s.c.Response())
}

// prefersDark reads the OS color scheme client hint.
func prefersDark(r *http.Request) bool {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(headerPrefersColorScheme)), `"`)
	return strings.EqualFold(v, "dark")
}

// themeFor resolves the visitor's theme for this request.
func (a *App) themeFor(c echo.Context, systemDark bool) (*theme.Controller, *theme.ClassList) {
	marker := theme.NewClassList()
	ctl := theme.New(theme.ParsePreference(a.Config.Theme), sessionThemeStore{c: c}, marker, systemDark, c.Logger())
	return ctl, marker
}

// requestURLSync keeps the visitor's address bar in step with the search
// query by telling the client which URL to replace the current entry with.
type requestURLSync struct {
	c    echo.Context
	base *url.URL
}

func newRequestURLSync(c echo.Context) *requestURLSync {
	u := *c.Request().URL
	values, err := url.ParseQuery(u.RawQuery)
	if err == nil {
		values.Del("partial")
		u.RawQuery = values.Encode()
	}
	u.Scheme, u.Host = "", ""
	return &requestURLSync{c: c, base: &u}
}

func (s *requestURLSync) Query() (string, bool) {
	return search.QueryFrom(s.base)
}

func (s *requestURLSync) ReplaceQuery(q string) {
	s.c.Response().Header().Set(headerReplaceURL, search.WithQuery(s.base, q).String())
}

func (s *requestURLSync) ClearQuery() {
	s.c.Response().Header().Set(headerReplaceURL, search.BarePath(s.base).String())
}
