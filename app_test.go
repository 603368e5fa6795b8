package folio_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	folio "github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

const helloPost = `---
title: Hello World
date: 2024-01-02
summary: First post
tags: [go, web]
cover: /public/covers/hello.svg
---

Hello **there**.
`

const goodbyePost = `---
title: Goodbye
date: 2024-01-01
summary: Last post
tags: [rust]
---

![diagram](https://example.com/a.png)

<script>alert(1)</script>
`

const draftPost = `---
title: Secret Draft
date: 2024-01-03
draft: true
---

Not yet.
`

const helloSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T, mutate ...func(*folio.SiteConfig)) *folio.App {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "content", "hello-world.md"), helloPost)
	writeFile(t, filepath.Join(dir, "content", "goodbye.md"), goodbyePost)
	writeFile(t, filepath.Join(dir, "content", "draft.md"), draftPost)
	writeFile(t, filepath.Join(dir, "public", "covers", "hello.svg"), helloSVG)

	cfg := folio.SiteConfig{
		Name:          "Test Blog",
		URL:           "https://blog.test",
		Description:   "A test blog",
		DatabasePath:  filepath.Join(dir, "data", "folio.db"),
		ContentDir:    filepath.Join(dir, "content"),
		StaticDir:     filepath.Join(dir, "public"),
		SessionSecret: "test-secret",
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	app := folio.New(cfg, views.Default())
	if err := app.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func do(app *folio.App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func get(app *folio.App, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return do(app, req)
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSetupRequiresSessionSecret(t *testing.T) {
	app := folio.New(folio.SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")}, views.Default())
	if err := app.Setup(); err == nil {
		t.Fatal("expected an error without a session secret")
	}
}

func TestHomePage(t *testing.T) {
	app := newTestApp(t)
	rec := get(app, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Hello World", "Goodbye", `width="100%"`, "<rect"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(body, "Secret Draft") {
		t.Error("draft listed on home page")
	}
	if got := rec.Header().Get("Cache-Control"); got != "private, max-age=0, must-revalidate" {
		t.Errorf("Cache-Control = %q", got)
	}
	if got := rec.Header().Get("Accept-CH"); got != "Sec-CH-Prefers-Color-Scheme" {
		t.Errorf("Accept-CH = %q", got)
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("missing request id")
	}
}

func TestPagination(t *testing.T) {
	app := newTestApp(t, func(c *folio.SiteConfig) { c.ItemsPerPage = 1 })

	rec := get(app, "/page/2/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Goodbye") {
		t.Fatalf("GET /page/2/ = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Hello World") {
		t.Error("page 2 should not list the newest post")
	}

	rec = get(app, "/page/1/")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/" {
		t.Errorf("GET /page/1/ = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	for _, target := range []string{"/page/3/", "/page/abc/", "/page/0/"} {
		rec = get(app, target)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, rec.Code)
		}
	}
	if !strings.Contains(rec.Body.String(), "couldn&#39;t find this page") {
		t.Error("404 should render the not found page")
	}
}

func TestPostPage(t *testing.T) {
	app := newTestApp(t)

	rec := get(app, "/blog/hello-world/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET post = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<strong>there</strong>",
		`"@type":"BlogPosting"`,
		`<meta property="og:type" content="article">`,
		`<link rel="canonical" href="https://blog.test/blog/hello-world/">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("post page missing %q", want)
		}
	}

	if rec := get(app, "/blog/draft/"); rec.Code != http.StatusNotFound {
		t.Errorf("draft = %d, want 404", rec.Code)
	}
	rec = get(app, "/blog/hello-world")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/blog/hello-world/" {
		t.Errorf("missing slash = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := get(app, "/blog/"); rec.Code != http.StatusMovedPermanently {
		t.Errorf("GET /blog/ = %d, want redirect", rec.Code)
	}
}

func TestTagPages(t *testing.T) {
	app := newTestApp(t)

	rec := get(app, "/tags/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tags/ = %d", rec.Code)
	}
	for _, want := range []string{`href="/tags/go/"`, `href="/tags/rust/"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("tag index missing %q", want)
		}
	}

	rec = get(app, "/tags/GO/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Hello World") {
		t.Errorf("GET /tags/GO/ = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Goodbye") {
		t.Error("tag page lists an untagged post")
	}

	if rec := get(app, "/tags/nothing/"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown tag = %d, want 404", rec.Code)
	}
}

func TestSearchURLSync(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		name        string
		target      string
		partial     bool
		wantReplace string
		wantText    string
		notText     string
	}{
		{"restores query", "/search/?q=hello", false, "/search/?q=hello", "Found 1 result for &#39;hello&#39;", "Goodbye"},
		{"partial drops marker", "/search/?q=hello&partial=results", true, "/search/?q=hello", "Found 1 result for", "<html"},
		{"short query", "/search/?q=h", false, "/search/?q=h", "", "Found"},
		{"empty query", "/search/?q=", false, "/search/", "", "Found"},
		{"no match", "/search/?q=zzzzzz&partial=results", true, "/search/?q=zzzzzz", "Found 0 results", "Hello World"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.partial {
				rec = get(app, tt.target, "HX-Request", "true")
			} else {
				rec = get(app, tt.target)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s = %d", tt.target, rec.Code)
			}
			if got := rec.Header().Get("HX-Replace-Url"); got != tt.wantReplace {
				t.Errorf("HX-Replace-Url = %q, want %q", got, tt.wantReplace)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-store" {
				t.Errorf("Cache-Control = %q", got)
			}
			body := rec.Body.String()
			if tt.wantText != "" && !strings.Contains(body, tt.wantText) {
				t.Errorf("body missing %q", tt.wantText)
			}
			if tt.notText != "" && strings.Contains(body, tt.notText) {
				t.Errorf("body unexpectedly contains %q", tt.notText)
			}
		})
	}
}

type themeReply struct {
	Theme    string `json:"theme"`
	Explicit bool   `json:"explicit"`
}

func postTheme(t *testing.T, app *folio.App, path string, dark bool, cookies ...*http.Cookie) (themeReply, *httptest.ResponseRecorder) {
	t.Helper()
	form := url.Values{"dark": {"false"}}
	if dark {
		form.Set("dark", "true")
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	for _, c := range cookies {
		if c == nil {
			continue
		}
		req.AddCookie(c)
		if c.Name == "_csrf" {
			req.Header.Set("X-CSRF-Token", c.Value)
		}
	}
	rec := do(app, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST %s = %d: %s", path, rec.Code, rec.Body.String())
	}
	var reply themeReply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return reply, rec
}

func TestThemeFlow(t *testing.T) {
	app := newTestApp(t)

	// First visit: no saved choice, OS prefers dark.
	rec := get(app, "/", "Sec-CH-Prefers-Color-Scheme", "dark")
	if !strings.Contains(rec.Body.String(), `<html lang="en" class="dark">`) {
		t.Fatal("first paint should follow the OS preference")
	}
	csrf := cookie(rec, "_csrf")
	if csrf == nil {
		t.Fatal("no CSRF cookie issued")
	}
	if cookie(rec, "prefs") != nil {
		t.Error("initial resolution should not persist a theme")
	}

	// The OS switching to light is adopted while nothing is saved.
	reply, rec := postTheme(t, app, "/theme/system/", false, csrf)
	if reply.Theme != "light" || reply.Explicit {
		t.Errorf("system change = %+v, want light, not explicit", reply)
	}
	prefs := cookie(rec, "prefs")
	if prefs == nil {
		t.Fatal("system change should persist the theme")
	}

	// Toggle flips and pins the choice.
	reply, rec = postTheme(t, app, "/theme/", false, csrf, prefs)
	if reply.Theme != "dark" || !reply.Explicit {
		t.Errorf("toggle = %+v, want dark, explicit", reply)
	}
	prefs = cookie(rec, "prefs")

	// Once saved, later OS changes are ignored and the page renders the choice.
	reply, _ = postTheme(t, app, "/theme/system/", false, csrf, prefs)
	if reply.Theme != "dark" {
		t.Errorf("system change after toggle = %+v, want dark", reply)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", "light")
	req.AddCookie(prefs)
	rec = do(app, req)
	if !strings.Contains(rec.Body.String(), `<html lang="en" class="dark">`) {
		t.Error("saved choice should win over the OS preference")
	}
}

func TestThemeRequiresCSRF(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/theme/", nil)
	if rec := do(app, req); rec.Code != http.StatusForbidden {
		t.Errorf("POST without token = %d, want 403", rec.Code)
	}
}

func TestThemeSiteOverride(t *testing.T) {
	app := newTestApp(t, func(c *folio.SiteConfig) { c.Theme = "light" })
	rec := get(app, "/", "Sec-CH-Prefers-Color-Scheme", "dark")
	if !strings.Contains(rec.Body.String(), `<html lang="en" class="light">`) {
		t.Error("site override should win over the OS preference")
	}
}

func TestFeed(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/feed.xml", "/rss.xml"} {
		rec := get(app, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{
			"<link>https://blog.test/blog/hello-world/</link>",
			"<content:encoded><![CDATA[",
			`<img src="https://example.com/a.png" alt="diagram">`,
			`<atom:link href="https://blog.test/feed.xml" rel="self"`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("%s missing %q", path, want)
			}
		}
		if strings.Contains(body, "Secret Draft") || strings.Contains(body, "<script>") {
			t.Errorf("%s leaked a draft or script", path)
		}
	}
}

func TestSitemapAndRobots(t *testing.T) {
	app := newTestApp(t)
	rec := get(app, "/sitemap.xml")
	for _, want := range []string{"https://blog.test/tags/go/", "https://blog.test/blog/hello-world/", "<lastmod>2024-01-02</lastmod>"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	rec = get(app, "/robots.txt")
	if !strings.Contains(rec.Body.String(), "Sitemap: https://blog.test/sitemap.xml") {
		t.Errorf("robots = %q", rec.Body.String())
	}

	noindex := newTestApp(t, func(c *folio.SiteConfig) { c.Robots = "noindex, nofollow" })
	if rec := get(noindex, "/robots.txt"); !strings.Contains(rec.Body.String(), "Disallow: /") {
		t.Errorf("noindex robots = %q", rec.Body.String())
	}
}

func TestEmbeddedAssets(t *testing.T) {
	app := newTestApp(t)
	rec := get(app, "/public/folio.js")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "HX-Replace-Url") {
		t.Errorf("GET folio.js = %d", rec.Code)
	}
}

func TestCustomRoutes(t *testing.T) {
	dir := t.TempDir()
	cfg := folio.SiteConfig{
		DatabasePath:  filepath.Join(dir, "folio.db"),
		ContentDir:    filepath.Join(dir, "missing"),
		StaticDir:     dir,
		SessionSecret: "s",
	}
	app := folio.New(cfg, views.Default(), folio.WithCustomRoutes(func(a *folio.App) {
		a.Echo.GET("/ping/", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	}))
	if err := app.Setup(); err != nil {
		t.Fatalf("Setup with a missing content dir: %v", err)
	}
	defer app.Close()
	if rec := get(app, "/ping/"); rec.Body.String() != "pong" {
		t.Errorf("custom route = %q", rec.Body.String())
	}
}
