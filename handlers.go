package eatery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/eatery/forms"
)

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets take precedence over the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/forms.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.Config.StaticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/health", a.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	forms.NewHandler(a.Relay).RegisterRoutes(e)

	e.GET("/", a.handlePage)
	e.GET("/locations/:slug/", a.handlePage)
	e.GET("/blog/:slug/", a.handlePage)
	e.GET("/*", a.handlePage)
}

// pages builds the current page set from the content cache.
func (a *App) pages(c echo.Context) ([]Page, error) {
	ctx := c.Request().Context()
	blogs, err := a.Cache.Blogs(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := a.Cache.Locations(ctx)
	if err != nil {
		return nil, err
	}
	menu, err := a.Cache.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPages(a.Config, a.routes, blogs, locations, menu)
}

// handlePage renders whichever page the generator would emit for the path.
func (a *App) handlePage(c echo.Context) error {
	p, err := a.resolvePage(c.Request().Context(), cleanPath(c.Request().URL.Path))
	if err != nil {
		return err
	}
	p.CSRFToken = CsrfToken(c)
	p.Flash = Flash(c)
	if p.Flash != "" {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	body, err := RenderPage(c.Request().Context(), a.Views, a.Config, p)
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, body)
}

// resolvePage builds only the page at path: a route table entry, or a
// location or blog looked up by slug.
func (a *App) resolvePage(ctx context.Context, path string) (Page, error) {
	blogs, err := a.Cache.Blogs(ctx)
	if err != nil {
		return Page{}, err
	}
	locations, err := a.Cache.Locations(ctx)
	if err != nil {
		return Page{}, err
	}

	if a.hasRoute(path) {
		menu, err := a.Cache.Menu(ctx)
		if err != nil {
			return Page{}, err
		}
		return StaticPage(a.Config, a.routes, path, blogs, locations, menu)
	}
	if slug, ok := slugUnder(path, "/locations/"); ok {
		loc, err := a.Cache.Location(ctx, slug)
		if err != nil {
			return Page{}, err
		}
		return LocationPage(a.Config, a.routes, loc, blogs, locations)
	}
	if slug, ok := slugUnder(path, "/blog/"); ok {
		blog, err := a.Cache.Blog(ctx, slug)
		if err != nil {
			return Page{}, err
		}
		return BlogPage(a.Config, a.routes, blog, blogs, locations)
	}
	return Page{}, ErrNotFound
}

func (a *App) hasRoute(path string) bool {
	for _, r := range a.routes.Routes {
		if cleanPath(r.Path) == path {
			return true
		}
	}
	return false
}

// slugUnder returns the single path segment below prefix.
func slugUnder(path, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return "", false
	}
	slug := strings.TrimSuffix(rest, "/")
	if slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}

func (a *App) handleSitemap(c echo.Context) error {
	pages, err := a.pages(c)
	if err != nil {
		return err
	}
	return a.writeDoc(c, "application/xml; charset=utf-8", func(w io.Writer) error {
		return WriteSitemap(w, pages)
	})
}

func (a *App) handleFeed(c echo.Context) error {
	blogs, err := a.Cache.Blogs(c.Request().Context())
	if err != nil {
		return err
	}
	return a.writeDoc(c, "application/rss+xml; charset=utf-8", func(w io.Writer) error {
		return WriteFeed(w, a.Config, blogs)
	})
}

func (a *App) handleRobots(c echo.Context) error {
	return a.writeDoc(c, echo.MIMETextPlainCharsetUTF8, func(w io.Writer) error {
		return WriteRobots(w, a.Config)
	})
}

func (a *App) writeDoc(c echo.Context, contentType string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (a *App) handleHealth(c echo.Context) error {
	if _, err := a.Cache.Locations(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	} else if errors.Is(err, ErrNotFound) {
		code = http.StatusNotFound
		err = echo.ErrNotFound
	}
	if code == http.StatusNotFound && a.Views.NotFound != nil {
		_ = RenderStatus(c, code, a.Views.NotFound(a.Config))
		return
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if a.Views.ServerError != nil {
			_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
