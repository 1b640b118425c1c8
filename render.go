package eatery

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// The component renders into a buffer first so a failing template still
// reaches the error handler with an uncommitted response.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	body, err := RenderBytes(c.Request().Context(), cmp)
	if err != nil {
		return err
	}
	return c.HTMLBlob(code, body)
}

// RenderBytes renders a component to memory.
func RenderBytes(ctx context.Context, cmp templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPage renders page with the view registered for its kind.
func RenderPage(ctx context.Context, views ViewFuncs, site SiteConfig, page Page) ([]byte, error) {
	view, err := views.For(page.Kind)
	if err != nil {
		return nil, err
	}
	return RenderBytes(ctx, view(site, page))
}
