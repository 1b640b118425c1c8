package eatery

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/eatery/forms"
)

// submissionsShown bounds the admin list; older rows stay in SQLite.
const submissionsShown = 100

// setupAdminRoutes registers the submissions log viewer. Without an
// AdminPassword there is no way to log in, so nothing is registered.
func (a *App) setupAdminRoutes() {
	if a.Config.AdminPassword == "" {
		return
	}
	e := a.Echo
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.Config, false, CsrfToken(c)))
	}
	kind := c.QueryParam("kind")
	if kind != "" {
		if _, ok := forms.ParseKind(kind); !ok {
			return c.String(http.StatusBadRequest, "Unknown form kind.")
		}
	}
	subs, err := a.Store.ListSubmissions(c.Request().Context(), kind, submissionsShown)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminSubmissions(a.Config, kind, subs, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if ok, err := a.loginLimiter.Allow(c.Request().Context(), c.RealIP()); err != nil || !ok {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.Config, true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}
