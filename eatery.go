// Package eatery builds and serves the marketing site of a restaurant chain.
// It turns a JSON content database of blogs and locations into static
// pages with schema.org rich snippets, and relays the site's forms.
//
// Users provide their own templ components via the ViewFuncs struct;
// eatery handles routing, structured data, the build and the server.
package eatery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eringen/eatery/forms"
)

// PageView renders one page of the site.
type PageView func(site SiteConfig, page Page) templ.Component

// ViewFuncs holds user-provided templ components, one per page kind. The
// generator and the preview server both render through it.
type ViewFuncs struct {
	Home        PageView
	Locations   PageView
	Location    PageView
	Careers     PageView
	Franchise   PageView
	Fundraising PageView
	Nutrition   PageView
	BlogIndex   PageView
	Blog        PageView
	NotFound    func(site SiteConfig) templ.Component
	ServerError func(site SiteConfig) templ.Component

	// Required only when SiteConfig.AdminPassword is set.
	AdminLogin       func(site SiteConfig, showError bool, csrfToken string) templ.Component
	AdminSubmissions func(site SiteConfig, kind string, subs []forms.Submission, csrfToken string) templ.Component
}

// ErrNoView is returned when ViewFuncs has no component for a page kind.
var ErrNoView = errors.New("eatery: no view for page kind")

// For returns the view registered for kind.
func (v ViewFuncs) For(kind string) (PageView, error) {
	var view PageView
	switch kind {
	case KindHome:
		view = v.Home
	case KindLocations:
		view = v.Locations
	case KindLocation:
		view = v.Location
	case KindCareers:
		view = v.Careers
	case KindFranchise:
		view = v.Franchise
	case KindFundraising:
		view = v.Fundraising
	case KindNutrition:
		view = v.Nutrition
	case KindBlogIndex:
		view = v.BlogIndex
	case KindBlog:
		view = v.Blog
	}
	if view == nil {
		return nil, fmt.Errorf("%w %q", ErrNoView, kind)
	}
	return view, nil
}

// App is the preview and form-relay server. It wires together the store,
// cache, relay, handlers, middleware and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *ContentCache
	Views  ViewFuncs
	Relay  *forms.Relay

	source       ContentSource
	routes       RouteTable
	limiter      forms.Limiter
	loginLimiter *forms.MemoryLimiter
	redis        *redis.Client
	customRoutes []func(*App)
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, builds the relay and registers middleware and
// routes without listening. Start calls it; tests call it directly.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("eatery: SessionSecret is required")
	}
	if a.Config.AdminPassword != "" && (a.Views.AdminLogin == nil || a.Views.AdminSubmissions == nil) {
		return fmt.Errorf("eatery: AdminPassword is set but the admin views are missing")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("eatery: init store: %w", err)
	}
	a.Store = store
	if a.source == nil {
		a.source = store
	}

	a.Cache = NewContentCache(a.source, a.Config.ContentTTL)

	if len(a.routes.Routes) == 0 {
		table, err := LoadRouteTable(filepath.Join(a.Config.ContentDir, "routes.yaml"))
		switch {
		case err == nil:
			a.routes = table
		case errors.Is(err, os.ErrNotExist):
			a.routes = DefaultRouteTable(a.Config)
		default:
			return err
		}
	}

	if a.Config.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: a.Config.RedisAddr})
		a.limiter = forms.NewRedisLimiter(a.redis, 5, time.Minute)
	} else {
		a.limiter = forms.NewMemoryLimiter(5, time.Minute)
	}

	a.Relay = forms.NewRelay(forms.RelayConfig{
		Endpoints: a.Config.FormEndpoints,
		Timeout:   a.Config.FormTimeout,
		Limiter:   a.limiter,
		Recorder:  a.Store,
	})

	a.loginLimiter = forms.NewMemoryLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupAdminRoutes()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if m, ok := a.limiter.(*forms.MemoryLimiter); ok {
		m.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("eatery: required environment variable %s is not set", key)
	}
	return v
}
