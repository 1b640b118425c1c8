package eatery

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SiteConfig holds all configuration for an eatery site.
type SiteConfig struct {
	Name        string // Brand name (default "Eatery")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Logo        string // Absolute or site-relative logo URL for JSON-LD
	Cuisine     string // schema.org servesCuisine
	PriceRange  string // schema.org priceRange
	SameAs      []string
	// CopyrightYear is printed in the footer; zero omits it so builds of
	// the same content stay byte-identical.
	CopyrightYear int

	ContentDir string // blogs.json, locations.json, menu.json, routes.yaml (default "content")
	StaticDir  string // user-owned static assets (default "public")
	OutDir     string // generator output (default "dist")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/eatery.db")

	SessionSecret string // Required by the server: session encryption secret
	AdminPassword string // Enables /admin/; empty leaves the submissions viewer off
	CookieSecure  bool   // Set true for HTTPS

	FormsURL      string            // origin of the form relay; empty means same origin
	FormEndpoints map[string]string // form kind -> external endpoint URL
	FormTimeout   time.Duration     // upstream timeout (default 10s)
	RedisAddr     string            // optional shared limiter backend

	MaxImageWidth int           // asset pipeline resize bound (default 1600)
	ContentTTL    time.Duration // content cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Eatery"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	c.FormsURL = strings.TrimSuffix(c.FormsURL, "/")
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/eatery.db"
	}
	if c.FormTimeout == 0 {
		c.FormTimeout = 10 * time.Second
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = 1600
	}
	if c.ContentTTL == 0 {
		c.ContentTTL = 5 * time.Minute
	}
}

// Defaults returns a copy of c with every unset field filled in.
func (c SiteConfig) Defaults() SiteConfig {
	c.setDefaults()
	return c
}

// ConfigFromEnv builds a SiteConfig from environment variables.
// Unset variables fall back to the defaults applied by setDefaults.
func ConfigFromEnv() SiteConfig {
	cfg := SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Logo:          os.Getenv("SITE_LOGO"),
		Cuisine:       EnvOr("SITE_CUISINE", "American"),
		PriceRange:    EnvOr("SITE_PRICE_RANGE", "$$"),
		SameAs:        splitList(os.Getenv("SITE_SAME_AS")),
		ContentDir:    os.Getenv("CONTENT_DIR"),
		StaticDir:     os.Getenv("STATIC_DIR"),
		OutDir:        os.Getenv("OUT_DIR"),
		Addr:          os.Getenv("HTTP_ADDR"),
		DatabasePath:  os.Getenv("DATABASE_PATH"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CookieSecure:  envBool("COOKIE_SECURE"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		FormTimeout:   envDuration("FORM_TIMEOUT", 0),
		MaxImageWidth: envInt("MAX_IMAGE_WIDTH", 0),
		ContentTTL:    envDuration("CONTENT_TTL", 0),
		CopyrightYear: envInt("SITE_COPYRIGHT_YEAR", 0),
		FormsURL:      os.Getenv("SITE_FORMS_URL"),
		FormEndpoints: map[string]string{},
	}
	for _, kind := range []string{"career", "contact", "franchise", "fundraising"} {
		if v := os.Getenv("FORM_ENDPOINT_" + strings.ToUpper(kind)); v != "" {
			cfg.FormEndpoints[kind] = v
		}
	}
	cfg.setDefaults()
	return cfg
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

// WithSource replaces the content source (default: the SQLite store).
func WithSource(src ContentSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithRouteTable sets the static route table served by the app.
func WithRouteTable(table RouteTable) Option {
	return func(a *App) {
		a.routes = table
	}
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true") || os.Getenv(key) == "1"
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	return FilterEmpty(strings.Split(raw, ","))
}
