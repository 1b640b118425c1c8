package eatery_test

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/logger"
	"github.com/eringen/eatery/views"
)

const (
	siteBlogs = `[
  {"slug": "tacos-austin", "title": "Best Tacos in Austin", "body": ["## Where to eat", "Try the **al pastor**.", "- Salsa\n- Limes"], "city": "Austin", "state": "TX", "status": "published", "date": "2025-02-01", "latitude": 30.27, "longitude": -97.74},
  {"slug": "brunch-dallas", "title": "Dallas Brunch Guide", "description": "Weekend brunch in Dallas.", "body": ["Brunch <script>alert(1)</script> time."], "city": "Dallas", "state": "Texas", "status": "published", "date": "2025-01-10"},
  {"slug": "draft-houston", "title": "Houston Draft", "body": ["Soon."], "city": "Houston", "state": "TX", "status": "draft"}
]`
	siteLocations = `[
  {"id": 1, "slug": "austin", "name": "Taco Shack Austin", "street": "100 Congress Ave", "city": "Austin", "state": "TX", "zip": "78701", "phone": "(512) 555-0100", "status": "active", "latitude": 30.2642, "longitude": -97.7449, "hours": ["Mo-Su 11:00-22:00"]},
  {"id": 2, "slug": "dallas", "name": "Taco Shack Dallas", "street": "200 Main St", "city": "Dallas", "state": "TX", "status": "active", "latitude": 32.78, "longitude": -96.80},
  {"id": 3, "slug": "denver", "name": "Taco Shack Denver", "street": "1 Colfax Ave", "city": "Denver", "state": "CO", "status": "coming-soon", "latitude": 39.74, "longitude": -104.99}
]`
	siteMenu = `[
  {"name": "Al Pastor Taco", "category": "Tacos", "calories": 210, "protein": 12, "fat": 9, "carbs": 20, "sodium": 410},
  {"name": "Chips", "category": "Sides", "calories": 300}
]`
)

func siteContent(t *testing.T) *eatery.Content {
	t.Helper()
	c, err := eatery.ParseContent([]byte(siteBlogs), []byte(siteLocations), []byte(siteMenu))
	require.NoError(t, err)
	return c
}

func siteConfig(t *testing.T) eatery.SiteConfig {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "logo.svg"), []byte("<svg/>"), 0o644))
	return eatery.SiteConfig{
		Name:          "Taco Shack",
		URL:           "https://tacoshack.example",
		Description:   "Tacos across Texas.",
		OutDir:        filepath.Join(t.TempDir(), "dist"),
		StaticDir:     static,
		DatabasePath:  filepath.Join(t.TempDir(), "eatery.db"),
		SessionSecret: "test-secret",
	}
}

func newGenerator(t *testing.T, cfg eatery.SiteConfig) *eatery.Generator {
	t.Helper()
	return &eatery.Generator{
		Config: cfg,
		Views:  views.Default(),
		Source: siteContent(t),
		Logger: logger.NewWriter(io.Discard, "test", "debug", ""),
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return files
}

func TestGeneratorBuild(t *testing.T) {
	cfg := siteConfig(t)
	g := newGenerator(t, cfg)

	report, err := g.Build(context.Background())
	require.NoError(t, err)
	// 7 default routes, 3 locations, 2 published blogs.
	assert.Equal(t, 12, report.Pages)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 0, report.Unmatched)
	assert.Equal(t, 3, report.Assets, "logo plus the embedded forms.js and site.css")

	files := readTree(t, cfg.OutDir)
	for _, name := range []string{
		"index.html",
		"locations/index.html",
		"locations/austin/index.html",
		"locations/denver/index.html",
		"blog/index.html",
		"blog/tacos-austin/index.html",
		"blog/brunch-dallas/index.html",
		"nutrition/index.html",
		"careers/index.html",
		"franchise/index.html",
		"fundraising/index.html",
		"404.html",
		"sitemap.xml",
		"feed.xml",
		"robots.txt",
		"public/logo.svg",
		"public/forms.js",
		"public/site.css",
	} {
		assert.Contains(t, files, name)
	}
	assert.NotContains(t, files, "blog/draft-houston/index.html")

	home := files["index.html"]
	assert.Contains(t, home, "<title>Taco Shack</title>")
	assert.Contains(t, home, `<script type="application/ld+json">{"@context":"https://schema.org"`)
	assert.Contains(t, home, `href="/locations/austin/"`)

	post := files["blog/tacos-austin/index.html"]
	assert.Contains(t, post, "<h2>Where to eat</h2>")
	assert.Contains(t, post, "<strong>al pastor</strong>")
	assert.Contains(t, post, "<li>Salsa</li>")
	assert.Contains(t, post, `href="/locations/austin/"`)
	assert.Contains(t, post, `"@type":"BlogPosting"`)

	brunch := files["blog/brunch-dallas/index.html"]
	assert.NotContains(t, brunch, "<script>alert(1)</script>")
	assert.Contains(t, brunch, "nearby")

	denver := files["locations/denver/index.html"]
	assert.Contains(t, denver, "Coming soon")

	careers := files["careers/index.html"]
	assert.Contains(t, careers, `action="/forms/career/"`)
	assert.Contains(t, careers, `data-endpoint="/api/forms/career"`)
	assert.NotContains(t, careers, `name="_csrf"`)

	assert.Contains(t, files["nutrition/index.html"], "Al Pastor Taco")
	assert.Contains(t, files["404.html"], "Page not found")
	assert.Contains(t, files["sitemap.xml"], "https://tacoshack.example/blog/tacos-austin/")
	assert.NotContains(t, files["feed.xml"], "draft-houston")
}

func TestGeneratorBuildIsIdempotent(t *testing.T) {
	cfg := siteConfig(t)
	g := newGenerator(t, cfg)

	_, err := g.Build(context.Background())
	require.NoError(t, err)
	first := readTree(t, cfg.OutDir)

	_, err = g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, readTree(t, cfg.OutDir))
}

func TestGeneratorPrune(t *testing.T) {
	cfg := siteConfig(t)
	stale := filepath.Join(cfg.OutDir, "blog", "retired", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	g := newGenerator(t, cfg)
	g.Prune = true
	report, err := g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Pruned)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(cfg.OutDir, "index.html"))
}

func TestGeneratorRouteTable(t *testing.T) {
	cfg := siteConfig(t)
	table, err := eatery.ParseRouteTable([]byte(`
routes:
  - path: /
    kind: home
    title: Taco Shack
  - path: /find-us/
    kind: locations
    title: Find Us
  - path: /calories/
    kind: nutrition
    title: Calories
    noindex: true
`))
	require.NoError(t, err)
	g := newGenerator(t, cfg)
	g.Routes = table

	report, err := g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, report.Pages)

	files := readTree(t, cfg.OutDir)
	assert.Contains(t, files, "find-us/index.html")
	assert.Contains(t, files["calories/index.html"], `<meta name="robots" content="noindex">`)
	assert.NotContains(t, files["sitemap.xml"], "/calories/")
	assert.True(t, strings.Contains(files["locations/austin/index.html"], `href="/find-us/"`))
}

func TestGeneratorMissingView(t *testing.T) {
	cfg := siteConfig(t)
	g := newGenerator(t, cfg)
	g.Views.Blog = nil
	_, err := g.Build(context.Background())
	assert.ErrorIs(t, err, eatery.ErrNoView)
}

func TestGeneratorCancelled(t *testing.T) {
	cfg := siteConfig(t)
	g := newGenerator(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
