package eatery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// BuildReport summarizes one static build.
type BuildReport struct {
	OutDir    string
	Pages     int
	Assets    int
	Resized   int
	Matched   int // published blogs linked to a restaurant
	Unmatched int
	Pruned    int
	Duration  time.Duration
}

// Generator renders every route of the site into a directory of static files.
type Generator struct {
	Config SiteConfig
	Views  ViewFuncs
	Source ContentSource
	Routes RouteTable
	Logger *slog.Logger

	// Prune removes files under the output directory that this build did
	// not write, such as pages of blogs that went back to draft.
	Prune bool
}

// Build runs one complete, single-pass build. Running it twice over the
// same content produces byte-identical output.
func (g *Generator) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	cfg := g.Config.Defaults()
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := BuildReport{OutDir: cfg.OutDir}

	blogs, err := g.Source.Blogs(ctx)
	if err != nil {
		return report, fmt.Errorf("eatery: read blogs: %w", err)
	}
	locations, err := g.Source.Locations(ctx)
	if err != nil {
		return report, fmt.Errorf("eatery: read locations: %w", err)
	}
	menu, err := g.Source.Menu(ctx)
	if err != nil {
		return report, fmt.Errorf("eatery: read menu: %w", err)
	}

	table := g.Routes
	if len(table.Routes) == 0 {
		table = DefaultRouteTable(cfg)
	}
	pages, err := BuildPages(cfg, table, blogs, locations, menu)
	if err != nil {
		return report, err
	}
	logger.Info("content loaded", "blogs", len(blogs), "locations", len(locations), "menu_items", len(menu), "pages", len(pages))

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return report, err
	}
	written := make(map[string]struct{})
	write := func(rel string, data []byte) error {
		dst, err := outputPath(cfg.OutDir, rel)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(dst, data); err != nil {
			return err
		}
		written[dst] = struct{}{}
		return nil
	}

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		body, err := RenderPage(ctx, g.Views, cfg, p)
		if err != nil {
			return report, fmt.Errorf("eatery: render %s: %w", p.Path, err)
		}
		if err := write(pageFile(p.Path), body); err != nil {
			return report, err
		}
		report.Pages++
		if p.Kind == KindBlog {
			if p.Nearest != nil {
				report.Matched++
			} else {
				report.Unmatched++
				logger.Warn("blog has no nearby restaurant", "slug", p.Blog.Slug, "city", p.Blog.City, "state", p.Blog.State)
			}
		}
		logger.Debug("page written", "path", p.Path, "kind", p.Kind)
	}

	if g.Views.NotFound != nil {
		body, err := RenderBytes(ctx, g.Views.NotFound(cfg))
		if err != nil {
			return report, fmt.Errorf("eatery: render 404: %w", err)
		}
		if err := write("404.html", body); err != nil {
			return report, err
		}
	}

	docs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{"sitemap.xml", func(w io.Writer) error { return WriteSitemap(w, pages) }},
		{"feed.xml", func(w io.Writer) error { return WriteFeed(w, cfg, blogs) }},
		{"robots.txt", func(w io.Writer) error { return WriteRobots(w, cfg) }},
	}
	for _, d := range docs {
		var buf bytes.Buffer
		if err := d.render(&buf); err != nil {
			return report, fmt.Errorf("eatery: %s: %w", d.name, err)
		}
		if err := write(d.name, buf.Bytes()); err != nil {
			return report, err
		}
	}

	publicDir := filepath.Join(cfg.OutDir, "public")
	stats, err := copyAssets(ctx, cfg.StaticDir, publicDir, cfg.MaxImageWidth)
	if err != nil {
		return report, err
	}
	for _, p := range stats.Written {
		written[p] = struct{}{}
	}
	report.Assets, report.Resized = stats.Copied, stats.Resized

	n, err := g.copyEmbedded(write)
	if err != nil {
		return report, err
	}
	report.Assets += n

	if g.Prune {
		pruned, err := pruneOutput(cfg.OutDir, written)
		if err != nil {
			return report, err
		}
		report.Pruned = pruned
	}

	report.Duration = time.Since(start)
	logger.Info("build complete",
		"out", cfg.OutDir,
		"pages", report.Pages,
		"assets", report.Assets,
		"resized", report.Resized,
		"matched", report.Matched,
		"unmatched", report.Unmatched,
		"pruned", report.Pruned,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

func (g *Generator) copyEmbedded(write func(string, []byte) error) (int, error) {
	n := 0
	err := fs.WalkDir(EmbeddedAssets, "embedded", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := EmbeddedAssets.ReadFile(p)
		if err != nil {
			return err
		}
		n++
		return write(path.Join("public", strings.TrimPrefix(p, "embedded/")), data)
	})
	return n, err
}

// pageFile maps a route path to the file that serves it.
func pageFile(p string) string {
	return path.Join(strings.Trim(p, "/"), "index.html")
}

// outputPath joins rel onto root and refuses anything that escapes root.
func outputPath(root, rel string) (string, error) {
	dst := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, dst)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("eatery: output path %q escapes %s", rel, root)
	}
	return dst, nil
}

// writeFileAtomic writes data to a temp file next to dst and renames it
// into place, so readers never observe a partial file.
func writeFileAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func pruneOutput(root string, keep map[string]struct{}) (int, error) {
	pruned := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, ok := keep[p]; ok {
			return nil
		}
		pruned++
		return os.Remove(p)
	})
	return pruned, err
}
