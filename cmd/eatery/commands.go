package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/publish"
	"github.com/eringen/eatery/views"
)

// loadSource returns the content the site is built from: the JSON files in
// the content directory, or the SQLite database when fromDB is set.
func loadSource(cfg eatery.SiteConfig, fromDB bool) (eatery.ContentSource, func() error, error) {
	if fromDB {
		store, err := eatery.NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	content, err := eatery.LoadContent(cfg.ContentDir)
	if err != nil {
		return nil, nil, err
	}
	return content, func() error { return nil }, nil
}

// loadRoutes reads routes.yaml from the content directory, falling back to
// the built-in table.
func loadRoutes(cfg eatery.SiteConfig) (eatery.RouteTable, error) {
	table, err := eatery.LoadRouteTable(filepath.Join(cfg.ContentDir, "routes.yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return eatery.DefaultRouteTable(cfg), nil
	}
	return table, err
}

func runBuild(log *slog.Logger, args []string) error {
	fset := flag.NewFlagSet("build", flag.ContinueOnError)
	fromDB := fset.Bool("db", false, "read content from DATABASE_PATH instead of CONTENT_DIR")
	prune := fset.Bool("prune", false, "remove stale files from the output directory")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg := eatery.ConfigFromEnv()
	source, closeSource, err := loadSource(cfg, *fromDB)
	if err != nil {
		return err
	}
	defer closeSource()

	table, err := loadRoutes(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &eatery.Generator{
		Config: cfg,
		Views:  views.Default(),
		Source: source,
		Routes: table,
		Logger: log,
		Prune:  *prune,
	}
	_, err = g.Build(ctx)
	return err
}

func runServe(log *slog.Logger, args []string) error {
	fset := flag.NewFlagSet("serve", flag.ContinueOnError)
	fromDB := fset.Bool("db", false, "serve content from DATABASE_PATH instead of CONTENT_DIR")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg := eatery.ConfigFromEnv()
	var opts []eatery.Option
	if !*fromDB {
		content, err := eatery.LoadContent(cfg.ContentDir)
		if err != nil {
			return err
		}
		opts = append(opts, eatery.WithSource(content))
	}

	app := eatery.New(cfg, views.Default(), opts...)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", "addr", cfg.Addr, "url", cfg.URL)
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func runImport(log *slog.Logger, args []string) error {
	fset := flag.NewFlagSet("import", flag.ContinueOnError)
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg := eatery.ConfigFromEnv()
	content, err := eatery.LoadContent(cfg.ContentDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return err
	}
	store, err := eatery.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ImportContent(context.Background(), content); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	log.Info("content imported",
		"db", cfg.DatabasePath,
		"blogs", len(content.BlogList),
		"locations", len(content.LocationList),
		"menu_items", len(content.MenuItems),
	)
	return nil
}

func runPublish(log *slog.Logger, args []string) error {
	fset := flag.NewFlagSet("publish", flag.ContinueOnError)
	dryRun := fset.Bool("dry-run", false, "report the diff without uploading")
	deleteStale := fset.Bool("delete", false, "delete remote files missing from the build")
	rps := fset.Float64("rps", 20, "maximum bucket requests per second (0 for unlimited)")
	workers := fset.Int("workers", 8, "concurrent uploads")
	if err := fset.Parse(args); err != nil {
		return err
	}

	cfg := eatery.ConfigFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bucket, err := publish.NewBucketFromEnv(ctx)
	if err != nil {
		return err
	}
	if c, ok := bucket.(interface{ Close() error }); ok {
		defer c.Close()
	}

	limit := rate.Inf
	if *rps > 0 {
		limit = rate.Limit(*rps)
	}
	burst := max(*workers, 1)
	p := &publish.Publisher{
		Bucket: bucket,
		CacheControl: func(key string) string {
			return eatery.CacheControlFor("/" + key)
		},
		Limiter:     rate.NewLimiter(limit, burst),
		Workers:     *workers,
		DeleteStale: *deleteStale,
		DryRun:      *dryRun,
		Logger:      log,
	}
	res, err := p.Publish(ctx, cfg.OutDir)
	if err != nil {
		return err
	}
	log.Info("publish complete", "uploaded", len(res.Uploaded), "deleted", len(res.Deleted), "unchanged", res.Unchanged)
	return nil
}
