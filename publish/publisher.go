package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ManifestKey is where the publisher records what it last uploaded.
const ManifestKey = ".eatery-manifest.json"

// Manifest maps object keys to the sha256 of their content.
type Manifest map[string]string

// Result summarizes one publish run.
type Result struct {
	Uploaded  []string
	Deleted   []string
	Unchanged int
}

// Publisher syncs a build directory into a Bucket.
type Publisher struct {
	Bucket Bucket

	// CacheControl returns the Cache-Control header for a key.
	CacheControl func(key string) string

	// Limiter throttles bucket requests. Nil means unlimited.
	Limiter *rate.Limiter

	// Workers bounds concurrent uploads (default 8).
	Workers int

	// DeleteStale removes keys from the previous manifest that are no
	// longer in the build.
	DeleteStale bool

	// DryRun computes the diff without touching the bucket.
	DryRun bool

	Logger *slog.Logger
}

type localFile struct {
	key  string
	path string
	sum  string
}

// Publish uploads every file under dir whose content differs from the
// bucket's manifest, then writes the new manifest.
func (p *Publisher) Publish(ctx context.Context, dir string) (Result, error) {
	var res Result
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := scan(dir)
	if err != nil {
		return res, err
	}
	prev, err := p.readManifest(ctx)
	if err != nil {
		return res, err
	}

	next := make(Manifest, len(files))
	var changed []localFile
	for _, f := range files {
		next[f.key] = f.sum
		if prev[f.key] == f.sum {
			res.Unchanged++
			continue
		}
		changed = append(changed, f)
		res.Uploaded = append(res.Uploaded, f.key)
	}
	if p.DeleteStale {
		for key := range prev {
			if _, ok := next[key]; !ok {
				res.Deleted = append(res.Deleted, key)
			}
		}
		sort.Strings(res.Deleted)
	}

	logger.Info("publish diff", "upload", len(res.Uploaded), "delete", len(res.Deleted), "unchanged", res.Unchanged, "dry_run", p.DryRun)
	if p.DryRun {
		return res, nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 8
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range changed {
		f := f
		g.Go(func() error {
			return p.upload(gctx, f)
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for _, key := range res.Deleted {
		if err := p.wait(ctx); err != nil {
			return res, err
		}
		if err := p.Bucket.Delete(ctx, key); err != nil {
			return res, err
		}
		logger.Debug("deleted", "key", key)
	}

	if !p.DeleteStale {
		// Keep tracking keys still present in the bucket.
		for key, sum := range prev {
			if _, ok := next[key]; !ok {
				next[key] = sum
			}
		}
	}
	if err := p.writeManifest(ctx, next); err != nil {
		return res, err
	}
	return res, nil
}

func (p *Publisher) upload(ctx context.Context, f localFile) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	if err := p.wait(ctx); err != nil {
		return err
	}
	meta := ObjectMeta{ContentType: ContentType(f.key, data)}
	if p.CacheControl != nil {
		meta.CacheControl = p.CacheControl(f.key)
	}
	return p.Bucket.Put(ctx, f.key, data, meta)
}

func (p *Publisher) wait(ctx context.Context) error {
	if p.Limiter == nil {
		return nil
	}
	return p.Limiter.Wait(ctx)
}

func (p *Publisher) readManifest(ctx context.Context) (Manifest, error) {
	raw, err := p.Bucket.Get(ctx, ManifestKey)
	if errors.Is(err, ErrNotExist) {
		return Manifest{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("publish: corrupt manifest: %w", err)
	}
	return m, nil
}

func (p *Publisher) writeManifest(ctx context.Context, m Manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return p.Bucket.Put(ctx, ManifestKey, raw, ObjectMeta{
		ContentType:  "application/json",
		CacheControl: "no-store",
	})
}

// scan hashes every regular file under dir, keyed by slash-separated path.
func scan(dir string) ([]localFile, error) {
	var files []localFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		sum := sha256.Sum256(data)
		files = append(files, localFile{
			key:  filepath.ToSlash(rel),
			path: p,
			sum:  hex.EncodeToString(sum[:]),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("publish: scan %s: %w", dir, err)
	}
	return files, nil
}

// ContentType picks a MIME type from the extension, sniffing the content
// when the extension is unknown.
func ContentType(key string, data []byte) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return mimetype.Detect(data).String()
}
