package eatery

import (
	"context"
	"sync"
	"time"
)

// ContentCache is an in-memory TTL cache over a ContentSource. The preview
// server reads through it so each request does not hit SQLite.
type ContentCache struct {
	mu        sync.RWMutex
	blogs     []Blog
	locations []Location
	menu      []MenuItem
	blogSlugs map[string]int
	locSlugs  map[string]int
	fetched   time.Time
	ttl       time.Duration
	source    ContentSource
}

// NewContentCache creates a ContentCache backed by the given source.
func NewContentCache(src ContentSource, ttl time.Duration) *ContentCache {
	return &ContentCache{source: src, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.blogs != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.blogs = nil
	c.locations = nil
	c.menu = nil
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	blogs, err := c.source.Blogs(ctx)
	if err != nil {
		return err
	}
	locations, err := c.source.Locations(ctx)
	if err != nil {
		return err
	}
	menu, err := c.source.Menu(ctx)
	if err != nil {
		return err
	}
	published := PublishedBlogs(blogs)
	SortBlogs(published)
	c.blogs = published
	c.locations = locations
	c.menu = menu
	c.blogSlugs = make(map[string]int, len(published))
	for i, b := range published {
		c.blogSlugs[b.Slug] = i
	}
	c.locSlugs = make(map[string]int, len(locations))
	for i, l := range locations {
		c.locSlugs[l.Slug] = i
	}
	c.fetched = time.Now()
	return nil
}

type snapshot struct {
	blogs     []Blog
	locations []Location
	menu      []MenuItem
	blogSlugs map[string]int
	locSlugs  map[string]int
}

// ensureLoaded returns cached content after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		s := c.snapshot()
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return snapshot{}, err
	}
	return c.snapshot(), nil
}

// snapshot copies the cached slices. Caller holds mu.
func (c *ContentCache) snapshot() snapshot {
	return snapshot{c.blogs, c.locations, c.menu, c.blogSlugs, c.locSlugs}
}

// Blogs returns published blogs, newest first.
func (c *ContentCache) Blogs(ctx context.Context) ([]Blog, error) {
	s, err := c.ensureLoaded(ctx)
	return s.blogs, err
}

// Locations returns every location.
func (c *ContentCache) Locations(ctx context.Context) ([]Location, error) {
	s, err := c.ensureLoaded(ctx)
	return s.locations, err
}

// Menu returns the nutrition table.
func (c *ContentCache) Menu(ctx context.Context) ([]MenuItem, error) {
	s, err := c.ensureLoaded(ctx)
	return s.menu, err
}

// Blog returns a single published blog by slug from the cache.
func (c *ContentCache) Blog(ctx context.Context, slug string) (Blog, error) {
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return Blog{}, err
	}
	if i, ok := s.blogSlugs[slug]; ok {
		return s.blogs[i], nil
	}
	return Blog{}, ErrNotFound
}

// Location returns a single location by slug from the cache.
func (c *ContentCache) Location(ctx context.Context, slug string) (Location, error) {
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return Location{}, err
	}
	if i, ok := s.locSlugs[slug]; ok {
		return s.locations[i], nil
	}
	return Location{}, ErrNotFound
}
