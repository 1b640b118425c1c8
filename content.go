package eatery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ContentSource provides the read-only content database. The generator and
// the preview server accept any source; *Content reads JSON files and *Store
// reads SQLite.
type ContentSource interface {
	Blogs(ctx context.Context) ([]Blog, error)
	Locations(ctx context.Context) ([]Location, error)
	Menu(ctx context.Context) ([]MenuItem, error)
}

// Content is the in-memory content database, loaded once per build.
type Content struct {
	BlogList     []Blog
	LocationList []Location
	MenuItems    []MenuItem
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadContent reads blogs.json, locations.json and the optional menu.json
// from dir, validates them and returns them in deterministic order.
func LoadContent(dir string) (*Content, error) {
	c := &Content{}
	if err := readDocument(filepath.Join(dir, "blogs.json"), "blogs", &c.BlogList, false); err != nil {
		return nil, err
	}
	if err := readDocument(filepath.Join(dir, "locations.json"), "locations", &c.LocationList, false); err != nil {
		return nil, err
	}
	if err := readDocument(filepath.Join(dir, "menu.json"), "menu", &c.MenuItems, true); err != nil {
		return nil, err
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseContent builds Content from raw JSON documents. menu may be nil.
func ParseContent(blogs, locations, menu []byte) (*Content, error) {
	c := &Content{}
	if err := decodeDocument("blogs", blogs, &c.BlogList); err != nil {
		return nil, err
	}
	if err := decodeDocument("locations", locations, &c.LocationList); err != nil {
		return nil, err
	}
	if menu != nil {
		if err := decodeDocument("menu", menu, &c.MenuItems); err != nil {
			return nil, err
		}
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func readDocument(path, schema string, dst any, optional bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("eatery: read %s: %w", path, err)
	}
	return decodeDocument(schema, raw, dst)
}

func decodeDocument(schema string, raw []byte, dst any) error {
	if err := validateDocument(schema, raw); err != nil {
		return fmt.Errorf("eatery: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("eatery: decode %s: %w", schema, err)
	}
	return nil
}

// Normalize derives missing slugs, validates every record, rejects duplicate
// slugs and sorts records so repeated builds produce identical output.
func (c *Content) Normalize() error {
	blogSlugs := make(map[string]string, len(c.BlogList))
	for i := range c.BlogList {
		b := &c.BlogList[i]
		if b.Slug == "" {
			b.Slug = Slugify(b.Title)
		} else {
			b.Slug = Slugify(b.Slug)
		}
		if b.Slug == "" {
			return fmt.Errorf("eatery: blog %d (%q) has no usable slug", i, b.Title)
		}
		if err := validate.Struct(b); err != nil {
			return fmt.Errorf("eatery: blog %q: %w", b.Slug, err)
		}
		if prev, ok := blogSlugs[b.Slug]; ok {
			return fmt.Errorf("eatery: duplicate blog slug %q (%q and %q)", b.Slug, prev, b.Title)
		}
		blogSlugs[b.Slug] = b.Title
	}

	locSlugs := make(map[string]int, len(c.LocationList))
	locIDs := make(map[int]struct{}, len(c.LocationList))
	for i := range c.LocationList {
		l := &c.LocationList[i]
		if l.Slug == "" {
			l.Slug = Slugify(l.Name)
		} else {
			l.Slug = Slugify(l.Slug)
		}
		if l.Slug == "" {
			return fmt.Errorf("eatery: location %d (%q) has no usable slug", l.ID, l.Name)
		}
		if err := validate.Struct(l); err != nil {
			return fmt.Errorf("eatery: location %d: %w", l.ID, err)
		}
		if _, ok := locIDs[l.ID]; ok {
			return fmt.Errorf("eatery: duplicate location id %d", l.ID)
		}
		locIDs[l.ID] = struct{}{}
		if prev, ok := locSlugs[l.Slug]; ok {
			return fmt.Errorf("eatery: duplicate location slug %q (ids %d and %d)", l.Slug, prev, l.ID)
		}
		locSlugs[l.Slug] = l.ID
	}

	for i := range c.MenuItems {
		if err := validate.Struct(&c.MenuItems[i]); err != nil {
			return fmt.Errorf("eatery: menu item %q: %w", c.MenuItems[i].Name, err)
		}
	}

	SortBlogs(c.BlogList)
	sort.SliceStable(c.LocationList, func(i, j int) bool {
		return c.LocationList[i].ID < c.LocationList[j].ID
	})
	sort.SliceStable(c.MenuItems, func(i, j int) bool {
		a, b := c.MenuItems[i], c.MenuItems[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return nil
}

// SortBlogs orders blogs newest first, then by slug.
func SortBlogs(blogs []Blog) {
	sort.SliceStable(blogs, func(i, j int) bool {
		if blogs[i].Date != blogs[j].Date {
			return blogs[i].Date > blogs[j].Date
		}
		return blogs[i].Slug < blogs[j].Slug
	})
}

// Blogs returns every blog record, drafts included.
func (c *Content) Blogs(context.Context) ([]Blog, error) {
	return c.BlogList, nil
}

// Locations returns every location record.
func (c *Content) Locations(context.Context) ([]Location, error) {
	return c.LocationList, nil
}

// Menu returns the nutrition table.
func (c *Content) Menu(context.Context) ([]MenuItem, error) {
	return c.MenuItems, nil
}

// PublishedBlogs filters drafts out.
func PublishedBlogs(blogs []Blog) []Blog {
	out := make([]Blog, 0, len(blogs))
	for _, b := range blogs {
		if b.Published() {
			out = append(out, b)
		}
	}
	return out
}
