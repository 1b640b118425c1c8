package eatery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	blogsJSON = `[
  {"title": "Best Tacos in Austin!", "body": ["Tacos."], "city": "Austin", "state": "TX", "status": "published", "date": "2025-01-02"},
  {"slug": "dallas-brunch", "title": "Dallas Brunch", "body": ["Brunch."], "city": "Dallas", "state": "TX", "status": "published", "date": "2025-03-01"},
  {"slug": "draft-post", "title": "Draft", "body": ["Soon."], "status": "draft"}
]`
	locationsJSON = `[
  {"id": 2, "name": "Dallas Main", "street": "1 Main St", "city": "Dallas", "state": "TX", "status": "active", "latitude": 32.78, "longitude": -96.8},
  {"id": 1, "name": "Austin Congress", "street": "100 Congress Ave", "city": "Austin", "state": "TX", "status": "active", "latitude": 30.26, "longitude": -97.74, "hours": ["Mo-Su 11:00-22:00"]}
]`
	menuJSON = `[
  {"name": "Fries", "category": "Sides", "calories": 380},
  {"name": "Burger", "category": "Burgers", "calories": 650, "protein": 34}
]`
)

func TestParseContent(t *testing.T) {
	c, err := ParseContent([]byte(blogsJSON), []byte(locationsJSON), []byte(menuJSON))
	require.NoError(t, err)

	require.Len(t, c.BlogList, 3)
	assert.Equal(t, "dallas-brunch", c.BlogList[0].Slug, "newest first")
	assert.Equal(t, "best-tacos-in-austin", c.BlogList[1].Slug)

	require.Len(t, c.LocationList, 2)
	assert.Equal(t, 1, c.LocationList[0].ID)
	assert.Equal(t, "austin-congress", c.LocationList[0].Slug)

	require.Len(t, c.MenuItems, 2)
	assert.Equal(t, "Burger", c.MenuItems[0].Name)

	blogs, err := c.Blogs(context.Background())
	require.NoError(t, err)
	assert.Len(t, PublishedBlogs(blogs), 2)
}

func TestParseContentRejectsInvalid(t *testing.T) {
	tests := map[string]struct {
		blogs, locations string
	}{
		"bad status":     {`[{"title": "x", "body": ["y"], "status": "live"}]`, `[]`},
		"empty body":     {`[{"title": "x", "body": [], "status": "draft"}]`, `[]`},
		"bad date":       {`[{"title": "x", "body": ["y"], "status": "draft", "date": "Jan 2"}]`, `[]`},
		"duplicate slug": {`[{"title": "Same", "body": ["a"], "status": "draft"}, {"slug": "same", "title": "Other", "body": ["b"], "status": "draft"}]`, `[]`},
		"latitude range": {`[]`, `[{"id": 1, "name": "a", "street": "s", "city": "c", "state": "TX", "status": "active", "latitude": 120}]`},
		"duplicate id":   {`[]`, `[{"id": 1, "name": "a", "street": "s", "city": "c", "state": "TX", "status": "active"}, {"id": 1, "name": "b", "street": "s", "city": "c", "state": "TX", "status": "active"}]`},
		"missing street": {`[]`, `[{"id": 1, "name": "a", "city": "c", "state": "TX", "status": "active"}]`},
		"not an array":   {`{}`, `[]`},
		"unusable slug":  {`[{"title": "!!!", "body": ["a"], "status": "draft"}]`, `[]`},
		"location slug":  {`[]`, `[{"id": 1, "name": "東京", "street": "s", "city": "c", "state": "TX", "status": "active"}]`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseContent([]byte(tt.blogs), []byte(tt.locations), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blogs.json"), []byte(blogsJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "locations.json"), []byte(locationsJSON), 0o644))

	c, err := LoadContent(dir)
	require.NoError(t, err)
	assert.Len(t, c.BlogList, 3)
	assert.Empty(t, c.MenuItems, "menu.json is optional")

	require.NoError(t, os.Remove(filepath.Join(dir, "blogs.json")))
	_, err = LoadContent(dir)
	assert.Error(t, err)
}
