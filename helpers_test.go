package eatery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Best Tacos in Austin!", "best-tacos-in-austin"},
		{"  Salt Lake City  ", "salt-lake-city"},
		{"Café & Bar", "caf-bar"},
		{"---", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://x.example", BuildURL("https://x.example"))
	assert.Equal(t, "https://x.example/blog/a/", BuildURL("https://x.example", "blog", "a"))
	assert.Equal(t, "https://x.example/sub/locations/", BuildURL("https://x.example/sub", "locations"))
}

func TestAbsURL(t *testing.T) {
	assert.Equal(t, "", AbsURL("https://x.example", ""))
	assert.Equal(t, "https://cdn.example/a.png", AbsURL("https://x.example", "https://cdn.example/a.png"))
	assert.Equal(t, "https://x.example/public/a.png", AbsURL("https://x.example", "/public/a.png"))
	assert.Equal(t, "https://x.example/blog/", AbsURL("https://x.example", "/blog/"))
	assert.Equal(t, "https://x.example/", AbsURL("https://x.example", "/"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Salt Lake City", TitleCase("SALT lake   city"))
	assert.Equal(t, "", TitleCase(""))
}

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FilterEmpty([]string{" a ", "", "  ", "b"}))
	assert.Nil(t, FilterEmpty(nil))
}

func TestRelatedBlogs(t *testing.T) {
	current := Blog{Slug: "a", City: "Austin", State: "TX", Status: BlogPublished}
	blogs := []Blog{
		current,
		{Slug: "b", City: "Dallas", State: "Texas", Status: BlogPublished},
		{Slug: "c", City: "austin", State: "TX", Status: BlogPublished},
		{Slug: "d", City: "Austin", State: "TX", Status: BlogDraft},
		{Slug: "e", City: "Denver", State: "CO", Status: BlogPublished},
		{Slug: "f", City: "Waco", State: "TX", Status: BlogPublished},
	}
	got := RelatedBlogs(current, blogs, 2)
	slugs := make([]string, 0, len(got))
	for _, b := range got {
		slugs = append(slugs, b.Slug)
	}
	assert.Equal(t, []string{"c", "b"}, slugs)
	assert.Len(t, RelatedBlogs(current, blogs, 0), 3)
}

func TestRelatedIndexMatchesScan(t *testing.T) {
	// Reference implementation: scan every blog for each lookup.
	scan := func(current Blog, blogs []Blog, limit int) []Blog {
		var sameCity, sameState []Blog
		for _, b := range blogs {
			if b.Slug == current.Slug || !b.Published() || !sameStateName(b.State, current.State) {
				continue
			}
			if normalizePlace(b.City) == normalizePlace(current.City) {
				sameCity = append(sameCity, b)
			} else {
				sameState = append(sameState, b)
			}
		}
		out := append(sameCity, sameState...)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out
	}

	blogs := generatedBlogs(120)
	blogs[3].Status = BlogDraft
	blogs[8].City = "  AUSTIN "
	blogs[9].State = ""
	idx := NewRelatedIndex(blogs)
	for _, current := range blogs {
		for _, limit := range []int{0, 1, 3, 50} {
			assert.Equal(t, scan(current, blogs, limit), idx.Related(current, limit), "%s limit %d", current.Slug, limit)
		}
	}
}
