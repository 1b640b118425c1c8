package eatery

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL resolves a site-relative path against base. Absolute URLs pass through.
func AbsURL(base, p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	u, err := url.Parse(base)
	if err != nil {
		return p
	}
	u.Path = path.Join(u.Path, p)
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var titleCaser = cases.Title(language.AmericanEnglish)

// TitleCase normalizes city names typed in any case ("SALT lake city").
func TitleCase(s string) string {
	return titleCaser.String(strings.ToLower(strings.Join(strings.Fields(s), " ")))
}

// RelatedBlogs returns up to limit published blogs in the same state as
// current, same-city entries first.
func RelatedBlogs(current Blog, blogs []Blog, limit int) []Blog {
	return NewRelatedIndex(blogs).Related(current, limit)
}

type placeKey struct {
	state, city string
}

// RelatedIndex buckets published blogs by state and by city within a state,
// keeping input order. Build it once per page set; each lookup then reads
// only the current blog's buckets.
type RelatedIndex struct {
	blogs   []Blog
	cities  []string
	byState map[string][]int
	byCity  map[placeKey][]int
}

// NewRelatedIndex indexes the published entries of blogs.
func NewRelatedIndex(blogs []Blog) *RelatedIndex {
	x := &RelatedIndex{
		byState: make(map[string][]int),
		byCity:  make(map[placeKey][]int),
	}
	for _, b := range blogs {
		if !b.Published() {
			continue
		}
		state := StateCode(b.State)
		if state == "" {
			continue
		}
		city := normalizePlace(b.City)
		i := len(x.blogs)
		x.blogs = append(x.blogs, b)
		x.cities = append(x.cities, city)
		x.byState[state] = append(x.byState[state], i)
		k := placeKey{state, city}
		x.byCity[k] = append(x.byCity[k], i)
	}
	return x
}

// Related returns up to limit blogs near current, same city first. A limit
// of zero or less means no limit.
func (x *RelatedIndex) Related(current Blog, limit int) []Blog {
	state := StateCode(current.State)
	if state == "" {
		return nil
	}
	city := normalizePlace(current.City)
	var out []Blog
	full := func() bool { return limit > 0 && len(out) >= limit }

	for _, i := range x.byCity[placeKey{state, city}] {
		if x.blogs[i].Slug == current.Slug {
			continue
		}
		out = append(out, x.blogs[i])
		if full() {
			return out
		}
	}
	for _, i := range x.byState[state] {
		if x.cities[i] == city || x.blogs[i].Slug == current.Slug {
			continue
		}
		out = append(out, x.blogs[i])
		if full() {
			return out
		}
	}
	return out
}

func normalizePlace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
