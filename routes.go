package eatery

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/eringen/eatery/markdown"
)

// RouteEntry is one static page in the route table.
type RouteEntry struct {
	Path        string `yaml:"path"`
	Kind        string `yaml:"kind"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image,omitempty"`
	NoIndex     bool   `yaml:"noindex,omitempty"`
}

// RouteTable lists the hand-authored pages of the site. Location landing
// pages and blog pages are derived from content and never listed here.
type RouteTable struct {
	Routes []RouteEntry `yaml:"routes"`
}

var staticKinds = map[string]bool{
	KindHome:        true,
	KindLocations:   true,
	KindCareers:     true,
	KindFranchise:   true,
	KindFundraising: true,
	KindNutrition:   true,
	KindBlogIndex:   true,
}

// LoadRouteTable reads a YAML route table from path.
func LoadRouteTable(path string) (RouteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RouteTable{}, fmt.Errorf("eatery: load routes: %w", err)
	}
	return ParseRouteTable(data)
}

// ParseRouteTable decodes and validates a YAML route table.
func ParseRouteTable(data []byte) (RouteTable, error) {
	var table RouteTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return RouteTable{}, fmt.Errorf("eatery: parse routes: %w", err)
	}
	for i, r := range table.Routes {
		if !staticKinds[r.Kind] {
			return RouteTable{}, fmt.Errorf("eatery: route %d (%s): unknown kind %q", i, r.Path, r.Kind)
		}
		table.Routes[i].Path = cleanPath(r.Path)
	}
	return table, nil
}

// DefaultRouteTable is used when the content directory has no routes.yaml.
func DefaultRouteTable(cfg SiteConfig) RouteTable {
	return RouteTable{Routes: []RouteEntry{
		{Path: "/", Kind: KindHome, Title: cfg.Name, Description: cfg.Description},
		{Path: "/locations/", Kind: KindLocations, Title: "Locations", Description: "Find a " + cfg.Name + " near you."},
		{Path: "/careers/", Kind: KindCareers, Title: "Careers", Description: "Join the " + cfg.Name + " team."},
		{Path: "/franchise/", Kind: KindFranchise, Title: "Own a Franchise", Description: "Bring " + cfg.Name + " to your community."},
		{Path: "/fundraising/", Kind: KindFundraising, Title: "Fundraising", Description: "Host a fundraiser with " + cfg.Name + "."},
		{Path: "/nutrition/", Kind: KindNutrition, Title: "Nutrition & Calories", Description: "Nutrition facts for the " + cfg.Name + " menu."},
		{Path: "/blog/", Kind: KindBlogIndex, Title: "Local Guides", Description: "Guides to the neighborhoods we serve."},
	}}
}

// Find returns the first route of the given kind.
func (t RouteTable) Find(kind string) (RouteEntry, bool) {
	for _, r := range t.Routes {
		if r.Kind == kind {
			return r, true
		}
	}
	return RouteEntry{}, false
}

var (
	defaultLocationsCrumb = Crumb{Name: "Locations", Path: "/locations/"}
	defaultBlogIndexCrumb = Crumb{Name: "Local Guides", Path: "/blog/"}
)

// relatedLimit is how many related guides a blog page links to.
const relatedLimit = 3

// BuildPages expands the route table and the content database into every
// page the site serves: static routes, one landing page per location and
// one page per published blog.
func BuildPages(cfg SiteConfig, table RouteTable, blogs []Blog, locations []Location, menu []MenuItem) ([]Page, error) {
	published := PublishedBlogs(blogs)
	seen := make(map[string]string)
	var pages []Page
	add := func(p Page) error {
		// Compare the paths the generator will write, not the raw strings.
		key := cleanPath(p.Path)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("eatery: path %s produced by both %s and %s", key, prev, p.Kind)
		}
		seen[key] = p.Kind
		pages = append(pages, p)
		return nil
	}

	nearest := make(map[string]nearestMatch, len(published))
	local := make(map[int][]Blog, len(locations))
	for _, b := range published {
		if loc, dist, ok := NearestLocation(b, locations); ok {
			nearest[b.Slug] = nearestMatch{loc: loc, dist: dist}
			local[loc.ID] = append(local[loc.ID], b)
		}
	}

	for _, r := range table.Routes {
		p, err := staticPage(cfg, r, published, locations, menu)
		if err != nil {
			return nil, err
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	locationsIndex := indexCrumb(table, KindLocations, defaultLocationsCrumb)
	for _, loc := range locations {
		p, err := locationPage(cfg, loc, locationsIndex, local[loc.ID])
		if err != nil {
			return nil, err
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}

	blogIndex := indexCrumb(table, KindBlogIndex, defaultBlogIndexCrumb)
	related := NewRelatedIndex(published)
	for _, b := range published {
		var near *Location
		dist := 0.0
		if m, ok := nearest[b.Slug]; ok {
			loc := m.loc
			near, dist = &loc, m.dist
		}
		p, err := blogPage(cfg, b, near, dist, blogIndex, related.Related(b, relatedLimit))
		if err != nil {
			return nil, err
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}
	nav := navLinks(table)
	for i := range pages {
		pages[i].Nav = nav
	}
	return pages, nil
}

// StaticPage builds the route table page at path alone. It returns
// ErrNotFound when no route has that path.
func StaticPage(cfg SiteConfig, table RouteTable, path string, blogs []Blog, locations []Location, menu []MenuItem) (Page, error) {
	path = cleanPath(path)
	for _, r := range table.Routes {
		if cleanPath(r.Path) != path {
			continue
		}
		p, err := staticPage(cfg, r, PublishedBlogs(blogs), locations, menu)
		if err != nil {
			return Page{}, err
		}
		p.Nav = navLinks(table)
		return p, nil
	}
	return Page{}, ErrNotFound
}

// LocationPage builds one location's landing page, listing the published
// blogs whose nearest restaurant it is.
func LocationPage(cfg SiteConfig, table RouteTable, loc Location, blogs []Blog, locations []Location) (Page, error) {
	var local []Blog
	for _, b := range blogs {
		if !b.Published() {
			continue
		}
		if near, _, ok := NearestLocation(b, locations); ok && near.ID == loc.ID {
			local = append(local, b)
		}
	}
	p, err := locationPage(cfg, loc, indexCrumb(table, KindLocations, defaultLocationsCrumb), local)
	if err != nil {
		return Page{}, err
	}
	p.Nav = navLinks(table)
	return p, nil
}

// BlogPage builds one published blog's page. Drafts return ErrNotFound.
func BlogPage(cfg SiteConfig, table RouteTable, blog Blog, blogs []Blog, locations []Location) (Page, error) {
	if !blog.Published() {
		return Page{}, ErrNotFound
	}
	var near *Location
	dist := 0.0
	if loc, d, ok := NearestLocation(blog, locations); ok {
		near, dist = &loc, d
	}
	index := indexCrumb(table, KindBlogIndex, defaultBlogIndexCrumb)
	p, err := blogPage(cfg, blog, near, dist, index, RelatedBlogs(blog, blogs, relatedLimit))
	if err != nil {
		return Page{}, err
	}
	p.Nav = navLinks(table)
	return p, nil
}

func navLinks(table RouteTable) []Crumb {
	var nav []Crumb
	for _, r := range table.Routes {
		if r.Kind == KindHome || r.NoIndex {
			continue
		}
		nav = append(nav, Crumb{Name: r.Title, Path: r.Path})
	}
	return nav
}

type nearestMatch struct {
	loc  Location
	dist float64
}

func staticPage(cfg SiteConfig, r RouteEntry, blogs []Blog, locations []Location, menu []MenuItem) (Page, error) {
	p := Page{
		Path: r.Path,
		Kind: r.Kind,
		Meta: PageMeta{
			Title:       pageTitle(r.Title, cfg.Name),
			Description: r.Description,
			URL:         AbsURL(cfg.URL, r.Path),
			OGType:      "website",
			Image:       AbsURL(cfg.URL, r.Image),
			NoIndex:     r.NoIndex,
		},
	}
	if p.Meta.Description == "" {
		p.Meta.Description = cfg.Description
	}
	trail := []Crumb{{Name: "Home", Path: "/"}, {Name: r.Title, Path: r.Path}}
	crumbs := BreadcrumbJSONLD(cfg, trail...)
	objects := []map[string]any{OrganizationJSONLD(cfg)}
	if r.Kind != KindHome {
		p.Breadcrumbs = trail
	}

	switch r.Kind {
	case KindHome:
		objects = append(objects, WebsiteJSONLD(cfg))
		p.Locations = locations
		if len(blogs) > 3 {
			p.Blogs = blogs[:3]
		} else {
			p.Blogs = blogs
		}
	case KindLocations:
		objects = append(objects, crumbs)
		for _, loc := range locations {
			objects = append(objects, RestaurantJSONLD(cfg, loc))
		}
		p.Locations = locations
	case KindNutrition:
		objects = append(objects, crumbs)
		p.Menu = menu
	case KindBlogIndex:
		objects = append(objects, crumbs)
		p.Blogs = blogs
	default:
		objects = append(objects, crumbs)
		p.Locations = locations
	}

	ld, err := Graph(objects...)
	if err != nil {
		return Page{}, err
	}
	p.JSONLD = ld
	return p, nil
}

func locationPage(cfg SiteConfig, loc Location, index Crumb, local []Blog) (Page, error) {
	desc := fmt.Sprintf("Visit %s at %s, %s, %s.", loc.Name, loc.Street, TitleCase(loc.City), StateCode(loc.State))
	if !loc.Active() {
		desc = fmt.Sprintf("%s is coming soon to %s, %s.", loc.Name, TitleCase(loc.City), StateCode(loc.State))
	}
	trail := []Crumb{
		{Name: "Home", Path: "/"},
		index,
		{Name: loc.Name, Path: loc.Link()},
	}
	ld, err := Graph(RestaurantJSONLD(cfg, loc), BreadcrumbJSONLD(cfg, trail...))
	if err != nil {
		return Page{}, err
	}
	l := loc
	return Page{
		Path: loc.Link(),
		Kind: KindLocation,
		Meta: PageMeta{
			Title:       pageTitle(loc.Name, cfg.Name),
			Description: desc,
			URL:         AbsURL(cfg.URL, loc.Link()),
			OGType:      "website",
		},
		JSONLD:      ld,
		Location:    &l,
		Blogs:       local,
		Breadcrumbs: trail,
	}, nil
}

func blogPage(cfg SiteConfig, b Blog, near *Location, dist float64, index Crumb, related []Blog) (Page, error) {
	desc := b.Description
	if desc == "" && len(b.Body) > 0 {
		desc = truncate(markdown.Plain(b.Body[0]), 160)
	}
	posting := BlogPostingJSONLD(cfg, b, near)
	posting["description"] = desc
	trail := []Crumb{
		{Name: "Home", Path: "/"},
		index,
		{Name: b.Title, Path: b.Link()},
	}
	ld, err := Graph(posting, BreadcrumbJSONLD(cfg, trail...))
	if err != nil {
		return Page{}, err
	}
	blog := b
	return Page{
		Path: b.Link(),
		Kind: KindBlog,
		Meta: PageMeta{
			Title:       pageTitle(b.Title, cfg.Name),
			Description: desc,
			URL:         AbsURL(cfg.URL, b.Link()),
			OGType:      "article",
		},
		JSONLD:      ld,
		Blog:        &blog,
		Nearest:     near,
		Distance:    dist,
		Blogs:       related,
		Breadcrumbs: trail,
	}, nil
}

// indexCrumb links to the table's listing page of kind, or fallback when
// the table has none.
func indexCrumb(table RouteTable, kind string, fallback Crumb) Crumb {
	if r, ok := table.Find(kind); ok {
		return Crumb{Name: r.Title, Path: r.Path}
	}
	return fallback
}

func pageTitle(title, brand string) string {
	switch {
	case title == "" || title == brand:
		return brand
	case strings.Contains(title, brand):
		return title
	default:
		return title + " | " + brand
	}
}

// cleanPath forces a leading and trailing slash so paths map to index.html.
func cleanPath(p string) string {
	p = "/" + strings.Trim(strings.TrimSpace(p), "/")
	if p != "/" {
		p += "/"
	}
	return p
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
