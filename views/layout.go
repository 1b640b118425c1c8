package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/eatery"
)

// Layout wraps content in the shared document: head metadata and JSON-LD,
// site navigation, breadcrumbs, the flash line and the footer.
func Layout(site eatery.SiteConfig, p eatery.Page, content templ.Component) templ.Component {
	return fragment(func(ctx context.Context, m *markup) error {
		head(m, site, p)
		m.raw("<body>\n<header class=\"site-header\">\n",
			`<a class="brand" href="/">`, esc(site.Name), "</a>\n<nav>")
		for _, c := range p.Nav {
			m.link(c.Path, c.Name)
		}
		m.raw("</nav>\n</header>\n<main>\n")
		breadcrumbs(m, p.Breadcrumbs)
		if p.Flash != "" {
			m.raw(`<p class="flash" role="status">`, esc(p.Flash), "</p>\n")
		}
		if err := m.child(ctx, content); err != nil {
			return err
		}
		m.raw("</main>\n<footer class=\"site-footer\">\n<p>&copy; ")
		if site.CopyrightYear > 0 {
			m.raw(strconv.Itoa(site.CopyrightYear), " ")
		}
		m.raw(esc(site.Name), `. <a href="/feed.xml">RSS</a></p>`, "\n</footer>\n</body>\n</html>\n")
		return nil
	})
}

func head(m *markup, site eatery.SiteConfig, p eatery.Page) {
	meta := p.Meta
	m.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n",
		"<meta charset=\"utf-8\">\n",
		"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n",
		"<title>", esc(meta.Title), "</title>\n")
	if meta.Description != "" {
		m.raw(`<meta name="description" content="`, esc(meta.Description), "\">\n")
	}
	if meta.NoIndex {
		m.raw("<meta name=\"robots\" content=\"noindex\">\n")
	}
	if meta.URL != "" {
		m.raw(`<link rel="canonical" href="`, safeURL(meta.URL), "\">\n")
	}
	for _, og := range [][2]string{
		{"og:url", meta.URL},
		{"og:site_name", site.Name},
		{"og:title", meta.Title},
		{"og:type", meta.OGType},
		{"og:description", meta.Description},
		{"og:image", meta.Image},
	} {
		if og[1] != "" {
			m.raw(`<meta property="`, og[0], `" content="`, esc(og[1]), "\">\n")
		}
	}
	m.raw(`<link rel="alternate" type="application/rss+xml" title="`, esc(site.Name), "\" href=\"/feed.xml\">\n",
		"<link rel=\"stylesheet\" href=\"/public/site.css\">\n",
		"<script src=\"/public/forms.js\" defer></script>\n")
	if p.JSONLD != "" {
		// Compact JSON from the Graph encoder, written verbatim.
		m.raw(`<script type="application/ld+json">`, p.JSONLD, "</script>\n")
	}
	m.raw("</head>\n")
}

func breadcrumbs(m *markup, crumbs []eatery.Crumb) {
	if len(crumbs) == 0 {
		return
	}
	m.raw(`<nav class="breadcrumbs" aria-label="Breadcrumb">`)
	for i, c := range crumbs {
		if i > 0 {
			m.raw(" / ")
		}
		if i == len(crumbs)-1 {
			m.raw(`<span aria-current="page">`, esc(c.Name), "</span>")
			continue
		}
		m.link(c.Path, c.Name)
	}
	m.raw("</nav>\n")
}
