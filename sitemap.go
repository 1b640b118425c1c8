package eatery

import (
	"encoding/xml"
	"io"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// WriteSitemap writes sitemap.xml for every indexable page.
func WriteSitemap(w io.Writer, pages []Page) error {
	urls := make([]sitemapURL, 0, len(pages))
	for _, p := range pages {
		if p.Meta.NoIndex {
			continue
		}
		u := sitemapURL{Loc: p.Meta.URL}
		switch p.Kind {
		case KindHome:
			u.ChangeFreq, u.Priority = "weekly", "1.0"
		case KindLocation:
			u.ChangeFreq, u.Priority = "monthly", "0.8"
		case KindBlog:
			u.LastMod = p.Blog.Date
			u.ChangeFreq, u.Priority = "yearly", "0.6"
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(sitemap)
}
