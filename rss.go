package eatery

import (
	"encoding/xml"
	"io"
	"time"

	"github.com/eringen/eatery/markdown"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// WriteFeed writes an RSS 2.0 feed of the published blogs.
func WriteFeed(w io.Writer, cfg SiteConfig, blogs []Blog) error {
	items := make([]rssItem, 0, len(blogs))
	for _, b := range PublishedBlogs(blogs) {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", b.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		desc := b.Description
		if desc == "" && len(b.Body) > 0 {
			desc = truncate(markdown.Plain(b.Body[0]), 300)
		}
		link := AbsURL(cfg.URL, b.Link())
		items = append(items, rssItem{
			Title:       b.Title,
			Link:        link,
			Description: desc,
			Category:    placeName(b.City, b.State),
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        BuildURL(cfg.URL),
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}

// WriteRobots writes robots.txt pointing crawlers at the sitemap.
func WriteRobots(w io.Writer, cfg SiteConfig) error {
	_, err := io.WriteString(w, "User-agent: *\nAllow: /\n\nSitemap: "+AbsURL(cfg.URL, "/sitemap.xml")+"\n")
	return err
}
