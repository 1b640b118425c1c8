package eatery

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
)

// Crumb is one BreadcrumbList entry. Path is site-relative.
type Crumb struct {
	Name string
	Path string
}

// WebsiteJSONLD describes the site as a schema.org WebSite.
func WebsiteJSONLD(cfg SiteConfig) map[string]any {
	data := map[string]any{
		"@type": "WebSite",
		"name":  cfg.Name,
		"url":   BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	return data
}

// OrganizationJSONLD describes the chain itself.
func OrganizationJSONLD(cfg SiteConfig) map[string]any {
	data := map[string]any{
		"@type": "Organization",
		"name":  cfg.Name,
		"url":   BuildURL(cfg.URL),
	}
	if cfg.Logo != "" {
		data["logo"] = AbsURL(cfg.URL, cfg.Logo)
	}
	if len(cfg.SameAs) > 0 {
		data["sameAs"] = cfg.SameAs
	}
	return data
}

// RestaurantJSONLD describes one location as a schema.org Restaurant.
func RestaurantJSONLD(cfg SiteConfig, loc Location) map[string]any {
	data := map[string]any{
		"@type": "Restaurant",
		"@id":   BuildURL(cfg.URL, "locations", loc.Slug) + "#restaurant",
		"name":  loc.Name,
		"url":   BuildURL(cfg.URL, "locations", loc.Slug),
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   loc.Street,
			"addressLocality": TitleCase(loc.City),
			"addressRegion":   StateCode(loc.State),
			"postalCode":      loc.Zip,
			"addressCountry":  "US",
		},
		"geo": map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
		},
		"brand": map[string]any{
			"@type": "Brand",
			"name":  cfg.Name,
		},
	}
	if loc.Phone != "" {
		data["telephone"] = loc.Phone
	}
	if len(loc.Hours) > 0 && loc.Active() {
		data["openingHours"] = loc.Hours
	}
	if cfg.Cuisine != "" {
		data["servesCuisine"] = cfg.Cuisine
	}
	if cfg.PriceRange != "" {
		data["priceRange"] = cfg.PriceRange
	}
	if loc.OrderURL != "" {
		data["acceptsReservations"] = false
		data["potentialAction"] = map[string]any{
			"@type":  "OrderAction",
			"target": loc.OrderURL,
		}
	}
	data["hasMenu"] = BuildURL(cfg.URL, "nutrition")
	if cfg.Logo != "" {
		data["image"] = AbsURL(cfg.URL, cfg.Logo)
	}
	return data
}

// BlogPostingJSONLD describes a local-SEO blog entry. When nearest is non-nil
// the restaurant is attached as the posting's subject.
func BlogPostingJSONLD(cfg SiteConfig, blog Blog, nearest *Location) map[string]any {
	postURL := BuildURL(cfg.URL, "blog", blog.Slug)
	data := map[string]any{
		"@type":       "BlogPosting",
		"headline":    blog.Title,
		"description": blog.Description,
		"url":         postURL,
		"mainEntityOfPage": map[string]any{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": OrganizationJSONLD(cfg),
	}
	if blog.Date != "" {
		data["datePublished"] = blog.Date
	}
	if blog.Keyword != "" {
		data["keywords"] = blog.Keyword
	}
	if place := placeName(blog.City, blog.State); place != "" {
		data["contentLocation"] = map[string]any{
			"@type": "Place",
			"name":  place,
		}
	}
	if nearest != nil {
		data["about"] = RestaurantJSONLD(cfg, *nearest)
	}
	return data
}

// BreadcrumbJSONLD builds a BreadcrumbList from site-relative crumbs.
func BreadcrumbJSONLD(cfg SiteConfig, crumbs ...Crumb) map[string]any {
	items := make([]map[string]any, 0, len(crumbs))
	for i, c := range crumbs {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Name,
			"item":     AbsURL(cfg.URL, c.Path),
		})
	}
	return map[string]any{
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

// Graph wraps objects into a single @graph document and returns it as
// canonical JSON safe to inline in a <script type="application/ld+json">.
func Graph(objects ...map[string]any) (string, error) {
	doc := map[string]any{
		"@context": "https://schema.org",
		"@graph":   objects,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("eatery: marshal json-ld: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("eatery: canonicalize json-ld: %w", err)
	}
	return scriptSafe(string(canon)), nil
}

var scriptEscaper = strings.NewReplacer("<", `\u003c`, ">", `\u003e`, "&", `\u0026`)

// scriptSafe escapes characters that could close the surrounding script tag.
// The escapes are only valid inside JSON strings, which is the only place
// these characters can appear in canonical output.
func scriptSafe(s string) string {
	return scriptEscaper.Replace(s)
}

func placeName(city, state string) string {
	city = TitleCase(city)
	code := StateCode(state)
	switch {
	case city != "" && code != "":
		return city + ", " + code
	case city != "":
		return city
	default:
		return code
	}
}
