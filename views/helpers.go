package views

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/eringen/eatery"
)

// Miles formats a great-circle distance; negative means "same area".
func Miles(d float64) string {
	switch {
	case d < 0:
		return "nearby"
	case d < 0.1:
		return "less than 0.1 mi away"
	default:
		return fmt.Sprintf("%.1f mi away", d)
	}
}

// Place renders "City, ST".
func Place(city, state string) string {
	city = eatery.TitleCase(city)
	code := eatery.StateCode(state)
	if city == "" {
		return code
	}
	if code == "" {
		return city
	}
	return city + ", " + code
}

// TelHref turns a display phone number into a tel: link target.
func TelHref(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}

// MapsURL links to a directions search for the restaurant.
func MapsURL(loc eatery.Location) string {
	q := fmt.Sprintf("%s, %s, %s %s", loc.Street, loc.City, loc.State, loc.Zip)
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

// FormAction is the form-encoded fallback endpoint for kind.
func FormAction(site eatery.SiteConfig, kind string) string {
	return site.FormsURL + "/forms/" + kind + "/"
}

// APIURL is the JSON endpoint forms.js posts to.
func APIURL(site eatery.SiteConfig, kind string) string {
	return site.FormsURL + "/api/forms/" + kind
}

// Categories returns menu categories in first-seen order.
func Categories(items []eatery.MenuItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// InCategory filters menu items by category.
func InCategory(items []eatery.MenuItem, category string) []eatery.MenuItem {
	var out []eatery.MenuItem
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
