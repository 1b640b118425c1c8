// Package views is the stock presentation layer: one templ component per
// page kind, each wrapped in Layout and exposed through eatery.ViewFuncs.
// Sites that want their own markup replace individual fields of the
// returned struct and can reuse Layout and Form.
package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/forms"
)

// Default returns a ViewFuncs with a component for every page kind.
func Default() eatery.ViewFuncs {
	page := func(content eatery.PageView) eatery.PageView {
		return func(site eatery.SiteConfig, p eatery.Page) templ.Component {
			return Layout(site, p, content(site, p))
		}
	}
	status := func(title string, content templ.Component) func(eatery.SiteConfig) templ.Component {
		return func(site eatery.SiteConfig) templ.Component {
			return Layout(site, eatery.Page{
				Meta: eatery.PageMeta{Title: title + " | " + site.Name, NoIndex: true},
			}, content)
		}
	}

	return eatery.ViewFuncs{
		Home:        page(home),
		Locations:   page(locations),
		Location:    page(location),
		Careers:     page(formPage("Careers", forms.Career)),
		Franchise:   page(formPage("Own a Franchise", forms.Franchise)),
		Fundraising: page(formPage("Fundraising", forms.Fundraising)),
		Nutrition:   page(nutrition),
		BlogIndex:   page(blogIndex),
		Blog:        page(blog),
		NotFound:    status("Page not found", notFound()),
		ServerError: status("Something went wrong", serverError()),

		AdminLogin:       AdminLogin,
		AdminSubmissions: AdminSubmissions,
	}
}
