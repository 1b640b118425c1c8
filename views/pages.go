package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/forms"
	"github.com/eringen/eatery/markdown"
)

func home(site eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		m.raw("<section class=\"hero\">\n<h1>", esc(site.Name), "</h1>\n")
		m.optional("p", site.Description)
		m.raw("</section>\n")
		if len(p.Locations) > 0 {
			m.raw("<section>\n<h2>Our restaurants</h2>\n<ul class=\"cards\">\n")
			for _, l := range p.Locations {
				m.raw("<li class=\"card\">\n<h3>")
				m.link(l.Link(), l.Name)
				m.raw("</h3>\n<p>", esc(Place(l.City, l.State)), "</p>\n")
				if !l.Active() {
					m.raw("<span class=\"badge\">Coming soon</span>\n")
				}
				m.raw("</li>\n")
			}
			m.raw("</ul>\n</section>\n")
		}
		if len(p.Blogs) > 0 {
			m.raw("<section>\n<h2>Local guides</h2>\n<ul class=\"cards\">\n")
			for _, b := range p.Blogs {
				m.raw(`<li class="card">`)
				m.link(b.Link(), b.Title)
				m.raw("<p>", esc(Place(b.City, b.State)), "</p></li>\n")
			}
			m.raw("</ul>\n</section>\n")
		}
		return nil
	})
}

func locations(site eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(ctx context.Context, m *markup) error {
		m.raw("<h1>Locations</h1>\n")
		m.optional("p", p.Meta.Description)
		m.raw("<ul class=\"cards\">\n")
		for _, l := range p.Locations {
			m.raw("<li class=\"card\">\n<h2>")
			m.link(l.Link(), l.Name)
			m.raw("</h2>\n")
			if !l.Active() {
				m.raw("<span class=\"badge\">Coming soon</span>\n")
			}
			address(m, l)
			if l.Phone != "" {
				m.raw("<p>")
				m.link(TelHref(l.Phone), l.Phone)
				m.raw("</p>\n")
			}
			m.raw("<p>")
			m.external(MapsURL(l), "Directions")
			orderLink(m, l.OrderURL)
			m.raw("</p>\n</li>\n")
		}
		m.raw("</ul>\n<section>\n<h2>Questions?</h2>\n")
		if err := m.child(ctx, Form(NewFormData(site, p, forms.Contact))); err != nil {
			return err
		}
		m.raw("</section>\n")
		return nil
	})
}

func location(_ eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		if l := p.Location; l != nil {
			m.raw("<h1>", esc(l.Name), "</h1>\n")
			if !l.Active() {
				m.raw("<p><span class=\"badge\">Coming soon</span></p>\n")
			}
			address(m, *l)
			if l.Phone != "" {
				m.raw("<p>Call ")
				m.link(TelHref(l.Phone), l.Phone)
				m.raw("</p>\n")
			}
			if l.Email != "" {
				m.raw("<p>")
				m.link("mailto:"+l.Email, l.Email)
				m.raw("</p>\n")
			}
			if l.Active() {
				if len(l.Hours) > 0 {
					m.raw("<h2>Hours</h2><ul>")
					for _, h := range l.Hours {
						m.raw("<li>", esc(h), "</li>")
					}
					m.raw("</ul>\n")
				}
				m.raw("<p>")
				m.external(MapsURL(*l), "Get directions")
				orderLink(m, l.OrderURL)
				m.raw("</p>\n")
			}
		}
		blogList(m, "Around the neighborhood", p.Blogs)
		return nil
	})
}

// formPage is the shared shape of the careers, franchise and fundraising
// pages: a heading, the route's description and one form.
func formPage(title string, kind forms.Kind) eatery.PageView {
	return func(site eatery.SiteConfig, p eatery.Page) templ.Component {
		return fragment(func(ctx context.Context, m *markup) error {
			m.raw("<h1>", esc(title), "</h1>\n")
			m.optional("p", p.Meta.Description)
			return m.child(ctx, Form(NewFormData(site, p, kind)))
		})
	}
}

func nutrition(_ eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Nutrition &amp; Calories</h1>\n")
		m.optional("p", p.Meta.Description)
		categories := Categories(p.Menu)
		if len(categories) == 0 {
			m.raw("<p>Nutrition information is coming soon.</p>\n")
			return nil
		}
		for _, cat := range categories {
			m.raw("<h2>", esc(cat), "</h2>\n<table class=\"nutrition\">\n",
				"<thead><tr><th>Item</th><th>Calories</th><th>Protein (g)</th><th>Fat (g)</th><th>Carbs (g)</th><th>Sodium (mg)</th></tr></thead>\n<tbody>\n")
			for _, it := range InCategory(p.Menu, cat) {
				m.raw("<tr><td>", esc(it.Name),
					"</td><td>", strconv.Itoa(it.Calories),
					"</td><td>", num(it.Protein),
					"</td><td>", num(it.Fat),
					"</td><td>", num(it.Carbs),
					"</td><td>", strconv.Itoa(it.Sodium), "</td></tr>\n")
			}
			m.raw("</tbody>\n</table>\n")
		}
		return nil
	})
}

func blogIndex(_ eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Local Guides</h1>\n")
		m.optional("p", p.Meta.Description)
		m.raw("<ul class=\"cards\">\n")
		for _, b := range p.Blogs {
			m.raw("<li class=\"card\">\n<h2>")
			m.link(b.Link(), b.Title)
			m.raw("</h2>\n")
			byline(m, b)
			m.optional("p", b.Description)
			m.raw("</li>\n")
		}
		if len(p.Blogs) == 0 {
			m.raw("<li>No guides yet.</li>\n")
		}
		m.raw("</ul>\n")
		return nil
	})
}

func blog(site eatery.SiteConfig, p eatery.Page) templ.Component {
	return fragment(func(ctx context.Context, m *markup) error {
		if b := p.Blog; b != nil {
			m.raw("<article>\n<h1>", esc(b.Title), "</h1>\n")
			byline(m, *b)
			if err := m.child(ctx, markdown.Paragraphs(b.Body)); err != nil {
				return err
			}
			m.raw("\n</article>\n")
		}
		if l := p.Nearest; l != nil {
			m.raw("<aside class=\"nearest\">\n<h2>Your nearest ", esc(site.Name), "</h2>\n<p>")
			m.link(l.Link(), l.Name)
			m.raw(" &middot; ", esc(Miles(p.Distance)), "</p>\n",
				"<address>", esc(l.Street), ", ", esc(Place(l.City, l.State)), "</address>\n")
			switch {
			case !l.Active():
				m.raw("<p><span class=\"badge\">Coming soon</span></p>\n")
			case l.OrderURL != "":
				m.raw("<p>")
				m.external(l.OrderURL, "Order online")
				m.raw("</p>\n")
			}
			m.raw("</aside>\n")
		}
		blogList(m, "More local guides", p.Blogs)
		return nil
	})
}

func notFound() templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Page not found</h1>\n",
			"<p>We couldn't find that page. Try our <a href=\"/locations/\">locations</a> or head back <a href=\"/\">home</a>.</p>\n")
		return nil
	})
}

func serverError() templ.Component {
	return fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Something went wrong</h1>\n<p>Please try again in a moment.</p>\n")
		return nil
	})
}

func address(m *markup, l eatery.Location) {
	m.raw("<address>", esc(l.Street), "<br>", esc(Place(l.City, l.State)))
	if l.Zip != "" {
		m.raw(" ", esc(l.Zip))
	}
	m.raw("</address>\n")
}

func orderLink(m *markup, orderURL string) {
	if orderURL != "" {
		m.raw(" &middot; ")
		m.external(orderURL, "Order online")
	}
}

func byline(m *markup, b eatery.Blog) {
	m.raw("<p>", esc(Place(b.City, b.State)))
	if b.Date != "" {
		m.raw(` &middot; <time datetime="`, esc(b.Date), `">`, esc(b.Date), "</time>")
	}
	m.raw("</p>\n")
}

func blogList(m *markup, heading string, blogs []eatery.Blog) {
	if len(blogs) == 0 {
		return
	}
	m.raw("<section>\n<h2>", esc(heading), "</h2>\n<ul>")
	for _, b := range blogs {
		m.raw("<li>")
		m.link(b.Link(), b.Title)
		m.raw("</li>")
	}
	m.raw("</ul>\n</section>\n")
}
