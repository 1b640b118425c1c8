package views

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/forms"
)

func adminPage(site eatery.SiteConfig, content templ.Component) templ.Component {
	return Layout(site, eatery.Page{
		Path: "/admin/",
		Meta: eatery.PageMeta{Title: "Submissions | " + site.Name, NoIndex: true},
	}, content)
}

// AdminLogin is the password form in front of the submissions log.
func AdminLogin(site eatery.SiteConfig, showError bool, csrfToken string) templ.Component {
	return adminPage(site, fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Sign in</h1>\n")
		if showError {
			m.raw("<p class=\"flash\" role=\"alert\">Wrong password.</p>\n")
		}
		m.raw("<form method=\"post\" action=\"/admin/login/\">\n")
		csrfField(m, csrfToken)
		m.raw("<label>Password <input type=\"password\" name=\"password\" required autofocus></label>\n",
			"<button type=\"submit\">Sign in</button>\n</form>\n")
		return nil
	}))
}

// AdminSubmissions lists relayed form posts, newest first, optionally
// filtered to one kind.
func AdminSubmissions(site eatery.SiteConfig, kind string, subs []forms.Submission, csrfToken string) templ.Component {
	return adminPage(site, fragment(func(_ context.Context, m *markup) error {
		m.raw("<h1>Form submissions</h1>\n<nav class=\"filters\">")
		filter(m, "All", "/admin/", kind == "")
		for _, k := range forms.Kinds {
			filter(m, eatery.TitleCase(string(k)), "/admin/?kind="+string(k), kind == string(k))
		}
		m.raw("</nav>\n")
		if len(subs) == 0 {
			m.raw("<p>No submissions yet.</p>\n")
		} else {
			m.raw("<table class=\"submissions\">\n",
				"<thead><tr><th>Received</th><th>Form</th><th>Status</th><th>Upstream</th><th>Details</th></tr></thead>\n<tbody>\n")
			for _, s := range subs {
				upstream := ""
				if s.UpstreamStatus != 0 {
					upstream = strconv.Itoa(s.UpstreamStatus)
				}
				m.raw(`<tr id="sub-`, esc(s.ID), `"><td><time datetime="`, s.CreatedAt.UTC().Format(time.RFC3339), `">`,
					s.CreatedAt.UTC().Format("2006-01-02 15:04"), "</time></td><td>", esc(string(s.Kind)),
					`</td><td class="status-`, esc(s.Status), `">`, esc(s.Status),
					"</td><td>", upstream, "</td><td>")
				if s.Error != "" {
					m.raw("<p>", esc(s.Error), "</p>")
				}
				m.raw("<pre>", esc(string(s.Payload)), "</pre></td></tr>\n")
			}
			m.raw("</tbody>\n</table>\n")
		}
		m.raw("<form method=\"post\" action=\"/admin/logout/\">\n")
		csrfField(m, csrfToken)
		m.raw("<button type=\"submit\">Sign out</button>\n</form>\n")
		return nil
	}))
}

func filter(m *markup, label, href string, current bool) {
	if current {
		m.raw(`<span aria-current="page">`, esc(label), "</span> ")
		return
	}
	m.link(href, label)
	m.raw(" ")
}

func csrfField(m *markup, token string) {
	if token != "" {
		m.raw(`<input type="hidden" name="_csrf" value="`, esc(token), "\">\n")
	}
}
