package views

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/eringen/eatery"
	"github.com/eringen/eatery/forms"
)

// FormData is what a form component needs from the page embedding it.
type FormData struct {
	Site      eatery.SiteConfig
	Kind      forms.Kind
	Path      string
	CSRFToken string
	Locations []eatery.Location
}

// NewFormData binds a form kind to the page it is embedded in.
func NewFormData(site eatery.SiteConfig, p eatery.Page, kind forms.Kind) FormData {
	return FormData{Site: site, Kind: kind, Path: p.Path, CSRFToken: p.CSRFToken, Locations: p.Locations}
}

// Form renders the form for f.Kind. It posts form-encoded to the relay's
// fallback endpoint; forms.js reads data-endpoint and submits JSON instead.
func Form(f FormData) templ.Component {
	return fragment(func(ctx context.Context, m *markup) error {
		fields, ok := formFields[f.Kind]
		if !ok {
			return fmt.Errorf("views: %w: %q", forms.ErrUnknownKind, f.Kind)
		}
		kind := string(f.Kind)
		m.raw(`<form class="eatery-form" method="post" action="`, safeURL(FormAction(f.Site, kind)),
			`" data-endpoint="`, esc(APIURL(f.Site, kind)), "\">\n",
			`<input type="hidden" name="_return" value="`, esc(f.Path), "\">\n")
		csrfField(m, f.CSRFToken)
		fields(m, f)
		m.raw("<button type=\"submit\">Send</button>\n",
			"<p data-form-status aria-live=\"polite\"></p>\n</form>\n")
		return nil
	})
}

var formFields = map[forms.Kind]func(*markup, FormData){
	forms.Career: func(m *markup, f FormData) {
		contactFields(m)
		m.raw("<label>Preferred location\n")
		locationSelect(m, f.Locations)
		m.raw("</label>\n",
			"<label>Position <input name=\"position\" required></label>\n",
			"<label>Tell us about yourself <textarea name=\"message\" rows=\"5\"></textarea></label>\n")
	},
	forms.Contact: func(m *markup, _ FormData) {
		contactFields(m)
		m.raw("<label>Subject <input name=\"subject\"></label>\n",
			"<label>Message <textarea name=\"message\" rows=\"5\" required></textarea></label>\n")
	},
	forms.Franchise: func(m *markup, _ FormData) {
		contactFields(m)
		m.raw("<label>City <input name=\"city\" required></label>\n",
			"<label>State <input name=\"state\" required></label>\n",
			"<label>Liquid capital <input name=\"liquidity\"></label>\n",
			"<label>Anything else? <textarea name=\"message\" rows=\"4\"></textarea></label>\n")
	},
	forms.Fundraising: func(m *markup, f FormData) {
		m.raw("<label>Organization <input name=\"organization\" required></label>\n")
		contactFields(m)
		m.raw("<label>Restaurant\n")
		locationSelect(m, f.Locations)
		m.raw("</label>\n",
			"<label>Preferred date <input type=\"date\" name=\"date\"></label>\n",
			"<label>Expected attendance <input type=\"number\" name=\"attendance\" min=\"0\"></label>\n",
			"<label>Details <textarea name=\"message\" rows=\"4\"></textarea></label>\n")
	},
}

func contactFields(m *markup) {
	m.raw("<label>Name <input name=\"name\" required maxlength=\"200\"></label>\n",
		"<label>Email <input type=\"email\" name=\"email\" required></label>\n",
		"<label>Phone <input type=\"tel\" name=\"phone\"></label>\n")
}

// locationSelect offers only restaurants that are open.
func locationSelect(m *markup, locations []eatery.Location) {
	m.raw(`<select name="location" required>`)
	for _, l := range locations {
		if l.Active() {
			m.raw("<option>", esc(l.Name), "</option>")
		}
	}
	m.raw("</select>")
}
