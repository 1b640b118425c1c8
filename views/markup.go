package views

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup is an HTML fragment under construction. Writes to the buffer
// cannot fail, so only nested component errors surface.
type markup struct {
	bytes.Buffer
}

// fragment turns a writer function into a templ component. The fragment is
// assembled in memory and written once, so a failed child leaves w untouched.
func fragment(fn func(ctx context.Context, m *markup) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var m markup
		if err := fn(ctx, &m); err != nil {
			return err
		}
		_, err := w.Write(m.Bytes())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// safeURL sanitizes u for an href and escapes it for the attribute.
func safeURL(u string) string {
	return esc(string(templ.URL(u)))
}

func (m *markup) raw(parts ...string) {
	for _, p := range parts {
		m.WriteString(p)
	}
}

func (m *markup) link(href, text string) {
	m.raw(`<a href="`, safeURL(href), `">`, esc(text), "</a>")
}

// external links open in a new tab.
func (m *markup) external(href, text string) {
	m.raw(`<a href="`, safeURL(href), `" rel="noopener" target="_blank">`, esc(text), "</a>")
}

// optional writes <tag>text</tag> on its own line when text is set.
func (m *markup) optional(tag, text string) {
	if text != "" {
		m.raw("<", tag, ">", esc(text), "</", tag, ">\n")
	}
}

func (m *markup) child(ctx context.Context, c templ.Component) error {
	return c.Render(ctx, &m.Buffer)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
