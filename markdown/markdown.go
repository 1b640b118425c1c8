// Package markdown renders the small inline-markdown dialect used in blog
// paragraphs: headings, bullet lists, bold, italic and links.
package markdown

import (
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic = regexp.MustCompile(`\*([^*]+)\*`)
	reLink   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
)

// Paragraphs returns a component that renders each body entry as a block.
func Paragraphs(body []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderBody(body))
		return err
	})
}

// RenderBody converts blog paragraphs to HTML. An entry starting with "## "
// or "### " is a heading; an entry whose lines all start with "- " is a list.
func RenderBody(body []string) string {
	var b strings.Builder
	for _, para := range body {
		para = strings.TrimSpace(para)
		switch {
		case para == "":
		case strings.HasPrefix(para, "### "):
			b.WriteString("<h3>" + FormatInline(para[4:]) + "</h3>")
		case strings.HasPrefix(para, "## "):
			b.WriteString("<h2>" + FormatInline(para[3:]) + "</h2>")
		case isList(para):
			b.WriteString("<ul>")
			for _, line := range strings.Split(para, "\n") {
				item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
				b.WriteString("<li>" + FormatInline(item) + "</li>")
			}
			b.WriteString("</ul>")
		default:
			b.WriteString("<p>" + FormatInline(strings.Join(strings.Fields(para), " ")) + "</p>")
		}
	}
	return b.String()
}

func isList(para string) bool {
	for _, line := range strings.Split(para, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "- ") {
			return false
		}
	}
	return true
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline escapes s and applies links, bold and italic.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if match[3] == "^" {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})
	return ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})
}

// Plain strips inline markup, leaving link text. Used for meta descriptions.
func Plain(s string) string {
	s = reLink.ReplaceAllString(s, "$1")
	s = reBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	s = strings.TrimLeft(s, "#- ")
	return strings.Join(strings.Fields(s), " ")
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
