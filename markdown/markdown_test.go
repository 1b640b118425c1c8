package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"fish & chips", "fish &amp; chips"},
		{"<script>", "&lt;script&gt;"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[menu](/nutrition/)", `<a href="/nutrition/">menu</a>`},
		{"[order](https://order.example.com)^", `<a href="https://order.example.com" target="_blank" rel="noopener noreferrer">order</a>`},
		{"[bad](javascript:alert(1))", "bad)"},
		{"[proto](//evil.example)", "proto"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineLeavesHrefAlone(t *testing.T) {
	got := FormatInline("[a](/x*y*z/)")
	if strings.Contains(got, "<em>") {
		t.Errorf("italic applied inside href: %q", got)
	}
}

func TestRenderBody(t *testing.T) {
	body := []string{
		"## Where to eat",
		"Try the **burger**\nwith fries.",
		"- one\n- two",
		"",
		"### Hours",
	}
	got := RenderBody(body)
	want := "<h2>Where to eat</h2>" +
		"<p>Try the <strong>burger</strong> with fries.</p>" +
		"<ul><li>one</li><li>two</li></ul>" +
		"<h3>Hours</h3>"
	if got != want {
		t.Errorf("RenderBody() =\n%q\nwant\n%q", got, want)
	}
}

func TestParagraphsComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Paragraphs([]string{"hello"}).Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<p>hello</p>" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPlain(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Grab a **burger** at [Main St](/locations/main/)", "Grab a burger at Main St"},
		{"## Heading", "Heading"},
		{"  many   spaces\n here ", "many spaces here"},
	}
	for _, tt := range tests {
		if got := Plain(tt.input); got != tt.expected {
			t.Errorf("Plain(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path", "/path"},
		{"#anchor", "#anchor"},
		{"https://example.com", "https://example.com"},
		{"mailto:hi@example.com", "mailto:hi@example.com"},
		{"tel:+15550100", "tel:+15550100"},
		{"javascript:alert(1)", ""},
		{"data:text/html,x", ""},
		{"//evil.example", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
