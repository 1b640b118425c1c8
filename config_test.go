package eatery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := SiteConfig{URL: "https://x.example/"}.Defaults()
	assert.Equal(t, "Eatery", cfg.Name)
	assert.Equal(t, "https://x.example", cfg.URL)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "dist", cfg.OutDir)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.FormTimeout)
	assert.Equal(t, 1600, cfg.MaxImageWidth)
	assert.Equal(t, 5*time.Minute, cfg.ContentTTL)
	assert.Zero(t, cfg.CopyrightYear)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SITE_NAME", "Taco Shack")
	t.Setenv("SITE_URL", "https://tacoshack.example/")
	t.Setenv("SITE_SAME_AS", "https://a.example, ,https://b.example")
	t.Setenv("SITE_FORMS_URL", "https://forms.tacoshack.example/")
	t.Setenv("COOKIE_SECURE", "TRUE")
	t.Setenv("FORM_TIMEOUT", "3s")
	t.Setenv("MAX_IMAGE_WIDTH", "800")
	t.Setenv("CONTENT_TTL", "not-a-duration")
	t.Setenv("FORM_ENDPOINT_CONTACT", "https://hooks.example/contact")
	t.Setenv("FORM_ENDPOINT_CAREER", "")
	t.Setenv("SITE_CUISINE", "")
	t.Setenv("SITE_COPYRIGHT_YEAR", "2026")

	cfg := ConfigFromEnv()
	assert.Equal(t, "Taco Shack", cfg.Name)
	assert.Equal(t, "https://tacoshack.example", cfg.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.SameAs)
	assert.Equal(t, "https://forms.tacoshack.example", cfg.FormsURL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 3*time.Second, cfg.FormTimeout)
	assert.Equal(t, 800, cfg.MaxImageWidth)
	assert.Equal(t, 5*time.Minute, cfg.ContentTTL)
	assert.Equal(t, map[string]string{"contact": "https://hooks.example/contact"}, cfg.FormEndpoints)
	assert.Equal(t, "American", cfg.Cuisine)
	assert.Equal(t, 2026, cfg.CopyrightYear)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("EATERY_TEST_VALUE", "set")
	assert.Equal(t, "set", EnvOr("EATERY_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", EnvOr("EATERY_TEST_UNSET", "fallback"))
}
