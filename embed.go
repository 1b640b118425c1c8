package eatery

import "embed"

// EmbeddedAssets contains the framework's own static assets, served and
// published under /public/: forms.js and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
