package web

import "embed"

// content holds the page templates and the stylesheet.
//
//go:embed templates/*.html static/*
var content embed.FS
