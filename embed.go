package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// folio.js and folio.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
