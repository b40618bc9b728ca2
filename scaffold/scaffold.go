// Package scaffold provides the embedded starter files written by
// "sitemapd new": a config file, sample content and a .env example.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
