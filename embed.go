package sitemaps

import "embed"

// EmbeddedAssets holds the XSL stylesheets that render sitemaps as HTML
// tables in a browser: xml-sitemapindex.xsl and xml-sitemap.xsl.
//
//go:embed embedded/*.xsl
var EmbeddedAssets embed.FS
