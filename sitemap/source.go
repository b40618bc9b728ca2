package sitemap

import "strings"

// Kind discriminates the three origins of sitemap entries.
type Kind int

const (
	KindPageTree Kind = iota + 1
	KindRecord
	KindRoutes
)

func (k Kind) String() string {
	switch k {
	case KindPageTree:
		return "page-tree"
	case KindRecord:
		return "record"
	case KindRoutes:
		return "routes"
	}
	return "unknown"
}

// Identifiers used in sitemap URLs for the page tree and the route table.
const (
	PageTreeID = "PageTree"
	RoutesID   = "GoogleSitemapRoute"
)

// NamespaceSeparator separates the namespace of a record type name from
// the type itself, as in "shop.Product". It is replaced by
// identifierDelimiter in identifiers.
const NamespaceSeparator = "."

const identifierDelimiter = "-"

// Source identifies one participating source.
type Source struct {
	Kind Kind
	Type string // record type name, empty for the page tree and routes
}

// PageTree returns the page tree source.
func PageTree() Source { return Source{Kind: KindPageTree} }

// Routes returns the static route table source.
func Routes() Source { return Source{Kind: KindRoutes} }

// Record returns the source for a registered record type.
func Record(typeName string) Source { return Source{Kind: KindRecord, Type: typeName} }

// ID returns the URL-safe identifier of s.
func (s Source) ID() string {
	switch s.Kind {
	case KindPageTree:
		return PageTreeID
	case KindRoutes:
		return RoutesID
	}
	return EncodeType(s.Type)
}

// EncodeType makes a record type name safe for use as a path segment.
func EncodeType(typeName string) string {
	return strings.ReplaceAll(typeName, NamespaceSeparator, identifierDelimiter)
}
