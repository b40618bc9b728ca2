// Package sitemap decides which content appears in a site's XML sitemaps,
// with what priority and change frequency, and splits it into fixed-size
// pages listed by a sitemap index.
//
// The package does not touch HTTP or XML. Content comes from a
// ContentStore, and the route table and record types from a Registry.
package sitemap

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownSource is returned for identifiers that name no page tree,
	// route table or registered record type.
	ErrUnknownSource = errors.New("sitemap: unknown source")

	// ErrInvalidPage is returned for page numbers below one.
	ErrInvalidPage = errors.New("sitemap: invalid page number")
)

// Item is one piece of content as reported by the content store. Kind
// tells page-tree nodes apart from records of a registered type.
type Item struct {
	Kind       Kind
	ID         int64
	ParentID   int64  // page tree only, 0 for root pages
	Type       string // class of a page, or the record type name
	Link       string // absolute or site-relative URL, empty if the item has none
	Viewable   bool   // visible to anonymous visitors
	Priority   string // manual priority field, blank when unset
	Created    time.Time
	LastEdited time.Time
	Version    int
	ErrorPage  bool
	Redirector bool
	Images     []string // absolute or site-relative image URLs
}

// Query selects the live items of one source.
type Query struct {
	Source             Source
	ShowInSearchOnly   bool // page tree: honor the ShowInSearch flag
	ExcludeRedirectors bool // page tree: leave out redirector pages
}

// ContentStore is the view of the content storage the engine needs.
// Page tree items are listed in the store's natural order, record types
// ascending by LastEdited.
type ContentStore interface {
	Count(ctx context.Context, q Query) (int, error)
	List(ctx context.Context, q Query, offset, limit int) ([]Item, error)
	// MaxLastEdited returns the latest LastEdited in the slice, or the
	// zero time when the slice is empty.
	MaxLastEdited(ctx context.Context, q Query, offset, limit int) (time.Time, error)
	// Lineage walks up from parentID and returns the number of ancestors
	// and whether each of them exists and is published.
	Lineage(ctx context.Context, parentID int64) (depth int, intact bool, err error)
}

// Entry is one URL of a leaf sitemap.
type Entry struct {
	Loc             string
	LastModified    time.Time // zero for static routes
	ChangeFrequency ChangeFrequency
	Priority        Priority
	Images          []string
}

// IndexEntry is one row of the sitemap index.
type IndexEntry struct {
	SourceID     string
	Page         int
	LastModified time.Time // zero when no date applies
}
