package sitemaps

import "time"

// Page is a node of the site's page tree as stored in SQLite.
type Page struct {
	ID           int64
	ParentID     int64 // 0 for top level pages
	Class        string
	Title        string
	Link         string // site-relative URL, e.g. "/about/"
	Priority     string // manual priority, blank for automatic
	ShowInSearch bool
	Viewable     bool // readable by anonymous visitors
	Published    bool
	ErrorPage    bool
	Redirector   bool
	Sort         int
	Created      time.Time
	LastEdited   time.Time
	Version      int
	Images       []string
}

// Record is an instance of a registered record type.
type Record struct {
	ID         int64
	Type       string
	Link       string
	Viewable   bool
	Priority   string
	Created    time.Time
	LastEdited time.Time
	Version    int
}
