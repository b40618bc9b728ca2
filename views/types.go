package views

// PageRow is one page on the admin dashboard.
type PageRow struct {
	ID        int64
	Title     string
	Link      string
	Priority  string // manual priority, blank for automatic
	Effective string // priority written to the sitemap, blank when left out
	Published bool
	InSitemap bool
	Images    int
}
