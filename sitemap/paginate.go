package sitemap

import (
	"context"
	"time"
)

// DefaultPageSize is the number of items per sitemap file unless
// configured otherwise.
const DefaultPageSize = 1000

// Paginator splits each source into pages of PageSize items.
type Paginator struct {
	store              ContentStore
	registry           *Registry
	pageSize           int
	showInSearchOnly   bool
	excludeRedirectors bool
	now                func() time.Time
}

// PaginatorConfig carries the settings shared by every source.
type PaginatorConfig struct {
	PageSize           int
	ShowInSearchOnly   bool
	ExcludeRedirectors bool
}

// NewPaginator returns a paginator over store and the route table of
// registry. A non-positive page size means DefaultPageSize.
func NewPaginator(store ContentStore, registry *Registry, cfg PaginatorConfig) *Paginator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Paginator{
		store:              store,
		registry:           registry,
		pageSize:           cfg.PageSize,
		showInSearchOnly:   cfg.ShowInSearchOnly,
		excludeRedirectors: cfg.ExcludeRedirectors,
		now:                time.Now,
	}
}

// PageSize returns the configured number of items per page.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// PageCount returns ceil(total/size); an empty total gives zero pages.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageBounds returns the offset and limit of a 1-based page.
func PageBounds(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size, size
}

func (p *Paginator) query(src Source) Query {
	q := Query{Source: src}
	if src.Kind == KindPageTree {
		q.ShowInSearchOnly = p.showInSearchOnly
		q.ExcludeRedirectors = p.excludeRedirectors
	}
	return q
}

// Total returns the number of items in src.
func (p *Paginator) Total(ctx context.Context, src Source) (int, error) {
	if src.Kind == KindRoutes {
		return p.registry.RouteCount(), nil
	}
	return p.store.Count(ctx, p.query(src))
}

// PageCount returns the number of pages src needs.
func (p *Paginator) PageCount(ctx context.Context, src Source) (int, error) {
	total, err := p.Total(ctx, src)
	if err != nil {
		return 0, err
	}
	return PageCount(total, p.pageSize), nil
}

// Items returns the store items on the given page of src. Pages past the
// end yield an empty slice. The route table has no store items; use
// Routes for it.
func (p *Paginator) Items(ctx context.Context, src Source, page int) ([]Item, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if src.Kind == KindRoutes {
		return nil, nil
	}
	offset, limit := PageBounds(page, p.pageSize)
	return p.store.List(ctx, p.query(src), offset, limit)
}

// Routes returns the routes on the given page of the route table.
func (p *Paginator) Routes(page int) []Registration {
	if page < 1 {
		return nil
	}
	routes := p.registry.Routes()
	offset, limit := PageBounds(page, p.pageSize)
	if offset >= len(routes) {
		return nil
	}
	end := offset + limit
	if end > len(routes) {
		end = len(routes)
	}
	return routes[offset:end]
}

// LastModified returns the most recent edit time on the given page of src,
// or the start of today when the page holds nothing datable.
func (p *Paginator) LastModified(ctx context.Context, src Source, page int) (time.Time, error) {
	var last time.Time
	if src.Kind != KindRoutes && page >= 1 {
		offset, limit := PageBounds(page, p.pageSize)
		t, err := p.store.MaxLastEdited(ctx, p.query(src), offset, limit)
		if err != nil {
			return time.Time{}, err
		}
		last = t
	}
	if last.IsZero() {
		y, m, d := p.now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return last, nil
}
