package sitemap

import (
	"context"
	"fmt"
	"time"
)

// IndexHook post-processes the sitemap index before it is returned.
type IndexHook func(ctx context.Context, entries []IndexEntry) []IndexEntry

// ItemsHook post-processes a leaf sitemap before it is returned.
type ItemsHook func(ctx context.Context, src Source, page int, entries []Entry) []Entry

// Config configures an Assembler.
type Config struct {
	BaseURL            string // canonical site URL, e.g. https://example.com
	PageSize           int    // items per sitemap file, DefaultPageSize when zero
	PageTree           bool   // include the page tree source
	ShowInSearchOnly   bool
	ExcludeRedirectors bool
	InclusionHooks     []InclusionHook
	IndexHooks         []IndexHook
	ItemsHooks         []ItemsHook
}

// Assembler builds the sitemap index and the leaf sitemaps.
type Assembler struct {
	registry   *Registry
	paginator  *Paginator
	evaluator  *Evaluator
	pageTree   bool
	indexHooks []IndexHook
	itemsHooks []ItemsHook
}

// NewAssembler wires a paginator and an evaluator over store and registry.
func NewAssembler(store ContentStore, registry *Registry, cfg Config) *Assembler {
	return &Assembler{
		registry: registry,
		paginator: NewPaginator(store, registry, PaginatorConfig{
			PageSize:           cfg.PageSize,
			ShowInSearchOnly:   cfg.ShowInSearchOnly,
			ExcludeRedirectors: cfg.ExcludeRedirectors,
		}),
		evaluator:  NewEvaluator(registry, store, cfg.BaseURL, cfg.ExcludeRedirectors, cfg.InclusionHooks...),
		pageTree:   cfg.PageTree,
		indexHooks: cfg.IndexHooks,
		itemsHooks: cfg.ItemsHooks,
	}
}

// SetClock replaces the time source used for "now" and "today".
func (a *Assembler) SetClock(now func() time.Time) {
	a.paginator.now = now
	a.evaluator.now = now
}

// Evaluator returns the evaluator used for leaf sitemaps.
func (a *Assembler) Evaluator() *Evaluator { return a.evaluator }

// Paginator returns the paginator shared by all sources.
func (a *Assembler) Paginator() *Paginator { return a.paginator }

// Resolve maps an identifier to a source known to this assembler.
func (a *Assembler) Resolve(id string) (Source, error) {
	src, ok := a.registry.Resolve(id)
	if !ok || (src.Kind == KindPageTree && !a.pageTree) {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return src, nil
}

// PageCount returns the number of leaf sitemaps of the identified source.
func (a *Assembler) PageCount(ctx context.Context, id string) (int, error) {
	src, err := a.Resolve(id)
	if err != nil {
		return 0, err
	}
	return a.paginator.PageCount(ctx, src)
}

// BuildIndex lists every leaf sitemap: the page tree first, then each
// record type in registration order, then the route table.
func (a *Assembler) BuildIndex(ctx context.Context) ([]IndexEntry, error) {
	var sources []Source
	if a.pageTree {
		sources = append(sources, PageTree())
	}
	for _, reg := range a.registry.RecordTypes() {
		sources = append(sources, Record(reg.Name))
	}

	var entries []IndexEntry
	for _, src := range sources {
		pages, err := a.paginator.PageCount(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("sitemap: count %s: %w", src.ID(), err)
		}
		for i := 1; i <= pages; i++ {
			last, err := a.paginator.LastModified(ctx, src, i)
			if err != nil {
				return nil, fmt.Errorf("sitemap: last modified %s/%d: %w", src.ID(), i, err)
			}
			entries = append(entries, IndexEntry{SourceID: src.ID(), Page: i, LastModified: last})
		}
	}

	if n := a.registry.RouteCount(); n > 0 {
		for i := 1; i <= PageCount(n, a.paginator.PageSize()); i++ {
			entries = append(entries, IndexEntry{SourceID: RoutesID, Page: i})
		}
	}

	for _, h := range a.indexHooks {
		entries = h(ctx, entries)
	}
	return entries, nil
}

// BuildItems returns the entries of one leaf sitemap. Routes are always
// included; store items go through the evaluator.
func (a *Assembler) BuildItems(ctx context.Context, id string, page int) ([]Entry, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	src, err := a.Resolve(id)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if src.Kind == KindRoutes {
		for _, r := range a.paginator.Routes(page) {
			loc := a.evaluator.AbsoluteURL(ctx, r.Name)
			if loc == "" {
				continue
			}
			entries = append(entries, Entry{
				Loc:             loc,
				ChangeFrequency: r.ChangeFrequency,
				Priority:        r.Priority,
			})
		}
	} else {
		items, err := a.paginator.Items(ctx, src, page)
		if err != nil {
			return nil, fmt.Errorf("sitemap: list %s/%d: %w", src.ID(), page, err)
		}
		for _, item := range items {
			d, err := a.evaluator.Evaluate(ctx, item)
			if err != nil {
				return nil, fmt.Errorf("sitemap: evaluate %s #%d: %w", src.ID(), item.ID, err)
			}
			if !d.Include || d.Loc == "" {
				continue
			}
			entries = append(entries, Entry{
				Loc:             d.Loc,
				LastModified:    a.lastModified(item),
				ChangeFrequency: d.ChangeFrequency,
				Priority:        d.Priority,
				Images:          a.images(ctx, item.Images),
			})
		}
	}

	for _, h := range a.itemsHooks {
		entries = h(ctx, src, page, entries)
	}
	return entries, nil
}

func (a *Assembler) lastModified(item Item) time.Time {
	if item.LastEdited.IsZero() {
		return a.evaluator.now()
	}
	return item.LastEdited
}

func (a *Assembler) images(ctx context.Context, links []string) []string {
	var out []string
	for _, l := range links {
		if abs := a.evaluator.AbsoluteURL(ctx, l); abs != "" {
			out = append(out, abs)
		}
	}
	return out
}
