package sitemap

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// InclusionHook may override the decision to include an item. It is only
// consulted for items that passed every other check. Returning false for
// ok means the hook has no opinion on the item.
type InclusionHook interface {
	AlterInclusion(ctx context.Context, item Item, include bool) (result bool, ok bool)
}

// InclusionHookFunc adapts a function to InclusionHook.
type InclusionHookFunc func(ctx context.Context, item Item, include bool) (bool, bool)

// AlterInclusion calls f.
func (f InclusionHookFunc) AlterInclusion(ctx context.Context, item Item, include bool) (bool, bool) {
	return f(ctx, item, include)
}

type baseURLKey struct{}

// WithBaseURL overrides the canonical base URL for the request carried by
// ctx, as needed when one process serves several sites.
func WithBaseURL(ctx context.Context, base string) context.Context {
	return context.WithValue(ctx, baseURLKey{}, base)
}

// Decision is the outcome of evaluating one item.
type Decision struct {
	Include         bool
	Loc             string
	Priority        Priority
	ChangeFrequency ChangeFrequency
}

// Evaluator decides per item whether it belongs in the sitemap.
type Evaluator struct {
	registry           *Registry
	store              ContentStore
	baseURL            string
	excludeRedirectors bool
	hooks              []InclusionHook
	now                func() time.Time
}

// NewEvaluator returns an evaluator resolving relative links against
// baseURL unless the request context carries an override.
func NewEvaluator(registry *Registry, store ContentStore, baseURL string, excludeRedirectors bool, hooks ...InclusionHook) *Evaluator {
	return &Evaluator{
		registry:           registry,
		store:              store,
		baseURL:            baseURL,
		excludeRedirectors: excludeRedirectors,
		hooks:              hooks,
		now:                time.Now,
	}
}

// BaseURL returns the canonical base URL for ctx.
func (e *Evaluator) BaseURL(ctx context.Context) string {
	if v, ok := ctx.Value(baseURLKey{}).(string); ok && v != "" {
		return v
	}
	return e.baseURL
}

// AbsoluteURL resolves link against the canonical base URL. It returns ""
// for empty or unparsable links.
func (e *Evaluator) AbsoluteURL(ctx context.Context, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	ref, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(e.BaseURL(ctx))
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(&url.URL{
		Path:     strings.TrimPrefix(ref.Path, "/"),
		RawQuery: ref.RawQuery,
		Fragment: ref.Fragment,
	}).String()
}

func (e *Evaluator) canonicalHost(ctx context.Context) string {
	u, err := url.Parse(e.BaseURL(ctx))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// CanInclude reports whether item may appear in a sitemap.
func (e *Evaluator) CanInclude(ctx context.Context, item Item) (bool, error) {
	d, err := e.Evaluate(ctx, item)
	return d.Include, err
}

// Evaluate runs the inclusion checks on item and computes its location,
// priority and change frequency.
func (e *Evaluator) Evaluate(ctx context.Context, item Item) (Decision, error) {
	d := Decision{Loc: e.AbsoluteURL(ctx, item.Link)}

	depth := 0
	if item.Kind == KindPageTree && item.ParentID != 0 {
		n, intact, err := e.store.Lineage(ctx, item.ParentID)
		if err != nil {
			return Decision{}, err
		}
		if !intact {
			return d, nil
		}
		depth = n
	}

	if item.Link != "" {
		u, err := url.Parse(d.Loc)
		if d.Loc == "" || err != nil || strings.ToLower(u.Hostname()) != e.canonicalHost(ctx) {
			return d, nil
		}
	}
	if !item.Viewable {
		return d, nil
	}

	d.Priority = e.priority(item, depth)
	if d.Priority.IsExcluded() {
		return d, nil
	}

	include := true
	for _, h := range e.hooks {
		if v, ok := h.AlterInclusion(ctx, item, include); ok && !v {
			include = false
		}
	}
	if !include {
		return d, nil
	}

	if item.Kind == KindPageTree {
		if item.ErrorPage || (e.excludeRedirectors && item.Redirector) {
			return d, nil
		}
	}

	d.ChangeFrequency = e.ChangeFrequency(item)
	d.Include = true
	return d, nil
}

// Priority returns the priority of item. Page-tree items without a manual
// priority get a depth-based one, looked up from the store.
func (e *Evaluator) Priority(ctx context.Context, item Item) (Priority, error) {
	depth := 0
	if item.Kind == KindPageTree && item.ParentID != 0 {
		if _, ok := ParsePriority(item.Priority); !ok {
			n, _, err := e.store.Lineage(ctx, item.ParentID)
			if err != nil {
				return 0, err
			}
			depth = n
		}
	}
	return e.priority(item, depth), nil
}

func (e *Evaluator) priority(item Item, depth int) Priority {
	if p, ok := ParsePriority(item.Priority); ok {
		return p
	}
	if item.Kind == KindPageTree {
		return DepthPriority(depth)
	}
	return e.registry.PriorityForType(item.Type)
}

// ChangeFrequency returns the registered frequency of the item's type, or
// an estimate from its age and version count.
func (e *Evaluator) ChangeFrequency(item Item) ChangeFrequency {
	if f := e.registry.FrequencyForType(item.Type); f != "" {
		return f
	}
	return EstimateFrequency(item.Created, item.Version, e.now())
}
