package sitemap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(3, 1))
	assert.Equal(t, 0, PageCount(5, 0))
}

func recordStore(n int, typeName string) *memStore {
	store := newMemStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		store.addRecord(Item{
			ID:         int64(i + 1),
			Type:       typeName,
			Link:       fmt.Sprintf("/doc/%d", i+1),
			Viewable:   true,
			LastEdited: base.Add(time.Duration(n-i) * time.Hour),
		})
	}
	return store
}

func TestPagesAreDisjointAndExhaustive(t *testing.T) {
	ctx := context.Background()
	for _, size := range []int{1, 2, 3, 7, 10} {
		for _, count := range []int{0, 1, 2, 9, 10, 11, 23} {
			store := recordStore(count, "Doc")
			p := NewPaginator(store, NewRegistry(), PaginatorConfig{PageSize: size})
			src := Record("Doc")

			pages, err := p.PageCount(ctx, src)
			require.NoError(t, err)
			assert.Equal(t, PageCount(count, size), pages)

			seen := map[int64]bool{}
			total := 0
			for page := 1; page <= pages; page++ {
				items, err := p.Items(ctx, src, page)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(items), size)
				if page < pages {
					assert.Equal(t, size, len(items), "only the last page may be short")
				}
				for _, it := range items {
					assert.False(t, seen[it.ID], "item %d on two pages", it.ID)
					seen[it.ID] = true
				}
				total += len(items)
			}
			assert.Equal(t, count, total, "size=%d count=%d", size, count)

			past, err := p.Items(ctx, src, pages+1)
			require.NoError(t, err)
			assert.Empty(t, past)
		}
	}
}

func TestRecordItemsSortedByLastEdited(t *testing.T) {
	store := recordStore(5, "Doc")
	p := NewPaginator(store, NewRegistry(), PaginatorConfig{PageSize: 10})
	items, err := p.Items(context.Background(), Record("Doc"), 1)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].LastEdited.Before(items[i-1].LastEdited))
	}
}

func TestItemsRejectsPageZero(t *testing.T) {
	p := NewPaginator(newMemStore(), NewRegistry(), PaginatorConfig{})
	_, err := p.Items(context.Background(), PageTree(), 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.Equal(t, DefaultPageSize, p.PageSize())
}

func TestRoutesPagination(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 5; i++ {
		reg.RegisterRoute(fmt.Sprintf("/r%d/", i), "", "")
	}
	p := NewPaginator(newMemStore(), reg, PaginatorConfig{PageSize: 2})

	pages, err := p.PageCount(context.Background(), Routes())
	require.NoError(t, err)
	assert.Equal(t, 3, pages)

	assert.Equal(t, "/r0/", p.Routes(1)[0].Name)
	assert.Equal(t, "/r2/", p.Routes(2)[0].Name)
	assert.Len(t, p.Routes(3), 1)
	assert.Empty(t, p.Routes(4))
	assert.Empty(t, p.Routes(0))
}

func TestLastModifiedForPage(t *testing.T) {
	store := recordStore(3, "Doc")
	p := NewPaginator(store, NewRegistry(), PaginatorConfig{PageSize: 2})
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	items, err := p.Items(ctx, Record("Doc"), 1)
	require.NoError(t, err)
	last, err := p.LastModified(ctx, Record("Doc"), 1)
	require.NoError(t, err)
	assert.Equal(t, items[1].LastEdited, last)

	empty, err := p.LastModified(ctx, Record("Doc"), 9)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), empty)
}

func TestPageTreeFilters(t *testing.T) {
	store := newMemStore()
	store.addPage(Item{ID: 1, Link: "/a", Viewable: true})
	store.addPage(Item{ID: 2, Link: "/b", Viewable: true, Redirector: true})
	store.addPage(Item{ID: 3, Link: "/c", Viewable: true})
	store.showInSearch[3] = false
	ctx := context.Background()

	all := NewPaginator(store, NewRegistry(), PaginatorConfig{})
	n, err := all.Total(ctx, PageTree())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	filtered := NewPaginator(store, NewRegistry(), PaginatorConfig{ShowInSearchOnly: true, ExcludeRedirectors: true})
	n, err = filtered.Total(ctx, PageTree())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
