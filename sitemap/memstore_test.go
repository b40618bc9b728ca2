package sitemap

import (
	"context"
	"sort"
	"strings"
	"time"
)

// memStore is an in-memory ContentStore. Pages live in pages, keyed by id;
// unpublished pages are kept in drafts so lineage checks can tell them
// apart from missing ones.
type memStore struct {
	pages        []Item
	drafts       map[int64]bool
	records      []Item
	showInSearch map[int64]bool
	err          error
}

func newMemStore() *memStore {
	return &memStore{drafts: map[int64]bool{}, showInSearch: map[int64]bool{}}
}

func (m *memStore) addPage(it Item) {
	it.Kind = KindPageTree
	m.pages = append(m.pages, it)
}

func (m *memStore) addRecord(it Item) {
	it.Kind = KindRecord
	m.records = append(m.records, it)
}

func (m *memStore) live(q Query) []Item {
	var out []Item
	switch q.Source.Kind {
	case KindPageTree:
		for _, p := range m.pages {
			if m.drafts[p.ID] {
				continue
			}
			if q.ShowInSearchOnly {
				if hidden, ok := m.showInSearch[p.ID]; ok && !hidden {
					continue
				}
			}
			if q.ExcludeRedirectors && p.Redirector {
				continue
			}
			out = append(out, p)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	case KindRecord:
		for _, r := range m.records {
			if strings.EqualFold(r.Type, q.Source.Type) {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].LastEdited.Equal(out[j].LastEdited) {
				return out[i].ID < out[j].ID
			}
			return out[i].LastEdited.Before(out[j].LastEdited)
		})
	}
	return out
}

func slice(items []Item, offset, limit int) []Item {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (m *memStore) Count(_ context.Context, q Query) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.live(q)), nil
}

func (m *memStore) List(_ context.Context, q Query, offset, limit int) ([]Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	return slice(m.live(q), offset, limit), nil
}

func (m *memStore) MaxLastEdited(_ context.Context, q Query, offset, limit int) (time.Time, error) {
	var max time.Time
	for _, it := range slice(m.live(q), offset, limit) {
		if it.LastEdited.After(max) {
			max = it.LastEdited
		}
	}
	return max, nil
}

func (m *memStore) Lineage(_ context.Context, parentID int64) (int, bool, error) {
	depth := 0
	for id := parentID; id != 0; depth++ {
		if depth > 64 {
			return depth, false, nil
		}
		var parent *Item
		for i := range m.pages {
			if m.pages[i].ID == id {
				parent = &m.pages[i]
				break
			}
		}
		if parent == nil || m.drafts[id] {
			return depth, false, nil
		}
		id = parent.ParentID
	}
	return depth, true, nil
}
