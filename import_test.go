package sitemaps

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eringen/sitemaps/sitemap"
)

const sampleContent = `
pages:
  - id: 1
    title: Home
    link: /
    images: [/public/uploads/home.jpg, /public/uploads/team.jpg]
  - id: 2
    parent: 1
    title: Draft
    link: /draft/
    published: false
  - id: 3
    title: Hidden
    link: /hidden/
    show_in_search: false
    priority: "-1"
records:
  - type: blog.Post
    link: /blog/a/
    last_edited: 2012-01-14T08:30:00Z
  - type: blog.Post
    link: /blog/b/
    viewable: false
`

func TestImportContent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	res, err := ImportContent(ctx, s, strings.NewReader(sampleContent))
	if err != nil {
		t.Fatalf("ImportContent: %v", err)
	}
	if res != (ImportResult{Pages: 3, Records: 2, Images: 2}) {
		t.Errorf("result = %+v", res)
	}

	home, err := s.GetPage(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !home.Published || !home.Viewable || !home.ShowInSearch {
		t.Errorf("omitted flags should default to true: %+v", home)
	}
	if len(home.Images) != 2 {
		t.Errorf("home images = %v", home.Images)
	}

	draft, _ := s.GetPage(ctx, 2)
	if draft.Published || draft.ParentID != 1 {
		t.Errorf("draft = %+v", draft)
	}
	hidden, _ := s.GetPage(ctx, 3)
	if hidden.ShowInSearch || hidden.Priority != "-1" {
		t.Errorf("hidden = %+v", hidden)
	}

	n, err := s.Count(ctx, sitemap.Query{Source: sitemap.Record("blog.Post")})
	if err != nil || n != 2 {
		t.Errorf("Count(blog.Post) = %d, %v", n, err)
	}
	items, err := s.List(ctx, sitemap.Query{Source: sitemap.Record("blog.Post")}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Link != "/blog/a/" || items[1].Viewable {
		t.Fatalf("records = %+v", items)
	}
	if !items[0].LastEdited.Equal(time.Date(2012, 1, 14, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("LastEdited = %v", items[0].LastEdited)
	}
	if !items[1].LastEdited.Equal(testNow) {
		t.Errorf("missing last_edited should default to now, got %v", items[1].LastEdited)
	}
}

func TestImportContentIsRepeatable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := ImportContent(ctx, s, strings.NewReader(sampleContent)); err != nil {
			t.Fatalf("import %d: %v", i+1, err)
		}
	}
	pages, err := s.ListPages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 3 {
		t.Errorf("got %d pages after importing twice, want 3", len(pages))
	}
	if len(pages[0].Images) != 2 {
		t.Errorf("images duplicated: %v", pages[0].Images)
	}
}

func TestImportContentErrors(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := ImportContent(ctx, s, strings.NewReader("records:\n  - link: /x/\n")); err == nil {
		t.Error("expected error for record without type")
	}
	if _, err := ImportContent(ctx, s, strings.NewReader("pages: {")); err == nil {
		t.Error("expected error for invalid YAML")
	}
	res, err := ImportContent(ctx, s, strings.NewReader(""))
	if err != nil || res != (ImportResult{}) {
		t.Errorf("empty input = %+v, %v", res, err)
	}
}
