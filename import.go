package sitemaps

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ContentFile is the YAML layout accepted by ImportContent.
type ContentFile struct {
	Pages   []ContentPage   `yaml:"pages"`
	Records []ContentRecord `yaml:"records"`
}

// ContentPage describes one page of the page tree. Flags that default to
// true are pointers so an omitted key can be told apart from false.
type ContentPage struct {
	ID           int64     `yaml:"id"`
	Parent       int64     `yaml:"parent"`
	Class        string    `yaml:"class"`
	Title        string    `yaml:"title"`
	Link         string    `yaml:"link"`
	Priority     string    `yaml:"priority"`
	ShowInSearch *bool     `yaml:"show_in_search"`
	Viewable     *bool     `yaml:"viewable"`
	Published    *bool     `yaml:"published"`
	ErrorPage    bool      `yaml:"error_page"`
	Redirector   bool      `yaml:"redirector"`
	Sort         int       `yaml:"sort"`
	Created      time.Time `yaml:"created"`
	LastEdited   time.Time `yaml:"last_edited"`
	Version      int       `yaml:"version"`
	Images       []string  `yaml:"images"`
}

// ContentRecord describes one record of a registered type.
type ContentRecord struct {
	ID         int64     `yaml:"id"`
	Type       string    `yaml:"type"`
	Link       string    `yaml:"link"`
	Viewable   *bool     `yaml:"viewable"`
	Priority   string    `yaml:"priority"`
	Created    time.Time `yaml:"created"`
	LastEdited time.Time `yaml:"last_edited"`
	Version    int       `yaml:"version"`
}

// ImportResult counts what ImportContent wrote.
type ImportResult struct {
	Pages   int
	Records int
	Images  int
}

func orTrue(b *bool) bool {
	return b == nil || *b
}

// ImportContentFile loads a YAML content file into store.
func ImportContentFile(ctx context.Context, store *Store, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("sitemaps: open content: %w", err)
	}
	defer f.Close()
	return ImportContent(ctx, store, f)
}

// ImportContent reads YAML content from r and saves it into store. Pages
// and records carrying an id replace the stored row with that id.
func ImportContent(ctx context.Context, store *Store, r io.Reader) (ImportResult, error) {
	var res ImportResult
	var file ContentFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return res, fmt.Errorf("sitemaps: parse content: %w", err)
	}
	for i, cp := range file.Pages {
		id, err := store.SavePage(ctx, Page{
			ID:           cp.ID,
			ParentID:     cp.Parent,
			Class:        cp.Class,
			Title:        cp.Title,
			Link:         cp.Link,
			Priority:     cp.Priority,
			ShowInSearch: orTrue(cp.ShowInSearch),
			Viewable:     orTrue(cp.Viewable),
			Published:    orTrue(cp.Published),
			ErrorPage:    cp.ErrorPage,
			Redirector:   cp.Redirector,
			Sort:         cp.Sort,
			Created:      cp.Created,
			LastEdited:   cp.LastEdited,
			Version:      cp.Version,
		})
		if err != nil {
			return res, fmt.Errorf("sitemaps: import page %d (%q): %w", i+1, cp.Title, err)
		}
		res.Pages++
		for _, img := range cp.Images {
			if err := store.AddImage(ctx, id, img); err != nil {
				return res, fmt.Errorf("sitemaps: import image %s: %w", img, err)
			}
			res.Images++
		}
	}
	for i, cr := range file.Records {
		if cr.Type == "" {
			return res, fmt.Errorf("sitemaps: import record %d: type is required", i+1)
		}
		if _, err := store.SaveRecord(ctx, Record{
			ID:         cr.ID,
			Type:       cr.Type,
			Link:       cr.Link,
			Viewable:   orTrue(cr.Viewable),
			Priority:   cr.Priority,
			Created:    cr.Created,
			LastEdited: cr.LastEdited,
			Version:    cr.Version,
		}); err != nil {
			return res, fmt.Errorf("sitemaps: import record %d: %w", i+1, err)
		}
		res.Records++
	}
	return res, nil
}
