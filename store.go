package sitemaps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/sitemaps/sitemap"
)

// ErrNotFound is returned when a page or record does not exist.
var ErrNotFound = errors.New("sitemaps: not found")

// timeLayout sorts lexically in time order, so MAX() works on the column.
const timeLayout = "2006-01-02 15:04:05"

// maxLineage bounds parent walks in case of a cycle in the page tree.
const maxLineage = 64

// Store wraps a SQLite database holding the page tree, the records of
// registered types and the images attached to pages. It implements
// sitemap.ContentStore.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ sitemap.ContentStore = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets sitemap reads proceed while the admin writes; writers wait
	// on busy instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    parent_id INTEGER NOT NULL DEFAULT 0,
    class TEXT NOT NULL DEFAULT 'Page',
    title TEXT NOT NULL DEFAULT '',
    link TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT '',
    show_in_search INTEGER NOT NULL DEFAULT 1,
    viewable INTEGER NOT NULL DEFAULT 1,
    published INTEGER NOT NULL DEFAULT 1,
    error_page INTEGER NOT NULL DEFAULT 0,
    redirector INTEGER NOT NULL DEFAULT 0,
    sort INTEGER NOT NULL DEFAULT 0,
    created TEXT NOT NULL DEFAULT '',
    last_edited TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_pages_parent ON pages(parent_id);
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL COLLATE NOCASE,
    link TEXT NOT NULL DEFAULT '',
    viewable INTEGER NOT NULL DEFAULT 1,
    priority TEXT NOT NULL DEFAULT '',
    created TEXT NOT NULL DEFAULT '',
    last_edited TEXT NOT NULL DEFAULT '',
    version INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_records_type ON records(type, last_edited);
CREATE TABLE IF NOT EXISTS page_images (
    page_id INTEGER NOT NULL,
    url TEXT NOT NULL,
    added TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (page_id, url)
);
`)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(timeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// where returns the filter and arguments selecting the live items of q.
func where(q sitemap.Query) (table, clause, order string, args []any, err error) {
	switch q.Source.Kind {
	case sitemap.KindPageTree:
		clause = "published = 1"
		if q.ShowInSearchOnly {
			clause += " AND show_in_search = 1"
		}
		if q.ExcludeRedirectors {
			clause += " AND redirector = 0"
		}
		return "pages", clause, "sort, id", nil, nil
	case sitemap.KindRecord:
		return "records", "type = ?", "last_edited, id", []any{q.Source.Type}, nil
	}
	return "", "", "", nil, fmt.Errorf("sitemaps: store holds no %s items", q.Source.Kind)
}

// Count returns the number of live items of the queried source.
func (s *Store) Count(ctx context.Context, q sitemap.Query) (int, error) {
	table, clause, _, args, err := where(q)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE `+clause, args...).Scan(&n)
	return n, err
}

// List returns one slice of the live items of the queried source.
func (s *Store) List(ctx context.Context, q sitemap.Query, offset, limit int) ([]sitemap.Item, error) {
	table, clause, order, args, err := where(q)
	if err != nil {
		return nil, err
	}
	args = append(args, limit, offset)
	if table == "pages" {
		pages, err := s.queryPages(ctx, `WHERE `+clause+` ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
		if err != nil {
			return nil, err
		}
		items := make([]sitemap.Item, len(pages))
		for i, p := range pages {
			items[i] = p.item()
		}
		return items, nil
	}
	records, err := s.queryRecords(ctx, `WHERE `+clause+` ORDER BY `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	items := make([]sitemap.Item, len(records))
	for i, r := range records {
		items[i] = r.item()
	}
	return items, nil
}

// MaxLastEdited returns the latest edit time within one slice of the
// queried source, or the zero time for an empty slice.
func (s *Store) MaxLastEdited(ctx context.Context, q sitemap.Query, offset, limit int) (time.Time, error) {
	table, clause, order, args, err := where(q)
	if err != nil {
		return time.Time{}, err
	}
	args = append(args, limit, offset)
	var max sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT MAX(last_edited) FROM (SELECT last_edited FROM `+table+` WHERE `+clause+` ORDER BY `+order+` LIMIT ? OFFSET ?)`,
		args...).Scan(&max)
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(max.String), nil
}

// Lineage walks up the page tree from parentID.
func (s *Store) Lineage(ctx context.Context, parentID int64) (int, bool, error) {
	depth := 0
	seen := map[int64]bool{}
	for id := parentID; id != 0; depth++ {
		if seen[id] || depth > maxLineage {
			return depth, false, nil
		}
		seen[id] = true
		var parent int64
		var published int
		err := s.db.QueryRowContext(ctx, `SELECT parent_id, published FROM pages WHERE id = ?`, id).Scan(&parent, &published)
		if errors.Is(err, sql.ErrNoRows) {
			return depth, false, nil
		}
		if err != nil {
			return depth, false, err
		}
		if published != 1 {
			return depth, false, nil
		}
		id = parent
	}
	return depth, true, nil
}

const pageColumns = `id, parent_id, class, title, link, priority, show_in_search, viewable, published, error_page, redirector, sort, created, last_edited, version`

func (s *Store) queryPages(ctx context.Context, tail string, args ...any) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		var showInSearch, viewable, published, errorPage, redirector int
		var created, edited string
		if err := rows.Scan(&p.ID, &p.ParentID, &p.Class, &p.Title, &p.Link, &p.Priority,
			&showInSearch, &viewable, &published, &errorPage, &redirector, &p.Sort,
			&created, &edited, &p.Version); err != nil {
			return nil, err
		}
		p.ShowInSearch = showInSearch == 1
		p.Viewable = viewable == 1
		p.Published = published == 1
		p.ErrorPage = errorPage == 1
		p.Redirector = redirector == 1
		p.Created = parseTime(created)
		p.LastEdited = parseTime(edited)
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if err := s.attachImages(ctx, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (s *Store) attachImages(ctx context.Context, pages []Page) error {
	if len(pages) == 0 {
		return nil
	}
	index := make(map[int64]int, len(pages))
	placeholders := make([]string, len(pages))
	args := make([]any, len(pages))
	for i, p := range pages {
		index[p.ID] = i
		placeholders[i] = "?"
		args[i] = p.ID
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, url FROM page_images WHERE page_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY added, url`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var u string
		if err := rows.Scan(&id, &u); err != nil {
			return err
		}
		i := index[id]
		pages[i].Images = append(pages[i].Images, u)
	}
	return rows.Err()
}

func (s *Store) queryRecords(ctx context.Context, tail string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, link, viewable, priority, created, last_edited, version FROM records `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var viewable int
		var created, edited string
		if err := rows.Scan(&r.ID, &r.Type, &r.Link, &viewable, &r.Priority, &created, &edited, &r.Version); err != nil {
			return nil, err
		}
		r.Viewable = viewable == 1
		r.Created = parseTime(created)
		r.LastEdited = parseTime(edited)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p Page) item() sitemap.Item {
	return sitemap.Item{
		Kind:       sitemap.KindPageTree,
		ID:         p.ID,
		ParentID:   p.ParentID,
		Type:       p.Class,
		Link:       p.Link,
		Viewable:   p.Viewable,
		Priority:   p.Priority,
		Created:    p.Created,
		LastEdited: p.LastEdited,
		Version:    p.Version,
		ErrorPage:  p.ErrorPage,
		Redirector: p.Redirector,
		Images:     p.Images,
	}
}

func (r Record) item() sitemap.Item {
	return sitemap.Item{
		Kind:       sitemap.KindRecord,
		ID:         r.ID,
		Type:       r.Type,
		Link:       r.Link,
		Viewable:   r.Viewable,
		Priority:   r.Priority,
		Created:    r.Created,
		LastEdited: r.LastEdited,
		Version:    r.Version,
	}
}

// SavePage inserts p, or replaces the stored page with the same ID, and
// returns its ID. Missing timestamps are set to now.
func (s *Store) SavePage(ctx context.Context, p Page) (int64, error) {
	now := s.now()
	if p.Created.IsZero() {
		p.Created = now
	}
	if p.LastEdited.IsZero() {
		p.LastEdited = now
	}
	if p.Version < 1 {
		p.Version = 1
	}
	if p.Class == "" {
		p.Class = "Page"
	}
	args := []any{p.ParentID, p.Class, p.Title, p.Link, strings.TrimSpace(p.Priority),
		boolInt(p.ShowInSearch), boolInt(p.Viewable), boolInt(p.Published),
		boolInt(p.ErrorPage), boolInt(p.Redirector), p.Sort,
		formatTime(p.Created), formatTime(p.LastEdited), p.Version}
	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO pages (parent_id, class, title, link, priority, show_in_search, viewable, published, error_page, redirector, sort, created, last_edited, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO pages (id, parent_id, class, title, link, priority, show_in_search, viewable, published, error_page, redirector, sort, created, last_edited, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, class = excluded.class, title = excluded.title,
    link = excluded.link, priority = excluded.priority, show_in_search = excluded.show_in_search,
    viewable = excluded.viewable, published = excluded.published, error_page = excluded.error_page,
    redirector = excluded.redirector, sort = excluded.sort, created = excluded.created,
    last_edited = excluded.last_edited, version = excluded.version`, append([]any{p.ID}, args...)...)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// SaveRecord inserts r, or replaces the stored record with the same ID,
// and returns its ID.
func (s *Store) SaveRecord(ctx context.Context, r Record) (int64, error) {
	now := s.now()
	if r.Created.IsZero() {
		r.Created = now
	}
	if r.LastEdited.IsZero() {
		r.LastEdited = now
	}
	if r.Version < 1 {
		r.Version = 1
	}
	args := []any{strings.TrimSpace(r.Type), r.Link, boolInt(r.Viewable), strings.TrimSpace(r.Priority),
		formatTime(r.Created), formatTime(r.LastEdited), r.Version}
	if r.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO records (type, link, viewable, priority, created, last_edited, version) VALUES (?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO records (id, type, link, viewable, priority, created, last_edited, version) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		append([]any{r.ID}, args...)...)
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

// touch applies set to page id, bumping its version and edit time.
func (s *Store) touch(ctx context.Context, id int64, set string, args ...any) error {
	args = append(args, formatTime(s.now()), id)
	res, err := s.db.ExecContext(ctx, `UPDATE pages SET `+set+`, last_edited = ?, version = version + 1 WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPagePriority stores the manual priority of a page. A blank value
// restores the automatic priority.
func (s *Store) SetPagePriority(ctx context.Context, id int64, priority string) error {
	return s.touch(ctx, id, "priority = ?", strings.TrimSpace(priority))
}

// SetPublished publishes or unpublishes a page.
func (s *Store) SetPublished(ctx context.Context, id int64, published bool) error {
	return s.touch(ctx, id, "published = ?", boolInt(published))
}

// AddImage attaches an image URL to a page.
func (s *Store) AddImage(ctx context.Context, pageID int64, url string) error {
	if _, err := s.GetPage(ctx, pageID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO page_images (page_id, url, added) VALUES (?, ?, ?)`,
		pageID, url, formatTime(s.now()))
	return err
}

// ListPages returns every page, published or not, in tree order.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	return s.queryPages(ctx, `ORDER BY sort, id`)
}

// GetPage returns a page by ID regardless of its published state.
func (s *Store) GetPage(ctx context.Context, id int64) (Page, error) {
	pages, err := s.queryPages(ctx, `WHERE id = ?`, id)
	if err != nil {
		return Page{}, err
	}
	if len(pages) == 0 {
		return Page{}, ErrNotFound
	}
	return pages[0], nil
}

// DeletePage removes a page and its images. Children are left in place
// and drop out of the sitemap as orphans.
func (s *Store) DeletePage(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM page_images WHERE page_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}
