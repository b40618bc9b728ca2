package sitemaps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRobotsBody(t *testing.T) {
	const sm = "https://example.com/sitemap.xml"
	tests := []struct {
		name      string
		src       string
		sitemap   string
		wantLines int
		want      string
	}{
		{"default file", "", sm, 1, defaultRobots},
		{"appends to custom rules", "User-agent: *\nDisallow: /private/", sm, 1, "Disallow: /private/\n"},
		{"keeps existing directive", "User-agent: *\nSitemap: https://example.com/sitemap.xml\n", sm, 1, "User-agent: *"},
		{"existing directive in other case", "User-agent: *\nSitemap: HTTPS://EXAMPLE.COM/sitemap.xml\n", sm, 0, "User-agent: *"},
		{"no sitemap url", "User-agent: *\n", "", 0, "User-agent: *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := robotsBody([]byte(tt.src), tt.sitemap)
			if err != nil {
				t.Fatalf("robotsBody: %v", err)
			}
			body := string(out)
			if n := strings.Count(body, "Sitemap: "+sm); n != tt.wantLines {
				t.Errorf("sitemap line appears %d times, want %d:\n%s", n, tt.wantLines, body)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q:\n%s", tt.want, body)
			}
		})
	}
}

func TestRobotsServesStaticFile(t *testing.T) {
	app := newTestApp(t, nil)
	if err := os.MkdirAll(app.staticDir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "User-agent: Googlebot\nDisallow: /drafts/\n"
	if err := os.WriteFile(filepath.Join(app.staticDir, "robots.txt"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := get(app, "/robots.txt")
	body := rec.Body.String()
	if !strings.HasPrefix(body, src) {
		t.Errorf("custom rules not served first:\n%s", body)
	}
	if !strings.HasSuffix(body, "Sitemap: http://example.com/sitemap.xml\n") {
		t.Errorf("sitemap line missing:\n%s", body)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", cc)
	}
}
