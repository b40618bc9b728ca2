package sitemaps

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/temoto/robotstxt"
)

const defaultRobots = "User-agent: *\nDisallow: /admin/\n"

// robotsBody returns the site's robots.txt with a Sitemap directive for
// sitemapURL added unless one is already present. An empty sitemapURL
// leaves the file as is.
func robotsBody(src []byte, sitemapURL string) ([]byte, error) {
	if len(src) == 0 {
		src = []byte(defaultRobots)
	}
	data, err := robotstxt.FromBytes(src)
	if err != nil {
		return nil, err
	}
	if sitemapURL == "" {
		return src, nil
	}
	for _, s := range data.Sitemaps {
		if strings.EqualFold(strings.TrimSpace(s), sitemapURL) {
			return src, nil
		}
	}
	out := make([]byte, 0, len(src)+len(sitemapURL)+12)
	out = append(out, src...)
	if out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, "\nSitemap: "+sitemapURL+"\n"...)
	return out, nil
}

func (a *App) handleRobots(c echo.Context) error {
	src, err := os.ReadFile(filepath.Join(a.staticDir, "robots.txt"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	sitemapURL := ""
	if a.Config.SitemapEnabled() {
		sitemapURL = a.SitemapURL(c.Request().Context())
	}
	body, err := robotsBody(src, sitemapURL)
	if err != nil {
		a.logger("robots").WithError(err).Warn("invalid robots.txt, serving default")
		body, _ = robotsBody(nil, sitemapURL)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, body)
}
