package sitemaps

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sitemaps/sitemap"
)

func (a *App) handleSitemapIndex(c echo.Context) error {
	if !a.Config.SitemapEnabled() {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	base := a.BaseURL(ctx)
	// Concurrent requests for the same host share one build. Nothing is
	// kept once the build returns.
	v, err, _ := a.indexGroup.Do(base, func() (any, error) {
		entries, err := a.Assembler.BuildIndex(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return encodeIndex(base, entries)
	})
	if err != nil {
		return err
	}
	return writeXML(c, v.([]byte))
}

func (a *App) handleSitemapPage(c echo.Context) error {
	if !a.Config.SitemapEnabled() {
		return echo.ErrNotFound
	}
	page := parsePage(c.Param("page"))
	if page == 0 {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()
	id := c.Param("source")
	pages, err := a.Assembler.PageCount(ctx, id)
	if errors.Is(err, sitemap.ErrUnknownSource) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	if page > pages {
		return echo.ErrNotFound
	}
	entries, err := a.Assembler.BuildItems(ctx, id, page)
	if err != nil {
		if errors.Is(err, sitemap.ErrUnknownSource) || errors.Is(err, sitemap.ErrInvalidPage) {
			return echo.ErrNotFound
		}
		return err
	}
	body, err := encodeURLSet(a.BaseURL(ctx), entries)
	if err != nil {
		return err
	}
	return writeXML(c, body)
}

func (a *App) handleStyleSheet(fsys fs.FS, name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.Config.SitemapEnabled() {
			return echo.ErrNotFound
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		return writeXSL(c, data)
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger("http").WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
