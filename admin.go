package sitemaps

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sitemaps/sitemap"
	"github.com/eringen/sitemaps/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.logger("admin").WithField("ip", ip).Warn("failed login")
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// pageID reads the :id parameter, answering 404 for malformed ids.
func pageID(c echo.Context) (int64, error) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// storeError maps ErrNotFound from the store to a 404.
func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func (a *App) handleAdminPriority(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pageID(c)
	if err != nil {
		return err
	}
	priority := strings.TrimSpace(c.FormValue("priority"))
	if !sitemap.IsPriorityOption(priority) {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+priority.")
	}
	if err := a.Store.SetPagePriority(c.Request().Context(), id, priority); err != nil {
		return storeError(err)
	}
	a.logger("admin").WithField("page", id).WithField("priority", priority).Info("priority changed")
	a.Pinger.Notify()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminPublish(published bool) echo.HandlerFunc {
	msg := "unpublished"
	if published {
		msg = "published"
	}
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		id, err := pageID(c)
		if err != nil {
			return err
		}
		if err := a.Store.SetPublished(c.Request().Context(), id, published); err != nil {
			return storeError(err)
		}
		a.logger("admin").WithField("page", id).Info(msg)
		a.Pinger.Notify()
		return a.renderAdminDashboard(c, msg)
	}
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := pageID(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePage(c.Request().Context(), id); err != nil {
		return storeError(err)
	}
	a.Pinger.Notify()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	rows, err := a.pageRows(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(rows, sitemap.PriorityOptions(), msg, CsrfToken(c)))
}

// pageRows lists every page with the priority and inclusion the sitemap
// would give it right now.
func (a *App) pageRows(c echo.Context) ([]views.PageRow, error) {
	ctx := c.Request().Context()
	pages, err := a.Store.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	eval := a.Assembler.Evaluator()
	rows := make([]views.PageRow, 0, len(pages))
	for _, p := range pages {
		row := views.PageRow{
			ID:        p.ID,
			Title:     p.Title,
			Link:      p.Link,
			Priority:  p.Priority,
			Published: p.Published,
			Images:    len(p.Images),
		}
		if p.Published {
			d, err := eval.Evaluate(ctx, p.item())
			if err != nil {
				return nil, err
			}
			row.InSitemap = d.Include
			if d.Include {
				row.Effective = d.Priority.String()
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
