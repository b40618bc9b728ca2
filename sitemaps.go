// Package sitemaps serves paginated XML sitemaps for a site whose page tree
// and records live in SQLite. It is built with Go, Echo, and templ.
//
// The sitemap engine itself lives in the sitemap package; this package
// adds the HTTP surface, the content store, an admin screen for manual
// priorities and publish state, robots.txt and search engine pings.
package sitemaps

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/sitemaps/sitemap"
	"github.com/eringen/sitemaps/views"
)

// ViewFuncs holds the templ components used for HTML pages. Nil fields
// fall back to the components of the views package.
type ViewFuncs struct {
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(pages []views.PageRow, options []sitemap.PriorityOption, message, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// DefaultViews returns the built-in components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v ViewFuncs) withDefaults() ViewFuncs {
	d := DefaultViews()
	if v.AdminLogin == nil {
		v.AdminLogin = d.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
	return v
}

// App wires together the store, the sitemap engine, handlers, middleware,
// and templates.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Store     *Store
	Registry  *sitemap.Registry
	Assembler *sitemap.Assembler
	Pinger    *Pinger
	Log       *logrus.Logger
	Views     ViewFuncs

	loginLimiter   *LoginLimiter
	indexGroup     singleflight.Group
	subsites       map[string]string
	customRoutes   []func(*App)
	staticDir      string
	inclusionHooks []sitemap.InclusionHook
	indexHooks     []sitemap.IndexHook
	itemsHooks     []sitemap.ItemsHook
}

// New creates an App with the given configuration and view functions.
// Record types and routes listed in the config are registered before the
// options run.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Registry:  sitemap.NewRegistry(),
		Log:       NewLogger(cfg.LogLevel),
		Views:     v.withDefaults(),
		staticDir: "public",
		subsites:  make(map[string]string),
	}
	a.Echo.HideBanner = true

	for _, r := range cfg.Sitemap.Records {
		a.Registry.RegisterRecordType(r.Name, r.ChangeFrequency, r.Priority)
	}
	for _, r := range cfg.Sitemap.Routes {
		a.Registry.RegisterRoute(r.Name, r.ChangeFrequency, r.Priority)
	}
	for _, s := range cfg.Sitemap.Subsites {
		if host := hostOf(s); host != "" {
			a.subsites[host] = strings.TrimRight(s, "/")
		}
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// NewLogger returns a text logger at the given level, falling back to
// info for unknown levels.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("Invalid log level '%s', using default 'info'", level)
	}
	return log
}

func (a *App) logger(component string) *logrus.Entry {
	return a.Log.WithField("component", component)
}

// Open opens the content store and builds the sitemap engine. It is
// enough for offline use such as printing the index from the command line.
func (a *App) Open() error {
	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("sitemaps: init store: %w", err)
		}
		a.Store = store
	}
	sm := a.Config.Sitemap
	a.Assembler = sitemap.NewAssembler(a.Store, a.Registry, sitemap.Config{
		BaseURL:            strings.TrimRight(a.Config.URL, "/"),
		PageSize:           sm.ObjectsPerSitemap,
		PageTree:           *sm.PageTree,
		ShowInSearchOnly:   sm.UseShowInSearch,
		ExcludeRedirectors: *sm.ExcludeRedirectorPages,
		InclusionHooks:     a.inclusionHooks,
		IndexHooks:         a.indexHooks,
		ItemsHooks:         a.itemsHooks,
	})
	a.Pinger = NewPinger(sm.Ping, a.SitemapURL(context.Background()), a.logger("ping"))
	return nil
}

// Setup prepares the App for serving: it opens the store and installs
// middleware and routes. Start calls it; tests call it directly and
// drive a.Echo.
func (a *App) Setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("sitemaps: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("sitemaps: SessionSecret is required")
	}
	if err := a.Open(); err != nil {
		return err
	}
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets up the App and runs the server until it is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.logger("server").WithField("addr", a.Config.Addr).Info("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemapIndex)
	e.GET("/sitemap.xml/sitemap/:source/:page", a.handleSitemapPage)
	xsl, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/sitemap.xml/styleSheetIndex", a.handleStyleSheet(xsl, "xml-sitemapindex.xsl"))
	e.GET("/sitemap.xml/styleSheet", a.handleStyleSheet(xsl, "xml-sitemap.xsl"))

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/page/:id/priority/", a.handleAdminPriority)
	e.POST("/admin/page/:id/publish/", a.handleAdminPublish(true))
	e.POST("/admin/page/:id/unpublish/", a.handleAdminPublish(false))
	e.POST("/admin/page/:id/images/", a.handleImageUpload)
	e.DELETE("/admin/page/:id/", a.handleAdminDelete)
}

// BaseURL returns the canonical site URL for ctx, taking subsites into
// account.
func (a *App) BaseURL(ctx context.Context) string {
	if a.Assembler == nil {
		return strings.TrimRight(a.Config.URL, "/")
	}
	return a.Assembler.Evaluator().BaseURL(ctx)
}

// SitemapURL returns the absolute URL of the sitemap index.
func (a *App) SitemapURL(ctx context.Context) string {
	return trimSlash(BuildURL(a.BaseURL(ctx), "sitemap.xml"))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logrus.Fatalf("sitemaps: required environment variable %s is not set", key)
	}
	return v
}
