package sitemaps

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/eringen/sitemaps/sitemap"
)

// SiteConfig holds all configuration for a sitemap server.
type SiteConfig struct {
	Name string `yaml:"name"` // Site name (default "Site")
	URL  string `yaml:"url"`  // Canonical URL (default "http://localhost:3000")

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/content.db")
	LogLevel     string `yaml:"log_level"`     // logrus level (default "info")

	AdminPassword string `yaml:"admin_password"` // Required: admin login password
	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	Sitemap SitemapConfig `yaml:"sitemap"`
}

// SitemapConfig holds the sitemap options.
type SitemapConfig struct {
	Enabled                *bool                `yaml:"enabled"`                  // default true
	ObjectsPerSitemap      int                  `yaml:"objects_per_sitemap"`      // default 1000
	UseShowInSearch        bool                 `yaml:"use_show_in_search"`       // honor pages' ShowInSearch flag
	ExcludeRedirectorPages *bool                `yaml:"exclude_redirector_pages"` // default true
	PageTree               *bool                `yaml:"page_tree"`                // default true
	Records                []SourceRegistration `yaml:"records"`
	Routes                 []SourceRegistration `yaml:"routes"`
	Subsites               []string             `yaml:"subsites"` // extra hosts served with their own canonical URL
	Ping                   PingConfig           `yaml:"ping"`
}

// SourceRegistration registers a record type or a route from config.
type SourceRegistration struct {
	Name            string `yaml:"name"`
	ChangeFrequency string `yaml:"change_frequency"`
	Priority        string `yaml:"priority"`
}

// PingConfig controls search engine notifications.
type PingConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoints   []string      `yaml:"endpoints"`
	MinInterval time.Duration `yaml:"min_interval"` // default 1m
	Timeout     time.Duration `yaml:"timeout"`      // default 10s
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Site"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	s := &c.Sitemap
	if s.Enabled == nil {
		s.Enabled = boolPtr(true)
	}
	if s.ObjectsPerSitemap <= 0 {
		s.ObjectsPerSitemap = sitemap.DefaultPageSize
	}
	if s.ExcludeRedirectorPages == nil {
		s.ExcludeRedirectorPages = boolPtr(true)
	}
	if s.PageTree == nil {
		s.PageTree = boolPtr(true)
	}
	if s.Ping.MinInterval == 0 {
		s.Ping.MinInterval = time.Minute
	}
	if s.Ping.Timeout == 0 {
		s.Ping.Timeout = 10 * time.Second
	}
}

// SitemapEnabled reports whether the sitemap endpoints are served.
func (c SiteConfig) SitemapEnabled() bool {
	return c.Sitemap.Enabled == nil || *c.Sitemap.Enabled
}

func boolPtr(b bool) *bool { return &b }

// LoadConfig reads a YAML config file. Missing fields keep their zero
// values; defaults are applied by New.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sitemaps: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sitemaps: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithRegistry lets code register record types and routes in addition to
// those listed in the config.
func WithRegistry(fn func(*sitemap.Registry)) Option {
	return func(a *App) {
		fn(a.Registry)
	}
}

// WithInclusionHook adds a hook that may veto items from leaf sitemaps.
func WithInclusionHook(h sitemap.InclusionHook) Option {
	return func(a *App) {
		a.inclusionHooks = append(a.inclusionHooks, h)
	}
}

// WithIndexHook adds a hook run on the finished sitemap index.
func WithIndexHook(h sitemap.IndexHook) Option {
	return func(a *App) {
		a.indexHooks = append(a.indexHooks, h)
	}
}

// WithItemsHook adds a hook run on every finished leaf sitemap.
func WithItemsHook(h sitemap.ItemsHook) Option {
	return func(a *App) {
		a.itemsHooks = append(a.itemsHooks, h)
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}
