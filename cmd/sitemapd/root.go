package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/sitemaps"
)

var rootCmd = &cobra.Command{
	Use:   "sitemapd",
	Short: "Paginated XML sitemaps for a SQLite-backed site",
	Long: `sitemapd serves a sitemap index at /sitemap.xml and one paginated
sitemap per source: the page tree, every registered record type and the
static route table.

Configuration is read from a YAML file (--config) and the environment.
A .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "sitemaps.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file named by --config, if it exists, and
// applies environment overrides on top.
func loadConfig(cmd *cobra.Command) (sitemaps.SiteConfig, error) {
	_ = godotenv.Load()

	path, _ := cmd.Flags().GetString("config")
	var cfg sitemaps.SiteConfig
	if _, err := os.Stat(path); err == nil {
		cfg, err = sitemaps.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
		return cfg, err
	}

	cfg.URL = sitemaps.EnvOr("SITE_URL", cfg.URL)
	cfg.Addr = sitemaps.EnvOr("ADDR", cfg.Addr)
	cfg.DatabasePath = sitemaps.EnvOr("DATABASE_PATH", cfg.DatabasePath)
	cfg.AdminPassword = sitemaps.EnvOr("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = sitemaps.EnvOr("ADMIN_SESSION_SECRET", cfg.SessionSecret)
	cfg.LogLevel = sitemaps.EnvOr("LOG_LEVEL", cfg.LogLevel)
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// openApp builds an App with an open store, for commands that do not
// serve HTTP.
func openApp(cmd *cobra.Command) (*sitemaps.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	app := sitemaps.New(cfg, sitemaps.ViewFuncs{})
	if err := app.Open(); err != nil {
		return nil, err
	}
	return app, nil
}
