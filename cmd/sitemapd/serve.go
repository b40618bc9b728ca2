package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/sitemaps"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if dir, _ := cmd.Flags().GetString("static"); dir != "" {
			return serve(cfg, sitemaps.WithStaticDir(dir))
		}
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().String("static", "", "Directory with static assets and robots.txt (default \"public\")")
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg sitemaps.SiteConfig, opts ...sitemaps.Option) error {
	app := sitemaps.New(cfg, sitemaps.ViewFuncs{}, opts...)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	app.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}
