package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Notify the configured search engines of the sitemap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if !app.Pinger.Enabled() {
			return errors.New("pinging is disabled; set sitemap.ping.enabled and endpoints")
		}
		if !app.Pinger.Ping(cmd.Context()) {
			return fmt.Errorf("ping failed for %s", app.SitemapURL(cmd.Context()))
		}
		fmt.Println("pinged", app.SitemapURL(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
