package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/sitemaps"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load pages and records from a YAML content file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := sitemaps.ImportContentFile(cmd.Context(), app.Store, args[0])
		if err != nil {
			return err
		}
		app.Log.WithField("component", "import").
			Infof("imported %d pages, %d records, %d images", res.Pages, res.Records, res.Images)
		if ping, _ := cmd.Flags().GetBool("ping"); ping && !app.Pinger.Ping(cmd.Context()) {
			return fmt.Errorf("ping failed")
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("ping", false, "Notify search engines after importing")
	rootCmd.AddCommand(importCmd)
}
