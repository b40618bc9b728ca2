package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Print the sitemap index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.Assembler.BuildIndex(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tPAGE\tLASTMOD")
		for _, e := range entries {
			lastmod := "-"
			if !e.LastModified.IsZero() {
				lastmod = e.LastModified.Format("2006-01-02")
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", e.SourceID, e.Page, lastmod)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
