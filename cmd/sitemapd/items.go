package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items <source> <page>",
	Short: "Print the entries of one sitemap page",
	Example: `  sitemapd items PageTree 1
  sitemapd items shop-Product 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[1])
		}
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.Assembler.BuildItems(cmd.Context(), args[0], page)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LOC\tPRIORITY\tCHANGEFREQ\tLASTMOD\tIMAGES")
		for _, e := range entries {
			lastmod := "-"
			if !e.LastModified.IsZero() {
				lastmod = e.LastModified.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.Loc, e.Priority, e.ChangeFrequency, lastmod, len(e.Images))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}
