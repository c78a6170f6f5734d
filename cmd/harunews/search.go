package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/baba2413/HaruNews/internal/app"
	"github.com/baba2413/HaruNews/internal/search"
)

func newSearchCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <category>",
		Short: "List one news category as mapped articles",
		Long:  "Categories: all, politics, economy, society, sports, entertainment, tech.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.cfg.Validate(); err != nil {
				return err
			}
			if limit <= 0 {
				limit = o.cfg.Display
			}
			items, _, err := search.ByCategory(cmd.Context(), app.NewProvider(o.cfg), args[0], limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of articles (default search.display)")
	return cmd
}
