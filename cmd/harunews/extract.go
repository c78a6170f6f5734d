package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/baba2413/HaruNews/internal/app"
)

func newExtractCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <url>",
		Short: "Fetch one article and print its body as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.NewExtractor(o.cfg)
			if err != nil {
				return err
			}
			timeout := o.cfg.ExtractTimeout
			if timeout <= 0 {
				timeout = app.DefaultExtractTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res := e.Extract(ctx, args[0])
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Success {
				return res.Err
			}
			return nil
		},
	}
}
