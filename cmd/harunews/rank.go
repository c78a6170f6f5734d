package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baba2413/HaruNews/internal/article"
	"github.com/baba2413/HaruNews/internal/rank"
)

func newRankCmd(o *options) *cobra.Command {
	var candidatesPath, historyPath string
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Order candidate articles by similarity to a reading history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(candidatesPath)
			if err != nil {
				return err
			}
			var candidates []article.Article
			if err := json.Unmarshal(b, &candidates); err != nil {
				return fmt.Errorf("parse candidates: %w", err)
			}
			var seen []string
			if historyPath != "" {
				if seen, err = readHistoryFile(historyPath); err != nil {
					return err
				}
			}
			tok, err := rank.NewTokenizer(o.cfg.RankLanguage)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tok.RankScored(candidates, seen))
		},
	}
	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "JSON array of articles")
	cmd.Flags().StringVar(&historyPath, "history", "", "Read headlines: JSON array or one per line")
	_ = cmd.MarkFlagRequired("candidates")
	return cmd
}

// readHistoryFile accepts a JSON string array or plain lines.
func readHistoryFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '[' {
		var out []string
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, fmt.Errorf("parse history: %w", err)
		}
		return out, nil
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
