// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infochir/catalog/internal/stats"
)

var trackCmd = &cobra.Command{
	Use:   "track <article-id> <download|share>",
	Short: "Record a download or share of an article",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := stats.ParseKind(args[1])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Get(cmd.Context(), args[0]); err != nil {
			return err
		}

		counters, err := openStats(cfg)
		if err != nil {
			return err
		}
		defer counters.Close()

		n, err := counters.Track(args[0], kind)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %d tracked locally\n", args[0], kind, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}
