// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infochir/catalog/internal/source"
)

var syncCmd = &cobra.Command{
	Use:   "sync [collection...]",
	Short: "Mirror backend article rows into the local catalog",
	Long: `Sync fetches the article rows of each named collection (all four when
none are given) from the hosted backend and replaces the local copy.
Collections whose rows did not change since the last sync are skipped.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cols, err := collectionsFromArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := source.NewClient(cfg.Backend, logger)
	if err != nil {
		return err
	}
	store, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	fetched, err := source.FetchAll(ctx, client, cols)
	if err != nil {
		return err
	}

	var synced, skipped int
	for _, c := range cols {
		res, err := store.Sync(ctx, c, fetched[c], os.Stdout)
		if err != nil {
			return fmt.Errorf("syncing %s: %w", c, err)
		}
		if res.Skipped {
			skipped++
		} else {
			synced++
		}
	}
	fmt.Printf("\n%d synced, %d unchanged\n", synced, skipped)
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
