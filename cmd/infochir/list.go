// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/infochir/catalog/internal/listing"
	"github.com/infochir/catalog/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <collection>",
	Short: "Filter, sort, and group a collection from the local catalog",
	Long: `List reads a synced collection from the local catalog, applies the text,
date-range, and category filters, sorts by the chosen key, and prints the
result flat or grouped by year. Locally tracked downloads and shares are
added to the backend counters.

Use --save to record the criteria and a summary as a YAML view file, and
--load to replay a saved view.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := types.ParseCollection(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	criteria, key, err := listCriteria(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Rows(cmd.Context(), c)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Warn("collection is empty; run sync first", zap.String("collection", string(c)))
	}

	if noStats, _ := cmd.Flags().GetBool("no-stats"); !noStats {
		counters, err := openStats(cfg)
		if err != nil {
			return err
		}
		rows, err = counters.Overlay(rows)
		counters.Close()
		if err != nil {
			return err
		}
	}

	res := listing.Records(listing.WithLogger(logger)).Run(listing.Normalize(c, rows), criteria, key)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := listing.WriteViewFile(savePath, c, criteria, key, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "View saved to %s\n", savePath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	cslOutput, _ := cmd.Flags().GetBool("csl")
	view, _ := cmd.Flags().GetString("view")

	switch {
	case cslOutput:
		return listing.FormatCSL(res.Sorted, os.Stdout)
	case jsonOutput:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		renderListing(os.Stdout, res, view == "years")
		return nil
	}
}

// listCriteria builds the filter criteria and sort key from flags, or from
// a saved view file when --load is given.
func listCriteria(cmd *cobra.Command, cfg types.Config) (types.FilterCriteria, types.SortKey, error) {
	if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
		vf, err := listing.ReadViewFile(loadPath)
		if err != nil {
			return types.FilterCriteria{}, "", err
		}
		criteria, err := vf.Criteria.ToCriteria()
		if err != nil {
			return types.FilterCriteria{}, "", err
		}
		return criteria, types.ParseSortKey(string(vf.Sort)), nil
	}

	query, _ := cmd.Flags().GetString("query")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	categories, _ := cmd.Flags().GetStringArray("category")
	sortFlag, _ := cmd.Flags().GetString("sort")

	dr, err := listing.ParseDateRange(from, to)
	if err != nil {
		return types.FilterCriteria{}, "", err
	}

	key := cfg.Listing.DefaultSort
	if sortFlag != "" {
		key = types.ParseSortKey(sortFlag)
	}

	return types.FilterCriteria{
		SearchTerm: query,
		DateRange:  dr,
		Categories: categories,
	}, key, nil
}

// addListFlags registers the listing flags on cmd.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "search term matched against titles, abstracts, authors, and tags")
	cmd.Flags().String("sort", "", "sort key: latest, year, downloads, or shares (default from config)")
	cmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	cmd.Flags().StringArray("category", nil, "required category, taken verbatim (repeatable; all must match)")
	cmd.Flags().String("view", "flat", "output layout: flat or years")
	cmd.Flags().Bool("json", false, "output the listing as JSON")
	cmd.Flags().Bool("csl", false, "output sorted records as CSL-YAML")
	cmd.Flags().String("save", "", "write criteria and summary to a YAML view file")
	cmd.Flags().String("load", "", "read criteria and sort key from a YAML view file")
	cmd.Flags().Bool("no-stats", false, "ignore locally tracked downloads and shares")
}

func init() {
	addListFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
