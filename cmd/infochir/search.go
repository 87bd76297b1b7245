// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/infochir/catalog/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search across every synced collection",
	Long: `Search matches titles and abstracts in the local catalog using SQLite
full-text search. Every word of the query must appear; results are ranked
by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	hits, err := store.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(hits, jsonOutput)
}

func formatSearchOutput(hits []catalog.Hit, jsonOutput bool) error {
	if jsonOutput {
		if hits == nil {
			hits = []catalog.Hit{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-14s  %-10s  %-60s  %s\n",
		"Rank", "Collection", "Date", "Title", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, h := range hits {
		date := h.PublicationDate
		if len(date) > 10 {
			date = date[:10]
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-14s  %-10s  %-60s  %s\n",
			i+1, h.Collection, date, truncate(h.Title, 60), h.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use catalog.max_results)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
