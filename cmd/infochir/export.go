// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [collection...]",
	Short: "Export synced collections to YAML or JSON",
	Long: `Export writes the stored rows of each named collection (all four when
none are given) to data/export/{collection}.yaml or .json.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	cols, err := collectionsFromArgs(args)
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

	for _, c := range cols {
		var path string
		if format == "json" {
			path, err = store.ExportJSON(cmd.Context(), c)
		} else {
			path, err = store.ExportYAML(cmd.Context(), c)
		}
		if err != nil {
			return fmt.Errorf("exporting %s: %w", c, err)
		}
		fmt.Printf("Exported %s to %s\n", c, path)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}
