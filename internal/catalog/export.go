// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/infochir/catalog/pkg/types"
)

// ExportYAML writes collection c to data/export/{collection}.yaml and
// returns the written path.
func (s *Store) ExportYAML(ctx context.Context, c types.Collection) (string, error) {
	rows, err := s.Rows(ctx, c)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(exportEntries(rows))
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(string(c)+".yaml", data)
}

// ExportJSON writes collection c to data/export/{collection}.json and
// returns the written path.
func (s *Store) ExportJSON(ctx context.Context, c types.Collection) (string, error) {
	rows, err := s.Rows(ctx, c)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	data, err := json.MarshalIndent(exportEntries(rows), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(string(c)+".json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	dir := filepath.Join(s.dataDir, exportDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// exportEntries guarantees an empty list rather than null for collections
// with no rows.
func exportEntries(rows []types.ArticleRow) []types.ArticleRow {
	if rows == nil {
		return []types.ArticleRow{}
	}
	return rows
}
