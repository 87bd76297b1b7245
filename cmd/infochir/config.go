// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/infochir/catalog/internal/catalog"
	"github.com/infochir/catalog/internal/secrets"
	"github.com/infochir/catalog/internal/stats"
	"github.com/infochir/catalog/pkg/types"
)

// setDefaults registers every config key so environment variables reach
// viper.Unmarshal even without a config file.
func setDefaults() {
	viper.SetDefault("backend.url", "")
	viper.SetDefault("backend.api_key", "")
	viper.SetDefault("backend.table", "articles")
	viper.SetDefault("backend.page_size", 100)
	viper.SetDefault("backend.timeout", 30*time.Second)
	viper.SetDefault("backend.user_agent", "infochir-catalog/"+version)
	viper.SetDefault("backend.max_retries", 5)
	viper.SetDefault("catalog.data_dir", "data")
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("stats.path", "")
	viper.SetDefault("newsletter.notify_email", "")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_conns", 0)
	viper.SetDefault("listing.default_sort", string(types.SortLatest))
}

// loadConfig reads the typed configuration from viper and fills values
// that derive from other settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Backend.APIKey = loadedSecrets.Resolve(secrets.BackendAPIKey, cfg.Backend.APIKey)
	if cfg.Stats.Path == "" {
		cfg.Stats.Path = filepath.Join(cfg.Catalog.DataDir, "stats.db")
	}
	cfg.Listing.DefaultSort = types.ParseSortKey(string(cfg.Listing.DefaultSort))
	return cfg, nil
}

func openCatalog(cfg types.Config) (*catalog.Store, error) {
	return catalog.NewStore(cfg.Catalog, logger)
}

func openStats(cfg types.Config) (*stats.Store, error) {
	return stats.Open(cfg.Stats.Path)
}

// collectionsFromArgs parses collection arguments, defaulting to all.
func collectionsFromArgs(args []string) ([]types.Collection, error) {
	if len(args) == 0 {
		return types.Collections, nil
	}
	out := make([]types.Collection, 0, len(args))
	for _, a := range args {
		c, err := types.ParseCollection(a)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
