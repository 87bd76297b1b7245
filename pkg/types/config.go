// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "infochir-catalog/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on rate-limited or unavailable responses
	// (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// BackendConfig holds settings for the hosted database platform that owns
// the articles table.
type BackendConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the project base URL (e.g. "https://xyz.supabase.co").
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// APIKey is the anon or service key sent as apikey and bearer token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Table is the REST table name holding article rows (default "articles").
	Table string `json:"table" yaml:"table" mapstructure:"table"`

	// PageSize is the number of rows requested per page (default 100).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// CatalogConfig holds settings for the local SQLite catalog.
type CatalogConfig struct {
	// DataDir is the base directory for catalog.db, stats.db, and export/.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// StatsConfig holds settings for the download/share counter store.
type StatsConfig struct {
	// Path is the bbolt file path (default DataDir/stats.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// NewsletterConfig holds settings for newsletter subscriptions.
type NewsletterConfig struct {
	// NotifyEmail is the administrator address told about new subscriptions.
	NotifyEmail string `json:"notify_email" yaml:"notify_email" mapstructure:"notify_email"`
}

// ServerConfig holds settings for the JSON HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// MaxConns caps concurrent connections; zero means unlimited.
	MaxConns int `json:"max_conns" yaml:"max_conns" mapstructure:"max_conns"`
}

// ListingConfig holds defaults for the listing pipeline.
type ListingConfig struct {
	// DefaultSort is used when a request names no sort key (default latest).
	DefaultSort SortKey `json:"default_sort" yaml:"default_sort" mapstructure:"default_sort"`
}

// Config groups all stage configurations.
type Config struct {
	Backend    BackendConfig    `json:"backend" yaml:"backend" mapstructure:"backend"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Stats      StatsConfig      `json:"stats" yaml:"stats" mapstructure:"stats"`
	Newsletter NewsletterConfig `json:"newsletter" yaml:"newsletter" mapstructure:"newsletter"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Listing    ListingConfig    `json:"listing" yaml:"listing" mapstructure:"listing"`
}
