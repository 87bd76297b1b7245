// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches article rows from the hosted database platform's
// REST interface. It owns no schema: rows are decoded into the tolerant
// types.ArticleRow shape and handed to the catalog and listing stages.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/infochir/catalog/internal/httputil"
	"github.com/infochir/catalog/pkg/types"
)

const (
	defaultTable     = "articles"
	defaultPageSize  = 100
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "infochir-catalog/0.1"

	// maxPages bounds pagination against a misbehaving backend.
	maxPages = 10000
)

// Fetcher returns every row of one collection.
type Fetcher interface {
	Fetch(ctx context.Context, c types.Collection) ([]types.ArticleRow, error)
}

// Client reads article rows over the platform's REST endpoint
// ({url}/rest/v1/{table}).
type Client struct {
	HTTP *http.Client
	cfg  types.BackendConfig
	log  *zap.Logger
}

// NewClient validates cfg, fills defaults, and returns a Client.
func NewClient(cfg types.BackendConfig, log *zap.Logger) (*Client, error) {
	cfg.URL = strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if cfg.URL == "" {
		return nil, fmt.Errorf("backend url is not configured: set backend.url or INFOCHIR_BACKEND_URL")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", cfg.URL, err)
	}
	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
		log:  log,
	}, nil
}

// Fetch returns all rows of collection c, newest publication first,
// paging with limit/offset until a short page is returned.
func (c *Client) Fetch(ctx context.Context, col types.Collection) ([]types.ArticleRow, error) {
	src := col.SourceValue()
	if src == "" {
		return nil, fmt.Errorf("unknown collection %q", col)
	}

	var all []types.ArticleRow
	for page := 0; page < maxPages; page++ {
		rows, err := c.fetchPage(ctx, src, page*c.cfg.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching %s page %d: %w", col, page, err)
		}
		all = append(all, rows...)
		c.log.Debug("fetched page",
			zap.String("collection", string(col)),
			zap.Int("page", page),
			zap.Int("rows", len(rows)))
		if len(rows) < c.cfg.PageSize {
			break
		}
	}
	c.log.Info("fetched collection", zap.String("collection", string(col)), zap.Int("rows", len(all)))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, src string, offset int) ([]types.ArticleRow, error) {
	params := url.Values{
		"select": {"*"},
		"source": {"eq." + src},
		"order":  {"publication_date.desc.nullslast"},
		"limit":  {strconv.Itoa(c.cfg.PageSize)},
		"offset": {strconv.Itoa(offset)},
	}
	reqURL := c.cfg.URL + "/rest/v1/" + url.PathEscape(c.cfg.Table) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIKey != "" {
		req.Header.Set("apikey", c.cfg.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.cfg.MaxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var rows []types.ArticleRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing backend response: %w", err)
	}
	return rows, nil
}

// apiError is the error body returned by the platform's REST layer.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Message != "" {
		if ae.Code != "" {
			return fmt.Errorf("backend returned HTTP %d (%s): %s", resp.StatusCode, ae.Code, ae.Message)
		}
		return fmt.Errorf("backend returned HTTP %d: %s", resp.StatusCode, ae.Message)
	}
	return fmt.Errorf("backend returned HTTP %d", resp.StatusCode)
}

// FetchAll fetches several collections concurrently. The first failure
// cancels the remaining fetches and is returned.
func FetchAll(ctx context.Context, f Fetcher, cols []types.Collection) (map[types.Collection][]types.ArticleRow, error) {
	results := make([][]types.ArticleRow, len(cols))
	g, gctx := errgroup.WithContext(ctx)
	for i, col := range cols {
		g.Go(func() error {
			rows, err := f.Fetch(gctx, col)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[types.Collection][]types.ArticleRow, len(cols))
	for i, col := range cols {
		out[col] = results[i]
	}
	return out, nil
}
