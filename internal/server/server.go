// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes collection listings, article lookups, counter
// tracking, newsletter subscription, and manuscript submission as a small
// JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/infochir/catalog/internal/catalog"
	"github.com/infochir/catalog/internal/listing"
	"github.com/infochir/catalog/internal/newsletter"
	"github.com/infochir/catalog/internal/stats"
	"github.com/infochir/catalog/internal/submission"
	"github.com/infochir/catalog/pkg/types"
)

// Catalog is the read side of the local catalog.
type Catalog interface {
	Rows(ctx context.Context, c types.Collection) ([]types.ArticleRow, error)
	Get(ctx context.Context, id string) (catalog.Hit, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Hit, error)
}

// Counters tracks downloads and shares.
type Counters interface {
	Track(id string, kind stats.Kind) (uint64, error)
	Overlay(rows []types.ArticleRow) ([]types.ArticleRow, error)
}

// Subscriber accepts newsletter subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, req newsletter.Request) (newsletter.Result, error)
}

// Submitter accepts manuscript submissions.
type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (types.Submission, error)
}

// Server serves the JSON API.
type Server struct {
	cfg        types.ServerConfig
	listingCfg types.ListingConfig
	catalog    Catalog
	counters   Counters
	newsletter Subscriber
	submitter  Submitter
	pipeline   *listing.Pipeline[types.ListableRecord]
	log        *zap.Logger
}

// New returns a Server. counters, sub, and submitter may be nil, which
// disables the endpoints that need them.
func New(cfg types.Config, cat Catalog, counters Counters, sub Subscriber, submitter Submitter, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		cfg:        cfg.Server,
		listingCfg: cfg.Listing,
		catalog:    cat,
		counters:   counters,
		newsletter: sub,
		submitter:  submitter,
		pipeline:   listing.Records(listing.WithLogger(log)),
		log:        log,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/{collection}", s.handleCollection)
	mux.HandleFunc("GET /api/articles/{id}", s.handleArticle)
	mux.HandleFunc("POST /api/articles/{id}/download", s.handleTrack(stats.KindDownload))
	mux.HandleFunc("POST /api/articles/{id}/share", s.handleTrack(stats.KindShare))
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("/api/newsletter", s.handleNewsletter)
	mux.HandleFunc("/api/submissions", s.handleSubmission)
	return s.logRequests(mux)
}

// ListenAndServe listens on the configured address and serves until ctx
// is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("serving", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
