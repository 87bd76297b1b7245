// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/infochir/catalog/internal/server"
	"github.com/infochir/catalog/internal/submission"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve listings, search, tracking, newsletter, and submissions over HTTP",
	Long: `Serve exposes the local catalog as a JSON API:

  GET  /api/collections/{collection}   listing (q, sort, from, to, category, view)
  GET  /api/articles/{id}              one article
  GET  /api/search?q=                  full-text search
  POST /api/articles/{id}/download     track a download
  POST /api/articles/{id}/share        track a share
  POST /api/newsletter                 subscribe
  POST /api/submissions                submit a manuscript

The server stops gracefully on interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, store, err := newsletterService(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		subs, err := submission.NewSQLiteStore(store.DB())
		if err != nil {
			return err
		}
		submitter := submission.NewService(subs, logger)

		counters, err := openStats(cfg)
		if err != nil {
			return err
		}
		defer counters.Close()

		return server.New(cfg, store, counters, svc, submitter, logger).ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
