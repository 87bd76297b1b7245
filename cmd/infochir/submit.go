// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/infochir/catalog/internal/catalog"
	"github.com/infochir/catalog/internal/submission"
	"github.com/infochir/catalog/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit [request.yaml]",
	Short: "Submit a manuscript to RHCA or IGM",
	Long: `Submit validates a manuscript and stores it in the catalog database with
status pending. Fields come from an optional YAML request file; flags
override the file.

Requirements: publication type RHCA or IGM, a title of at most 200
characters, authors, institution, 3 to 5 comma-separated keywords, an
abstract of 50 to 250 characters, a corresponding author with name,
valid email, phone, and address, and at least one article file URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := submissionRequest(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, store, err := submissionService(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sub, err := svc.Submit(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Submission %s received for %s (%s)\n", sub.ID, sub.PublicationType, sub.Status)
		return nil
	},
}

// submissionRequest reads the optional request file in args and applies
// the flags that were set on top of it.
func submissionRequest(cmd *cobra.Command, args []string) (submission.Request, error) {
	var req submission.Request
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return req, fmt.Errorf("reading request: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parsing request %s: %w", args[0], err)
		}
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"type":           &req.PublicationType,
		"title":          &req.Title,
		"authors":        &req.Authors,
		"institution":    &req.Institution,
		"keywords":       &req.Keywords,
		"abstract":       &req.Abstract,
		"author-name":    &req.CorrespondingAuthor.Name,
		"author-email":   &req.CorrespondingAuthor.Email,
		"author-phone":   &req.CorrespondingAuthor.Phone,
		"author-address": &req.CorrespondingAuthor.Address,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	for name, dst := range map[string]*bool{
		"ethics-approval": &req.EthicsApproval,
		"no-conflict":     &req.NoConflict,
		"original-work":   &req.OriginalWork,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	if flags.Changed("file") {
		req.ArticleFileURLs, _ = flags.GetStringArray("file")
	}
	if flags.Changed("annex") {
		req.ImageAnnexURLs, _ = flags.GetStringArray("annex")
	}
	return req, nil
}

// submissionService opens the catalog and builds a submission service on
// its database. The caller closes the returned store.
func submissionService(cfg types.Config) (*submission.Service, *catalog.Store, error) {
	store, err := openCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	subs, err := submission.NewSQLiteStore(store.DB())
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return submission.NewService(subs, logger), store, nil
}

// addSubmitFlags registers the submission flags on cmd.
func addSubmitFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "publication type: RHCA or IGM")
	cmd.Flags().String("title", "", "article title")
	cmd.Flags().String("authors", "", "author list")
	cmd.Flags().String("institution", "", "authors' institution")
	cmd.Flags().String("keywords", "", "3 to 5 comma-separated keywords")
	cmd.Flags().String("abstract", "", "abstract (50 to 250 characters)")
	cmd.Flags().String("author-name", "", "corresponding author name")
	cmd.Flags().String("author-email", "", "corresponding author email")
	cmd.Flags().String("author-phone", "", "corresponding author phone")
	cmd.Flags().String("author-address", "", "corresponding author postal address")
	cmd.Flags().Bool("ethics-approval", false, "ethics committee approval obtained")
	cmd.Flags().Bool("no-conflict", false, "no conflict of interest")
	cmd.Flags().Bool("original-work", false, "original, unpublished work")
	cmd.Flags().StringArray("file", nil, "article file URL (repeatable; at least one)")
	cmd.Flags().StringArray("annex", nil, "image annex URL (repeatable)")
}

func init() {
	addSubmitFlags(submitCmd)
	rootCmd.AddCommand(submitCmd)
}
