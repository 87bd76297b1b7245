// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infochir/catalog/internal/catalog"
	"github.com/infochir/catalog/internal/newsletter"
	"github.com/infochir/catalog/pkg/types"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe an address to the newsletter",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, store, err := newsletterService(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := svc.Subscribe(cmd.Context(), newsletter.Request{Name: name, Email: email, Phone: phone})
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		if !res.Notification.Admin.Sent {
			fmt.Printf("admin notification not sent: %s\n", res.Notification.Admin.Message)
		}
		return nil
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <email>",
	Short: "Deactivate a newsletter subscription",
	Args:  cobra.ExactArgs(1),
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

		if err := svc.Unsubscribe(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Unsubscribed %s\n", args[0])
		return nil
	},
}

// newsletterService opens the catalog and builds a subscription service on
// its database. The caller closes the returned store.
func newsletterService(cfg types.Config) (*newsletter.Service, *catalog.Store, error) {
	store, err := openCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	subs, err := newsletter.NewSQLiteStore(store.DB())
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	notifier := newsletter.LogNotifier{AdminEmail: cfg.Newsletter.NotifyEmail, Log: logger}
	return newsletter.NewService(subs, notifier, logger), store, nil
}

func init() {
	subscribeCmd.Flags().String("name", "", "subscriber name (required)")
	subscribeCmd.Flags().String("email", "", "subscriber email (required)")
	subscribeCmd.Flags().String("phone", "", "subscriber phone")

	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(unsubscribeCmd)
}
