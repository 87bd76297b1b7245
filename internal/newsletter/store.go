// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package newsletter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/infochir/catalog/pkg/types"
)

// SQLiteStore keeps subscriptions in a newsletter_subscriptions table. It
// shares the connection of the catalog database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the subscriptions table on db if needed.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		subscribed_at TEXT NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("creating subscriptions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// FindByEmail looks up a subscription by its lowercased email.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (types.Subscription, bool, error) {
	var (
		sub          types.Subscription
		phone        sql.NullString
		active       int
		subscribedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, is_active, subscribed_at
		 FROM newsletter_subscriptions WHERE email = ?`, email,
	).Scan(&sub.ID, &sub.Name, &sub.Email, &phone, &active, &subscribedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Subscription{}, false, nil
	}
	if err != nil {
		return types.Subscription{}, false, fmt.Errorf("querying subscription: %w", err)
	}
	sub.Phone = phone.String
	sub.Active = active != 0
	sub.SubscribedAt, _ = time.Parse(time.RFC3339Nano, subscribedAt)
	return sub, true, nil
}

// Insert stores a new subscription.
func (s *SQLiteStore) Insert(ctx context.Context, sub types.Subscription) error {
	var phone any
	if sub.Phone != "" {
		phone = sub.Phone
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscriptions (id, name, email, phone, is_active, subscribed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, phone, boolInt(sub.Active),
		sub.SubscribedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", sub.Email, err)
	}
	return nil
}

// Deactivate marks the subscription inactive. It reports false when no
// subscription has that email.
func (s *SQLiteStore) Deactivate(ctx context.Context, email string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE newsletter_subscriptions SET is_active = 0 WHERE email = ?`, email)
	if err != nil {
		return false, fmt.Errorf("updating subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Reactivate marks a previously deactivated subscription active again.
func (s *SQLiteStore) Reactivate(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE newsletter_subscriptions SET is_active = 1 WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("reactivating %s: %w", email, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
