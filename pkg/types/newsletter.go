// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Subscription is one newsletter subscriber.
type Subscription struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	Phone        string    `json:"phone,omitempty" yaml:"phone,omitempty"`
	Active       bool      `json:"is_active" yaml:"is_active"`
	SubscribedAt time.Time `json:"subscribed_at" yaml:"subscribed_at"`
}
