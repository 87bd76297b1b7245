// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package newsletter accepts newsletter subscriptions. Subscribing is
// idempotent on the (lowercased) email address; notification failures are
// reported to the caller but never undo a subscription.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infochir/catalog/pkg/types"
)

var (
	// ErrMissingField is returned when name or email is empty.
	ErrMissingField = errors.New("name and email are required")

	// ErrInvalidEmail is returned when the email is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrNotSubscribed is returned by Unsubscribe for unknown addresses.
	ErrNotSubscribed = errors.New("not subscribed")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Request is a subscription attempt.
type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Notification reports one notification attempt.
type Notification struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message,omitempty"`
}

// Notifications groups the administrator and subscriber notifications.
type Notifications struct {
	Admin Notification `json:"admin"`
	User  Notification `json:"user"`
}

// Result is the outcome of a successful Subscribe.
type Result struct {
	Subscription types.Subscription `json:"subscription"`
	Existing     bool               `json:"existing_subscription"`
	Message      string             `json:"message"`
	Notification Notifications      `json:"notification"`
}

// Store persists subscriptions.
type Store interface {
	FindByEmail(ctx context.Context, email string) (types.Subscription, bool, error)
	Insert(ctx context.Context, sub types.Subscription) error
	Deactivate(ctx context.Context, email string) (bool, error)
	Reactivate(ctx context.Context, email string) error
}

// Notifier tells the administrator about a subscription and confirms it
// to the subscriber. existing is true for repeat subscriptions.
type Notifier interface {
	NotifyAdmin(ctx context.Context, sub types.Subscription, existing bool) error
	ConfirmSubscriber(ctx context.Context, sub types.Subscription, existing bool) error
}

// Service implements subscribe and unsubscribe over a Store.
type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService returns a Service. A nil notifier disables notifications and
// a nil logger discards diagnostics.
func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Validate normalizes req and checks required fields and email format.
func Validate(req Request) (Request, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" || req.Email == "" {
		return req, ErrMissingField
	}
	if !emailPattern.MatchString(req.Email) {
		return req, fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
	}
	return req, nil
}

// Subscribe records a subscription for req. An active address is reported
// as Existing without a second insert; an unsubscribed one is reactivated.
func (s *Service) Subscribe(ctx context.Context, req Request) (Result, error) {
	req, err := Validate(req)
	if err != nil {
		return Result{}, err
	}

	existing, found, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		return Result{}, fmt.Errorf("checking existing subscription: %w", err)
	}

	if found && !existing.Active {
		if err := s.store.Reactivate(ctx, req.Email); err != nil {
			return Result{}, fmt.Errorf("reactivating subscription: %w", err)
		}
		existing.Active = true
		s.log.Info("subscription reactivated", zap.String("id", existing.ID), zap.String("email", existing.Email))
		res := Result{Subscription: existing, Message: "Subscription reactivated"}
		res.Notification = s.notify(ctx, existing, false)
		return res, nil
	}
	if found {
		s.log.Info("existing subscription", zap.String("email", req.Email))
		res := Result{Subscription: existing, Existing: true, Message: "Already subscribed"}
		res.Notification = s.notify(ctx, existing, true)
		return res, nil
	}

	sub := types.Subscription{
		ID:           s.newID(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Active:       true,
		SubscribedAt: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, sub); err != nil {
		return Result{}, fmt.Errorf("inserting subscription: %w", err)
	}
	s.log.Info("subscription created", zap.String("id", sub.ID), zap.String("email", sub.Email))

	res := Result{Subscription: sub, Message: "Successfully subscribed to newsletter"}
	res.Notification = s.notify(ctx, sub, false)
	return res, nil
}

func (s *Service) notify(ctx context.Context, sub types.Subscription, existing bool) Notifications {
	var n Notifications
	if s.notifier == nil {
		return n
	}
	n.Admin = s.attempt("admin", sub, s.notifier.NotifyAdmin(ctx, sub, existing))
	n.User = s.attempt("user", sub, s.notifier.ConfirmSubscriber(ctx, sub, existing))
	return n
}

func (s *Service) attempt(target string, sub types.Subscription, err error) Notification {
	if err != nil {
		s.log.Warn("notification failed",
			zap.String("target", target), zap.String("email", sub.Email), zap.Error(err))
		return Notification{Message: err.Error()}
	}
	return Notification{Sent: true}
}

// Unsubscribe deactivates the subscription for email.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingField
	}
	ok, err := s.store.Deactivate(ctx, email)
	if err != nil {
		return fmt.Errorf("deactivating subscription: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", email, ErrNotSubscribed)
	}
	s.log.Info("subscription deactivated", zap.String("email", email))
	return nil
}
