// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package newsletter

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/infochir/catalog/pkg/types"
)

// ErrNoRecipient is returned when no administrator address is configured.
var ErrNoRecipient = errors.New("no notification recipient configured")

// LogNotifier records notifications in the structured log instead of
// sending mail.
type LogNotifier struct {
	AdminEmail string
	Log        *zap.Logger
}

func (n LogNotifier) logger() *zap.Logger {
	if n.Log == nil {
		return zap.NewNop()
	}
	return n.Log
}

// NotifyAdmin implements Notifier.
func (n LogNotifier) NotifyAdmin(_ context.Context, sub types.Subscription, existing bool) error {
	if n.AdminEmail == "" {
		return ErrNoRecipient
	}
	n.logger().Info("newsletter admin notification",
		zap.String("to", n.AdminEmail),
		zap.String("name", sub.Name),
		zap.String("email", sub.Email),
		zap.String("phone", sub.Phone),
		zap.Bool("existing", existing),
	)
	return nil
}

// ConfirmSubscriber implements Notifier.
func (n LogNotifier) ConfirmSubscriber(_ context.Context, sub types.Subscription, existing bool) error {
	n.logger().Info("newsletter subscriber confirmation",
		zap.String("to", sub.Email),
		zap.String("name", sub.Name),
		zap.Bool("existing", existing),
	)
	return nil
}
