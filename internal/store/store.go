package store

import (
	"context"

	"github.com/issuelane/issuelane/internal/model"
)

// Store is the client's local persistence: the cached signed-in
// profile record and the client-local notification set. Nothing else
// is ever persisted on this machine.
type Store interface {
	// SaveProfile writes the merged profile + assignment record,
	// replacing any previous one. Written once at sign-in.
	SaveProfile(ctx context.Context, profile model.UserProfile) error

	// GetProfile returns the cached profile, or nil when no user is
	// signed in.
	GetProfile(ctx context.Context) (*model.UserProfile, error)

	// ClearProfile removes the cached profile record.
	ClearProfile(ctx context.Context) error

	// GetNotifications returns all notifications, newest first.
	GetNotifications(ctx context.Context) ([]model.Notification, error)

	// CountUnreadNotifications returns the unread badge count.
	CountUnreadNotifications(ctx context.Context) (int, error)

	// MarkNotificationRead clears one notification's unread flag.
	MarkNotificationRead(ctx context.Context, id string) error

	// MarkAllNotificationsRead clears every unread flag.
	MarkAllNotificationsRead(ctx context.Context) error

	Close() error
}
