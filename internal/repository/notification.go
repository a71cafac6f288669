package repository

import (
	"context"

	"unidoc/internal/model"
)

// NotificationRepository persists in-app notifications. Inserts are
// fire-and-forget from the workflow's perspective: a failed insert is logged
// by the caller, never rolled into the transition.
type NotificationRepository interface {
	Insert(ctx context.Context, n *model.Notification) error

	// ListUnread returns up to limit unread notifications, newest first.
	ListUnread(ctx context.Context, recipientID string, limit int) ([]model.Notification, error)

	// MarkRead flags a single notification as read. Returns sql.ErrNoRows
	// when the notification does not exist or belongs to another recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
}
