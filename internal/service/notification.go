package service

import (
	"context"
	"database/sql"
	"errors"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

// unreadLimit caps the in-app notification feed.
const unreadLimit = 10

// NotificationService exposes the in-app notification feed.
type NotificationService interface {
	// Unread returns the recipient's most recent unread notifications.
	Unread(ctx context.Context, recipientID string) ([]model.Notification, error)

	// MarkRead flags one notification as read for its recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
}

type notificationService struct {
	notifs repository.NotificationRepository
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(notifs repository.NotificationRepository) NotificationService {
	return &notificationService{notifs: notifs}
}

func (s *notificationService) Unread(ctx context.Context, recipientID string) ([]model.Notification, error) {
	return s.notifs.ListUnread(ctx, recipientID, unreadLimit)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID string) error {
	if err := s.notifs.MarkRead(ctx, id, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
