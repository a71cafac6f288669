package postgres

import (
	"context"
	"database/sql"

	"unidoc/internal/model"
	"unidoc/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

// Insert stores one notification row.
func (r *NotificationPostgres) Insert(ctx context.Context, n *model.Notification) error {
	const q = `
		INSERT INTO notifications (id, recipient_id, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		n.ID,
		n.RecipientID,
		n.Title,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	)
	return err
}

// ListUnread returns up to limit unread notifications, newest first.
func (r *NotificationPostgres) ListUnread(ctx context.Context, recipientID string, limit int) ([]model.Notification, error) {
	const q = `
		SELECT id, recipient_id, title, message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1 AND is_read = false
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead flags one notification as read for its recipient.
func (r *NotificationPostgres) MarkRead(ctx context.Context, id, recipientID string) error {
	const q = `UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, recipientID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
