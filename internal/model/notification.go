package model

import "time"

// Notification is an in-app message produced by a workflow transition.
// Delivery is fire-and-forget from the workflow's perspective: the engine
// only states which notifications must eventually be delivered.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
