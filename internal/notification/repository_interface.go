package notification

import "context"

type Repository interface {
	Create(ctx context.Context, userID int, title, message string) (*Notification, error)
	ListByUser(ctx context.Context, userID int) ([]Notification, error)
	// MarkRead is idempotent; marking an already-read notification succeeds.
	MarkRead(ctx context.Context, id, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}
