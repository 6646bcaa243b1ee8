package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

const notificationColumns = `id, user_id, title, message, read, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, title, message string) (*Notification, error) {
	n := &Notification{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (user_id, title, message)
		VALUES ($1, $2, $3)
		RETURNING `+notificationColumns+`
	`, userID, title, message).StructScan(n)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Notification, error) {
	notifications := []Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, id, userID int) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)
	`, id, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotificationNotFound
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND read = FALSE
	`, userID)
	if err != nil {
		return 0, err
	}

	return count, nil
}
