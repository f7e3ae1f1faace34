package notification

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, recipientID int64, senderID *int64, notifType, content, link string) (*Notification, error) {
	var n Notification
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, notification_type, content, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, recipientID, senderID, notifType, content, link).StructScan(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) List(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	notifications := []Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT *
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *Repository) MarkRead(ctx context.Context, userID, notificationID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`,
		notificationID, userID)
	return err
}

func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`,
		userID)
	return err
}

func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
