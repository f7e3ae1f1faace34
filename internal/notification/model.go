package notification

import "time"

const (
	TypeLike     = "like"
	TypeComment  = "comment"
	TypeFollow   = "follow"
	TypeMessage  = "message"
	TypePurchase = "purchase"
)

type Notification struct {
	ID        int64     `db:"id" json:"id"`
	Recipient int64     `db:"recipient_id" json:"recipient_id"`
	SenderID  *int64    `db:"sender_id" json:"sender_id,omitempty"`
	Type      string    `db:"notification_type" json:"notification_type"`
	Content   string    `db:"content" json:"content"`
	Link      string    `db:"link" json:"link"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
