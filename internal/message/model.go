package message

import "time"

type Conversation struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ConversationWithPeer is a conversation as seen by one participant.
type ConversationWithPeer struct {
	Conversation
	PeerID       int64  `db:"peer_id" json:"peer_id"`
	PeerUsername string `db:"peer_username" json:"peer_username"`
}

type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreateConversationRequest struct {
	Username string `json:"username" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
