package message

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSelfConversation     = errors.New("cannot start a conversation with yourself")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateConversation returns the conversation between the two users,
// creating it together with its participant rows when missing.
func (r *Repository) GetOrCreateConversation(ctx context.Context, userID, otherID int64) (*Conversation, error) {
	if userID == otherID {
		return nil, ErrSelfConversation
	}

	var conv Conversation
	err := r.db.GetContext(ctx, &conv, `
		SELECT c.*
		FROM conversations c
		JOIN conversation_participants p1 ON p1.conversation_id = c.id AND p1.user_id = $1
		JOIN conversation_participants p2 ON p2.conversation_id = c.id AND p2.user_id = $2
	`, userID, otherID)
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO conversations DEFAULT VALUES RETURNING *`,
	).StructScan(&conv)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2), ($1, $3)`,
		conv.ID, userID, otherID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &conv, nil
}

func (r *Repository) ListConversations(ctx context.Context, userID int64) ([]ConversationWithPeer, error) {
	conversations := []ConversationWithPeer{}
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT c.id, c.created_at, c.updated_at,
		       u.id AS peer_id, u.username AS peer_username
		FROM conversations c
		JOIN conversation_participants me ON me.conversation_id = c.id AND me.user_id = $1
		JOIN conversation_participants peer ON peer.conversation_id = c.id AND peer.user_id != $1
		JOIN users u ON u.id = peer.user_id
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// isParticipant guards every message operation: a user can only touch
// conversations they belong to.
func (r *Repository) isParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2)`,
		conversationID, userID,
	)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// PeerID returns the other participant of a two-person conversation.
func (r *Repository) PeerID(ctx context.Context, conversationID, userID int64) (int64, error) {
	var peerID int64
	err := r.db.GetContext(ctx, &peerID,
		`SELECT user_id FROM conversation_participants WHERE conversation_id = $1 AND user_id != $2`,
		conversationID, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrConversationNotFound
		}
		return 0, err
	}
	return peerID, nil
}

func (r *Repository) CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error) {
	ok, err := r.isParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConversationNotFound
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var m Message
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO messages (conversation_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING *
	`, conversationID, senderID, content).StructScan(&m)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = NOW() WHERE id = $1`,
		conversationID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *Repository) ListMessages(ctx context.Context, conversationID, userID int64, limit, offset int) ([]Message, error) {
	ok, err := r.isParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConversationNotFound
	}

	if limit <= 0 {
		limit = 50
	}

	messages := []Message{}
	err = r.db.SelectContext(ctx, &messages, `
		SELECT *
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marks messages sent by the peer as read.
func (r *Repository) MarkMessagesRead(ctx context.Context, conversationID, userID int64) error {
	ok, err := r.isParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConversationNotFound
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND sender_id != $2 AND is_read = FALSE`,
		conversationID, userID,
	)
	return err
}
