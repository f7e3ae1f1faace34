package post

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeText  = "text"
	TypeImage = "image"
	TypeVideo = "video"
)

type Post struct {
	ID            int64            `db:"id" json:"id"`
	AuthorID      int64            `db:"author_id" json:"author_id"`
	Content       string           `db:"content" json:"content"`
	PostType      string           `db:"post_type" json:"post_type"`
	MediaURL      *string          `db:"media_url" json:"media_url,omitempty"`
	ThumbnailURL  *string          `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	IsExclusive   bool             `db:"is_exclusive" json:"is_exclusive"`
	Price         *decimal.Decimal `db:"price" json:"price,omitempty"`
	LikesCount    int              `db:"likes_count" json:"likes_count"`
	CommentsCount int              `db:"comments_count" json:"comments_count"`
	ViewsCount    int              `db:"views_count" json:"views_count"`
	SharesCount   int              `db:"shares_count" json:"shares_count"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// PostWithAuthor is the read-side shape served by feed and detail
// endpoints. Locked is set when the requester has no access to exclusive
// content; the content fields are redacted in that case.
type PostWithAuthor struct {
	Post
	AuthorUsername string `db:"author_username" json:"author_username"`
	Locked         bool   `db:"-" json:"locked"`
}

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Like struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreatePostRequest struct {
	Content     string           `json:"content"`
	PostType    string           `json:"post_type" binding:"required,oneof=text image video"`
	MediaURL    *string          `json:"media_url"`
	IsExclusive bool             `json:"is_exclusive"`
	Price       *decimal.Decimal `json:"price"`
}

// UpdatePostRequest carries a partial edit; nil fields keep their current
// values.
type UpdatePostRequest struct {
	Content     *string          `json:"content"`
	MediaURL    *string          `json:"media_url"`
	IsExclusive *bool            `json:"is_exclusive"`
	Price       *decimal.Decimal `json:"price"`
}

type ShareResponse struct {
	Message     string `json:"message" example:"Post shared"`
	SharesCount int    `json:"shares_count"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type LikeResponse struct {
	Message string `json:"message" example:"Liked"`
	IsLiked bool   `json:"is_liked"`
}
