package post

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPostNotFound = errors.New("post not found")

const postWithAuthorColumns = `
	p.id, p.author_id, p.content, p.post_type, p.media_url, p.thumbnail_url,
	p.is_exclusive, p.price, p.likes_count, p.comments_count, p.views_count,
	p.shares_count, p.created_at, p.updated_at,
	u.username AS author_username
`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	var p Post
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO posts (author_id, content, post_type, media_url, is_exclusive, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, authorID, req.Content, req.PostType, req.MediaURL, req.IsExclusive, req.Price).StructScan(&p)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error) {
	var p Post
	err := r.db.QueryRowxContext(ctx, `
		UPDATE posts
		SET content      = COALESCE($2, content),
		    media_url    = COALESCE($3, media_url),
		    is_exclusive = COALESCE($4, is_exclusive),
		    price        = COALESCE($5, price),
		    updated_at   = NOW()
		WHERE id = $1
		RETURNING *
	`, id, req.Content, req.MediaURL, req.IsExclusive, req.Price).StructScan(&p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrPostNotFound
	}

	return nil
}

// Share bumps the share counter and returns the new value.
func (r *Repository) Share(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx,
		`UPDATE posts SET shares_count = shares_count + 1, updated_at = NOW() WHERE id = $1 RETURNING shares_count`,
		postID,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}

	return count, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Post, error) {
	var p Post
	err := r.db.GetContext(ctx, &p, `SELECT * FROM posts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *Repository) GetWithAuthor(ctx context.Context, id int64) (*PostWithAuthor, error) {
	var p PostWithAuthor
	err := r.db.GetContext(ctx, &p, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Feed returns the requester's own posts plus posts from followed authors,
// newest first.
func (r *Repository) Feed(ctx context.Context, userID int64, limit, offset int) ([]PostWithAuthor, error) {
	if limit <= 0 {
		limit = 20
	}

	posts := []PostWithAuthor{}
	err := r.db.SelectContext(ctx, &posts, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		   OR p.author_id IN (SELECT following_id FROM follows WHERE follower_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *Repository) ByAuthorUsername(ctx context.Context, username string, limit, offset int) ([]PostWithAuthor, error) {
	if limit <= 0 {
		limit = 20
	}

	posts := []PostWithAuthor{}
	err := r.db.SelectContext(ctx, &posts, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE u.username = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, username, limit, offset)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *Repository) Trending(ctx context.Context, limit int) ([]PostWithAuthor, error) {
	if limit <= 0 {
		limit = 20
	}

	posts := []PostWithAuthor{}
	err := r.db.SelectContext(ctx, &posts, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.likes_count DESC, p.views_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *Repository) IncrementViews(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET views_count = views_count + 1 WHERE id = $1`, postID)
	return err
}

// ToggleLike flips the like relationship and adjusts the denormalized
// likes_count in the same transaction. Returns true when the call resulted
// in a like.
func (r *Repository) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var deletedID int64
	err = tx.QueryRowxContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2 RETURNING id`,
		userID, postID,
	).Scan(&deletedID)

	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET likes_count = GREATEST(likes_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			postID,
		); err != nil {
			return false, err
		}
		return false, tx.Commit()

	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			`INSERT INTO likes (user_id, post_id)
			 VALUES ($1, $2)
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID,
		)
		if err != nil {
			return false, err
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		if inserted == 0 {
			return true, tx.Commit()
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE posts SET likes_count = likes_count + 1, updated_at = NOW() WHERE id = $1`,
			postID,
		); err != nil {
			return false, err
		}
		return true, tx.Commit()

	default:
		return false, err
	}
}

// CreateComment inserts the comment and bumps comments_count atomically.
func (r *Repository) CreateComment(ctx context.Context, userID, postID int64, content string) (*Comment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var cm Comment
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO comments (user_id, post_id, content)
		VALUES ($1, $2, $3)
		RETURNING *
	`, userID, postID, content).StructScan(&cm)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET comments_count = comments_count + 1, updated_at = NOW() WHERE id = $1`,
		postID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &cm, nil
}

func (r *Repository) ListComments(ctx context.Context, postID int64, limit, offset int) ([]Comment, error) {
	if limit <= 0 {
		limit = 50
	}

	comments := []Comment{}
	err := r.db.SelectContext(ctx, &comments, `
		SELECT *
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, postID, limit, offset)
	if err != nil {
		return nil, err
	}

	return comments, nil
}
