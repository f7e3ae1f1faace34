package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfFollow   = errors.New("cannot follow yourself")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING *
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, username, email, passwordHash)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error) {
	query := `
		UPDATE users
		SET bio        = COALESCE($2, bio),
		    website    = COALESCE($3, website),
		    twitter    = COALESCE($4, twitter),
		    instagram  = COALESCE($5, instagram),
		    is_creator = COALESCE($6, is_creator),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id, req.Bio, req.Website, req.Twitter, req.Instagram, req.IsCreator)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// ToggleFollow flips the follow relationship between follower and target
// and keeps both denormalized counters in sync within one transaction.
// Returns true when the call resulted in a follow, false on unfollow.
func (r *Repository) ToggleFollow(ctx context.Context, followerID, targetID int64) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var deletedID int64
	err = tx.QueryRowxContext(ctx,
		`DELETE FROM follows
		 WHERE follower_id = $1 AND following_id = $2
		 RETURNING id`,
		followerID, targetID,
	).Scan(&deletedID)

	switch {
	case err == nil:
		// Relationship existed: this call is an unfollow. Counters clamp
		// at zero so a drifted counter can never go negative.
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET followers_count = GREATEST(followers_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			targetID,
		); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET following_count = GREATEST(following_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			followerID,
		); err != nil {
			return false, err
		}
		return false, tx.Commit()

	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			`INSERT INTO follows (follower_id, following_id)
			 VALUES ($1, $2)
			 ON CONFLICT (follower_id, following_id) DO NOTHING`,
			followerID, targetID,
		)
		if err != nil {
			return false, err
		}
		inserted, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		if inserted == 0 {
			// Lost a race with a concurrent follow; treat as already following.
			return true, tx.Commit()
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET followers_count = followers_count + 1, updated_at = NOW() WHERE id = $1`,
			targetID,
		); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET following_count = following_count + 1, updated_at = NOW() WHERE id = $1`,
			followerID,
		); err != nil {
			return false, err
		}
		return true, tx.Commit()

	default:
		return false, err
	}
}

func (r *Repository) IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, targetID,
	)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) ListFollowers(ctx context.Context, userID int64) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.*
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) ListFollowing(ctx context.Context, userID int64) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.*
		FROM users u
		JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// SearchUsers matches the query against usernames and bios, excluding the
// requester, most-followed first.
func (r *Repository) SearchUsers(ctx context.Context, query string, excludeID int64, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 20
	}

	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT *
		FROM users
		WHERE id != $1
		  AND (username ILIKE $2 OR bio ILIKE $2)
		ORDER BY followers_count DESC
		LIMIT $3
	`, excludeID, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) SuggestedUsers(ctx context.Context, excludeID int64, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}

	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT *
		FROM users
		WHERE id != $1
		ORDER BY followers_count DESC
		LIMIT $2
	`, excludeID, limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}
