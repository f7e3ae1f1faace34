package user

import "context"

type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error)
	ToggleFollow(ctx context.Context, followerID, targetID int64) (bool, error)
	IsFollowing(ctx context.Context, followerID, targetID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64) ([]User, error)
	ListFollowing(ctx context.Context, userID int64) ([]User, error)
	SearchUsers(ctx context.Context, query string, excludeID int64, limit int) ([]User, error)
	SuggestedUsers(ctx context.Context, excludeID int64, limit int) ([]User, error)
}
