package user

import "time"

type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Bio            string    `db:"bio" json:"bio"`
	IsCreator      bool      `db:"is_creator" json:"is_creator"`
	FollowersCount int       `db:"followers_count" json:"followers_count"`
	FollowingCount int       `db:"following_count" json:"following_count"`
	Website        string    `db:"website" json:"website"`
	Twitter        string    `db:"twitter" json:"twitter"`
	Instagram      string    `db:"instagram" json:"instagram"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Follow struct {
	ID          int64     `db:"id" json:"id"`
	FollowerID  int64     `db:"follower_id" json:"follower_id"`
	FollowingID int64     `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Bio       *string `json:"bio"`
	Website   *string `json:"website"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	IsCreator *bool   `json:"is_creator"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type FollowResponse struct {
	Message     string `json:"message" example:"Followed"`
	IsFollowing bool   `json:"is_following"`
}
