package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ReubenWash/reubensocials-backend/internal/auth"
	"github.com/ReubenWash/reubensocials-backend/internal/metrics"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Notifier is the fire-and-forget notification sink. Delivery failures are
// the sink's problem, never the caller's.
type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID int64, notifType, content, link string)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	ToggleFollow(ctx context.Context, followerID int64, targetUsername string) (bool, error)
	Followers(ctx context.Context, username string) ([]User, error)
	Following(ctx context.Context, username string) ([]User, error)
	Search(ctx context.Context, userID int64, query string) ([]User, error)
	Suggested(ctx context.Context, userID int64) ([]User, error)
}

type service struct {
	repo      UserRepository
	notifier  Notifier
	jwtSecret string
}

func NewService(repo UserRepository, notifier Notifier, jwtSecret string) Service {
	return &service{
		repo:      repo,
		notifier:  notifier,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	emailTaken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, ErrEmailExists
	}

	usernameTaken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, ErrUsernameExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Username, u.IsCreator, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Username, u.IsCreator, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) GetByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	newAccessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	return newAccessToken, u, nil
}

func (s *service) ToggleFollow(ctx context.Context, followerID int64, targetUsername string) (bool, error) {
	target, err := s.repo.FindByUsername(ctx, targetUsername)
	if err != nil {
		return false, err
	}

	following, err := s.repo.ToggleFollow(ctx, followerID, target.ID)
	if err != nil {
		return false, err
	}

	if following {
		metrics.RecordFollow("follow")

		follower, err := s.repo.FindByID(ctx, followerID)
		if err == nil {
			s.notifier.Notify(ctx, target.ID, followerID, "follow",
				fmt.Sprintf("%s started following you", follower.Username),
				fmt.Sprintf("/user/%s", follower.Username))
		}
	} else {
		metrics.RecordFollow("unfollow")
	}

	return following, nil
}

func (s *service) Followers(ctx context.Context, username string) ([]User, error) {
	target, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFollowers(ctx, target.ID)
}

func (s *service) Following(ctx context.Context, username string) ([]User, error) {
	target, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFollowing(ctx, target.ID)
}

// Search returns profiles matching the query. A blank query matches nobody
// rather than everybody.
func (s *service) Search(ctx context.Context, userID int64, query string) ([]User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []User{}, nil
	}
	return s.repo.SearchUsers(ctx, query, userID, 20)
}

func (s *service) Suggested(ctx context.Context, userID int64) ([]User, error) {
	return s.repo.SuggestedUsers(ctx, userID, 50)
}
