package post

import "context"

type PostRepository interface {
	Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, id int64, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id int64) error
	Share(ctx context.Context, postID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	GetWithAuthor(ctx context.Context, id int64) (*PostWithAuthor, error)
	Feed(ctx context.Context, userID int64, limit, offset int) ([]PostWithAuthor, error)
	ByAuthorUsername(ctx context.Context, username string, limit, offset int) ([]PostWithAuthor, error)
	Trending(ctx context.Context, limit int) ([]PostWithAuthor, error)
	IncrementViews(ctx context.Context, postID int64) error
	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	CreateComment(ctx context.Context, userID, postID int64, content string) (*Comment, error)
	ListComments(ctx context.Context, postID int64, limit, offset int) ([]Comment, error)
}
