package post

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPriceWithoutExclusive = errors.New("price requires an exclusive post")
	ErrNotAuthor             = errors.New("only the author can modify this post")
)

// AccessChecker decides whether a user may see the full content of a post.
// Implemented by the payment purchase gate.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID int64, p *Post) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, senderID int64, notifType, content, link string)
}

type Service interface {
	Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, userID, postID int64, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, userID, postID int64) error
	Share(ctx context.Context, postID int64) (int, error)
	Get(ctx context.Context, userID, postID int64) (*PostWithAuthor, error)
	Feed(ctx context.Context, userID int64, limit, offset int) ([]PostWithAuthor, error)
	UserPosts(ctx context.Context, viewerID int64, username string, limit, offset int) ([]PostWithAuthor, error)
	Trending(ctx context.Context, viewerID int64) ([]PostWithAuthor, error)
	ToggleLike(ctx context.Context, userID, postID int64) (bool, error)
	AddComment(ctx context.Context, userID, postID int64, content string) (*Comment, error)
	Comments(ctx context.Context, postID int64, limit, offset int) ([]Comment, error)
}

type service struct {
	repo     PostRepository
	gate     AccessChecker
	notifier Notifier
}

func NewService(repo PostRepository, gate AccessChecker, notifier Notifier) Service {
	return &service{repo: repo, gate: gate, notifier: notifier}
}

func (s *service) Create(ctx context.Context, authorID int64, req CreatePostRequest) (*Post, error) {
	if req.Price != nil && !req.IsExclusive {
		return nil, ErrPriceWithoutExclusive
	}
	return s.repo.Create(ctx, authorID, req)
}

// Update applies a partial edit. Only the author may edit, and the edited
// post must still satisfy the price rule for exclusive content.
func (s *service) Update(ctx context.Context, userID, postID int64, req UpdatePostRequest) (*Post, error) {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	exclusive := p.IsExclusive
	if req.IsExclusive != nil {
		exclusive = *req.IsExclusive
	}
	price := p.Price
	if req.Price != nil {
		price = req.Price
	}
	if price != nil && !exclusive {
		return nil, ErrPriceWithoutExclusive
	}

	return s.repo.Update(ctx, postID, req)
}

func (s *service) Delete(ctx context.Context, userID, postID int64) error {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.repo.Delete(ctx, postID)
}

func (s *service) Share(ctx context.Context, postID int64) (int, error) {
	return s.repo.Share(ctx, postID)
}

// redact blanks out paid content the viewer has not unlocked. The post
// itself stays visible so the feed can advertise it.
func (s *service) redact(ctx context.Context, viewerID int64, p *PostWithAuthor) error {
	access, err := s.gate.HasAccess(ctx, viewerID, &p.Post)
	if err != nil {
		return err
	}
	if access {
		return nil
	}

	p.Locked = true
	p.Content = ""
	p.MediaURL = nil
	return nil
}

func (s *service) redactAll(ctx context.Context, viewerID int64, posts []PostWithAuthor) error {
	for i := range posts {
		if err := s.redact(ctx, viewerID, &posts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID, postID int64) (*PostWithAuthor, error) {
	p, err := s.repo.GetWithAuthor(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.redact(ctx, userID, p); err != nil {
		return nil, err
	}

	// View counting is best effort.
	_ = s.repo.IncrementViews(ctx, postID)

	return p, nil
}

func (s *service) Feed(ctx context.Context, userID int64, limit, offset int) ([]PostWithAuthor, error) {
	posts, err := s.repo.Feed(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.redactAll(ctx, userID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *service) UserPosts(ctx context.Context, viewerID int64, username string, limit, offset int) ([]PostWithAuthor, error) {
	posts, err := s.repo.ByAuthorUsername(ctx, username, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.redactAll(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *service) Trending(ctx context.Context, viewerID int64) ([]PostWithAuthor, error) {
	posts, err := s.repo.Trending(ctx, 20)
	if err != nil {
		return nil, err
	}
	if err := s.redactAll(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *service) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	liked, err := s.repo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked && p.AuthorID != userID {
		s.notifier.Notify(ctx, p.AuthorID, userID, "like",
			"Someone liked your post",
			fmt.Sprintf("/post/%d", p.ID))
	}

	return liked, nil
}

func (s *service) AddComment(ctx context.Context, userID, postID int64, content string) (*Comment, error) {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	cm, err := s.repo.CreateComment(ctx, userID, postID, content)
	if err != nil {
		return nil, err
	}

	if p.AuthorID != userID {
		s.notifier.Notify(ctx, p.AuthorID, userID, "comment",
			"Someone commented on your post",
			fmt.Sprintf("/post/%d", p.ID))
	}

	return cm, nil
}

func (s *service) Comments(ctx context.Context, postID int64, limit, offset int) ([]Comment, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID, limit, offset)
}
