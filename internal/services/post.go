package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/models"
)

type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	ListVisible(ctx context.Context) ([]models.Post, error)
	FindBySlug(ctx context.Context, ownerID uint, slug string) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uint) error
	AddComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)
	FindComment(ctx context.Context, postID, commentID uint) (*models.Comment, error)
	UpdateComment(ctx context.Context, c *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, postID, accountID uint) (bool, int64, error)
}

// ImageStore is the external media host.
type ImageStore interface {
	Upload(ctx context.Context, folder, fileName, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is an uploaded file as received from the client.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

const (
	maxTitleLen   = 64
	maxCommentLen = 128
	postsFolder   = "blog_images"
)

type PostInput struct {
	Title      string
	Slug       string
	Content    string
	Visibility bool
	Image      *Image
}

func (in *PostInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Title == "" || in.Slug == "" || strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: some fields are missing", domain.ErrValidation)
	}
	if len([]rune(in.Title)) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLen)
	}
	return nil
}

type PostService struct {
	posts    PostStore
	accounts AccountStore
	images   ImageStore
	logger   *zap.Logger
}

func NewPostService(posts PostStore, accounts AccountStore, images ImageStore, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, accounts: accounts, images: images, logger: logger.Named("PostService")}
}

func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.Post{
		AccountID:  authorID,
		Title:      in.Title,
		Slug:       in.Slug,
		Content:    in.Content,
		Visibility: in.Visibility,
	}
	if in.Image != nil {
		url, err := s.images.Upload(ctx, postsFolder, in.Image.Name, in.Image.ContentType, in.Image.Body, in.Image.Size)
		if err != nil {
			return nil, err
		}
		p.Image = url
	}
	if err := s.posts.Create(ctx, p); err != nil {
		s.dropImage(ctx, p.Image)
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: slug %q is already used", domain.ErrValidation, p.Slug)
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, domain.ErrNotFound
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, username, slug string) (*models.Post, error) {
	owner, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.posts.FindBySlug(ctx, owner.ID, slug)
}

// Update replaces the post's fields. A new image replaces the old one; without
// a new image the current one is kept.
func (s *PostService) Update(ctx context.Context, callerID uint, username, slug string, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.owned(ctx, callerID, username, slug)
	if err != nil {
		return nil, err
	}

	oldImage := p.Image
	if in.Image != nil {
		url, err := s.images.Upload(ctx, postsFolder, in.Image.Name, in.Image.ContentType, in.Image.Body, in.Image.Size)
		if err != nil {
			return nil, err
		}
		p.Image = url
	}
	p.Title, p.Slug, p.Content, p.Visibility = in.Title, in.Slug, in.Content, in.Visibility

	if err := s.posts.Update(ctx, p); err != nil {
		if p.Image != oldImage {
			s.dropImage(ctx, p.Image)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: slug %q is already used", domain.ErrValidation, p.Slug)
		}
		return nil, err
	}
	if p.Image != oldImage {
		s.dropImage(ctx, oldImage)
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, callerID uint, username, slug string) error {
	p, err := s.owned(ctx, callerID, username, slug)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.dropImage(ctx, p.Image)
	return nil
}

func (s *PostService) AddComment(ctx context.Context, callerID uint, username, slug, content string) (*models.Comment, error) {
	content, err := validComment(content)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	c := &models.Comment{PostID: p.ID, AccountID: callerID, Content: content}
	if err := s.posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostService) Comments(ctx context.Context, username, slug string) ([]models.Comment, error) {
	p, err := s.Get(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, p.ID)
}

func (s *PostService) UpdateComment(ctx context.Context, callerID uint, username, slug string, commentID uint, content string) (*models.Comment, error) {
	content, err := validComment(content)
	if err != nil {
		return nil, err
	}
	c, err := s.authoredComment(ctx, callerID, username, slug, commentID)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.posts.UpdateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostService) DeleteComment(ctx context.Context, callerID uint, username, slug string, commentID uint) error {
	c, err := s.authoredComment(ctx, callerID, username, slug, commentID)
	if err != nil {
		return err
	}
	return s.posts.DeleteComment(ctx, c.ID)
}

// ToggleLike flips the caller's like and returns whether it is now liked.
func (s *PostService) ToggleLike(ctx context.Context, callerID uint, username, slug string) (bool, int64, error) {
	p, err := s.Get(ctx, username, slug)
	if err != nil {
		return false, 0, err
	}
	return s.posts.ToggleLike(ctx, p.ID, callerID)
}

func (s *PostService) owned(ctx context.Context, callerID uint, username, slug string) (*models.Post, error) {
	owner, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner.ID != callerID {
		return nil, domain.ErrForbidden
	}
	return s.posts.FindBySlug(ctx, owner.ID, slug)
}

// authoredComment hides comments of other authors behind ErrNotFound.
func (s *PostService) authoredComment(ctx context.Context, callerID uint, username, slug string, commentID uint) (*models.Comment, error) {
	p, err := s.Get(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	c, err := s.posts.FindComment(ctx, p.ID, commentID)
	if err != nil {
		return nil, err
	}
	if c.AccountID != callerID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *PostService) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Warn("could not delete image", zap.String("url", url), zap.Error(err))
	}
}

func validComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: no comment content", domain.ErrValidation)
	}
	if len([]rune(content)) > maxCommentLen {
		return "", fmt.Errorf("%w: comment must be at most %d characters", domain.ErrValidation, maxCommentLen)
	}
	return content, nil
}
