package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/models"
)

type PostRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPostRepository(db *gorm.DB, logger *zap.Logger) *PostRepository {
	return &PostRepository{db: db, logger: logger.Named("PostRepository")}
}

func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "first_name", "last_name", "profile_picture")
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		r.logger.Error("create post failed", zap.Uint("account_id", p.AccountID), zap.String("slug", p.Slug), zap.Error(err))
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ListVisible returns public posts, newest first, with like counts.
func (r *PostRepository) ListVisible(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", authorColumns).
		Where("visibility = ?", true).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		r.logger.Error("list posts failed", zap.Error(err))
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		if posts[i].LikesCount, err = r.countLikes(ctx, posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// FindBySlug loads a post of the given owner with its comments and like count.
func (r *PostRepository) FindBySlug(ctx context.Context, ownerID uint, slug string) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).
		Preload("Author", authorColumns).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author", authorColumns).
		Where("account_id = ? AND slug = ?", ownerID, slug).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("find post failed", zap.Uint("owner_id", ownerID), zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("find post: %w", err)
	}
	if p.LikesCount, err = r.countLikes(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *models.Post) error {
	err := r.db.WithContext(ctx).Model(&models.Post{ID: p.ID}).
		Select("title", "slug", "content", "image", "visibility").
		Updates(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		r.logger.Error("update post failed", zap.Uint("id", p.ID), zap.Error(err))
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes the post together with its comments and likes.
func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		r.logger.Error("delete post failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (r *PostRepository) AddComment(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		r.logger.Error("add comment failed", zap.Uint("post_id", c.PostID), zap.Error(err))
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (r *PostRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author", authorColumns).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		r.logger.Error("list comments failed", zap.Uint("post_id", postID), zap.Error(err))
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// FindComment returns the comment only when it belongs to postID.
func (r *PostRepository) FindComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	var c models.Comment
	err := r.db.WithContext(ctx).Where("id = ? AND post_id = ?", commentID, postID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *PostRepository) UpdateComment(ctx context.Context, c *models.Comment) error {
	if err := r.db.WithContext(ctx).Model(&models.Comment{ID: c.ID}).Update("content", c.Content).Error; err != nil {
		r.logger.Error("update comment failed", zap.Uint("id", c.ID), zap.Error(err))
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *PostRepository) DeleteComment(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		r.logger.Error("delete comment failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleLike adds the account's like when absent and removes it otherwise.
// It returns whether the post is liked afterwards and the new like count.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, accountID uint) (bool, int64, error) {
	var liked bool
	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND account_id = ?", postID, accountID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.Like{PostID: postID, AccountID: accountID}).Error; err != nil {
				return err
			}
			liked = true
		}
		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	})
	if err != nil {
		r.logger.Error("toggle like failed", zap.Uint("post_id", postID), zap.Uint("account_id", accountID), zap.Error(err))
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}
	return liked, count, nil
}

func (r *PostRepository) countLikes(ctx context.Context, postID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
