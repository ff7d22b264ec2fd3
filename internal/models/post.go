package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID  uint    `gorm:"not null;uniqueIndex:idx_posts_owner_slug" json:"account_id"`
	Author     Account `gorm:"foreignKey:AccountID" json:"author"`
	Title      string  `gorm:"size:64;not null" json:"title"`
	Slug       string  `gorm:"not null;uniqueIndex:idx_posts_owner_slug" json:"slug"`
	Content    string  `gorm:"type:text;not null" json:"content"`
	Image      string  `json:"image"`
	Visibility bool    `gorm:"not null" json:"visibility"`

	Comments   []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	LikesCount int64     `gorm:"-" json:"likes_count"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PostID    uint    `gorm:"index;not null" json:"post_id"`
	AccountID uint    `gorm:"index;not null" json:"account_id"`
	Author    Account `gorm:"foreignKey:AccountID" json:"author"`
	Content   string  `gorm:"size:128;not null" json:"content"`
}

// Like is one account's like on one post.
type Like struct {
	PostID    uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"primaryKey"`
	CreatedAt time.Time
}
