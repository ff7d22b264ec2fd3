package models

import (
	"time"
)

// Account is the flat storage shape for both pending and verified users.
// Verification columns are only meaningful while IsVerified is false.
// Its JSON form is the public author card embedded in posts and comments, so
// only the columns the post queries load are serialized.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Username               string     `gorm:"uniqueIndex;not null;size:20" json:"username"`
	Email                  string     `gorm:"uniqueIndex;not null" json:"-"`
	Password               string     `gorm:"not null" json:"-"`
	VerificationCode       string     `gorm:"size:6" json:"-"`
	VerificationCodeExpiry *time.Time `json:"-"`
	IsVerified             bool       `gorm:"not null" json:"-"`
	VerifiedAt             *time.Time `json:"-"`

	FirstName      string   `gorm:"size:24" json:"first_name"`
	LastName       string   `gorm:"size:24" json:"last_name"`
	Bio            string   `gorm:"size:255" json:"-"`
	ProfilePicture string   `json:"profile_picture"`
	Interests      []string `gorm:"serializer:json" json:"-"`
}
