package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/models"
)

type AccountRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAccountRepository(db *gorm.DB, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{db: db, logger: logger.Named("AccountRepository")}
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(email))
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var rec models.Account
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("account lookup failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomain(&rec), nil
}

// Create inserts a new record and fills in the generated ID.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	rec := fromDomain(a)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("duplicate account on create", zap.String("username", a.Username), zap.String("email", a.Email))
			return domain.ErrDuplicate
		}
		r.logger.Error("create account failed", zap.String("email", a.Email), zap.Error(err))
		return fmt.Errorf("create account: %w", err)
	}
	a.ID = rec.ID
	a.CreatedAt = rec.CreatedAt
	return nil
}

// Save overwrites every column of an existing record. Last write wins.
func (r *AccountRepository) Save(ctx context.Context, a *domain.Account) error {
	rec := fromDomain(a)
	res := r.db.WithContext(ctx).Model(&models.Account{ID: a.ID}).Select("*").Omit("id", "created_at").Updates(rec)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		r.logger.Error("save account failed", zap.Uint("id", a.ID), zap.Error(err))
		return fmt.Errorf("save account: %w", err)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Account{}, id).Error; err != nil {
		r.logger.Error("delete account failed", zap.Uint("id", id), zap.Error(err))
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func toDomain(m *models.Account) *domain.Account {
	a := &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		CreatedAt:    m.CreatedAt,
		Profile: domain.Profile{
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Bio:       m.Bio,
			Picture:   m.ProfilePicture,
			Interests: m.Interests,
		},
	}
	if m.IsVerified {
		v := domain.Verified{}
		if m.VerifiedAt != nil {
			v.At = *m.VerifiedAt
		}
		a.Status = v
		return a
	}
	p := domain.Pending{Code: m.VerificationCode}
	if m.VerificationCodeExpiry != nil {
		p.ExpiresAt = *m.VerificationCodeExpiry
	}
	a.Status = p
	return a
}

func fromDomain(a *domain.Account) *models.Account {
	m := &models.Account{
		ID:             a.ID,
		Username:       a.Username,
		Email:          strings.ToLower(a.Email),
		Password:       a.PasswordHash,
		FirstName:      a.Profile.FirstName,
		LastName:       a.Profile.LastName,
		Bio:            a.Profile.Bio,
		ProfilePicture: a.Profile.Picture,
		Interests:      a.Profile.Interests,
	}
	switch st := a.Status.(type) {
	case domain.Verified:
		at := st.At
		m.IsVerified = true
		m.VerifiedAt = &at
	case domain.Pending:
		exp := st.ExpiresAt
		m.VerificationCode = st.Code
		m.VerificationCodeExpiry = &exp
	}
	return m
}
