package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clanci-blog/internal/domain"
)

const (
	maxBioLen      = 255
	maxNameLen     = 24
	picturesFolder = "profile_pictures"
)

type ProfileService struct {
	accounts AccountStore
	images   ImageStore
	logger   *zap.Logger
}

func NewProfileService(accounts AccountStore, images ImageStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{accounts: accounts, images: images, logger: logger.Named("ProfileService")}
}

func (s *ProfileService) UpdateBio(ctx context.Context, id uint, bio string) (*domain.Account, error) {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return nil, fmt.Errorf("%w: bio field is not provided", domain.ErrValidation)
	}
	if len([]rune(bio)) > maxBioLen {
		return nil, fmt.Errorf("%w: bio must be at most %d characters", domain.ErrValidation, maxBioLen)
	}
	return s.update(ctx, id, func(p *domain.Profile) { p.Bio = bio })
}

func (s *ProfileService) UpdateName(ctx context.Context, id uint, first, last string) (*domain.Account, error) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: please provide value for both the fields", domain.ErrValidation)
	}
	if len([]rune(first)) > maxNameLen || len([]rune(last)) > maxNameLen {
		return nil, fmt.Errorf("%w: names must be at most %d characters", domain.ErrValidation, maxNameLen)
	}
	return s.update(ctx, id, func(p *domain.Profile) { p.FirstName, p.LastName = first, last })
}

func (s *ProfileService) DeleteName(ctx context.Context, id uint) (*domain.Account, error) {
	return s.update(ctx, id, func(p *domain.Profile) { p.FirstName, p.LastName = "", "" })
}

// AddInterests appends to the existing interests.
func (s *ProfileService) AddInterests(ctx context.Context, id uint, interests []string) (*domain.Account, error) {
	var clean []string
	for _, i := range interests {
		if i = strings.TrimSpace(i); i != "" {
			clean = append(clean, i)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: invalid value provided", domain.ErrValidation)
	}
	return s.update(ctx, id, func(p *domain.Profile) { p.Interests = append(p.Interests, clean...) })
}

func (s *ProfileService) ClearInterests(ctx context.Context, id uint) (*domain.Account, error) {
	return s.update(ctx, id, func(p *domain.Profile) { p.Interests = nil })
}

func (s *ProfileService) UpdatePicture(ctx context.Context, id uint, img Image) (*domain.Account, error) {
	acct, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, picturesFolder, img.Name, img.ContentType, img.Body, img.Size)
	if err != nil {
		return nil, err
	}
	old := acct.Profile.Picture
	acct.Profile.Picture = url
	if err := s.accounts.Save(ctx, acct); err != nil {
		s.deleteImage(ctx, url)
		return nil, err
	}
	s.deleteImage(ctx, old)
	return acct, nil
}

func (s *ProfileService) DeletePicture(ctx context.Context, id uint) (*domain.Account, error) {
	acct, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.Profile.Picture == "" {
		return acct, nil
	}
	if err := s.images.Delete(ctx, acct.Profile.Picture); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMedia, err)
	}
	acct.Profile.Picture = ""
	if err := s.accounts.Save(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *ProfileService) update(ctx context.Context, id uint, mutate func(*domain.Profile)) (*domain.Account, error) {
	acct, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(&acct.Profile)
	if err := s.accounts.Save(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *ProfileService) deleteImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Warn("could not delete image", zap.String("url", url), zap.Error(err))
	}
}
