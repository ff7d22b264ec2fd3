package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/middleware"
	"clanci-blog/internal/services"
)

type ProfileService interface {
	UpdateBio(ctx context.Context, id uint, bio string) (*domain.Account, error)
	UpdateName(ctx context.Context, id uint, first, last string) (*domain.Account, error)
	DeleteName(ctx context.Context, id uint) (*domain.Account, error)
	AddInterests(ctx context.Context, id uint, interests []string) (*domain.Account, error)
	ClearInterests(ctx context.Context, id uint) (*domain.Account, error)
	UpdatePicture(ctx context.Context, id uint, img services.Image) (*domain.Account, error)
	DeletePicture(ctx context.Context, id uint) (*domain.Account, error)
}

const profilePictureField = "profile-picture"

type ProfileController struct {
	profiles       ProfileService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewProfileController(profiles ProfileService, maxUploadBytes int64, logger *zap.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, maxUploadBytes: maxUploadBytes, logger: logger.Named("ProfileController")}
}

func (p *ProfileController) reply(c *gin.Context, acct *domain.Account, err error, msg string) {
	if err != nil {
		writeError(c, p.logger, err)
		return
	}
	respond(c, http.StatusOK, msg, gin.H{"user": accountView(acct)})
}

type bioPayload struct {
	Bio string `json:"bio" binding:"required,max=255"`
}

func (p *ProfileController) UpdateBio(c *gin.Context) {
	var body bioPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.UpdateBio(c.Request.Context(), id, body.Bio)
	p.reply(c, acct, err, "Bio updated")
}

type namePayload struct {
	FirstName string `json:"firstName" binding:"required,max=24"`
	LastName  string `json:"lastName" binding:"required,max=24"`
}

func (p *ProfileController) UpdateName(c *gin.Context) {
	var body namePayload
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.UpdateName(c.Request.Context(), id, body.FirstName, body.LastName)
	p.reply(c, acct, err, "Name updated")
}

func (p *ProfileController) DeleteName(c *gin.Context) {
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.DeleteName(c.Request.Context(), id)
	p.reply(c, acct, err, "Name removed")
}

type interestPayload struct {
	Interest []string `json:"interest" binding:"required,min=1"`
}

func (p *ProfileController) AddInterests(c *gin.Context) {
	var body interestPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.AddInterests(c.Request.Context(), id, body.Interest)
	p.reply(c, acct, err, "Interests updated")
}

func (p *ProfileController) ClearInterests(c *gin.Context) {
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.ClearInterests(c.Request.Context(), id)
	p.reply(c, acct, err, "Interests removed")
}

func (p *ProfileController) UpdatePicture(c *gin.Context) {
	img, closeImg, err := formImage(c, profilePictureField, p.maxUploadBytes)
	defer closeImg()
	if err != nil {
		writeError(c, p.logger, err)
		return
	}
	if img == nil {
		fail(c, http.StatusBadRequest, "profile-picture is required")
		return
	}
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.UpdatePicture(c.Request.Context(), id, *img)
	p.reply(c, acct, err, "Profile picture updated")
}

func (p *ProfileController) DeletePicture(c *gin.Context) {
	id, _ := middleware.AccountID(c)
	acct, err := p.profiles.DeletePicture(c.Request.Context(), id)
	p.reply(c, acct, err, "Profile picture removed")
}
