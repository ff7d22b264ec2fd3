package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/middleware"
	"clanci-blog/internal/services"
	"clanci-blog/internal/utils"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.Account, error)
	Verify(ctx context.Context, username, code string) (*domain.Account, error)
	Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error)
	Get(ctx context.Context, id uint) (*domain.Account, error)
}

type AuthController struct {
	accounts  AccountService
	secret    string
	tokenTTL  time.Duration
	logger    *zap.Logger
	clockFunc func() time.Time
}

func NewAuthController(accounts AccountService, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthController {
	return &AuthController{
		accounts:  accounts,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.Named("AuthController"),
		clockFunc: time.Now,
	}
}

type signUpPayload struct {
	Username string `json:"username" binding:"required,min=4,max=20,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpassword"`
}

func (a *AuthController) SignUp(c *gin.Context) {
	var p signUpPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	_, err := a.accounts.Register(c.Request.Context(), services.RegisterInput{
		Username: p.Username,
		Email:    p.Email,
		Password: p.Password,
	})
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	respond(c, http.StatusCreated, "User registered successfully, please verify your email", nil)
}

type verifyPayload struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

func (a *AuthController) VerifyCode(c *gin.Context) {
	var p verifyPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	_, err := a.accounts.Verify(c.Request.Context(), p.Username, p.Code)
	if errors.Is(err, domain.ErrNotFound) {
		fail(c, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	respond(c, http.StatusCreated, "User verified successfully", nil)
}

type loginPayload struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	acct, err := a.accounts.Authenticate(c.Request.Context(), p.Identifier, p.Password)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	tok, err := utils.NewAccessToken(a.secret, acct.ID, a.tokenTTL, a.clockFunc())
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	respond(c, http.StatusOK, "Logged in successfully", gin.H{"access_token": tok})
}

func (a *AuthController) Me(c *gin.Context) {
	id, ok := middleware.AccountID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "authorization required")
		return
	}
	acct, err := a.accounts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, a.logger, err)
		return
	}
	respond(c, http.StatusOK, "Account fetched", gin.H{"user": accountView(acct)})
}

func accountView(a *domain.Account) gin.H {
	interests := a.Profile.Interests
	if interests == nil {
		interests = []string{}
	}
	return gin.H{
		"id":              a.ID,
		"username":        a.Username,
		"email":           a.Email,
		"is_verified":     a.IsVerified(),
		"first_name":      a.Profile.FirstName,
		"last_name":       a.Profile.LastName,
		"bio":             a.Profile.Bio,
		"profile_picture": a.Profile.Picture,
		"interests":       interests,
	}
}
