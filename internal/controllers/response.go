package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clanci-blog/internal/domain"
)

func respond(c *gin.Context, status int, message string, extra gin.H) {
	body := gin.H{"success": status < http.StatusBadRequest, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	respond(c, status, message, nil)
}

// writeError translates a service error into a response. Errors that are not
// the client's fault are logged and answered with a generic message.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		fail(c, http.StatusBadRequest, detail(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotVerified), errors.Is(err, domain.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrTooManyAttempts):
		fail(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrDispatch):
		logger.Error("dispatch failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, domain.ErrDispatch.Error())
	case errors.Is(err, domain.ErrMedia):
		logger.Error("media host failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, domain.ErrMedia.Error())
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}

// detail strips the sentinel prefix from a wrapped "%w: detail" error.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}
