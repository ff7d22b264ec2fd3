package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/media"
	"clanci-blog/internal/services"
)

// formImage reads an optional image from a multipart field. The returned close
// func is never nil.
func formImage(c *gin.Context, field string, maxBytes int64) (*services.Image, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("%w: could not read %s", domain.ErrValidation, field)
	}
	contentType := fh.Header.Get("Content-Type")
	if err := media.ValidateImage(fh.Size, contentType, maxBytes); err != nil {
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload: %w", err)
	}
	img := &services.Image{Name: fh.Filename, ContentType: contentType, Size: fh.Size, Body: f}
	return img, func() { f.Close() }, nil
}
