package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clanci-blog/internal/domain"
	"clanci-blog/internal/middleware"
	"clanci-blog/internal/models"
	"clanci-blog/internal/services"
)

type PostService interface {
	Create(ctx context.Context, authorID uint, in services.PostInput) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, username, slug string) (*models.Post, error)
	Update(ctx context.Context, callerID uint, username, slug string, in services.PostInput) (*models.Post, error)
	Delete(ctx context.Context, callerID uint, username, slug string) error
	AddComment(ctx context.Context, callerID uint, username, slug, content string) (*models.Comment, error)
	Comments(ctx context.Context, username, slug string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, callerID uint, username, slug string, commentID uint, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, callerID uint, username, slug string, commentID uint) error
	ToggleLike(ctx context.Context, callerID uint, username, slug string) (bool, int64, error)
}

const (
	blogImageField   = "blog-image"
	commentNotFound  = "Comment not found or not authorized"
	postNotFoundText = "Blog not found"
)

type PostController struct {
	posts          PostService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewPostController(posts PostService, maxUploadBytes int64, logger *zap.Logger) *PostController {
	return &PostController{posts: posts, maxUploadBytes: maxUploadBytes, logger: logger.Named("PostController")}
}

// postError answers ErrNotFound with notFound and everything else through writeError.
func (p *PostController) postError(c *gin.Context, err error, notFound string) {
	if errors.Is(err, domain.ErrNotFound) {
		fail(c, http.StatusNotFound, notFound)
		return
	}
	writeError(c, p.logger, err)
}

func (p *PostController) List(c *gin.Context) {
	posts, err := p.posts.List(c.Request.Context())
	if err != nil {
		p.postError(c, err, "No blog found")
		return
	}
	respond(c, http.StatusOK, "Blogs fetched", gin.H{"blogs": posts})
}

func (p *PostController) Get(c *gin.Context) {
	post, err := p.posts.Get(c.Request.Context(), c.Param("username"), c.Param("slug"))
	if err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	respond(c, http.StatusOK, "Blog fetched", gin.H{"blog": post})
}

// postInput reads the multipart post form. The returned close func is never nil.
func (p *PostController) postInput(c *gin.Context) (services.PostInput, func(), error) {
	visibility, err := strconv.ParseBool(c.DefaultPostForm("visibility", "true"))
	if err != nil {
		return services.PostInput{}, func() {}, fmt.Errorf("%w: visibility must be true or false", domain.ErrValidation)
	}
	img, closeImg, err := formImage(c, blogImageField, p.maxUploadBytes)
	if err != nil {
		return services.PostInput{}, closeImg, err
	}
	return services.PostInput{
		Title:      c.PostForm("title"),
		Slug:       c.PostForm("slug"),
		Content:    c.PostForm("content"),
		Visibility: visibility,
		Image:      img,
	}, closeImg, nil
}

func (p *PostController) Create(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	in, closeImg, err := p.postInput(c)
	defer closeImg()
	if err != nil {
		writeError(c, p.logger, err)
		return
	}
	post, err := p.posts.Create(c.Request.Context(), caller, in)
	if err != nil {
		writeError(c, p.logger, err)
		return
	}
	respond(c, http.StatusCreated, "Blog created successfully", gin.H{"blog": post})
}

func (p *PostController) Update(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	in, closeImg, err := p.postInput(c)
	defer closeImg()
	if err != nil {
		writeError(c, p.logger, err)
		return
	}
	post, err := p.posts.Update(c.Request.Context(), caller, c.Param("username"), c.Param("slug"), in)
	if err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	respond(c, http.StatusOK, "Blog updated successfully", gin.H{"blog": post})
}

func (p *PostController) Delete(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	if err := p.posts.Delete(c.Request.Context(), caller, c.Param("username"), c.Param("slug")); err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	respond(c, http.StatusOK, "Blog deleted successfully", nil)
}

type commentPayload struct {
	Content string `json:"content" binding:"required,max=128"`
}

func (p *PostController) AddComment(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	var body commentPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	comment, err := p.posts.AddComment(c.Request.Context(), caller, c.Param("username"), c.Param("slug"), body.Content)
	if err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	respond(c, http.StatusCreated, "Comment added", gin.H{"comment": comment})
}

func (p *PostController) Comments(c *gin.Context) {
	comments, err := p.posts.Comments(c.Request.Context(), c.Param("username"), c.Param("slug"))
	if err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respond(c, http.StatusOK, "Comments fetched", gin.H{"comments": comments})
}

func (p *PostController) UpdateComment(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	id, ok := commentID(c)
	if !ok {
		return
	}
	var body commentPayload
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	comment, err := p.posts.UpdateComment(c.Request.Context(), caller, c.Param("username"), c.Param("slug"), id, body.Content)
	if err != nil {
		p.postError(c, err, commentNotFound)
		return
	}
	respond(c, http.StatusOK, "Comment updated", gin.H{"comment": comment})
}

func (p *PostController) DeleteComment(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	id, ok := commentID(c)
	if !ok {
		return
	}
	if err := p.posts.DeleteComment(c.Request.Context(), caller, c.Param("username"), c.Param("slug"), id); err != nil {
		p.postError(c, err, commentNotFound)
		return
	}
	respond(c, http.StatusOK, "Comment deleted", nil)
}

func (p *PostController) ToggleLike(c *gin.Context) {
	caller, _ := middleware.AccountID(c)
	liked, count, err := p.posts.ToggleLike(c.Request.Context(), caller, c.Param("username"), c.Param("slug"))
	if err != nil {
		p.postError(c, err, postNotFoundText)
		return
	}
	msg := "Like removed"
	if liked {
		msg = "Blog liked"
	}
	respond(c, http.StatusOK, msg, gin.H{"liked": liked, "likesCount": count})
}

func commentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "invalid comment id")
		return 0, false
	}
	return uint(id), true
}
