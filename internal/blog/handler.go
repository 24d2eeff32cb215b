package blog

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/database"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

// Store is the persistence surface the handler needs.
type Store interface {
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Create(ctx context.Context, p *models.BlogPost) error
	Update(ctx context.Context, p *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler handles blog HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a blog handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Get handles GET /blog and GET /blog?id=<id>. Without an id it lists
// published posts newest first; with an id it returns the single post.
func (h *Handler) Get(c *gin.Context) {
	if idStr := c.Query("id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			response.BadRequest(c, "invalid post id")
			return
		}
		post, err := h.store.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				response.NotFound(c, "post not found")
				return
			}
			h.logger.Error("load blog post failed", zap.String("id", idStr), zap.Error(err))
			response.Internal(c, "failed to load post")
			return
		}
		response.OK(c, post)
		return
	}

	list, err := h.store.ListPublished(c.Request.Context())
	if err != nil {
		h.logger.Error("list blog posts failed", zap.Error(err))
		if database.IsUnavailable(err) {
			response.ServiceUnavailable(c, "storage temporarily unavailable")
			return
		}
		response.Internal(c, "failed to load posts")
		return
	}
	if list == nil {
		list = []models.BlogPost{}
	}
	response.OK(c, list)
}

// PostRequest is the body for POST /admin/blog and PUT /admin/blog/:id.
type PostRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug" binding:"required"`
	Excerpt    string `json:"excerpt"`
	Body       string `json:"body" binding:"required"`
	Author     string `json:"author"`
	CoverImage string `json:"cover_image"`
	Published  *bool  `json:"published"`
}

// Create handles POST /admin/blog.
func (h *Handler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title, slug and body are required")
		return
	}
	post := &models.BlogPost{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Body:       req.Body,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Published:  true,
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if err := h.store.Create(c.Request.Context(), post); err != nil {
		if database.IsUniqueViolation(err) {
			response.Conflict(c, ErrSlugTaken.Error())
			return
		}
		h.logger.Error("create blog post failed", zap.String("slug", req.Slug), zap.Error(err))
		response.Internal(c, "failed to create post")
		return
	}
	response.Created(c, post)
}

// Update handles PUT /admin/blog/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title, slug and body are required")
		return
	}
	post := &models.BlogPost{
		ID:         id,
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Body:       req.Body,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Published:  true,
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	if err := h.store.Update(c.Request.Context(), post); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "post not found")
		case database.IsUniqueViolation(err):
			response.Conflict(c, ErrSlugTaken.Error())
		default:
			h.logger.Error("update blog post failed", zap.String("id", id.String()), zap.Error(err))
			response.Internal(c, "failed to update post")
		}
		return
	}
	response.OK(c, post)
}

// Delete handles DELETE /admin/blog/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		h.logger.Error("delete blog post failed", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to delete post")
		return
	}
	response.NoContent(c)
}
