package seo

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveformv/mvt-warehousing-sub000/internal/models"
	"github.com/driveformv/mvt-warehousing-sub000/pkg/response"
)

const cacheTTL = 10 * time.Minute

// Hardcoded site-wide defaults served when a path has no stored metadata.
const (
	DefaultTitle       = "MVT Warehousing | Full-Service Logistics & Warehousing"
	DefaultDescription = "Warehousing, distribution and transportation services across the US-Mexico border region."
	DefaultKeywords    = "warehousing, logistics, distribution, transportation, 3PL"
)

// Store is the persistence surface the handler needs.
type Store interface {
	GetByPath(ctx context.Context, path string) (*models.SEOMetadata, error)
	Upsert(ctx context.Context, m *models.SEOMetadata) error
}

// Cache fronts the metadata table. Implementations return a miss error for
// absent keys; a nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Metadata is the lookup response shape.
type Metadata struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords,omitempty"`
	OGImage     string `json:"og_image,omitempty"`
}

// Handler handles SEO metadata HTTP endpoints.
type Handler struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

// NewHandler creates a SEO handler. cache may be nil.
func NewHandler(store Store, cache Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: cache, logger: logger}
}

func cacheKey(path string) string { return "seo:" + path }

// Get handles GET /seo?path=<p>. A path with no stored metadata returns the
// hardcoded site defaults with status 200, never 404.
func (h *Handler) Get(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		path = "/"
	}
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached Metadata
		if err := h.cache.GetJSON(ctx, cacheKey(path), &cached); err == nil {
			response.OK(c, cached)
			return
		}
	}

	meta := Metadata{
		Path:        path,
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Keywords:    DefaultKeywords,
	}
	stored, err := h.store.GetByPath(ctx, path)
	switch {
	case err == nil:
		meta = Metadata{
			Path:        stored.Path,
			Title:       stored.Title,
			Description: stored.Description,
			Keywords:    stored.Keywords,
			OGImage:     stored.OGImage,
		}
	case errors.Is(err, ErrNotFound):
		// serve defaults
	default:
		h.logger.Error("seo lookup failed", zap.String("path", path), zap.Error(err))
		// storage trouble still serves defaults; the page must render
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cacheKey(path), meta, cacheTTL); err != nil {
			h.logger.Warn("seo cache write failed", zap.String("path", path), zap.Error(err))
		}
	}
	response.OK(c, meta)
}

// UpsertRequest is the body for PUT /admin/seo.
type UpsertRequest struct {
	Path        string `json:"path" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image"`
}

// Upsert handles PUT /admin/seo. Creates or replaces the metadata for a path
// and invalidates its cache entry.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "path and title are required")
		return
	}
	m := &models.SEOMetadata{
		Path:        req.Path,
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
		OGImage:     req.OGImage,
	}
	if err := h.store.Upsert(c.Request.Context(), m); err != nil {
		h.logger.Error("seo upsert failed", zap.String("path", req.Path), zap.Error(err))
		response.Internal(c, "failed to save metadata")
		return
	}
	if h.cache != nil {
		if err := h.cache.Delete(c.Request.Context(), cacheKey(req.Path)); err != nil {
			h.logger.Warn("seo cache invalidation failed", zap.String("path", req.Path), zap.Error(err))
		}
	}
	response.OK(c, m)
}
