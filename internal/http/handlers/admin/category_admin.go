package admin

import (
	"errors"

	"github.com/newsportal/internal/cache"
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest is the category create and rename body.
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories returns every category.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(service.CategoryInput{Name: req.Name})
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	h.dropPublicConfig(c)
	requestLog(c).Infow("admin_category_created", "admin_id", currentAdminID(c), "category_id", category.ID)
	response.Success(c, category)
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, service.CategoryInput{Name: req.Name})
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	h.dropPublicConfig(c)
	response.Success(c, category)
}

// DeleteCategory removes a category with its links and subscriptions.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseUintParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.category_delete_failed", err)
		return
	}
	h.dropPublicConfig(c)
	requestLog(c).Infow("admin_category_deleted", "admin_id", currentAdminID(c), "category_id", id)
	response.Success(c, nil)
}

func (h *Handler) dropPublicConfig(c *gin.Context) {
	if err := cache.Del(c.Request.Context(), handlershared.PublicConfigCacheKey); err != nil {
		requestLog(c).Warnw("public_config_cache_drop_failed", "error", err)
	}
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "error.category_not_found", nil)
	case errors.Is(err, service.ErrCategoryNameExists):
		respondError(c, response.CodeConflict, "error.category_name_exists", nil)
	case errors.Is(err, service.ErrCategoryNameRequired):
		respondValidationError(c, err, "error.category_name_required")
	default:
		respondError(c, response.CodeInternal, "error.category_save_failed", err)
	}
}
