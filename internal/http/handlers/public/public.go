package public

import (
	"time"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/constants"
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/models"

	"github.com/gin-gonic/gin"
)

const publicConfigCacheTTL = 60 * time.Second

// PublicConfig is what a client needs to render the portal chrome.
type PublicConfig struct {
	SiteURL       string         `json:"site_url"`
	Locale        string         `json:"locale"`
	PageSize      int            `json:"page_size"`
	PostTypes     []string       `json:"post_types"`
	Categories    []categoryItem `json:"categories"`
	YandexEnabled bool           `json:"yandex_enabled"`
}

// GetConfig returns the public portal settings, cached in redis for a minute.
func (h *Handler) GetConfig(c *gin.Context) {
	ctx := c.Request.Context()
	var cached PublicConfig
	if hit, err := cache.GetJSON(ctx, handlershared.PublicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	cfg := PublicConfig{
		SiteURL:       h.Config.Site.BaseURL,
		Locale:        h.Config.Site.Locale,
		PageSize:      h.PostService.PageSize(),
		PostTypes:     []string{constants.PostTypeNews, constants.PostTypeArticle},
		Categories:    presentCategories(categories),
		YandexEnabled: h.OAuthService.Enabled(),
	}
	if err := cache.SetJSON(ctx, handlershared.PublicConfigCacheKey, cfg, publicConfigCacheTTL); err != nil {
		requestLog(c).Warnw("public_config_cache_set_failed", "error", err)
	}
	response.Success(c, cfg)
}

// Health reports database reachability.
func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
	}
	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(c.Request.Context()); err != nil {
			redisStatus = "unreachable"
		}
	}
	response.Success(c, gin.H{
		"status": status,
		"redis":  redisStatus,
	})
}

func presentCategories(categories []models.Category) []categoryItem {
	items := make([]categoryItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, categoryItem{ID: category.ID, Name: category.Name})
	}
	return items
}
