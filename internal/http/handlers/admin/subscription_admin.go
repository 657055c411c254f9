package admin

import (
	"strconv"

	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSubscriptions pages subscriptions, optionally for one user or category.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, pageSize := queryPagination(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	subscriptions, total, err := h.SubscriptionService.List(repository.SubscriptionListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     uint(userID),
		CategoryID: uint(categoryID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.subscription_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, subscriptions, response.NewPagination(page, pageSize, total))
}
