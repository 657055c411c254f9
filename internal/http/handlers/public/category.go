package public

import (
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ListCategories returns every category with the requester's subscription flag.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	subscribed := make(map[uint]bool)
	if p := principal(c); !p.Anonymous() {
		subscriptions, err := h.SubscriptionService.ListMine(p.UserID)
		if err != nil {
			respondError(c, response.CodeInternal, "error.subscription_fetch_failed", err)
			return
		}
		for _, subscription := range subscriptions {
			subscribed[subscription.CategoryID] = true
		}
	}
	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, gin.H{
			"id":         category.ID,
			"name":       category.Name,
			"subscribed": subscribed[category.ID],
		})
	}
	response.Success(c, items)
}

// Subscribe adds the requester to a category's subscribers. Repeating it is harmless.
func (h *Handler) Subscribe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	created, err := h.SubscriptionService.Subscribe(userID, categoryID)
	if err != nil {
		respondWithMappedError(c, err, subscriptionErrorRules, response.CodeInternal, "error.subscription_failed")
		return
	}
	response.Success(c, gin.H{
		"category_id": categoryID,
		"subscribed":  true,
		"created":     created,
	}, i18n.T(i18n.ResolveLocale(c), "message.subscribed"))
}

// Unsubscribe removes the requester from a category's subscribers.
func (h *Handler) Unsubscribe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id", "error.category_not_found")
	if !ok {
		return
	}
	removed, err := h.SubscriptionService.Unsubscribe(userID, categoryID)
	if err != nil {
		respondWithMappedError(c, err, subscriptionErrorRules, response.CodeInternal, "error.subscription_failed")
		return
	}
	response.Success(c, gin.H{
		"category_id": categoryID,
		"subscribed":  false,
		"removed":     removed,
	}, i18n.T(i18n.ResolveLocale(c), "message.unsubscribed"))
}

// ListSubscriptions returns the requester's categories.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	subscriptions, err := h.SubscriptionService.ListMine(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.subscription_fetch_failed", err)
		return
	}
	items := make([]gin.H, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		item := gin.H{
			"category_id":   subscription.CategoryID,
			"subscribed_at": formatTime(&subscription.SubscribedAt),
		}
		if subscription.Category != nil {
			item["category_name"] = subscription.Category.Name
		}
		items = append(items, item)
	}
	response.Success(c, items)
}
