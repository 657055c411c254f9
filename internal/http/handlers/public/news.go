package public

import (
	"errors"
	"strconv"
	"time"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/constants"
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/i18n"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	newsListPath       = "/news/"
	listPreviewLength  = 20
	publicTimeLayout   = "2006-01-02T15:04:05Z07:00"
	unknownAuthorLabel = "unknown"
)

type categoryItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type postItem struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	PostType    string         `json:"post_type"`
	PubDate     string         `json:"pub_date"`
	AuthorID    *uint          `json:"author_id"`
	Author      string         `json:"author"`
	Categories  []categoryItem `json:"categories"`
	Preview     string         `json:"preview,omitempty"`
	ContentHTML string         `json:"content_html,omitempty"`
	URL         string         `json:"url"`
	CanEdit     bool           `json:"can_edit"`
}

// PostFormRequest is the create and edit form. Form and JSON bodies are both accepted.
type PostFormRequest struct {
	Title      string `form:"title" json:"title"`
	Content    string `form:"content" json:"content"`
	PostType   string `form:"post_type" json:"post_type"`
	Categories []uint `form:"categories" json:"categories"`
}

// PostEditRequest leaves the categories untouched when they are not sent.
type PostEditRequest struct {
	Title      string  `form:"title" json:"title"`
	Content    string  `form:"content" json:"content"`
	PostType   string  `form:"post_type" json:"post_type"`
	Categories *[]uint `form:"categories" json:"categories"`
}

// ListNews returns a page of posts, newest first.
func (h *Handler) ListNews(c *gin.Context) {
	page := queryPage(c)
	posts, total, err := h.PostService.List(page)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, h.presentPosts(c, posts), response.NewPagination(page, h.PostService.PageSize(), total), handlershared.PopFlash(c)...)
}

// SearchNews filters by title, author and date_after. Every filter is optional.
func (h *Handler) SearchNews(c *gin.Context) {
	input := service.SearchInput{
		Title:     c.Query("title"),
		Author:    c.Query("author"),
		DateAfter: c.Query("date_after"),
		Page:      queryPage(c),
	}
	var messages []string
	posts, total, err := h.PostService.Search(input)
	if errors.Is(err, service.ErrInvalidSearchDate) {
		messages = append(messages, i18n.T(i18n.ResolveLocale(c), "error.search_date_invalid"))
		input.DateAfter = ""
		posts, total, err = h.PostService.Search(input)
	}
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, h.presentPosts(c, posts), response.NewPagination(queryPage(c), h.PostService.PageSize(), total), messages...)
}

// GetNews returns one post with its content rendered to HTML.
func (h *Handler) GetNews(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.post_not_found")
	if !ok {
		return
	}
	post, err := h.PostService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	item := h.presentPost(c, post)
	html, err := h.ContentService.RenderHTML(post.Content)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	item.ContentHTML = html
	response.Success(c, item, handlershared.PopFlash(c)...)
}

// CreateNews publishes a post of type news.
func (h *Handler) CreateNews(c *gin.Context) {
	h.createPost(c, constants.PostTypeNews)
}

// CreateArticle publishes a post of type article.
func (h *Handler) CreateArticle(c *gin.Context) {
	h.createPost(c, constants.PostTypeArticle)
}

func (h *Handler) createPost(c *gin.Context, postType string) {
	var req PostFormRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, event, err := h.PostService.Create(principal(c), service.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		PostType:    postType,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		if h.redirectOnDenied(c, err) {
			return
		}
		respondPostCreateError(c, err)
		return
	}

	// the post stays published even when subscribers could not be notified
	if dispatchErr := h.Dispatcher.DispatchPostCreated(c.Request.Context(), event); dispatchErr != nil {
		requestLog(c).Errorw("post_notify_dispatch_failed",
			"post_id", post.ID,
			"error", dispatchErr,
		)
	}

	created, err := h.PostService.Get(post.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.post_fetch_failed", err)
		return
	}
	response.Success(c, h.presentPost(c, created), i18n.T(i18n.ResolveLocale(c), "message.post_created"))
}

// EditNews updates the form fields of a post owned by the requester.
func (h *Handler) EditNews(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.post_not_found")
	if !ok {
		return
	}
	var req PostEditRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	post, err := h.PostService.Update(principal(c), id, service.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		PostType:    req.PostType,
		CategoryIDs: req.Categories,
	})
	if err != nil {
		if h.redirectOnDenied(c, err) {
			return
		}
		respondPostUpdateError(c, err)
		return
	}
	response.Success(c, h.presentPost(c, post), i18n.T(i18n.ResolveLocale(c), "message.post_updated"))
}

// DeleteNews removes a post owned by the requester and returns to the list.
func (h *Handler) DeleteNews(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "error.post_not_found")
	if !ok {
		return
	}
	if err := h.PostService.Delete(principal(c), id); err != nil {
		if h.redirectOnDenied(c, err) {
			return
		}
		respondPostDeleteError(c, err)
		return
	}
	requestLog(c).Infow("post_deleted", "post_id", id, "user_id", principal(c).UserID)
	handlershared.RedirectWithFlash(c, newsListPath, i18n.T(i18n.ResolveLocale(c), "message.post_deleted"))
}

// redirectOnDenied answers a permission failure with a redirect to the list
// and a flash message.
func (h *Handler) redirectOnDenied(c *gin.Context, err error) bool {
	var perr *service.PermissionError
	if !errors.As(err, &perr) {
		return false
	}
	key := "message.permission_denied"
	if perr.Reason == authz.ReasonNotOwner {
		key = "message.not_owner"
	}
	requestLog(c).Infow("post_permission_denied",
		"action", perr.Action,
		"reason", perr.Reason,
		"user_id", principal(c).UserID,
		"path", c.Request.URL.Path,
	)
	handlershared.RedirectWithFlash(c, newsListPath, i18n.T(i18n.ResolveLocale(c), key))
	return true
}

func (h *Handler) presentPosts(c *gin.Context, posts []models.Post) []postItem {
	items := make([]postItem, 0, len(posts))
	for i := range posts {
		item := h.presentPost(c, &posts[i])
		item.Preview = h.ContentService.Censor(service.Excerpt(posts[i].Content, listPreviewLength))
		items = append(items, item)
	}
	return items
}

func (h *Handler) presentPost(c *gin.Context, post *models.Post) postItem {
	author := post.AuthorName()
	if author == "" {
		author = unknownAuthorLabel
	}
	categories := make([]categoryItem, 0, len(post.Categories))
	for _, category := range post.Categories {
		categories = append(categories, categoryItem{ID: category.ID, Name: category.Name})
	}
	decision := authz.Decide(principal(c), authz.ActionChange, authz.Resource{AuthorID: post.AuthorID})
	return postItem{
		ID:         post.ID,
		Title:      h.ContentService.Censor(post.Title),
		PostType:   post.PostType,
		PubDate:    post.PubDate.Format(publicTimeLayout),
		AuthorID:   post.AuthorID,
		Author:     author,
		Categories: categories,
		URL:        h.NotificationService.PostURL(post.ID),
		CanEdit:    decision.Allowed,
	}
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(publicTimeLayout)
}
