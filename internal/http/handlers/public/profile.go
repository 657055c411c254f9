package public

import (
	"errors"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/i18n"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileEditRequest is the profile form. Every field is sent on each edit.
type ProfileEditRequest struct {
	Username  string `form:"username" json:"username"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
}

func presentUser(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"email":         user.Email,
		"display_name":  user.DisplayName(),
		"roles":         user.Roles,
		"is_author":     user.HasRole(constants.RoleAuthors),
		"last_login_at": formatTime(user.LastLoginAt),
	}
}

// GetProfile returns the requester's own profile.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, presentUser(user))
}

// EditProfile updates the requester's own profile.
func (h *Handler) EditProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ProfileEditRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	user, err := h.UserService.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		respondWithMappedError(c, err, profileErrorRules, response.CodeInternal, "error.profile_update_failed")
		return
	}
	response.Success(c, presentUser(user), i18n.T(i18n.ResolveLocale(c), "message.profile_updated"))
}

// BecomeAuthor grants the requester the author roles.
func (h *Handler) BecomeAuthor(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserService.BecomeAuthor(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotFound):
			respondError(c, response.CodeInternal, "error.role_not_found", err)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.become_author_failed", err)
		}
		return
	}
	requestLog(c).Infow("user_became_author", "user_id", user.ID)
	response.Success(c, presentUser(user), i18n.T(i18n.ResolveLocale(c), "message.become_author"))
}
