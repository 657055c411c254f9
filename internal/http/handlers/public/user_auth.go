package public

import (
	"time"

	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/i18n"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

// SignupRequest is the registration form.
type SignupRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password" binding:"required"`
	service.CaptchaVerifyPayload
}

// LoginRequest accepts a username or an email in login.
type LoginRequest struct {
	Login      string `form:"login" json:"login" binding:"required"`
	Password   string `form:"password" json:"password" binding:"required"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
	service.CaptchaVerifyPayload
}

// GetCaptcha issues an image challenge for the account forms.
func (h *Handler) GetCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_generate_failed")
		return
	}
	response.Success(c, challenge)
}

// Signup registers an account and signs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneSignup, req.CaptchaVerifyPayload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_invalid")
		return
	}
	user, err := h.UserAuthService.Register(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "error.register_failed")
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(user.Username, req.Password, false)
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_failed", err)
		return
	}
	requestLog(c).Infow("user_signed_up", "user_id", user.ID)
	respondSession(c, user, token, expiresAt)
}

// Login signs a user in and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaVerifyPayload); err != nil {
		respondWithMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.captcha_invalid")
		return
	}
	user, token, expiresAt, err := h.UserAuthService.Login(req.Login, req.Password, req.RememberMe)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	respondSession(c, user, token, expiresAt)
}

// Logout revokes every token of the user and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, response.CodeInternal, "error.logout_failed", err)
		return
	}
	handlershared.ClearSessionCookie(c)
	response.Success(c, gin.H{"logged_out": true}, i18n.T(i18n.ResolveLocale(c), "message.logged_out"))
}

// respondSession returns the token in the body for API clients and in a cookie for browsers.
func respondSession(c *gin.Context, user *models.User, token string, expiresAt time.Time) {
	handlershared.SetSessionCookie(c, token, expiresAt)
	response.Success(c, gin.H{
		"user":       presentUser(user),
		"token":      token,
		"expires_at": expiresAt.Format(publicTimeLayout),
	})
}
