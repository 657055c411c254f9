package public

import (
	"net/http"
	"strings"

	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/http/response"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

// YandexLogin returns the Yandex authorize URL for clients that navigate themselves.
func (h *Handler) YandexLogin(c *gin.Context) {
	authURL, ok := h.beginYandexLogin(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"authorize_url": authURL})
}

// YandexImmediate sends the browser straight to Yandex, skipping the provider
// confirmation page.
func (h *Handler) YandexImmediate(c *gin.Context) {
	authURL, ok := h.beginYandexLogin(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// YandexCallback finishes the flow, sets the session cookie and redirects to the portal.
func (h *Handler) YandexCallback(c *gin.Context) {
	if providerErr := strings.TrimSpace(c.Query("error")); providerErr != "" {
		requestLog(c).Warnw("oauth_provider_error", "provider", "yandex", "error", providerErr)
		respondError(c, response.CodeBadRequest, "error.oauth_exchange_failed", nil)
		return
	}
	cookieState, _ := c.Cookie(oauthStateCookie)
	user, token, expiresAt, err := h.OAuthService.Callback(c.Request.Context(), c.Query("code"), c.Query("state"), cookieState)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	if err != nil {
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	requestLog(c).Infow("oauth_login_succeeded", "provider", "yandex", "user_id", user.ID)
	handlershared.SetSessionCookie(c, token, expiresAt)
	c.Redirect(http.StatusFound, h.OAuthService.LoginRedirect())
}

func (h *Handler) beginYandexLogin(c *gin.Context) (string, bool) {
	authURL, state, err := h.OAuthService.AuthCodeURL(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "error.internal")
		return "", false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(h.OAuthService.StateTTL().Seconds()), "/", "", false, true)
	return authURL, true
}
