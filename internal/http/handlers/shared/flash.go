package shared

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// FlashCookie holds messages queued for the next page the browser loads.
const FlashCookie = "messages"

const (
	flashPendingKey = "flash_pending"
	flashMaxAge     = 5 * 60
)

// AddFlash queues msg. Messages added earlier in the same request are kept.
func AddFlash(c *gin.Context, msg string) {
	messages := append(pendingFlash(c), msg)
	c.Set(flashPendingKey, messages)
	raw, err := json.Marshal(messages)
	if err != nil {
		RequestLog(c).Warnw("flash_encode_failed", "error", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, base64.RawURLEncoding.EncodeToString(raw), flashMaxAge, "/", "", false, true)
}

// PopFlash returns the queued messages and clears the cookie.
func PopFlash(c *gin.Context) []string {
	messages := pendingFlash(c)
	if len(messages) == 0 {
		return nil
	}
	c.Set(flashPendingKey, []string(nil))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	return messages
}

// RedirectWithFlash queues msg and answers 303 to location.
func RedirectWithFlash(c *gin.Context, location, msg string) {
	AddFlash(c, msg)
	c.Redirect(http.StatusSeeOther, location)
}

func pendingFlash(c *gin.Context) []string {
	if value, ok := c.Get(flashPendingKey); ok {
		messages, _ := value.([]string)
		return messages
	}
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(decoded, &messages); err != nil {
		return nil
	}
	return messages
}

// SetSessionCookie stores the user token for browser clients.
func SetSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(UserTokenCookie, token, maxAge, "/", "", false, true)
}

// ClearSessionCookie drops the user token cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(UserTokenCookie, "", -1, "/", "", false, true)
}
