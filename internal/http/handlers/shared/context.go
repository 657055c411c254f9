package shared

import (
	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the user auth middleware.
const (
	ContextUserID           = "user_id"
	ContextUsername         = "username"
	ContextUserRoles        = "user_roles"
	ContextUserCapabilities = "user_capabilities"
)

// PublicConfigCacheKey caches the public portal config; category changes drop it.
const PublicConfigCacheKey = "public:config"

// UserTokenCookie carries the portal session token for browser clients.
const UserTokenCookie = "token"

// PrincipalFromContext returns the signed-in user, or an anonymous principal.
func PrincipalFromContext(c *gin.Context) authz.Principal {
	if c == nil {
		return authz.Principal{}
	}
	userID, _ := c.Get(ContextUserID)
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return authz.Principal{}
	}
	var roles []string
	if raw, exists := c.Get(ContextUserRoles); exists {
		roles, _ = raw.([]string)
	}
	var capabilities authz.CapabilitySet
	if raw, exists := c.Get(ContextUserCapabilities); exists {
		capabilities, _ = raw.(authz.CapabilitySet)
	}
	return authz.Principal{UserID: id, Roles: roles, Capabilities: capabilities}
}

// GetContextUintWithKeys reads a uint set by a middleware and answers the error itself.
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}
