package public

import (
	"strconv"

	"github.com/newsportal/internal/authz"
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidKey, typeInvalidKey)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, handlershared.ContextUserID, "error.user_id_invalid", "error.user_id_type_invalid")
}

func principal(c *gin.Context) authz.Principal {
	return handlershared.PrincipalFromContext(c)
}

// parseIDParam reads a positive numeric path parameter; a malformed id is a not-found.
func parseIDParam(c *gin.Context, name, notFoundKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeNotFound, notFoundKey, nil)
		return 0, false
	}
	return uint(id), true
}
