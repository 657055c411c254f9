package public

import (
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the portal and account routes.
type Handler struct {
	*provider.Container
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondValidationError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondValidationError(c, err, fallbackKey)
}
