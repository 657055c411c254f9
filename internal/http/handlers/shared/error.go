package shared

import (
	"errors"

	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/i18n"
	"github.com/newsportal/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog is the sugared logger tagged with the request id.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError answers a localized error and logs err when present.
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithMsg is RespondError with a ready message.
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondValidationError renders the message of a rule violation carrying its
// own i18n key, falling back to fallbackKey.
func RespondValidationError(c *gin.Context, err error, fallbackKey string) {
	locale := i18n.ResolveLocale(c)
	var verr interface {
		Key() string
		Args() []interface{}
	}
	if errors.As(err, &verr) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, verr.Key(), verr.Args()...), nil)
		return
	}
	RespondError(c, response.CodeBadRequest, fallbackKey, nil)
}
