package public

import (
	"errors"

	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a service error to a business code and message key.
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			var verr service.ValidationError
			if errors.As(err, &verr) {
				respondValidationError(c, err, rule.key)
				return
			}
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var postFormErrorRules = []mappedHandlerError{
	{target: service.ErrPostTitleRequired, code: response.CodeBadRequest, key: "error.post_title_required"},
	{target: service.ErrPostTitleTooLong, code: response.CodeBadRequest, key: "error.post_title_too_long"},
	{target: service.ErrPostContentRequired, code: response.CodeBadRequest, key: "error.post_content_required"},
	{target: service.ErrInvalidPostType, code: response.CodeBadRequest, key: "error.post_type_invalid"},
	{target: service.ErrCategoryNotFound, code: response.CodeBadRequest, key: "error.category_not_found"},
}

var postLookupErrorRules = []mappedHandlerError{
	{target: service.ErrPostNotFound, code: response.CodeNotFound, key: "error.post_not_found"},
}

var profileErrorRules = []mappedHandlerError{
	{target: service.ErrUsernameInvalid, code: response.CodeBadRequest, key: "error.username_invalid"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, key: "error.username_exists"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrUserNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrUsernameInvalid, code: response.CodeBadRequest, key: "error.username_invalid"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, key: "error.username_exists"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrWeakPassword, code: response.CodeBadRequest, key: "error.password_weak"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_invalid"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaDisabled, code: response.CodeBadRequest, key: "error.captcha_unavailable"},
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

var oauthErrorRules = []mappedHandlerError{
	{target: service.ErrOAuthDisabled, code: response.CodeNotFound, key: "error.oauth_disabled"},
	{target: service.ErrOAuthStateInvalid, code: response.CodeBadRequest, key: "error.oauth_state_invalid"},
	{target: service.ErrOAuthExchangeFailed, code: response.CodeBadRequest, key: "error.oauth_exchange_failed"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

var subscriptionErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
}

func respondPostCreateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, postFormErrorRules, response.CodeInternal, "error.post_create_failed")
}

func respondPostUpdateError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(postLookupErrorRules, postFormErrorRules), response.CodeInternal, "error.post_update_failed")
}

func respondPostDeleteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, postLookupErrorRules, response.CodeInternal, "error.post_delete_failed")
}
