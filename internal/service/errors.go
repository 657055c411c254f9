package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameInvalid    = errors.New("username invalid")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")

	ErrPostNotFound        = errors.New("post not found")
	ErrPostTitleRequired   = errors.New("post title required")
	ErrPostTitleTooLong    = errors.New("post title too long")
	ErrPostContentRequired = errors.New("post content required")
	ErrInvalidPostType     = errors.New("invalid post type")
	ErrInvalidSearchDate   = errors.New("invalid search date")

	// ErrPermissionDenied wraps an authz denial; use errors.As with *PermissionError for the reason.
	ErrPermissionDenied  = errors.New("permission denied")
	ErrRoleNotFound      = errors.New("role not found")
	ErrInvalidCapability = errors.New("invalid capability")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name required")
	ErrCategoryNameExists   = errors.New("category name already exists")

	ErrOAuthDisabled       = errors.New("oauth provider disabled")
	ErrOAuthStateInvalid   = errors.New("oauth state invalid")
	ErrOAuthExchangeFailed = errors.New("oauth exchange failed")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")

	ErrQueueUnavailable = errors.New("queue unavailable")

	ErrCaptchaDisabled = errors.New("captcha disabled")
	ErrCaptchaRequired = errors.New("captcha required")
	ErrCaptchaInvalid  = errors.New("captcha invalid")
)

// PermissionError carries the reason of a denied action.
type PermissionError struct {
	Action string
	Reason string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Action + " (" + e.Reason + ")"
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}
