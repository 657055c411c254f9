package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/newsportal/internal/config"
)

const usernameMaxLength = 150

// usernames follow the classic letters, digits and @.+-_ rule
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

// ValidationError names the i18n key of a failed rule. It matches its sentinel with errors.Is.
type ValidationError struct {
	sentinel error
	key      string
	args     []interface{}
}

func newValidationError(sentinel error, key string, args ...interface{}) ValidationError {
	return ValidationError{sentinel: sentinel, key: key, args: args}
}

func (e ValidationError) Error() string {
	return e.key
}

func (e ValidationError) Is(target error) bool {
	return target == e.sentinel
}

func (e ValidationError) Key() string {
	return e.key
}

func (e ValidationError) Args() []interface{} {
	return e.args
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && utf8.RuneCountInString(password) < policy.MinLength {
		return newValidationError(ErrWeakPassword, "error.password_min_length", policy.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case policy.RequireUpper && !hasUpper:
		return newValidationError(ErrWeakPassword, "error.password_require_upper")
	case policy.RequireLower && !hasLower:
		return newValidationError(ErrWeakPassword, "error.password_require_lower")
	case policy.RequireNumber && !hasNumber:
		return newValidationError(ErrWeakPassword, "error.password_require_number")
	case policy.RequireSpecial && !hasSpecial:
		return newValidationError(ErrWeakPassword, "error.password_require_special")
	}
	return nil
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" || utf8.RuneCountInString(username) > usernameMaxLength || !usernamePattern.MatchString(username) {
		return "", ErrUsernameInvalid
	}
	return username, nil
}

// normalizeEmail accepts an empty address; profile email is optional.
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
