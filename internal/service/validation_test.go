package service

import (
	"errors"
	"testing"

	"github.com/newsportal/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireLower: true, RequireNumber: true}

	err := validatePassword(policy, "short1")
	var verr ValidationError
	if !errors.Is(err, ErrWeakPassword) || !errors.As(err, &verr) || verr.Key() != "error.password_min_length" {
		t.Fatalf("want min length error, got %v", err)
	}
	if len(verr.Args()) != 1 || verr.Args()[0] != 8 {
		t.Fatalf("min length arg missing: %v", verr.Args())
	}
	if err := validatePassword(policy, "longpassword"); !errors.As(err, &verr) || verr.Key() != "error.password_require_number" {
		t.Fatalf("want number error, got %v", err)
	}
	if err := validatePassword(policy, "longpassw0rd"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	if err := validatePassword(config.PasswordPolicyConfig{}, ""); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}

func TestNormalizeUsername(t *testing.T) {
	for _, ok := range []string{"ivan", " ivan.petrov ", "user+tag@host", "Иван_1"} {
		if _, err := normalizeUsername(ok); err != nil {
			t.Fatalf("%q should be valid: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "   ", "has space", "semi;colon"} {
		if _, err := normalizeUsername(bad); !errors.Is(err, ErrUsernameInvalid) {
			t.Fatalf("%q should be invalid, got %v", bad, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got, err := normalizeEmail(""); err != nil || got != "" {
		t.Fatalf("empty email should be allowed, got %q %v", got, err)
	}
	if got, err := normalizeEmail(" a@example.com "); err != nil || got != "a@example.com" {
		t.Fatalf("unexpected normalized email %q %v", got, err)
	}
	if _, err := normalizeEmail("Name <a@example.com>"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("display-name form should be rejected, got %v", err)
	}
	if _, err := normalizeEmail("nope"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("invalid email should be rejected, got %v", err)
	}
}
