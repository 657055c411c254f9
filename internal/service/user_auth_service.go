package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService handles portal account registration and sessions.
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService creates the service.
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims are the claims of a portal user token.
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// YandexProfile is the subset of the Yandex account info used for login.
type YandexProfile struct {
	ID           string `json:"id"`
	Login        string `json:"login"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DefaultEmail string `json:"default_email"`
}

// GenerateUserJWT signs a token for user. expireHours <= 0 uses the configured lifetime.
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveUserJWTExpireHours(s.cfg.UserJWT)
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT validates tokenString and returns its claims.
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Register creates an account in the common role.
func (s *UserAuthService) Register(input RegisterInput) (*models.User, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	count, err := s.userRepo.CountByUsername(username, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameExists
	}
	if email != "" {
		count, err = s.userRepo.CountByEmail(email, 0)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Status:       constants.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username, or by email when login contains "@" and no such username exists.
func (s *UserAuthService) Login(login, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	identifier := strings.TrimSpace(login)
	if identifier == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByUsername(identifier)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil && strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(identifier)
		if err != nil {
			return nil, "", time.Time{}, err
		}
	}
	if user == nil || user.PasswordHash == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	return s.issueSession(user, rememberMe)
}

// Logout invalidates every token issued to the user so far.
func (s *UserAuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.BumpTokenVersion(userID); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(ctx, userID)
	return nil
}

// LoginWithYandex finds or creates the account linked to a Yandex profile.
// Accounts are matched by yandex id first, then by email.
func (s *UserAuthService) LoginWithYandex(profile YandexProfile) (*models.User, string, time.Time, error) {
	yandexID := strings.TrimSpace(profile.ID)
	if yandexID == "" {
		return nil, "", time.Time{}, ErrOAuthExchangeFailed
	}
	user, err := s.userRepo.GetByYandexID(yandexID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	email, emailErr := normalizeEmail(profile.DefaultEmail)
	if emailErr != nil {
		email = ""
	}
	if user == nil && email != "" {
		user, err = s.userRepo.GetByEmail(email)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		if user != nil {
			user.YandexID = &yandexID
			if err := s.userRepo.Update(user); err != nil {
				return nil, "", time.Time{}, err
			}
		}
	}
	if user == nil {
		username, err := s.availableUsername(profile.Login)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		user = &models.User{
			Username:  username,
			FirstName: strings.TrimSpace(profile.FirstName),
			LastName:  strings.TrimSpace(profile.LastName),
			Email:     email,
			YandexID:  &yandexID,
			Status:    constants.UserStatusActive,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", time.Time{}, err
		}
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	return s.issueSession(user, false)
}

// GetUserByID returns ErrUserNotFound for a missing user.
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserAuthService) issueSession(user *models.User, rememberMe bool) (*models.User, string, time.Time, error) {
	expireHours := resolveUserJWTExpireHours(s.cfg.UserJWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.UserJWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

var usernameCleanup = regexp.MustCompile(`[^\p{L}\p{N}@.+\-_]+`)

// availableUsername derives a free username from a social login, suffixing it when taken.
func (s *UserAuthService) availableUsername(login string) (string, error) {
	base := usernameCleanup.ReplaceAllString(strings.TrimSpace(login), "")
	if base == "" {
		base = "yandex"
	}
	if len([]rune(base)) > usernameMaxLength-9 {
		base = string([]rune(base)[:usernameMaxLength-9])
	}
	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		count, err := s.userRepo.CountByUsername(candidate, 0)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return "", ErrUsernameExists
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveUserJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}
