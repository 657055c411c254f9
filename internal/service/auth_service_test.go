package service

import (
	"testing"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceForTest(t *testing.T) (*AuthService, *repository.GormAdminRepository, *models.Admin) {
	t.Helper()
	cache.Reset()
	env := newServiceTestEnv(t)

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "auth-service-test-secret"
	cfg.JWT.ExpireHours = 2
	cfg.Security.PasswordPolicy.MinLength = 8

	repo := repository.NewAdminRepository(env.db)
	svc := NewAuthService(cfg, repo)
	hash, err := svc.HashPassword("old-password")
	require.NoError(t, err)
	admin := &models.Admin{Username: "root", PasswordHash: hash}
	require.NoError(t, repo.Create(admin))
	return svc, repo, admin
}

func TestAdminLoginIssuesParsableToken(t *testing.T) {
	svc, repo, admin := newAuthServiceForTest(t)

	_, _, _, err := svc.Login("root", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login("nobody", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, token, expiresAt, err := svc.Login("root", "old-password")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := svc.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "root", claims.Username)

	stored, err := repo.GetByID(admin.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	_, err = svc.ParseJWT(token + "x")
	assert.Error(t, err)
}

func TestAdminChangePasswordRevokesOldTokens(t *testing.T) {
	svc, repo, admin := newAuthServiceForTest(t)

	assert.ErrorIs(t, svc.ChangePassword(admin.ID, "wrong", "new-password"), ErrInvalidPassword)
	assert.ErrorIs(t, svc.ChangePassword(admin.ID, "old-password", "short"), ErrWeakPassword)
	assert.ErrorIs(t, svc.ChangePassword(admin.ID+100, "old-password", "new-password"), ErrNotFound)

	require.NoError(t, svc.ChangePassword(admin.ID, "old-password", "new-password"))
	stored, err := repo.GetByID(admin.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.TokenVersion)
	assert.NotNil(t, stored.TokenInvalidBefore)

	_, _, _, err = svc.Login("root", "new-password")
	assert.NoError(t, err)
}
