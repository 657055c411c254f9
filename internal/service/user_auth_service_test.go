package service

import (
	"context"
	"testing"

	"github.com/newsportal/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserAuthService(testConfig(), env.users)

	user, err := svc.Register(RegisterInput{Username: "reader", Email: "reader@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.RoleCommon}, []string(user.Roles))
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Register(RegisterInput{Username: "reader", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = svc.Register(RegisterInput{Username: "reader2", Email: "reader@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailExists)
	_, err = svc.Register(RegisterInput{Username: "reader3", Password: "short1"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, token, _, err := svc.Login("reader", "secret123", false)
	require.NoError(t, err)
	claims, err := svc.ParseUserJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "reader", claims.Username)

	_, _, _, err = svc.Login("reader@example.com", "secret123", true)
	require.NoError(t, err)
	_, _, _, err = svc.Login("reader", "wrong-pass1", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login("ghost", "secret123", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserAuthService(testConfig(), env.users)
	user, err := svc.Register(RegisterInput{Username: "blocked", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, env.users.UpdateStatus(user.ID, constants.UserStatusDisabled))

	_, _, _, err = svc.Login("blocked", "secret123", false)
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLogoutBumpsTokenVersion(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserAuthService(testConfig(), env.users)
	user, err := svc.Register(RegisterInput{Username: "leaver", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	reloaded, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.TokenVersion+1, reloaded.TokenVersion)
	assert.NotNil(t, reloaded.TokenInvalidBefore)
}

func TestLoginWithYandexLinksOrCreates(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewUserAuthService(testConfig(), env.users)
	existing := env.mustUser(t, "anna", "anna@yandex.ru")
	env.mustUser(t, "ivan", "")

	linked, _, _, err := svc.LoginWithYandex(YandexProfile{ID: "100", Login: "anna.k", DefaultEmail: "anna@yandex.ru"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)
	require.NotNil(t, linked.YandexID)
	assert.Equal(t, "100", *linked.YandexID)

	again, _, _, err := svc.LoginWithYandex(YandexProfile{ID: "100"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.ID)

	created, _, _, err := svc.LoginWithYandex(YandexProfile{ID: "200", Login: "ivan", FirstName: "Ivan"})
	require.NoError(t, err)
	assert.NotEqual(t, "ivan", created.Username, "taken login gets a suffix")
	assert.Contains(t, created.Username, "ivan_")
	assert.Equal(t, "Ivan", created.FirstName)
	assert.True(t, created.HasRole(constants.RoleCommon))

	_, _, _, err = svc.LoginWithYandex(YandexProfile{})
	assert.ErrorIs(t, err, ErrOAuthExchangeFailed)
}
