package cache

import (
	"context"
	"testing"
	"time"

	"github.com/newsportal/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		Reset()
		mr.Close()
	})
	return mr
}

func TestDisabledCacheIsNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	assert.False(t, Enabled())
	assert.Nil(t, Client())
	require.NoError(t, SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	var dest map[string]int
	hit, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestUserAuthStateRoundTripAndInvalidate(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	now := time.Now()
	user := &models.User{ID: 5, Status: "active", Roles: models.StringArray{"common", "authors"}, TokenVersion: 3, TokenInvalidBefore: &now}
	require.NoError(t, SetUserAuthState(ctx, BuildUserAuthState(user)))
	assert.True(t, mr.Exists("test:auth:user:5"))

	state, hit, err := GetUserAuthState(ctx, 5)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, []string{"common", "authors"}, state.Roles)
	assert.Equal(t, uint64(3), state.TokenVersion)
	assert.Equal(t, now.Unix(), state.TokenInvalidBefore)

	require.NoError(t, DelUserAuthState(ctx, 5))
	_, hit, err = GetUserAuthState(ctx, 5)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestOAuthStateIsSingleUse(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, PutOAuthState(ctx, "yandex", "abc", time.Minute))
	ok, err := ConsumeOAuthState(ctx, "yandex", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ConsumeOAuthState(ctx, "yandex", "abc")
	require.NoError(t, err)
	assert.False(t, ok, "state must not be reusable")

	require.NoError(t, PutOAuthState(ctx, "yandex", "late", time.Minute))
	mr.FastForward(2 * time.Minute)
	ok, err = ConsumeOAuthState(ctx, "yandex", "late")
	require.NoError(t, err)
	assert.False(t, ok, "expired state must be rejected")
}
