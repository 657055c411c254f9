package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func oauthStateKey(provider, state string) string {
	return "oauth:state:" + provider + ":" + state
}

// PutOAuthState remembers an issued OAuth state until ttl.
func PutOAuthState(ctx context.Context, provider, state string, ttl time.Duration) error {
	if !Enabled() || strings.TrimSpace(state) == "" {
		return nil
	}
	return redisClient.Set(ctx, buildKey(oauthStateKey(provider, state)), "1", ttl).Err()
}

// ConsumeOAuthState deletes the state and reports whether it was issued.
// Each state can be consumed once.
func ConsumeOAuthState(ctx context.Context, provider, state string) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	if strings.TrimSpace(state) == "" {
		return false, nil
	}
	_, err := redisClient.GetDel(ctx, buildKey(oauthStateKey(provider, state))).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
