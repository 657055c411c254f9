package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newYandexStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"yandex-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "OAuth yandex-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(YandexProfile{
			ID:           "777",
			Login:        "pushkin",
			FirstName:    "Alexander",
			DefaultEmail: "pushkin@yandex.ru",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOAuthService(t *testing.T, env *serviceTestEnv, srv *httptest.Server) *OAuthService {
	t.Helper()
	cfg := config.YandexOAuthConfig{
		Enabled:      true,
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://news.test/accounts/yandex/login/callback/",
		Scopes:       []string{"login:info", "login:email"},
		ProfileURL:   srv.URL + "/info",
	}
	svc := NewOAuthService(cfg, NewUserAuthService(testConfig(), env.users), srv.Client())
	svc.endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return svc
}

func TestOAuthCallbackWithCookieState(t *testing.T) {
	cache.Reset()
	env := newServiceTestEnv(t)
	srv := newYandexStubServer(t)
	svc := newTestOAuthService(t, env, srv)

	authURL, state, err := svc.AuthCodeURL(context.Background())
	require.NoError(t, err)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, state, parsed.Query().Get("state"))
	assert.Equal(t, "client", parsed.Query().Get("client_id"))

	_, _, _, err = svc.Callback(context.Background(), "good-code", state, "other-state")
	assert.ErrorIs(t, err, ErrOAuthStateInvalid)

	user, token, _, err := svc.Callback(context.Background(), "good-code", state, state)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "pushkin", user.Username)
	assert.Equal(t, "pushkin@yandex.ru", user.Email)

	_, _, _, err = svc.Callback(context.Background(), "bad-code", state, state)
	assert.ErrorIs(t, err, ErrOAuthExchangeFailed)
}

func TestOAuthStateIsSingleUseWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.UseClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(cache.Reset)

	env := newServiceTestEnv(t)
	svc := newTestOAuthService(t, env, newYandexStubServer(t))

	_, state, err := svc.AuthCodeURL(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyState(context.Background(), state, ""), ErrOAuthStateInvalid, "a stored state from another browser is refused")
	assert.ErrorIs(t, svc.VerifyState(context.Background(), state, "other-state"), ErrOAuthStateInvalid)
	require.NoError(t, svc.VerifyState(context.Background(), state, state))
	assert.ErrorIs(t, svc.VerifyState(context.Background(), state, state), ErrOAuthStateInvalid, "single use")
	assert.ErrorIs(t, svc.VerifyState(context.Background(), "", ""), ErrOAuthStateInvalid)
}

func TestOAuthDisabled(t *testing.T) {
	svc := NewOAuthService(config.YandexOAuthConfig{Enabled: true}, nil, nil)
	assert.False(t, svc.Enabled())
	_, _, err := svc.AuthCodeURL(context.Background())
	assert.ErrorIs(t, err, ErrOAuthDisabled)
	assert.Equal(t, "/news/", svc.LoginRedirect())
}
