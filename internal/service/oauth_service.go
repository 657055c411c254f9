package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/yandex"
)

const (
	defaultYandexProfileURL = "https://login.yandex.ru/info?format=json"
	defaultOAuthStateTTL    = 10 * time.Minute
	profileBodyLimit        = 1 << 20
)

// OAuthService runs the Yandex authorization code flow.
type OAuthService struct {
	cfg        config.YandexOAuthConfig
	userAuth   *UserAuthService
	httpClient *http.Client
	endpoint   oauth2.Endpoint
}

// NewOAuthService creates the service. A nil httpClient uses a client with a 10s timeout.
func NewOAuthService(cfg config.YandexOAuthConfig, userAuth *UserAuthService, httpClient *http.Client) *OAuthService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OAuthService{
		cfg:        cfg,
		userAuth:   userAuth,
		httpClient: httpClient,
		endpoint:   yandex.Endpoint,
	}
}

// Enabled reports whether the provider is configured.
func (s *OAuthService) Enabled() bool {
	return s != nil && s.cfg.Enabled && strings.TrimSpace(s.cfg.ClientID) != "" && strings.TrimSpace(s.cfg.ClientSecret) != ""
}

// LoginRedirect is where the browser goes after a successful callback.
func (s *OAuthService) LoginRedirect() string {
	if s == nil || strings.TrimSpace(s.cfg.LoginRedirect) == "" {
		return "/news/"
	}
	return s.cfg.LoginRedirect
}

// StateTTL is how long an issued state stays valid.
func (s *OAuthService) StateTTL() time.Duration {
	if s == nil || s.cfg.StateTTLSeconds <= 0 {
		return defaultOAuthStateTTL
	}
	return time.Duration(s.cfg.StateTTLSeconds) * time.Second
}

func (s *OAuthService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Scopes:       s.cfg.Scopes,
		Endpoint:     s.endpoint,
	}
}

// AuthCodeURL issues a fresh state and returns the provider's authorize URL.
// The state is kept in redis when available; callers also hand it to the browser as a cookie.
func (s *OAuthService) AuthCodeURL(ctx context.Context) (string, string, error) {
	if !s.Enabled() {
		return "", "", ErrOAuthDisabled
	}
	state := uuid.NewString()
	if err := cache.PutOAuthState(ctx, constants.OAuthProviderYandex, state, s.StateTTL()); err != nil {
		return "", "", fmt.Errorf("store oauth state: %w", err)
	}
	return s.oauthConfig().AuthCodeURL(state), state, nil
}

// VerifyState checks a returned state. It must always match the cookie set
// by AuthCodeURL's caller; with redis it is also single use.
func (s *OAuthService) VerifyState(ctx context.Context, state, cookieState string) error {
	state = strings.TrimSpace(state)
	if state == "" || state != strings.TrimSpace(cookieState) {
		return ErrOAuthStateInvalid
	}
	if !cache.Enabled() {
		return nil
	}
	ok, err := cache.ConsumeOAuthState(ctx, constants.OAuthProviderYandex, state)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOAuthStateInvalid
	}
	return nil
}

// Callback completes the flow: state check, code exchange, profile fetch, account upsert.
func (s *OAuthService) Callback(ctx context.Context, code, state, cookieState string) (*models.User, string, time.Time, error) {
	if !s.Enabled() {
		return nil, "", time.Time{}, ErrOAuthDisabled
	}
	if err := s.VerifyState(ctx, state, cookieState); err != nil {
		return nil, "", time.Time{}, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, "", time.Time{}, ErrOAuthExchangeFailed
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.oauthConfig().Exchange(exchangeCtx, code)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	profile, err := s.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return s.userAuth.LoginWithYandex(*profile)
}

// FetchProfile loads the Yandex account info for accessToken.
func (s *OAuthService) FetchProfile(ctx context.Context, accessToken string) (*YandexProfile, error) {
	profileURL := strings.TrimSpace(s.cfg.ProfileURL)
	if profileURL == "" {
		profileURL = defaultYandexProfileURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, profileBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile status %d", ErrOAuthExchangeFailed, resp.StatusCode)
	}
	var profile YandexProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}
	if strings.TrimSpace(profile.ID) == "" {
		return nil, fmt.Errorf("%w: empty profile id", ErrOAuthExchangeFailed)
	}
	return &profile, nil
}
