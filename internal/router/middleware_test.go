package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/constants"
	handlershared "github.com/newsportal/internal/http/handlers/shared"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
	"github.com/newsportal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserSecret = "router-test-user-secret"

type statusBody struct {
	StatusCode int    `json:"status_code"`
	Msg        string `json:"msg"`
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) statusBody {
	t.Helper()
	var body statusBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func setupUserDB(t *testing.T) (*gorm.DB, repository.UserRepository) {
	t.Helper()
	cache.Reset()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.MigrateSchema(db))
	require.NoError(t, models.EnsureBuiltinRoles(db))
	return db, repository.NewUserRepository(db)
}

func issueUserToken(t *testing.T, user *models.User) string {
	t.Helper()
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = testUserSecret
	cfg.UserJWT.ExpireHours = 1
	token, _, err := service.NewUserAuthService(cfg, nil).GenerateUserJWT(user, 1)
	require.NoError(t, err)
	return token
}

func newUserAuthEngine(db *gorm.DB, userRepo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(UserAuthMiddleware(testUserSecret, userRepo, service.NewPrincipalResolver(repository.NewRoleRepository(db))))
	r.GET("/whoami", func(c *gin.Context) {
		p := handlershared.PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":    p.UserID,
			"roles":      p.Roles,
			"can_create": p.Capabilities[authz.ActionCreate],
		})
	})
	r.GET("/private", RequireUserMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestResolveAllowedOrigin(t *testing.T) {
	assert.Equal(t, "*", resolveAllowedOrigin("https://news.example.com", []string{"*"}, false))
	assert.Equal(t, "https://news.example.com", resolveAllowedOrigin("https://news.example.com", []string{"*"}, true))
	assert.Equal(t, "https://a.example.com", resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false))
	assert.Empty(t, resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false))
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-123", resp["request_id"])

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, strings.TrimSpace(w2.Header().Get(requestIDHeader)))
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 401, decodeStatus(t, w).StatusCode)
}

func TestUserAuthMiddlewareAnonymousPassesThrough(t *testing.T) {
	db, userRepo := setupUserDB(t)
	r := newUserAuthEngine(db, userRepo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, 401, decodeStatus(t, w).StatusCode)
}

func TestUserAuthMiddlewareAcceptsHeaderAndCookie(t *testing.T) {
	db, userRepo := setupUserDB(t)
	user := &models.User{
		Username: "reader",
		Email:    "reader@example.com",
		Status:   constants.UserStatusActive,
		Roles:    models.StringArray{constants.RoleCommon, constants.RoleAuthors},
	}
	require.NoError(t, db.Create(user).Error)
	token := issueUserToken(t, user)
	r := newUserAuthEngine(db, userRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, user.ID))
	assert.Contains(t, w.Body.String(), constants.RoleAuthors)
	assert.Contains(t, w.Body.String(), `"can_create":true`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: handlershared.UserTokenCookie, Value: token})
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestUserAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	db, userRepo := setupUserDB(t)
	user := &models.User{Username: "writer", Status: constants.UserStatusActive}
	require.NoError(t, db.Create(user).Error)
	token := issueUserToken(t, user)

	invalidBefore := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"token_version":        user.TokenVersion + 1,
		"token_invalid_before": invalidBefore,
	}).Error)

	r := newUserAuthEngine(db, userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	body := decodeStatus(t, w)
	assert.Equal(t, 401, body.StatusCode)
	assert.Equal(t, "Token has been revoked", body.Msg)
}

func TestUserAuthMiddlewareMalformedHeader(t *testing.T) {
	db, userRepo := setupUserDB(t)
	r := newUserAuthEngine(db, userRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	body := decodeStatus(t, w)
	assert.Equal(t, 401, body.StatusCode)
	assert.Equal(t, "Authorization header is malformed", body.Msg)
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	assert.Equal(t, "categories", deriveAdminPermissionModule("/admin/categories/:id"))
	assert.Equal(t, "digest", deriveAdminPermissionModule("/admin/digest/run"))
	assert.Equal(t, "system", deriveAdminPermissionModule(""))
}
