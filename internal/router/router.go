package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	adminhandlers "github.com/newsportal/internal/http/handlers/admin"
	publichandlers "github.com/newsportal/internal/http/handlers/public"
	"github.com/newsportal/internal/http/response"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/metrics"
	"github.com/newsportal/internal/provider"

	"github.com/gin-gonic/gin"
)

const adminPrefix = "/admin"

// SetupRouter builds the engine with every portal, account and admin route.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "news"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	r.GET("/health", publicHandler.Health)
	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(302, "/news/")
	})

	userAuth := UserAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo, c.PrincipalResolver)
	requireUser := RequireUserMiddleware()

	news := r.Group("/news", userAuth)
	{
		news.GET("/", publicHandler.ListNews)
		news.GET("/config/", publicHandler.GetConfig)
		news.GET("/search/", publicHandler.SearchNews)
		news.GET("/:id/", publicHandler.GetNews)

		// legacy /news/news/ paths
		news.GET("/news/", publicHandler.ListNews)
		news.GET("/news/search/", publicHandler.SearchNews)
		news.GET("/news/:id/", publicHandler.GetNews)

		// mutations answer permission failures with a redirect, so anonymous callers reach them
		news.POST("/create/", publicHandler.CreateNews)
		news.POST("/:id/edit/", publicHandler.EditNews)
		news.POST("/:id/delete/", publicHandler.DeleteNews)
		news.POST("/articles/create/", publicHandler.CreateArticle)
		news.POST("/articles/:id/edit/", publicHandler.EditNews)
		news.POST("/articles/:id/delete/", publicHandler.DeleteNews)

		news.GET("/categories/", publicHandler.ListCategories)
		news.POST("/categories/:id/subscribe/", requireUser, publicHandler.Subscribe)
		news.POST("/categories/:id/unsubscribe/", requireUser, publicHandler.Unsubscribe)
		news.GET("/subscriptions/", requireUser, publicHandler.ListSubscriptions)

		news.GET("/profile/", requireUser, publicHandler.GetProfile)
		news.POST("/profile/edit/", requireUser, publicHandler.EditProfile)
		news.POST("/become-author/", requireUser, publicHandler.BecomeAuthor)
	}

	accounts := r.Group("/accounts", userAuth)
	{
		accounts.GET("/captcha/", publicHandler.GetCaptcha)
		accounts.POST("/signup/", publicHandler.Signup)
		accounts.POST("/login/", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("login")), publicHandler.Login)
		accounts.POST("/logout/", requireUser, publicHandler.Logout)
		accounts.GET("/yandex/login/", publicHandler.YandexLogin)
		accounts.GET("/yandex/immediate/", publicHandler.YandexImmediate)
		accounts.GET("/yandex/login/callback/", publicHandler.YandexCallback)
	}

	admin := r.Group(adminPrefix)
	{
		admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

		authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
		{
			authorized.PUT("/password", adminHandler.UpdateAdminPassword)

			authorized.GET("/categories", adminHandler.ListCategories)
			authorized.POST("/categories", adminHandler.CreateCategory)
			authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
			authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

			authorized.GET("/users", adminHandler.GetAdminUsers)
			authorized.GET("/users/:id", adminHandler.GetAdminUser)
			authorized.PUT("/users/:id/roles", adminHandler.SetUserRoles)
			authorized.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

			authorized.GET("/roles", adminHandler.ListUserRoles)
			authorized.POST("/roles", adminHandler.CreateUserRole)
			authorized.GET("/roles/:name", adminHandler.GetUserRole)

			authorized.GET("/subscriptions", adminHandler.ListSubscriptions)
			authorized.POST("/digest/run", adminHandler.RunDigest)

			authorized.GET("/authz/me", adminHandler.GetAuthzMe)
			authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
			authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
			authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
			authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
			authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
			authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
			authorized.DELETE("/authz/admins/:id", adminHandler.DeleteAuthzAdmin)
			authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
			authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			authorized.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog lists every guarded admin route as a grantable permission.
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, adminPrefix+"/") {
			continue
		}
		if item.Path == adminPrefix+"/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
