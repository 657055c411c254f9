package provider

import (
	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/cache"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/queue"
	"github.com/newsportal/internal/repository"
	"github.com/newsportal/internal/service"

	"gorm.io/gorm"
)

// Container wires repositories and services once per process.
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	RoleRepo         repository.RoleRepository
	PostRepo         repository.PostRepository
	CategoryRepo     repository.CategoryRepository
	SubscriptionRepo repository.SubscriptionRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	UserService         *service.UserService
	PrincipalResolver   *service.PrincipalResolver
	CaptchaService      *service.CaptchaService
	OAuthService        *service.OAuthService
	EmailService        *service.EmailService
	ContentService      *service.ContentService
	PostService         *service.PostService
	CategoryService     *service.CategoryService
	SubscriptionService *service.SubscriptionService
	NotificationService *service.NotificationService
	DigestService       *service.DigestService
	Dispatcher          service.EventDispatcher
}

// NewContainer builds the container on the global database handle.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := NewContainerWithDB(cfg, models.DB, queueClient)
	if err := c.initAuthz(); err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	return c
}

// NewContainerWithDB builds repositories and services on db without
// touching redis or casbin. Tools and tests use it directly.
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.RoleRepo = repository.NewRoleRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.SubscriptionRepo = repository.NewSubscriptionRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.EmailService = service.NewEmailService(&cfg.Email)
	c.ContentService = service.NewContentService(cfg.Content.CensoredWords)

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.RoleRepo)
	c.PrincipalResolver = service.NewPrincipalResolver(c.RoleRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.OAuthService = service.NewOAuthService(cfg.OAuth.Yandex, c.UserAuthService, nil)

	c.PostService = service.NewPostService(c.PostRepo, c.CategoryRepo, cfg.Site.PageSize)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.SubscriptionService = service.NewSubscriptionService(c.SubscriptionRepo, c.CategoryRepo)

	locale := cfg.Notify.Locale
	if locale == "" {
		locale = cfg.Site.Locale
	}
	c.NotificationService = service.NewNotificationService(c.PostRepo, c.CategoryRepo, c.EmailService, cfg.Site.BaseURL, locale)
	c.DigestService = service.NewDigestService(c.PostRepo, c.CategoryRepo, c.NotificationService, c.EmailService, cfg.Digest.WindowDays)
	c.Dispatcher = service.NewEventDispatcher(cfg.Notify.Async, c.QueueClient, c.NotificationService)
}

func (c *Container) initAuthz() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return err
	}
	c.AuthzService = authzService
	return nil
}
