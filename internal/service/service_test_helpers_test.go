package service

import (
	"context"
	"fmt"
	"strings"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/newsportal/internal/authz"
	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db            *gorm.DB
	users         *repository.GormUserRepository
	roles         *repository.GormRoleRepository
	posts         *repository.GormPostRepository
	categories    *repository.GormCategoryRepository
	subscriptions *repository.GormSubscriptionRepository
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.EnsureBuiltinRoles(db); err != nil {
		t.Fatalf("seed roles failed: %v", err)
	}
	return &serviceTestEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		roles:         repository.NewRoleRepository(db),
		posts:         repository.NewPostRepository(db),
		categories:    repository.NewCategoryRepository(db),
		subscriptions: repository.NewSubscriptionRepository(db),
	}
}

func (e *serviceTestEnv) mustUser(t *testing.T, username, email string, roles ...string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Roles: models.StringArray(roles)}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s failed: %v", username, err)
	}
	return user
}

func (e *serviceTestEnv) mustCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("create category %s failed: %v", name, err)
	}
	return category
}

func (e *serviceTestEnv) mustSubscribe(t *testing.T, user *models.User, category *models.Category) {
	t.Helper()
	if _, err := e.subscriptions.Create(&models.Subscription{UserID: user.ID, CategoryID: category.ID}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
}

func (e *serviceTestEnv) mustPost(t *testing.T, title string, author *models.User, pubDate time.Time, categoryIDs ...uint) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: title + " body", PubDate: pubDate}
	if author != nil {
		post.AuthorID = &author.ID
	}
	if err := e.posts.Create(post, categoryIDs); err != nil {
		t.Fatalf("create post %s failed: %v", title, err)
	}
	return post
}

// principalOf resolves against the builtin catalog without touching the database.
func principalOf(user *models.User) authz.Principal {
	catalog := make(map[string][]string)
	for _, role := range models.BuiltinRoles() {
		catalog[role.Name] = role.Capabilities
	}
	return authz.Principal{
		UserID:       user.ID,
		Roles:        append([]string(nil), user.Roles...),
		Capabilities: authz.CapabilitiesFor(user.Roles, catalog),
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-user-secret"
	cfg.UserJWT.ExpireHours = 1
	cfg.UserJWT.RememberMeExpireHours = 48
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireNumber = true
	return cfg
}

// stubMailer records messages. failFor maps a recipient to the error its sends return.
type stubMailer struct {
	mu       sync.Mutex
	sent     []EmailMessage
	attempts int
	failFor  map[string]error
	failAll  error
}

func (m *stubMailer) Send(_ context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failAll != nil {
		return m.failAll
	}
	for _, to := range msg.To {
		if err, ok := m.failFor[to]; ok {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *stubMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		result = append(result, msg.To...)
	}
	return result
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
