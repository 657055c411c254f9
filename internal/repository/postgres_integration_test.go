//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB connects to TEST_POSTGRES_DSN and recreates the schema.
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.Subscription{},
		&models.PostCategory{},
		&models.Post{},
		&models.Category{},
		&models.Role{},
		&models.User{},
		&models.Admin{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresSearchIsCaseInsensitiveForCyrillic(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewPostRepository(db)

	author := &models.User{Username: "Редактор"}
	if err := db.Create(author).Error; err != nil {
		t.Fatalf("create author failed: %v", err)
	}
	post := &models.Post{Title: "Новости Спорта", Content: "текст", AuthorID: &author.ID, PubDate: time.Now()}
	if err := repo.Create(post, nil); err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	posts, total, err := repo.List(PostListFilter{Page: 1, PageSize: 10, Title: "спорт", Author: "редак"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].ID != post.ID {
		t.Fatalf("cyrillic search should match, got total=%d posts=%+v", total, posts)
	}
}

func TestPostgresRoleMembershipUsesJSONB(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	users := NewUserRepository(db)
	roles := NewRoleRepository(db)

	user := &models.User{Username: "pg-writer"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := users.AddRoles(user.ID, []string{constants.RoleAuthors}); err != nil {
		t.Fatalf("add roles failed: %v", err)
	}

	members, err := roles.ListMembers(constants.RoleAuthors)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 || members[0].ID != user.ID {
		t.Fatalf("unexpected members %+v", members)
	}

	listed, total, err := users.List(UserListFilter{Page: 1, PageSize: 10, Role: constants.RoleAuthors})
	if err != nil || total != 1 || len(listed) != 1 {
		t.Fatalf("role filter want 1 got %d err=%v", total, err)
	}
}
