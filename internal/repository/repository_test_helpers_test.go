package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/newsportal/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s failed: %v", username, err)
	}
	return user
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category %s failed: %v", name, err)
	}
	return category
}

func mustCreatePost(t *testing.T, repo *GormPostRepository, title string, author *models.User, pubDate time.Time, categoryIDs ...uint) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: title + " body", PubDate: pubDate}
	if author != nil {
		post.AuthorID = &author.ID
	}
	if err := repo.Create(post, categoryIDs); err != nil {
		t.Fatalf("create post %s failed: %v", title, err)
	}
	return post
}
