package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoPassword = "demo12345"

var demoCategories = []string{"Politics", "Sport", "Education", "Culture", "Technology"}

type demoUser struct {
	username string
	roles    []string
}

var demoUsers = []demoUser{
	{username: "author1", roles: []string{constants.RoleAuthors}},
	{username: "author2", roles: []string{constants.RoleAuthors}},
	{username: "reader1"},
	{username: "reader2"},
	{username: "reader3"},
}

func main() {
	var postCount int
	var maxDays int
	var fakeSeed int64
	flag.IntVar(&postCount, "posts", 30, "number of demo posts to create")
	flag.IntVar(&maxDays, "max-days", 14, "spread pub dates over the last N days")
	flag.Int64Var(&fakeSeed, "seed", 0, "fake data seed, 0 picks one from the clock")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}
	if err := models.EnsureBuiltinRoles(models.DB); err != nil {
		stdLog.Fatalf("builtin roles init failed: %v", err)
	}

	if fakeSeed == 0 {
		fakeSeed = time.Now().UnixNano()
	}
	gofakeit.Seed(fakeSeed)
	rng := rand.New(rand.NewSource(fakeSeed))

	categories, err := seedCategories(models.DB)
	if err != nil {
		stdLog.Fatalf("seed categories failed: %v", err)
	}
	users, err := seedUsers(models.DB)
	if err != nil {
		stdLog.Fatalf("seed users failed: %v", err)
	}
	if err := seedSubscriptions(models.DB, users, categories, rng); err != nil {
		stdLog.Fatalf("seed subscriptions failed: %v", err)
	}
	created, err := seedPosts(models.DB, users, categories, postCount, maxDays, rng)
	if err != nil {
		stdLog.Fatalf("seed posts failed: %v", err)
	}

	fmt.Println("Demo data ready:")
	fmt.Printf("- %d categories\n", len(categories))
	fmt.Printf("- %d users, password %q\n", len(users), demoPassword)
	fmt.Printf("- %d new posts (seed %d)\n", created, fakeSeed)
}

func seedCategories(db *gorm.DB) ([]models.Category, error) {
	result := make([]models.Category, 0, len(demoCategories))
	for _, name := range demoCategories {
		category := models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, nil
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	result := make([]models.User, 0, len(demoUsers))
	for _, seed := range demoUsers {
		var user models.User
		err := db.Where("username = ?", seed.username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Username:     seed.username,
				FirstName:    gofakeit.FirstName(),
				LastName:     gofakeit.LastName(),
				Email:        fmt.Sprintf("%s@example.com", seed.username),
				PasswordHash: string(hash),
				Roles:        models.StringArray(seed.roles),
			}
			if err := db.Create(&user).Error; err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		}
		result = append(result, user)
	}
	return result, nil
}

func seedSubscriptions(db *gorm.DB, users []models.User, categories []models.Category, rng *rand.Rand) error {
	for _, user := range users {
		for _, category := range categories {
			if rng.Intn(2) == 0 {
				continue
			}
			sub := models.Subscription{UserID: user.ID, CategoryID: category.ID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedPosts(db *gorm.DB, users []models.User, categories []models.Category, count, maxDays int, rng *rand.Rand) (int, error) {
	authors := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.HasRole(constants.RoleAuthors) {
			authors = append(authors, user)
		}
	}
	if len(authors) == 0 || len(categories) == 0 {
		return 0, nil
	}
	if maxDays <= 0 {
		maxDays = 1
	}

	created := 0
	for i := 0; i < count; i++ {
		author := authors[rng.Intn(len(authors))]
		postType := constants.PostTypeNews
		if rng.Intn(3) == 0 {
			postType = constants.PostTypeArticle
		}
		age := time.Duration(rng.Intn(maxDays*24*60)) * time.Minute

		picked := []models.Category{categories[rng.Intn(len(categories))]}
		if extra := categories[rng.Intn(len(categories))]; extra.ID != picked[0].ID && rng.Intn(2) == 0 {
			picked = append(picked, extra)
		}

		post := models.Post{
			Title:      gofakeit.Sentence(rng.Intn(5) + 3),
			Content:    gofakeit.Paragraph(rng.Intn(3)+1, 4, 12, "\n\n"),
			PostType:   postType,
			PubDate:    time.Now().Add(-age),
			AuthorID:   &author.ID,
			Categories: picked,
		}
		if err := db.Create(&post).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
