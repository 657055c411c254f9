package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/provider"
	"github.com/newsportal/internal/queue"
	"github.com/newsportal/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []service.EmailMessage
}

func (m *captureMailer) Send(_ context.Context, msg service.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB, *captureMailer) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Site.BaseURL = "http://news.test"
	container := provider.NewContainerWithDB(cfg, db, nil)

	mailer := &captureMailer{}
	container.NotificationService = service.NewNotificationService(container.PostRepo, container.CategoryRepo, mailer, cfg.Site.BaseURL, "en")
	container.DigestService = service.NewDigestService(container.PostRepo, container.CategoryRepo, container.NotificationService, mailer, 7)
	return NewConsumer(container), db, mailer
}

func seedSubscribedPost(t *testing.T, db *gorm.DB, pubDate time.Time) *models.Post {
	t.Helper()
	category := &models.Category{Name: "World"}
	user := &models.User{Username: "reader", Email: "reader@example.com"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := db.Create(&models.Subscription{UserID: user.ID, CategoryID: category.ID}).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}
	post := &models.Post{Title: "Breaking", Content: "Body", PubDate: pubDate}
	if err := db.Omit("Categories", "Author").Create(post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if err := db.Create(&models.PostCategory{PostID: post.ID, CategoryID: category.ID}).Error; err != nil {
		t.Fatalf("link post failed: %v", err)
	}
	return post
}

func TestHandleNotifyNewPostSendsEmails(t *testing.T) {
	consumer, db, mailer := newTestConsumer(t)
	post := seedSubscribedPost(t, db, time.Now())

	task, err := queue.NewNotifyNewPostTask(queue.NotifyNewPostPayload{PostID: post.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleNotifyNewPost(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To[0] != "reader@example.com" {
		t.Fatalf("unexpected messages %+v", mailer.sent)
	}
}

func TestHandleNotifyNewPostSkipsMissingPost(t *testing.T) {
	consumer, _, mailer := newTestConsumer(t)
	task, _ := queue.NewNotifyNewPostTask(queue.NotifyNewPostPayload{PostID: 404})
	if err := consumer.handleNotifyNewPost(context.Background(), task); err != nil {
		t.Fatalf("missing post should be skipped, got %v", err)
	}
	if err := consumer.handleNotifyNewPost(context.Background(), asynq.NewTask(queue.TaskNotifyNewPost, []byte("{"))); err == nil {
		t.Fatalf("broken payload should fail")
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("no mail expected, got %d", len(mailer.sent))
	}
}

func TestHandleWeeklyDigestUsesPayloadWindow(t *testing.T) {
	consumer, db, mailer := newTestConsumer(t)
	now := time.Now()
	consumer.now = func() time.Time { return now }
	seedSubscribedPost(t, db, now.AddDate(0, 0, -10))

	task, _ := queue.NewWeeklyDigestTask(queue.WeeklyDigestPayload{})
	if err := consumer.handleWeeklyDigest(context.Background(), task); err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("post outside the default window must not be sent")
	}

	task, _ = queue.NewWeeklyDigestTask(queue.WeeklyDigestPayload{WindowDays: 14})
	if err := consumer.handleWeeklyDigest(context.Background(), task); err != nil {
		t.Fatalf("digest failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("wider window should include the post, got %d mails", len(mailer.sent))
	}
}

func TestRegisterIgnoresNil(t *testing.T) {
	var consumer *Consumer
	consumer.Register(asynq.NewServeMux())
	NewConsumer(nil).Register(nil)
}

func TestSchedulerRequiresQueueAndDigest(t *testing.T) {
	if _, err := NewSchedulerService(&config.QueueConfig{Enabled: false}, config.DigestConfig{Enabled: true, Cron: "0 9 * * 1"}); err == nil {
		t.Fatalf("disabled queue should fail")
	}
	if _, err := NewSchedulerService(&config.QueueConfig{Enabled: true}, config.DigestConfig{Enabled: false}); err == nil {
		t.Fatalf("disabled digest should fail")
	}
	if _, err := resolveLocation("Mars/Olympus"); err == nil {
		t.Fatalf("unknown timezone should fail")
	}
	if loc, err := resolveLocation("UTC"); err != nil || loc != time.UTC {
		t.Fatalf("unexpected location %v err=%v", loc, err)
	}
}
