package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyNewPostOneEmailPerCategorySubscriberPair(t *testing.T) {
	env := newServiceTestEnv(t)
	mailer := &stubMailer{}
	svc := NewNotificationService(env.posts, env.categories, mailer, "http://news.test/", "en")

	author := env.mustUser(t, "writer", "", constants.RoleAuthors)
	author.FirstName, author.LastName = "Ivan", "Petrov"
	require.NoError(t, env.users.UpdateProfile(author))

	sport := env.mustCategory(t, "Sport")
	culture := env.mustCategory(t, "Culture")
	both := env.mustUser(t, "both", "both@example.com")
	silent := env.mustUser(t, "silent", "")
	single := env.mustUser(t, "single", "single@example.com")
	env.mustSubscribe(t, both, sport)
	env.mustSubscribe(t, both, culture)
	env.mustSubscribe(t, silent, sport)
	env.mustSubscribe(t, single, culture)

	post := env.mustPost(t, "Final match", author, time.Date(2024, 5, 1, 18, 30, 0, 0, time.Local), sport.ID, culture.ID)

	sent, err := svc.NotifyNewPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.ElementsMatch(t, []string{"both@example.com", "both@example.com", "single@example.com"}, mailer.recipients())

	msg := mailer.sent[0]
	assert.Equal(t, "New article: Final match", msg.Subject)
	assert.Contains(t, msg.Body, "Author: Ivan Petrov")
	stored, err := env.posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Published: "+stored.PubDate.Format("02.01.2006 15:04"))
	assert.Contains(t, msg.Body, "http://news.test/news/"+itoa(post.ID)+"/")
}

func TestNotifyNewPostStopsAtFirstFailure(t *testing.T) {
	env := newServiceTestEnv(t)
	boom := errors.New("smtp down")
	mailer := &stubMailer{failAll: boom}
	svc := NewNotificationService(env.posts, env.categories, mailer, "http://news.test", "en")

	category := env.mustCategory(t, "Tech")
	env.mustSubscribe(t, env.mustUser(t, "a", "a@example.com"), category)
	env.mustSubscribe(t, env.mustUser(t, "b", "b@example.com"), category)
	post := env.mustPost(t, "Launch", nil, time.Now(), category.ID)

	sent, err := svc.NotifyNewPost(context.Background(), post.ID)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, sent)
	assert.Equal(t, 1, mailer.attempts)

	_, err = svc.NotifyNewPost(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestBuildNewPostMessageTemplate(t *testing.T) {
	svc := NewNotificationService(nil, nil, nil, "https://portal.example", "en")
	env := newServiceTestEnv(t)
	category := env.mustCategory(t, "Science")
	post := env.mustPost(t, "Orphan", nil, time.Date(2024, 1, 2, 3, 4, 0, 0, time.Local))
	post.Content = strings.Repeat("ж", 250)

	msg := svc.BuildNewPostMessage(post, *category, "reader@example.com")
	assert.Equal(t, []string{"reader@example.com"}, msg.To)
	assert.Contains(t, msg.Body, "Author: unknown")
	assert.Contains(t, msg.Body, strings.Repeat("ж", 200)+"...")
	assert.NotContains(t, msg.Body, strings.Repeat("ж", 201))
	assert.Contains(t, msg.Body, "subscribed to the category \"Science\"")

	ru := NewNotificationService(nil, nil, nil, "https://portal.example", "ru-RU")
	msg = ru.BuildNewPostMessage(post, *category, "reader@example.com")
	assert.Equal(t, "Новая статья: Orphan", msg.Subject)
	assert.Contains(t, msg.Body, "Автор: Неизвестен")
}

func TestBuildDigestMessageListsEveryPost(t *testing.T) {
	env := newServiceTestEnv(t)
	svc := NewNotificationService(env.posts, env.categories, nil, "http://news.test", "en")
	category := env.mustCategory(t, "Sport")
	first := env.mustPost(t, "First", nil, time.Now())
	second := env.mustPost(t, "Second", nil, time.Now())

	msg := svc.BuildDigestMessage(*category, []models.Post{*first, *second}, "x@example.com")
	assert.Equal(t, "Weekly digest: new articles in the category \"Sport\"", msg.Subject)
	assert.Contains(t, msg.Body, "• First - http://news.test/news/"+itoa(first.ID)+"/\n")
	assert.Contains(t, msg.Body, "• Second - http://news.test/news/"+itoa(second.ID)+"/\n")
	assert.Contains(t, msg.Body, "Total new articles: 2")
}
