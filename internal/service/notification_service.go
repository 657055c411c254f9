package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/i18n"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/metrics"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

const notifyDateLayout = "02.01.2006 15:04"

// NotificationService builds and sends subscriber emails.
type NotificationService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	mailer       Mailer
	baseURL      string
	locale       string
}

// NewNotificationService creates the service. locale selects the email templates.
func NewNotificationService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, mailer Mailer, baseURL, locale string) *NotificationService {
	return &NotificationService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		mailer:       mailer,
		baseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		locale:       i18n.NormalizeLocale(locale),
	}
}

// PostURL is the public link of a post.
func (s *NotificationService) PostURL(postID uint) string {
	return fmt.Sprintf("%s/news/%d/", s.baseURL, postID)
}

// NotifyNewPost sends one email per (category, subscriber with email) pair of
// the post. The first transport failure stops the run and is returned along
// with the number of emails already sent.
func (s *NotificationService) NotifyNewPost(ctx context.Context, postID uint) (int, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, ErrPostNotFound
	}

	sent := 0
	for _, category := range post.Categories {
		subscribers, err := s.categoryRepo.ListSubscribers(category.ID)
		if err != nil {
			return sent, err
		}
		for _, subscriber := range subscribers {
			email := strings.TrimSpace(subscriber.Email)
			if email == "" {
				continue
			}
			msg := s.BuildNewPostMessage(post, category, email)
			err := s.mailer.Send(ctx, msg)
			metrics.RecordEmail(constants.EmailKindNewPost, err)
			if err != nil {
				logger.Warnw("notify_new_post_send_failed",
					"post_id", post.ID,
					"category_id", category.ID,
					"user_id", subscriber.ID,
					"error", err,
				)
				return sent, fmt.Errorf("notify post %d: %w", post.ID, err)
			}
			sent++
		}
	}
	logger.Infow("notify_new_post_completed", "post_id", post.ID, "sent", sent)
	return sent, nil
}

// BuildNewPostMessage renders the new post template for one subscriber.
func (s *NotificationService) BuildNewPostMessage(post *models.Post, category models.Category, recipient string) EmailMessage {
	author := post.AuthorName()
	if author == "" {
		author = i18n.T(s.locale, "email.new_post.unknown_author")
	}
	body := i18n.Sprintf(s.locale, "email.new_post.body",
		category.Name,
		post.Title,
		author,
		post.PubDate.Format(notifyDateLayout),
		Excerpt(post.Content, constants.NotifyExcerptLength),
		s.PostURL(post.ID),
		category.Name,
	)
	return EmailMessage{
		To:      []string{recipient},
		Subject: i18n.Sprintf(s.locale, "email.new_post.subject", post.Title),
		Body:    body,
	}
}

// BuildDigestMessage renders the digest of one category for one subscriber.
func (s *NotificationService) BuildDigestMessage(category models.Category, posts []models.Post, recipient string) EmailMessage {
	var items strings.Builder
	for _, post := range posts {
		items.WriteString(i18n.Sprintf(s.locale, "email.digest.item", post.Title, s.PostURL(post.ID)))
	}
	return EmailMessage{
		To:      []string{recipient},
		Subject: i18n.Sprintf(s.locale, "email.digest.subject", category.Name),
		Body:    i18n.Sprintf(s.locale, "email.digest.body", category.Name, items.String(), len(posts)),
	}
}
