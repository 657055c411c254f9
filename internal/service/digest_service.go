package service

import (
	"context"
	"strings"
	"time"

	"github.com/newsportal/internal/constants"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/metrics"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/repository"
)

// DigestResult summarizes one digest run.
type DigestResult struct {
	Categories int `json:"categories"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// DigestService sends each category's recent posts to its subscribers.
type DigestService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	notifier     *NotificationService
	mailer       Mailer
	windowDays   int
}

// NewDigestService creates the service. windowDays <= 0 uses seven days.
func NewDigestService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, notifier *NotificationService, mailer Mailer, windowDays int) *DigestService {
	if windowDays <= 0 {
		windowDays = constants.DefaultDigestWindow
	}
	return &DigestService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		notifier:     notifier,
		mailer:       mailer,
		windowDays:   windowDays,
	}
}

// Run sends the digest for posts published in the window ending at now.
func (s *DigestService) Run(ctx context.Context, now time.Time) (DigestResult, error) {
	return s.RunWindow(ctx, now, s.windowDays)
}

// RunWindow is Run with an explicit window. Send failures are logged and
// skipped; only storage errors and cancellation abort the run.
func (s *DigestService) RunWindow(ctx context.Context, now time.Time, windowDays int) (DigestResult, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	since := now.AddDate(0, 0, -windowDays)
	result := DigestResult{}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return result, err
	}
	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		posts, err := s.postRepo.ListPublishedSince(category.ID, since)
		if err != nil {
			return result, err
		}
		posts = publishedBy(posts, now)
		if len(posts) == 0 {
			continue
		}
		subscribers, err := s.categoryRepo.ListSubscribers(category.ID)
		if err != nil {
			return result, err
		}
		result.Categories++
		for _, subscriber := range subscribers {
			email := strings.TrimSpace(subscriber.Email)
			if email == "" {
				continue
			}
			err := s.mailer.Send(ctx, s.notifier.BuildDigestMessage(category, posts, email))
			metrics.RecordEmail(constants.EmailKindDigest, err)
			if err != nil {
				result.Failed++
				logger.Warnw("digest_send_failed",
					"category_id", category.ID,
					"user_id", subscriber.ID,
					"error", err,
				)
				continue
			}
			result.Sent++
		}
	}
	logger.Infow("digest_completed",
		"since", since,
		"categories", result.Categories,
		"sent", result.Sent,
		"failed", result.Failed,
	)
	return result, nil
}

func publishedBy(posts []models.Post, now time.Time) []models.Post {
	filtered := posts[:0]
	for _, post := range posts {
		if !post.PubDate.After(now) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}
