package worker

import (
	"context"
	"errors"
	"time"

	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/provider"
	"github.com/newsportal/internal/queue"
	"github.com/newsportal/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles queued tasks.
type Consumer struct {
	*provider.Container
	now func() time.Time
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
		now:       time.Now,
	}
}

// Register binds task types to handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotifyNewPost, c.handleNotifyNewPost)
	mux.HandleFunc(queue.TaskWeeklyDigest, c.handleWeeklyDigest)
}

func (c *Consumer) handleNotifyNewPost(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notify_new_post_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseNotifyNewPostPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_notify_new_post_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_notify_new_post_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_notify_new_post_skip_service_nil", "post_id", payload.PostID)
		return nil
	}
	sent, err := c.NotificationService.NotifyNewPost(ctx, payload.PostID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			logger.Debugw("worker_notify_new_post_skip_post_not_found", "post_id", payload.PostID)
			return nil
		}
		logger.Warnw("worker_notify_new_post_failed", "post_id", payload.PostID, "sent", sent, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleWeeklyDigest(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_weekly_digest_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseWeeklyDigestPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_weekly_digest_unmarshal_failed", "error", err)
		return err
	}
	if c.DigestService == nil {
		logger.Warnw("worker_weekly_digest_skip_service_nil")
		return nil
	}
	result, err := c.DigestService.RunWindow(ctx, c.now(), payload.WindowDays)
	if err != nil {
		logger.Warnw("worker_weekly_digest_failed", "sent", result.Sent, "error", err)
		return err
	}
	return nil
}
