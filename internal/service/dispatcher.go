package service

import (
	"context"
	"errors"

	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/queue"
)

// EventDispatcher reacts to domain events returned by PostService.
type EventDispatcher interface {
	DispatchPostCreated(ctx context.Context, event PostCreatedEvent) error
}

// PostNotifier is the part of NotificationService the dispatchers need.
type PostNotifier interface {
	NotifyNewPost(ctx context.Context, postID uint) (int, error)
}

// InlineDispatcher notifies subscribers inside the calling request.
// A transport failure is returned to the caller.
type InlineDispatcher struct {
	notifier PostNotifier
}

// NewInlineDispatcher creates the synchronous dispatcher.
func NewInlineDispatcher(notifier PostNotifier) *InlineDispatcher {
	return &InlineDispatcher{notifier: notifier}
}

func (d *InlineDispatcher) DispatchPostCreated(ctx context.Context, event PostCreatedEvent) error {
	if d == nil || d.notifier == nil {
		return nil
	}
	_, err := d.notifier.NotifyNewPost(ctx, event.PostID)
	return err
}

// QueueDispatcher hands the notification to the worker.
type QueueDispatcher struct {
	client *queue.Client
}

// NewQueueDispatcher creates the asynchronous dispatcher.
func NewQueueDispatcher(client *queue.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

func (d *QueueDispatcher) DispatchPostCreated(ctx context.Context, event PostCreatedEvent) error {
	if d == nil || d.client == nil {
		return ErrQueueUnavailable
	}
	err := d.client.EnqueueNotifyNewPost(queue.NotifyNewPostPayload{PostID: event.PostID})
	if errors.Is(err, queue.ErrDisabled) {
		return ErrQueueUnavailable
	}
	if err != nil {
		logger.Warnw("notify_new_post_enqueue_failed", "post_id", event.PostID, "error", err)
	}
	return err
}

// NewEventDispatcher picks the queue when async is requested and the queue is up,
// otherwise notifies inline.
func NewEventDispatcher(async bool, client *queue.Client, notifier PostNotifier) EventDispatcher {
	if async && client != nil && client.Enabled() {
		return NewQueueDispatcher(client)
	}
	return NewInlineDispatcher(notifier)
}
