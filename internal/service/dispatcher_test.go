package service

import (
	"context"
	"errors"
	"testing"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	postIDs []uint
	err     error
}

func (n *recordingNotifier) NotifyNewPost(_ context.Context, postID uint) (int, error) {
	n.postIDs = append(n.postIDs, postID)
	return 1, n.err
}

func TestInlineDispatcherSurfacesNotifierError(t *testing.T) {
	boom := errors.New("smtp down")
	notifier := &recordingNotifier{err: boom}
	dispatcher := NewInlineDispatcher(notifier)

	err := dispatcher.DispatchPostCreated(context.Background(), PostCreatedEvent{PostID: 7})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []uint{7}, notifier.postIDs)
}

func TestQueueDispatcherWithDisabledQueue(t *testing.T) {
	client, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	require.NoError(t, err)

	err = NewQueueDispatcher(client).DispatchPostCreated(context.Background(), PostCreatedEvent{PostID: 1})
	assert.ErrorIs(t, err, ErrQueueUnavailable)
}

func TestNewEventDispatcherFallsBackToInline(t *testing.T) {
	client, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	require.NoError(t, err)
	notifier := &recordingNotifier{}

	dispatcher := NewEventDispatcher(true, client, notifier)
	_, inline := dispatcher.(*InlineDispatcher)
	require.True(t, inline)
	require.NoError(t, dispatcher.DispatchPostCreated(context.Background(), PostCreatedEvent{PostID: 3}))
	assert.Equal(t, []uint{3}, notifier.postIDs)
}
