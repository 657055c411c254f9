package queue

import (
	"encoding/json"

	"github.com/newsportal/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotifyNewPost emails the subscribers of a new post's categories.
	TaskNotifyNewPost = constants.TaskNotifyNewPost
	// TaskWeeklyDigest sends the weekly digest.
	TaskWeeklyDigest = constants.TaskWeeklyDigest
)

// NotifyNewPostPayload identifies the created post.
type NotifyNewPostPayload struct {
	PostID uint `json:"post_id"`
}

// WeeklyDigestPayload sets the window of a digest run. Zero uses the configured window.
type WeeklyDigestPayload struct {
	WindowDays int `json:"window_days"`
}

// NewNotifyNewPostTask builds a notify task. It never retries: a retry would
// resend every email already delivered before the failure.
func NewNotifyNewPostTask(payload NotifyNewPostPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyNewPost, body, asynq.MaxRetry(0)), nil
}

// NewWeeklyDigestTask builds a digest task.
func NewWeeklyDigestTask(payload WeeklyDigestPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyDigest, body, asynq.MaxRetry(0)), nil
}

// ParseNotifyNewPostPayload decodes a notify task body.
func ParseNotifyNewPostPayload(body []byte) (NotifyNewPostPayload, error) {
	var payload NotifyNewPostPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}

// ParseWeeklyDigestPayload decodes a digest task body. An empty body is a zero payload.
func ParseWeeklyDigestPayload(body []byte) (WeeklyDigestPayload, error) {
	var payload WeeklyDigestPayload
	if len(body) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(body, &payload)
	return payload, err
}
