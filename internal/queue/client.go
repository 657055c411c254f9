package queue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue receives every task unless an option overrides it.
const DefaultQueue = constants.QueueDefault

// ErrDisabled is returned by Enqueue calls when the queue is off.
var ErrDisabled = errors.New("queue disabled")

// Client wraps the asynq client. A disabled client never connects.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient connects when cfg enables the queue.
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueNotifyNewPost schedules the new post notification.
func (c *Client) EnqueueNotifyNewPost(payload NotifyNewPostPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	task, err := NewNotifyNewPostTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// EnqueueWeeklyDigest schedules an out-of-band digest run.
func (c *Client) EnqueueWeeklyDigest(payload WeeklyDigestPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	task, err := NewWeeklyDigestTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue)}, opts...)
	_, err = c.client.Enqueue(task, options...)
	return err
}

// BuildSchedulerOpt returns the redis options shared by scheduler and server.
func BuildSchedulerOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	return buildRedisOpt(cfg)
}

// BuildServerConfig returns the worker server settings.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
