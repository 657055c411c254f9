package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/queue"

	"github.com/hibiken/asynq"
)

// SchedulerService enqueues the weekly digest on its cron schedule.
type SchedulerService struct {
	name      string
	scheduler *asynq.Scheduler
	entryID   string
}

// NewSchedulerService registers the digest cron. It needs the queue and an enabled digest.
func NewSchedulerService(queueCfg *config.QueueConfig, digestCfg config.DigestConfig) (*SchedulerService, error) {
	if queueCfg == nil || !queueCfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if !digestCfg.Enabled {
		return nil, errors.New("digest disabled")
	}
	location, err := resolveLocation(digestCfg.Timezone)
	if err != nil {
		return nil, err
	}
	scheduler := asynq.NewScheduler(queue.BuildSchedulerOpt(queueCfg), &asynq.SchedulerOpts{
		Location: location,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Warnw("scheduler_enqueue_failed", "error", err)
				return
			}
			logger.Infow("scheduler_enqueued", "task", info.Type, "task_id", info.ID)
		},
	})
	task, err := queue.NewWeeklyDigestTask(queue.WeeklyDigestPayload{WindowDays: digestCfg.WindowDays})
	if err != nil {
		return nil, err
	}
	entryID, err := scheduler.Register(digestCfg.Cron, task, asynq.Queue(queue.DefaultQueue))
	if err != nil {
		return nil, err
	}
	logger.Infow("scheduler_digest_registered", "cron", digestCfg.Cron, "timezone", location.String(), "entry_id", entryID)
	return &SchedulerService{
		name:      "scheduler",
		scheduler: scheduler,
		entryID:   entryID,
	}, nil
}

func (s *SchedulerService) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start runs the scheduler until ctx is done.
func (s *SchedulerService) Start(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return errors.New("scheduler not initialized")
	}
	if err := s.scheduler.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return nil
	}
	_ = ctx
	s.scheduler.Shutdown()
	return nil
}

func resolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
