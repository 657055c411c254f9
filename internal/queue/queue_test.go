package queue

import (
	"errors"
	"testing"

	"github.com/newsportal/internal/config"
)

func TestNotifyTaskRoundTripPayload(t *testing.T) {
	task, err := NewNotifyNewPostTask(NotifyNewPostPayload{PostID: 42})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskNotifyNewPost {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	payload, err := ParseNotifyNewPostPayload(task.Payload())
	if err != nil || payload.PostID != 42 {
		t.Fatalf("unexpected payload %+v err=%v", payload, err)
	}
}

func TestParseWeeklyDigestPayloadAcceptsEmptyBody(t *testing.T) {
	payload, err := ParseWeeklyDigestPayload(nil)
	if err != nil || payload.WindowDays != 0 {
		t.Fatalf("empty body should decode to zero payload, got %+v err=%v", payload, err)
	}
	if _, err := ParseWeeklyDigestPayload([]byte("{")); err == nil {
		t.Fatalf("broken body should fail")
	}
}

func TestDisabledClientRefusesToEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueNotifyNewPost(NotifyNewPostPayload{PostID: 1}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("want ErrDisabled got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}
