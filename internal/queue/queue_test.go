package queue

import (
	"testing"
	"time"

	"github.com/jpashop-api/internal/config"
)

func TestOrderStatusTaskRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	task, err := NewOrderStatusTask(OrderStatusPayload{OrderID: 7, Status: " CANCEL ", OccurredAt: at})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderStatusNotify {
		t.Fatalf("task type want %s got %s", TaskOrderStatusNotify, task.Type())
	}
	payload, err := ParseOrderStatusPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 7 || payload.Status != "CANCEL" || !payload.OccurredAt.Equal(at) {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestNewOrderStatusTaskRequiresOrderID(t *testing.T) {
	if _, err := NewOrderStatusTask(OrderStatusPayload{Status: "ORDER"}); err == nil {
		t.Fatalf("expected error for zero order id")
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should not be enabled")
	}
	if err := client.EnqueueOrderStatus(OrderStatusPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("addr want 127.0.0.1:6379 got %s", opt.Addr)
	}
	if cfg.Concurrency != defaultConcurrency || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("server config mismatch: %+v", cfg)
	}
}

func TestBuildServerConfigOverrides(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{
		Host:        " redis.internal ",
		Port:        6380,
		DB:          2,
		Concurrency: 3,
		Queues:      map[string]int{"critical": 6, DefaultQueue: 1},
	})
	if opt.Addr != "redis.internal:6380" || opt.DB != 2 {
		t.Fatalf("redis opt mismatch: %+v", opt)
	}
	if cfg.Concurrency != 3 || cfg.Queues["critical"] != 6 {
		t.Fatalf("server config mismatch: %+v", cfg)
	}
	if cfg.ErrorHandler == nil || cfg.RetryDelayFunc == nil || cfg.Logger == nil {
		t.Fatalf("server config should carry error handler, retry delay and logger")
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("shutdown timeout want %s got %s", defaultShutdownTimeout, cfg.ShutdownTimeout)
	}
}

func TestRetryDelayIsCapped(t *testing.T) {
	cases := map[int]time.Duration{
		-1: time.Second,
		0:  time.Second,
		3:  8 * time.Second,
		8:  256 * time.Second,
		20: maxRetryDelay,
	}
	for n, want := range cases {
		if got := retryDelay(n, nil, nil); got != want {
			t.Fatalf("retry %d want %s got %s", n, want, got)
		}
	}
}

func TestOrderStatusTaskIDNormalizesStatus(t *testing.T) {
	a := orderStatusTaskID(OrderStatusPayload{OrderID: 4, Status: " cancel"})
	b := orderStatusTaskID(OrderStatusPayload{OrderID: 4, Status: "CANCEL"})
	if a != b {
		t.Fatalf("task id should ignore case and spaces: %s vs %s", a, b)
	}
}
