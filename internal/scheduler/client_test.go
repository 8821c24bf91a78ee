package scheduler

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "test" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{url: ""}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestClient_EnqueueReminderSweep(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{url: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.EnqueueReminderSweep(t.Context()); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if len(mr.Keys()) == 0 {
		t.Fatal("expected the sweep task to land in redis")
	}
}
