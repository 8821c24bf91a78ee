package events

import (
	"context"
	"errors"
	"testing"

	"servicehub_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestInMemoryBus_PublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	var calls int
	handler := HandlerFunc(func(ctx context.Context, e Event) error {
		calls++
		return nil
	})
	bus.Subscribe("a", handler)
	bus.Subscribe("a", handler)
	bus.Subscribe("b", handler)

	if err := bus.PublishSync(t.Context(), testEvent{BaseEvent: NewBaseEvent(), name: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", calls)
	}
}

func TestInMemoryBus_PublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	boom := errors.New("boom")
	bus.Subscribe("a", HandlerFunc(func(ctx context.Context, e Event) error { return boom }))
	bus.Subscribe("a", HandlerFunc(func(ctx context.Context, e Event) error { return nil }))

	err := bus.PublishSync(t.Context(), testEvent{BaseEvent: NewBaseEvent(), name: "a"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
}

func TestInMemoryBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	bus.Subscribe("a", HandlerFunc(func(ctx context.Context, e Event) error { panic("handler bug") }))

	err := bus.PublishSync(t.Context(), testEvent{BaseEvent: NewBaseEvent(), name: "a"})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}
