package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMemoryBusDeliversToLectureSubscribers(t *testing.T) {
	bus := NewMemoryBus(zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	one, _ := bus.Subscribe(ctx, 1)
	two, _ := bus.Subscribe(ctx, 2)

	if err := bus.Publish(ctx, New(AttendedSubjectApplied, 1, map[string]int64{"student_id": 3})); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case e := <-one:
		if e.Type != AttendedSubjectApplied || e.LectureID != 1 {
			t.Fatalf("unexpected event: %+v", e)
		}
		if string(e.Data) != `{"student_id":3}` {
			t.Fatalf("unexpected data: %s", e.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case e := <-two:
		t.Fatalf("lecture 2 should not receive %+v", e)
	default:
	}
}

func TestMemoryBusUnsubscribesOnCancel(t *testing.T) {
	bus := NewMemoryBus(zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := bus.Subscribe(ctx, 5)
	if bus.SubscriberCount(5) != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	if bus.SubscriberCount(5) != 0 {
		t.Fatalf("subscriber not removed")
	}
}

func TestMemoryBusDropsWhenSubscriberIsSlow(t *testing.T) {
	bus := NewMemoryBus(zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := bus.Subscribe(ctx, 9)

	for range subscriberBuffer + 10 {
		_ = bus.Publish(ctx, New(LectureModified, 9, nil))
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", subscriberBuffer, len(ch))
	}
}

func TestMemoryBusCloseEndsSubscriptions(t *testing.T) {
	bus := NewMemoryBus(zerolog.Nop())
	ch, _ := bus.Subscribe(context.Background(), 1)
	_ = bus.Close()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	if err := bus.Publish(context.Background(), New(LectureDeleted, 1, nil)); err != nil {
		t.Fatalf("publish after close: %v", err)
	}
}
