package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const subscriberBuffer = 32

// MemoryBus is an in-process Bus. Slow subscribers miss events rather than
// block publishers.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[int64]map[chan Event]struct{}
	closed bool
	log    zerolog.Logger
}

var _ Bus = (*MemoryBus)(nil)

// NewMemoryBus creates an empty in-process bus.
func NewMemoryBus(log zerolog.Logger) *MemoryBus {
	return &MemoryBus{
		subs: make(map[int64]map[chan Event]struct{}),
		log:  log.With().Str("component", "memory_event_bus").Logger(),
	}
}

func (b *MemoryBus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}
	for ch := range b.subs[e.LectureID] {
		select {
		case ch <- e:
		default:
			b.log.Warn().
				Int64("lecture_id", e.LectureID).
				Str("type", string(e.Type)).
				Msg("Subscriber buffer full, event dropped")
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, lectureID int64) (<-chan Event, error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	if b.subs[lectureID] == nil {
		b.subs[lectureID] = make(map[chan Event]struct{})
	}
	b.subs[lectureID][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(lectureID, ch)
	}()
	return ch, nil
}

func (b *MemoryBus) unsubscribe(lectureID int64, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subs[lectureID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(b.subs, lectureID)
	}
	close(ch)
}

// Close closes every subscription and stops delivery.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, id)
	}
	return nil
}

// SubscriberCount returns the number of live subscriptions for lectureID.
func (b *MemoryBus) SubscriberCount(lectureID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[lectureID])
}
