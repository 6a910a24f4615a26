package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/config"
)

// RedisBus publishes events over Redis Pub/Sub so every server instance
// sees every lecture change.
type RedisBus struct {
	rdb *redis.Client
	log zerolog.Logger
}

var _ Bus = (*RedisBus)(nil)

// NewRedisBus wraps an already connected client.
func NewRedisBus(rdb *redis.Client, log zerolog.Logger) *RedisBus {
	return &RedisBus{
		rdb: rdb,
		log: log.With().Str("component", "redis_event_bus").Logger(),
	}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	channel := config.ChannelKey.LectureEventsChannel(e.LectureID)
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, lectureID int64) (<-chan Event, error) {
	channel := config.ChannelKey.LectureEventsChannel(lectureID)
	ps := b.rdb.Subscribe(ctx, channel)

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("Malformed event skipped")
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close is a no-op; the client is owned by the caller.
func (b *RedisBus) Close() error { return nil }
