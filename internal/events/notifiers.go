package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LogNotifier writes each event to the structured log.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, event Event) error {
	n.Logger.Info().
		Str("event_id", event.ID.String()).
		Str("topic", event.Topic).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", event.Payload).
		Msg("domain event")
	return nil
}

// RedisStore appends events to a Redis stream.
type RedisStore struct {
	Client *redis.Client
	Stream string
	MaxLen int64
}

// Append implements Store.
func (s *RedisStore) Append(ctx context.Context, event Event) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("redis store not configured")
	}
	stream := s.Stream
	if stream == "" {
		stream = "cart:events"
	}
	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"id":    event.ID.String(),
			"topic": event.Topic,
			"event": string(encoded),
		},
	}
	if s.MaxLen > 0 {
		args.MaxLen = s.MaxLen
		args.Approx = true
	}
	return s.Client.XAdd(ctx, args).Err()
}
