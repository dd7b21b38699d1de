package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
	"github.com/clinicboard/scheduling-service/internal/domain/providers"
	redisclient "github.com/clinicboard/scheduling-service/internal/infrastructure/clients/redis"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/observability"
)

// eventEnvelope is the wire form of a domain event on the bus. The payload
// keeps the event's own JSON shape so consumers can decode by event_type.
type eventEnvelope struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  string          `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// RedisEventBus delivers appointment domain events over Redis Pub/Sub
type RedisEventBus struct {
	client  *redisclient.Client
	channel string
}

// NewRedisEventBus creates a new Redis-based event publisher
func NewRedisEventBus(client *redisclient.Client, channel string) providers.EventPublisher {
	return &RedisEventBus{
		client:  client,
		channel: channel,
	}
}

// Publish delivers one domain event to the configured channel
func (b *RedisEventBus) Publish(ctx context.Context, event entities.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope, err := json.Marshal(eventEnvelope{
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:     payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := b.client.Client().Publish(ctx, b.channel, envelope).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", b.channel).
		Str("event_type", event.EventType()).
		Str("aggregate_id", event.AggregateID()).
		Msg("event published")

	return nil
}

// Close releases the underlying Redis connection
func (b *RedisEventBus) Close() error {
	return b.client.Close()
}
