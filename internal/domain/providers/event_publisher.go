package providers

import (
	"context"

	"github.com/clinicboard/scheduling-service/internal/domain/entities"
)

// EventPublisher hands appointment domain events to an out-of-process
// delivery mechanism. The domain only produces and clears events; it never
// transmits them itself.
type EventPublisher interface {
	// Publish delivers one domain event
	Publish(ctx context.Context, event entities.DomainEvent) error

	// Close releases the underlying transport
	Close() error
}
