// Package ports - EventPublisher pushes domain events to the message bus.
package ports

import (
	"context"

	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// EventPublisher publishes domain events after state changes commit.
// Delivery is at-least-once and best-effort from the caller's point of
// view: a publish failure never rolls back the business operation, it is
// logged and dropped.
type EventPublisher interface {
	// Publish publishes a single event.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch publishes several events in one call.
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
