// Package nats implements the event publisher port over NATS.
//
// Subjects follow the event type: an event of type "proposal.completed"
// goes to "<prefix>.proposal.completed". Consumers subscribe with
// wildcards per aggregate ("ledgerhub.proposal.>").
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// Compile-time check
var _ ports.EventPublisher = (*Publisher)(nil)

// Config holds the NATS connection settings.
type Config struct {
	URL           string
	SubjectPrefix string
	Name          string
}

// DefaultConfig returns local development settings.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "ledgerhub",
		Name:          "ledgerhub-api",
	}
}

// Publisher publishes domain events to NATS.
type Publisher struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

// NewPublisher connects to NATS and returns a publisher.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{
		conn:          conn,
		subjectPrefix: cfg.SubjectPrefix,
		logger:        logger,
	}, nil
}

// envelope is the wire form of a domain event. The payload carries the
// event's own exported fields; identity and timing come from the base.
type envelope struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload,omitempty"`
}

// Publish publishes a single event.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	data, err := json.Marshal(envelope{
		EventID:     event.EventID().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID().String(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := p.subjectPrefix + "." + event.EventType()
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"subject", subject,
			"event_type", event.EventType(),
			"error", err,
		)
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// PublishBatch publishes several events; the first failure aborts.
func (p *Publisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, event := range evts {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("failed to drain NATS connection", "error", err)
	}
}

// NoopPublisher drops every event. Used when the message bus is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, events.DomainEvent) error        { return nil }
func (NoopPublisher) PublishBatch(context.Context, []events.DomainEvent) error { return nil }
