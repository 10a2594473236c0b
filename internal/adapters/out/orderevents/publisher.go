// Package orderevents streams order lifecycle events to Kafka. Messages are
// keyed by order id so every event of one order lands on the same
// partition in commit order.
package orderevents

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventBody is the JSON value of a published message.
type eventBody struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   *string   `json:"driver_id"`
	Status     string    `json:"status"`
	TotalCents *int64    `json:"total_cents"`
	IsPaid     bool      `json:"is_paid"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEventBody(e ports.OrderEvent) eventBody {
	body := eventBody{
		Type:       string(e.Type),
		OrderID:    e.OrderID.String(),
		CustomerID: e.CustomerID.String(),
		Status:     e.Status.String(),
		TotalCents: e.TotalCents,
		IsPaid:     e.IsPaid,
		OccurredAt: e.OccurredAt,
	}
	if e.DriverID != nil {
		id := e.DriverID.String()
		body.DriverID = &id
	}
	return body
}

type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher builds an asynchronous writer. Delivery failures are
// reported to logger by the writer's completion callback.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	log := logger.With("component", "order_events", "topic", topic)
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
			BatchTimeout: 50 * time.Millisecond,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					log.Error("order events not delivered", "count", len(messages), "error", err)
				}
			},
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	value, err := json.Marshal(newEventBody(event))
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return errs.NewExternalServiceError("kafka", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ports.OrderEvent) error { return nil }
