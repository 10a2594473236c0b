package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"laundry/internal/core/ports"
	"laundry/internal/pkg/breaker"
	"laundry/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// channel is the part of *amqp.Channel the notifier publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQNotifier publishes notifications as persistent JSON messages to
// a durable queue through the default exchange.
type RabbitMQNotifier struct {
	conn      *amqp.Connection
	ch        channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	now       func() time.Time
}

func NewRabbitMQNotifier(amqpURL, queueName string, logger *slog.Logger) (*RabbitMQNotifier, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.NewExternalServiceError("rabbitmq", err)
	}

	n := newRabbitMQNotifier(ch, queueName, logger)
	n.conn = conn
	return n, nil
}

func newRabbitMQNotifier(ch channel, queueName string, logger *slog.Logger) *RabbitMQNotifier {
	return &RabbitMQNotifier{
		ch:        ch,
		queueName: queueName,
		cb:        breaker.New("RabbitMQ-Notifier", 30*time.Second, logger),
		now:       time.Now,
	}
}

func (n *RabbitMQNotifier) SendVerification(ctx context.Context, msg ports.VerificationMessage) error {
	return n.publish(ctx, verificationMessage(msg, n.now()))
}

func (n *RabbitMQNotifier) SendStatusUpdate(ctx context.Context, msg ports.StatusUpdateMessage) error {
	return n.publish(ctx, statusUpdateMessage(msg, n.now()))
}

func (n *RabbitMQNotifier) publish(ctx context.Context, m message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = n.cb.Execute(func() (any, error) {
		return nil, n.ch.PublishWithContext(
			ctx,
			"",          // default exchange
			n.queueName, // routing key == queue name
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         m.Type,
				Timestamp:    m.SentAt,
				Body:         body,
			},
		)
	})
	if err != nil {
		return errs.NewExternalServiceError("rabbitmq", err)
	}
	return nil
}

// Close releases the channel and the connection.
func (n *RabbitMQNotifier) Close() error {
	if c, ok := n.ch.(*amqp.Channel); ok && c != nil {
		if err := c.Close(); err != nil {
			return err
		}
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
