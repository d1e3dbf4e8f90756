// Package broker wraps the RabbitMQ connection used for inter-service
// messaging. All traffic flows through one durable topic exchange;
// completion messages are routed back to the upstream application by
// routing key.
package broker

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
)

// Exchange is the topic exchange all messages flow through.
const Exchange = "netdocgen"

// Routing keys for the document pipeline.
const (
	KeyParseVisio       = "document.parse.visio"
	KeyParseComplete    = "document.parse.complete"
	KeyGenerate         = "document.generate"
	KeyGenerateComplete = "document.generate.complete"
)

// Handler processes one message body. A nil return acknowledges the
// message; an error leaves it unacknowledged for redelivery.
type Handler func(ctx context.Context, body []byte) error

// Broker publishes and consumes JSON messages.
type Broker interface {
	// Publish sends a message to the exchange. The body is marshaled
	// as JSON.
	Publish(ctx context.Context, routingKey string, message any) error

	// Consume binds a durable queue to the routing key and processes
	// deliveries with handler until ctx is canceled or the connection
	// drops.
	Consume(ctx context.Context, queueName, routingKey string, handler Handler) error

	// Close shuts down the connection.
	Close() error
}

// AMQPBroker is the RabbitMQ implementation.
type AMQPBroker struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *log.Logger
}

// Connect dials RabbitMQ and declares the topic exchange.
func Connect(url string, logger *log.Logger) (*AMQPBroker, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBroker, err, "connecting to broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.ErrCodeBroker, err, "opening channel")
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(errors.ErrCodeBroker, err, "declaring exchange %s", Exchange)
	}

	return &AMQPBroker{conn: conn, ch: ch, logger: logger}, nil
}

// Publish sends a JSON message to the exchange.
func (b *AMQPBroker) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding message for %s", routingKey)
	}

	messageID := uuid.NewString()
	err = b.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeBroker, err, "publishing to %s", routingKey)
	}

	b.logger.Debug("published message", "routing_key", routingKey, "message_id", messageID, "bytes", len(body))
	return nil
}

// Consume processes deliveries from a durable queue bound to the
// routing key. Messages are acknowledged only after the handler
// returns nil; a handler error nacks with requeue.
func (b *AMQPBroker) Consume(ctx context.Context, queueName, routingKey string, handler Handler) error {
	queue, err := b.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBroker, err, "declaring queue %s", queueName)
	}
	if err := b.ch.QueueBind(queue.Name, routingKey, Exchange, false, nil); err != nil {
		return errors.Wrap(errors.ErrCodeBroker, err, "binding queue %s to %s", queueName, routingKey)
	}

	deliveries, err := b.ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBroker, err, "consuming from %s", queueName)
	}

	b.logger.Info("consuming messages", "queue", queueName, "routing_key", routingKey)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New(errors.ErrCodeBroker, "delivery channel closed for %s", queueName)
			}
			if err := handler(ctx, d.Body); err != nil {
				b.logger.Error("message handling failed, requeueing", "queue", queueName, "error", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close shuts down the channel and connection.
func (b *AMQPBroker) Close() error {
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
