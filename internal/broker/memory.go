package broker

import (
	"context"
	"encoding/json"
	"sync"
)

// Message is one published message captured by the in-memory broker.
type Message struct {
	RoutingKey string
	Body       []byte
}

// MemoryBroker is an in-process Broker used in tests. Published
// messages are recorded and delivered synchronously to matching
// consumers.
type MemoryBroker struct {
	mu        sync.Mutex
	published []Message
	handlers  map[string]Handler
}

// NewMemoryBroker creates an empty in-memory broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{handlers: make(map[string]Handler)}
}

// Publish records the message and invokes a registered handler for
// the routing key, if any.
func (b *MemoryBroker) Publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.published = append(b.published, Message{RoutingKey: routingKey, Body: body})
	handler := b.handlers[routingKey]
	b.mu.Unlock()

	if handler != nil {
		return handler(ctx, body)
	}
	return nil
}

// Consume registers the handler for the routing key and blocks until
// ctx is canceled.
func (b *MemoryBroker) Consume(ctx context.Context, queueName, routingKey string, handler Handler) error {
	b.mu.Lock()
	b.handlers[routingKey] = handler
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

// Close is a no-op.
func (b *MemoryBroker) Close() error {
	return nil
}

// Published returns a copy of all recorded messages.
func (b *MemoryBroker) Published() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.published))
	copy(out, b.published)
	return out
}

// PublishedTo returns recorded messages for one routing key.
func (b *MemoryBroker) PublishedTo(routingKey string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Message
	for _, m := range b.published {
		if m.RoutingKey == routingKey {
			out = append(out, m)
		}
	}
	return out
}
