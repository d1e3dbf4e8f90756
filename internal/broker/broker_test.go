package broker

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMemoryBrokerPublish(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	payload := map[string]string{"document_id": "doc-1"}
	if err := b.Publish(context.Background(), KeyParseComplete, payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := b.PublishedTo(KeyParseComplete)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	var decoded map[string]string
	if err := json.Unmarshal(msgs[0].Body, &decoded); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if decoded["document_id"] != "doc-1" {
		t.Errorf("document_id = %q", decoded["document_id"])
	}
	if len(b.PublishedTo(KeyGenerateComplete)) != 0 {
		t.Error("message leaked to unrelated routing key")
	}
}

func TestMemoryBrokerDeliversToHandler(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan []byte, 1)

	go func() {
		_ = b.Consume(ctx, "q", KeyGenerate, func(ctx context.Context, body []byte) error {
			received <- body
			return nil
		})
	}()

	// Consume registers synchronously under the mutex; spin until the
	// handler is visible.
	for {
		b.mu.Lock()
		registered := b.handlers[KeyGenerate] != nil
		b.mu.Unlock()
		if registered {
			break
		}
	}

	if err := b.Publish(context.Background(), KeyGenerate, map[string]string{"document_id": "d"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case body := <-received:
		if len(body) == 0 {
			t.Error("handler received empty body")
		}
	default:
		t.Fatal("handler not invoked")
	}
	cancel()
}

func TestRoutingKeys(t *testing.T) {
	keys := map[string]string{
		KeyParseVisio:       "document.parse.visio",
		KeyParseComplete:    "document.parse.complete",
		KeyGenerate:         "document.generate",
		KeyGenerateComplete: "document.generate.complete",
	}
	for got, want := range keys {
		if got != want {
			t.Errorf("routing key = %q, want %q", got, want)
		}
	}
}
