package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	key := "topology:abc"
	value := []byte(`{"shapes":2}`)

	if _, found, err := c.Get(ctx, key); err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(got) != string(value) {
		t.Fatalf("got %q, want %q", got, value)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, found, err := c.Get(ctx, "short"); err != nil || found {
		t.Fatalf("expected expired entry to miss, got found=%v err=%v", found, err)
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Fatal("expected miss after Delete")
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, err := c.Get(ctx, "k"); err != nil || found {
		t.Fatalf("NullCache must always miss, got found=%v err=%v", found, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestKeyerDeterminism(t *testing.T) {
	k := NewDefaultKeyer()

	if k.TopologyKey("abc") != k.TopologyKey("abc") {
		t.Fatal("TopologyKey must be deterministic")
	}
	if k.TopologyKey("abc") == k.TopologyKey("def") {
		t.Fatal("different hashes must yield different keys")
	}
	if k.ArtifactKey("abc", "html") == k.ArtifactKey("abc", "pdf") {
		t.Fatal("different formats must yield different keys")
	}
	if k.TopologyKey("abc") == k.ArtifactKey("abc", "") {
		t.Fatal("topology and artifact keyspaces must not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "proj42:")

	want := "proj42:" + base.TopologyKey("abc")
	if got := scoped.TopologyKey("abc"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	err := RetryWithBackoff(ctx, func() error {
		attempts++
		if attempts < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}

	attempts = 0
	permanent := errors.New("permanent")
	err = RetryWithBackoff(ctx, func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("permanent errors must not retry, got %d attempts", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{Err: errors.New("x")}) {
		t.Fatal("RetryableError must be retryable")
	}
	if IsRetryable(errors.New("x")) {
		t.Fatal("plain errors must not be retryable")
	}
}
