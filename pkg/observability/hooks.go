// Package observability provides lightweight hooks for instrumenting the
// document pipeline without coupling it to a particular metrics backend.
//
// Callers register hook implementations once at startup and the pipeline,
// cache, and workers invoke them at well-defined points. The default
// implementations are no-ops so instrumentation is always optional.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives notifications around diagram parsing and document
// rendering. Durations are wall-clock times for the whole stage including
// cache lookups.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, input string)
	OnParseComplete(ctx context.Context, input string, shapeCount, connectionCount int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives notifications on cache activity. Keys are opaque hash
// strings; implementations should treat them as identifiers only.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, key string)
	OnCacheMiss(ctx context.Context, key string)
	OnCacheSet(ctx context.Context, key string, sizeBytes int)
}

// WorkerHooks receives notifications around queue message handling.
type WorkerHooks interface {
	OnMessageStart(ctx context.Context, queue, documentID string)
	OnMessageComplete(ctx context.Context, queue, documentID string, duration time.Duration, err error)
}

// NoopPipelineHooks is a PipelineHooks implementation that does nothing.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a CacheHooks implementation that does nothing.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopWorkerHooks is a WorkerHooks implementation that does nothing.
type NoopWorkerHooks struct{}

func (NoopWorkerHooks) OnMessageStart(context.Context, string, string)                          {}
func (NoopWorkerHooks) OnMessageComplete(context.Context, string, string, time.Duration, error) {}

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	workerHooks   WorkerHooks   = NoopWorkerHooks{}
)

// SetPipelineHooks registers the pipeline hook implementation. Passing nil
// restores the no-op default.
func SetPipelineHooks(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopPipelineHooks{}
	}
	pipelineHooks = h
}

// SetCacheHooks registers the cache hook implementation. Passing nil restores
// the no-op default.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// SetWorkerHooks registers the worker hook implementation. Passing nil
// restores the no-op default.
func SetWorkerHooks(h WorkerHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopWorkerHooks{}
	}
	workerHooks = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Worker returns the registered worker hooks.
func Worker() WorkerHooks {
	mu.RLock()
	defer mu.RUnlock()
	return workerHooks
}

// Reset restores all hooks to their no-op defaults. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	workerHooks = NoopWorkerHooks{}
}
