package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	parseStarts    []string
	parseCompletes []string
	renderStarts   [][]string
	renderErrs     []error
}

func (r *recordingPipelineHooks) OnParseStart(_ context.Context, input string) {
	r.parseStarts = append(r.parseStarts, input)
}

func (r *recordingPipelineHooks) OnParseComplete(_ context.Context, input string, _, _ int, _ time.Duration, _ error) {
	r.parseCompletes = append(r.parseCompletes, input)
}

func (r *recordingPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	r.renderStarts = append(r.renderStarts, formats)
}

func (r *recordingPipelineHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	r.renderErrs = append(r.renderErrs, err)
}

type recordingCacheHooks struct {
	hits   []string
	misses []string
	sets   []string
}

func (r *recordingCacheHooks) OnCacheHit(_ context.Context, key string)  { r.hits = append(r.hits, key) }
func (r *recordingCacheHooks) OnCacheMiss(_ context.Context, key string) { r.misses = append(r.misses, key) }
func (r *recordingCacheHooks) OnCacheSet(_ context.Context, key string, _ int) {
	r.sets = append(r.sets, key)
}

func TestDefaultHooksAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	// Must not panic.
	Pipeline().OnParseStart(ctx, "diagram.vsdx")
	Pipeline().OnParseComplete(ctx, "diagram.vsdx", 0, 0, 0, nil)
	Pipeline().OnRenderStart(ctx, []string{"html"})
	Pipeline().OnRenderComplete(ctx, []string{"html"}, 0, nil)
	Cache().OnCacheHit(ctx, "k")
	Cache().OnCacheMiss(ctx, "k")
	Cache().OnCacheSet(ctx, "k", 10)
	Worker().OnMessageStart(ctx, "q", "doc-1")
	Worker().OnMessageComplete(ctx, "q", "doc-1", 0, nil)
}

func TestSetPipelineHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx, "net.vsdx")
	Pipeline().OnParseComplete(ctx, "net.vsdx", 2, 1, time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, []string{"html", "markdown"})
	Pipeline().OnRenderComplete(ctx, []string{"html", "markdown"}, time.Millisecond, nil)

	if len(rec.parseStarts) != 1 || rec.parseStarts[0] != "net.vsdx" {
		t.Fatalf("parse starts = %v", rec.parseStarts)
	}
	if len(rec.parseCompletes) != 1 {
		t.Fatalf("parse completes = %v", rec.parseCompletes)
	}
	if len(rec.renderStarts) != 1 || len(rec.renderStarts[0]) != 2 {
		t.Fatalf("render starts = %v", rec.renderStarts)
	}
}

func TestSetCacheHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	ctx := context.Background()
	Cache().OnCacheMiss(ctx, "a")
	Cache().OnCacheSet(ctx, "a", 128)
	Cache().OnCacheHit(ctx, "a")

	if len(rec.misses) != 1 || len(rec.sets) != 1 || len(rec.hits) != 1 {
		t.Fatalf("hits=%v misses=%v sets=%v", rec.hits, rec.misses, rec.sets)
	}
}

func TestSetNilRestoresNoop(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetPipelineHooks(&recordingPipelineHooks{})
	SetPipelineHooks(nil)
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Fatalf("expected noop pipeline hooks, got %T", Pipeline())
	}

	SetCacheHooks(&recordingCacheHooks{})
	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Fatalf("expected noop cache hooks, got %T", Cache())
	}

	SetWorkerHooks(nil)
	if _, ok := Worker().(NoopWorkerHooks); !ok {
		t.Fatalf("expected noop worker hooks, got %T", Worker())
	}
}
