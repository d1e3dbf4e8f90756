package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/cache"
	"github.com/Jgiet001-AI/NetDocGen/pkg/enrich"
	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate/sink"
	"github.com/Jgiet001-AI/NetDocGen/pkg/observability"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
	"github.com/Jgiet001-AI/NetDocGen/pkg/vsdx"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → enrich → generate pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	parseStart := time.Now()
	t, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Topology = t
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.DeviceCount = len(t.Shapes)
	result.Stats.ConnectionCount = len(t.Connections)
	result.CacheInfo.ParseHit = parseHit

	if data, err := json.Marshal(t); err == nil {
		result.TopologyHash = cache.Hash(data)
	}

	r.Logger.Info("parsed diagram",
		"devices", len(t.Shapes),
		"connections", len(t.Connections),
		"pages", t.PageCount,
		"duration", result.Stats.ParseTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered documents",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses a diagram with caching and returns cache
// hit info. Enrichment defaults are applied before the topology is
// cached so both code paths see identical data.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*topology.ParsedTopology, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnParseStart(ctx, opts.Input)
	start := time.Now()

	// Enriched and raw topologies are cached separately.
	fileHash, err := cache.HashFile(opts.Input)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeFileNotFound, err, "reading diagram %s", opts.Input)
		observability.Pipeline().OnParseComplete(ctx, opts.Input, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	if opts.SkipEnrich {
		fileHash += ":raw"
	}
	cacheKey := r.Keyer.TopologyKey(fileHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var t topology.ParsedTopology
			if err := json.Unmarshal(data, &t); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				observability.Pipeline().OnParseComplete(ctx, opts.Input, len(t.Shapes), len(t.Connections), time.Since(start), nil)
				return &t, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	parser := vsdx.NewParser(opts.Logger)
	t, err := parser.ParseFile(opts.Input)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, opts.Input, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	if !opts.SkipEnrich {
		enrich.Apply(t)
	}

	if data, err := json.Marshal(t); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLTopology) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	observability.Pipeline().OnParseComplete(ctx, opts.Input, len(t.Shapes), len(t.Connections), time.Since(start), nil)
	return t, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*topology.ParsedTopology, error) {
	t, _, err := r.ParseWithCacheInfo(ctx, opts)
	return t, err
}

// RenderWithCacheInfo renders documents with caching and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *topology.ParsedTopology, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	hash, err := r.renderHash(t, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(hash, format)
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKey)
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, cacheKey)
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	model := generate.Build(t, opts.GenerateOptions())

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(ctx, model, format)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		rendered[format] = data
		cacheKey := r.Keyer.ArtifactKey(hash, format)
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *topology.ParsedTopology, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// renderHash keys rendered artifacts by the topology content plus the
// customization inputs, so a changed title or branding invalidates the
// cached document.
func (r *Runner) renderHash(t *topology.ParsedTopology, opts Options) (string, error) {
	topoData, err := json.Marshal(t)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serializing topology")
	}
	custom := struct {
		Title    string                 `json:"title"`
		Meta     map[string]string      `json:"meta"`
		Branding *generate.Branding     `json:"branding"`
		Template *generate.Template     `json:"template"`
		Suppl    *generate.Supplemental `json:"supplemental"`
		AI       json.RawMessage        `json:"ai"`
	}{opts.Title, opts.ProjectMetadata, opts.Branding, opts.Template, opts.Supplemental, opts.AIAnalysis}
	customData, err := json.Marshal(custom)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serializing render options")
	}
	return cache.Hash(append(topoData, customData...)), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
