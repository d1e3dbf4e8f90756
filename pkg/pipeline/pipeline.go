// Package pipeline provides the local documentation pipeline.
//
// This package implements the complete parse → enrich → generate flow
// so the CLI and the workers share one code path. By centralizing this
// logic, we ensure consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Extract shapes, connections, and metadata from a Visio
//     diagram
//  2. Enrich: Fill missing device and connection properties with
//     type-based defaults
//  3. Generate: Build the document model and render it in the
//     requested output formats
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "network.vsdx",
//	    Formats: []string{"html", "pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = generate.FormatHTML

// Options contains all configuration for the documentation pipeline.
// This struct supports JSON serialization for message payloads.
type Options struct {
	// Parse options
	Input      string `json:"input"`
	SkipEnrich bool   `json:"skip_enrich,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Generate options
	Formats         []string               `json:"formats,omitempty"`
	Title           string                 `json:"title,omitempty"`
	ProjectMetadata map[string]string      `json:"project_metadata,omitempty"`
	Branding        *generate.Branding     `json:"branding,omitempty"`
	Template        *generate.Template     `json:"template,omitempty"`
	Supplemental    *generate.Supplemental `json:"supplemental,omitempty"`
	AIAnalysis      json.RawMessage        `json:"ai_analysis,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Topology is the parsed and enriched diagram.
	Topology *topology.ParsedTopology

	// TopologyHash is the content hash of the parsed topology.
	TopologyHash string

	// Artifacts contains rendered documents keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DeviceCount     int
	ConnectionCount int
	ParseTime       time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed topology came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults
// for the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidMessage, "input file is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := generate.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// GenerateOptions converts the pipeline options into document model
// options.
func (o *Options) GenerateOptions() generate.Options {
	return generate.Options{
		Title:           o.Title,
		ProjectMetadata: o.ProjectMetadata,
		Branding:        o.Branding,
		Template:        o.Template,
		Supplemental:    o.Supplemental,
		AIAnalysis:      o.AIAnalysis,
	}
}
