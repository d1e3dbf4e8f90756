package worker

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/internal/broker"
	"github.com/Jgiet001-AI/NetDocGen/internal/storage"
	"github.com/Jgiet001-AI/NetDocGen/pkg/ai"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate/sink"
	"github.com/Jgiet001-AI/NetDocGen/pkg/observability"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// GenerateQueue is the generate worker's queue name.
const GenerateQueue = "document_generator_queue"

// GenerateWorker consumes generate requests, renders each requested
// format, and uploads the results. Formats fail independently; one
// bad format never blocks the others.
type GenerateWorker struct {
	broker  broker.Broker
	store   storage.Store
	ai      *ai.Client
	logger  *log.Logger
	timeout time.Duration
}

// NewGenerateWorker wires a generate worker. The AI client is
// optional; nil disables analysis.
func NewGenerateWorker(b broker.Broker, s storage.Store, aiClient *ai.Client, logger *log.Logger, timeout time.Duration) *GenerateWorker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &GenerateWorker{
		broker:  b,
		store:   s,
		ai:      aiClient,
		logger:  logger.With("component", "generate-worker"),
		timeout: timeout,
	}
}

// Run consumes generate requests until ctx is canceled.
func (w *GenerateWorker) Run(ctx context.Context) error {
	if err := w.store.EnsureBuckets(ctx); err != nil {
		return err
	}
	return w.broker.Consume(ctx, GenerateQueue, broker.KeyGenerate, w.Handle)
}

// Handle processes one generate request. A failure before the
// per-format loop (artifact download, decode) publishes a failed
// completion; per-format failures are isolated into the
// formats_failed list and the document still completes.
func (w *GenerateWorker) Handle(ctx context.Context, body []byte) error {
	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		w.logger.Error("discarding malformed generate request", "error", err)
		return nil
	}
	if req.DocumentID == "" {
		w.logger.Error("discarding generate request without document_id")
		return nil
	}
	if len(req.Formats) == 0 {
		req.Formats = []string{generate.FormatHTML}
	}

	observability.Worker().OnMessageStart(ctx, GenerateQueue, req.DocumentID)
	start := time.Now()
	err := w.process(ctx, req)
	observability.Worker().OnMessageComplete(ctx, GenerateQueue, req.DocumentID, time.Since(start), err)
	return err
}

func (w *GenerateWorker) process(ctx context.Context, req GenerateRequest) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	logger := w.logger.With("document_id", req.DocumentID)
	logger.Info("processing generate request", "formats", req.Formats)

	if req.ParsedDataPath == "" {
		return w.fail(ctx, req, "missing required field: parsed_data_path")
	}

	artifact, err := w.store.Download(ctx, storage.BucketParsed, req.ParsedDataPath)
	if err != nil {
		// The topology artifact is unreachable; this document cannot
		// proceed.
		return w.fail(ctx, req, "downloading topology artifact: "+err.Error())
	}

	var t topology.ParsedTopology
	if err := json.Unmarshal(artifact, &t); err != nil {
		return w.fail(ctx, req, "decoding topology artifact: "+err.Error())
	}

	generatedAt := time.Now().UTC()
	model := generate.Build(&t, generate.Options{
		GeneratedAt:     generatedAt,
		ProjectMetadata: req.ProjectMetadata,
		Branding:        req.OrganizationData,
		Template:        req.TemplateData,
		Supplemental:    req.SupplementalData,
		AIAnalysis:      w.analysis(ctx, logger, &t, req.AIAnalysis),
	})

	generated := make(map[string]string)
	var failed []string
	for _, format := range req.Formats {
		data, err := sink.Render(ctx, model, format)
		if err != nil {
			logger.Error("format generation failed", "format", format, "error", err)
			failed = append(failed, format)
			continue
		}

		objectName := generate.ArtifactName(req.DocumentID, format)
		path, err := w.store.Upload(ctx, storage.BucketGenerated, objectName, data, generate.ContentType(format))
		if err != nil {
			logger.Error("format upload failed", "format", format, "error", err)
			failed = append(failed, format)
			continue
		}

		generated[format] = path
		logger.Info("generated document", "format", format, "path", path)
	}

	completed := make([]string, 0, len(generated))
	for format := range generated {
		completed = append(completed, format)
	}
	sort.Strings(completed)

	err = w.broker.Publish(ctx, broker.KeyGenerateComplete, GenerateComplete{
		DocumentID:       req.DocumentID,
		ProjectID:        req.ProjectID,
		Status:           StatusCompleted,
		GeneratedFiles:   generated,
		GeneratedAt:      generatedAt,
		FormatsCompleted: completed,
		FormatsFailed:    failed,
	})
	if err != nil {
		return err
	}

	logger.Info("generate complete", "completed", completed, "failed", failed)
	return nil
}

// analysis returns the request's AI payload, or asks the configured
// model for one. Analysis failures are logged and skipped; the
// document renders without a narrative.
func (w *GenerateWorker) analysis(ctx context.Context, logger *log.Logger, t *topology.ParsedTopology, provided json.RawMessage) json.RawMessage {
	if len(provided) > 0 {
		return provided
	}
	if w.ai == nil {
		return nil
	}

	result, err := w.ai.AnalyzeTopology(ctx, t)
	if err != nil {
		logger.Warn("analysis unavailable", "error", err)
		return nil
	}
	return result
}

// fail publishes a failed completion and acknowledges the message.
func (w *GenerateWorker) fail(ctx context.Context, req GenerateRequest, msg string) error {
	w.logger.Error("generation failed", "document_id", req.DocumentID, "error", msg)
	return w.broker.Publish(ctx, broker.KeyGenerateComplete, GenerateComplete{
		DocumentID: req.DocumentID,
		ProjectID:  req.ProjectID,
		Status:     StatusFailed,
		Error:      msg,
	})
}
