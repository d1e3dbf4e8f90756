// Package worker implements the message-driven parse and generate
// services. Each worker is a single consumer loop; throughput scales
// by running more instances.
package worker

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/internal/broker"
	"github.com/Jgiet001-AI/NetDocGen/internal/storage"
	"github.com/Jgiet001-AI/NetDocGen/pkg/enrich"
	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/observability"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
	"github.com/Jgiet001-AI/NetDocGen/pkg/vsdx"
)

// ParseQueue is the parse worker's queue name.
const ParseQueue = "visio_parser_queue"

// ParseWorker consumes parse requests, runs the diagram parser and
// enricher, and persists the topology artifact.
type ParseWorker struct {
	broker  broker.Broker
	store   storage.Store
	logger  *log.Logger
	timeout time.Duration
}

// NewParseWorker wires a parse worker.
func NewParseWorker(b broker.Broker, s storage.Store, logger *log.Logger, timeout time.Duration) *ParseWorker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ParseWorker{
		broker:  b,
		store:   s,
		logger:  logger.With("component", "parse-worker"),
		timeout: timeout,
	}
}

// Run consumes parse requests until ctx is canceled.
func (w *ParseWorker) Run(ctx context.Context) error {
	if err := w.store.EnsureBuckets(ctx); err != nil {
		return err
	}
	return w.broker.Consume(ctx, ParseQueue, broker.KeyParseVisio, w.Handle)
}

// Handle processes one parse request. Document-level failures publish
// a failed completion and acknowledge the message; infrastructure
// failures return an error so the message is redelivered.
func (w *ParseWorker) Handle(ctx context.Context, body []byte) error {
	var req ParseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// Without a document ID there is nowhere to route a failure.
		w.logger.Error("discarding malformed parse request", "error", err)
		return nil
	}

	if req.DocumentID == "" {
		w.logger.Error("discarding parse request without document_id")
		return nil
	}

	observability.Worker().OnMessageStart(ctx, ParseQueue, req.DocumentID)
	start := time.Now()
	err := w.process(ctx, req)
	observability.Worker().OnMessageComplete(ctx, ParseQueue, req.DocumentID, time.Since(start), err)
	return err
}

func (w *ParseWorker) process(ctx context.Context, req ParseRequest) error {
	if req.FilePath == "" {
		return w.fail(ctx, req, "missing required field: file_path")
	}
	if req.ProjectID == "" {
		return w.fail(ctx, req, "missing required field: project_id")
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	logger := w.logger.With("document_id", req.DocumentID)
	logger.Info("processing parse request", "file_path", req.FilePath)

	objectName := storage.ObjectName(req.FilePath)
	data, err := w.store.Download(ctx, storage.BucketUploads, objectName)
	if err != nil {
		// Storage trouble is not the document's fault; requeue.
		return err
	}

	parsed, err := w.parseBytes(logger, objectName, data)
	if err != nil {
		if errors.IsDocumentFatal(err) {
			return w.fail(ctx, req, errors.UserMessage(err))
		}
		return err
	}

	enrich.Apply(parsed)
	parsed.DocumentID = req.DocumentID
	parsed.ProjectID = req.ProjectID
	parsed.ParsedAt = time.Now().UTC()

	artifact, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding topology")
	}

	parsedPath := req.DocumentID + "/parsed_data.json"
	if _, err := w.store.Upload(ctx, storage.BucketParsed, parsedPath, artifact, "application/json"); err != nil {
		return err
	}
	logger.Info("persisted topology artifact", "parsed_path", parsedPath)

	err = w.broker.Publish(ctx, broker.KeyParseComplete, ParseComplete{
		DocumentID:      req.DocumentID,
		ProjectID:       req.ProjectID,
		Status:          StatusCompleted,
		ParsedPath:      parsedPath,
		ShapeCount:      len(parsed.Shapes),
		ConnectionCount: len(parsed.Connections),
		PageCount:       parsed.PageCount,
	})
	if err != nil {
		return err
	}

	logger.Info("parse complete",
		"shapes", len(parsed.Shapes),
		"connections", len(parsed.Connections),
		"pages", parsed.PageCount)
	return nil
}

// parseBytes writes the diagram to a temp file and runs the parser.
// The parser works on paths because format detection uses the file
// extension.
func (w *ParseWorker) parseBytes(logger *log.Logger, objectName string, data []byte) (*topology.ParsedTopology, error) {
	ext := filepath.Ext(objectName)
	if ext == "" {
		ext = ".vsdx"
	}

	tmp, err := os.CreateTemp("", "netdocgen-*"+ext)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "closing temp file")
	}

	return vsdx.NewParser(logger).ParseFile(tmpPath)
}

// fail publishes a failed completion and acknowledges the message.
func (w *ParseWorker) fail(ctx context.Context, req ParseRequest, msg string) error {
	w.logger.Error("parse failed", "document_id", req.DocumentID, "error", msg)
	return w.broker.Publish(ctx, broker.KeyParseComplete, ParseComplete{
		DocumentID: req.DocumentID,
		ProjectID:  req.ProjectID,
		Status:     StatusFailed,
		Error:      msg,
	})
}
