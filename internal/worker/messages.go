package worker

import (
	"encoding/json"
	"time"

	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

// Document status values reported in completion messages.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ParseRequest asks the parse worker to process an uploaded diagram.
type ParseRequest struct {
	DocumentID string `json:"document_id"`
	FilePath   string `json:"file_path"`
	ProjectID  string `json:"project_id"`
}

// ParseComplete reports the outcome of one parse request.
type ParseComplete struct {
	DocumentID string `json:"document_id"`
	ProjectID  string `json:"project_id,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`

	ParsedPath      string `json:"parsed_path,omitempty"`
	ShapeCount      int    `json:"shape_count,omitempty"`
	ConnectionCount int    `json:"connection_count,omitempty"`
	PageCount       int    `json:"page_count,omitempty"`
}

// GenerateRequest asks the generate worker to render documents from a
// parsed topology artifact.
type GenerateRequest struct {
	DocumentID     string   `json:"document_id"`
	ParsedDataPath string   `json:"parsed_data_path"`
	Formats        []string `json:"formats,omitempty"`
	ProjectID      string   `json:"project_id"`

	ProjectMetadata  map[string]string      `json:"project_metadata,omitempty"`
	TemplateData     *generate.Template     `json:"template_data,omitempty"`
	OrganizationData *generate.Branding     `json:"organization_data,omitempty"`
	SupplementalData *generate.Supplemental `json:"supplemental_data,omitempty"`
	AIAnalysis       json.RawMessage        `json:"ai_analysis,omitempty"`
}

// GenerateComplete reports the outcome of one generate request.
// Status is "completed" even with per-format failures; those are
// visible in FormatsFailed.
type GenerateComplete struct {
	DocumentID string `json:"document_id"`
	ProjectID  string `json:"project_id,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`

	GeneratedFiles   map[string]string `json:"generated_files,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
	FormatsCompleted []string          `json:"formats_completed,omitempty"`
	FormatsFailed    []string          `json:"formats_failed,omitempty"`
}
