// Package ai provides an optional analysis client for a local LLM
// endpoint. The generate worker calls it when a request carries no
// analysis payload and an endpoint is configured; the result travels
// through the rest of the pipeline as opaque JSON.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/cache"
	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

const (
	// DefaultBaseURL is the standard local Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "phi3"

	defaultTimeout = 120 * time.Second
)

// Client talks to an Ollama-compatible generate API.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates an analysis client. Empty baseURL or model fall
// back to the local defaults.
func NewClient(baseURL, model string, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Analysis is the structured result handed to the document model. It
// is serialized to JSON before leaving this package so downstream
// consumers treat it as opaque.
type Analysis struct {
	Summary                    string `json:"summary,omitempty"`
	ArchitectureAssessment     string `json:"architecture_assessment,omitempty"`
	SecurityConsiderations     string `json:"security_considerations,omitempty"`
	PerformanceRecommendations string `json:"performance_recommendations,omitempty"`
	SinglePointsOfFailure      string `json:"single_points_of_failure,omitempty"`
	ScalabilityAssessment      string `json:"scalability_assessment,omitempty"`
}

// AnalyzeTopology asks the model for an assessment of the parsed
// network and returns the structured result as JSON.
func (c *Client) AnalyzeTopology(ctx context.Context, t *topology.ParsedTopology) (json.RawMessage, error) {
	prompt := fmt.Sprintf(`Analyze this network topology and provide insights:

Network Overview:
- Total Devices: %d
- Total Connections: %d

Device Distribution:
%s

Connection Summary:
%s

Please provide:
1. Network Architecture Assessment
2. Security Considerations
3. Performance Optimization Recommendations
4. Potential Single Points of Failure
5. Scalability Assessment
`, len(t.Shapes), len(t.Connections), summarizeDevices(t.Shapes), summarizeConnections(t.Connections))

	system := "You are a network architecture expert. Analyze network topologies and provide professional insights about security, performance, reliability, and scalability. Be specific and actionable in your recommendations."

	response, err := c.generate(ctx, prompt, system)
	if err != nil {
		return nil, err
	}

	analysis := parseAnalysis(response)
	analysis.Summary, err = c.ExecutiveSummary(ctx, t)
	if err != nil {
		// The sectioned analysis is still useful without a summary.
		c.logger.Warn("executive summary failed", "error", err)
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding analysis")
	}
	return data, nil
}

// ExecutiveSummary asks the model for a short summary suitable for
// the document's opening section.
func (c *Client) ExecutiveSummary(ctx context.Context, t *topology.ParsedTopology) (string, error) {
	title := t.Metadata.Title
	if title == "" {
		title = "Corporate Network"
	}
	prompt := fmt.Sprintf(`Generate a concise executive summary for this network documentation:

Network: %s
Total Devices: %d
Total Connections: %d
Key Components: %s

The summary should be 3-4 sentences suitable for executives, highlighting the network's purpose, scale, and key characteristics.`,
		title, len(t.Shapes), len(t.Connections), keyComponents(t.Shapes))

	return c.generate(ctx, prompt, "")
}

// generate calls the completion endpoint, retrying transient
// failures.
func (c *Client) generate(ctx context.Context, prompt, system string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding request")
	}

	var result string
	err = cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &cache.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return &cache.RetryableError{Err: fmt.Errorf("model endpoint returned %d", resp.StatusCode)}
		}
		if resp.StatusCode != http.StatusOK {
			text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, text)
		}

		var decoded generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		result = decoded.Response
		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAIUnavailable, err, "calling model %s", c.model)
	}
	return result, nil
}

func summarizeDevices(shapes []topology.Shape) string {
	counts := make(map[string]int)
	for _, s := range shapes {
		counts[string(s.Type)]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	for _, t := range types {
		fmt.Fprintf(&b, "- %s: %d\n", capitalize(t), counts[t])
	}
	return strings.TrimRight(b.String(), "\n")
}

func summarizeConnections(connections []topology.Connection) string {
	if len(connections) == 0 {
		return "No connections defined"
	}

	counts := make(map[string]int)
	for _, c := range connections {
		counts[string(c.Type)]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d connections\n", len(connections))
	for _, t := range types {
		fmt.Fprintf(&b, "- %s: %d\n", capitalize(t), counts[t])
	}
	return strings.TrimRight(b.String(), "\n")
}

// keyComponents lists up to five core infrastructure devices.
func keyComponents(shapes []topology.Shape) string {
	keyTypes := map[topology.DeviceType]bool{
		topology.DeviceRouter:   true,
		topology.DeviceFirewall: true,
		topology.DeviceSwitch:   true,
		topology.DeviceServer:   true,
	}

	var components []string
	for _, s := range shapes {
		if !keyTypes[s.Type] {
			continue
		}
		name := s.Name
		if name == "" {
			name = "unnamed"
		}
		components = append(components, fmt.Sprintf("%s (%s)", s.Type, name))
		if len(components) == 5 {
			break
		}
	}
	return strings.Join(components, ", ")
}

// parseAnalysis splits the model's free-text response into the
// numbered sections the prompt asked for. Lines before the first
// recognized heading are dropped.
func parseAnalysis(response string) Analysis {
	var a Analysis

	target := func(line string) *string {
		switch {
		case strings.Contains(line, "Architecture Assessment"):
			return &a.ArchitectureAssessment
		case strings.Contains(line, "Security Considerations"):
			return &a.SecurityConsiderations
		case strings.Contains(line, "Performance") && strings.Contains(line, "Recommendations"):
			return &a.PerformanceRecommendations
		case strings.Contains(line, "Single Points of Failure"):
			return &a.SinglePointsOfFailure
		case strings.Contains(line, "Scalability Assessment"):
			return &a.ScalabilityAssessment
		}
		return nil
	}

	var current *string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if next := target(line); next != nil {
			current = next
			continue
		}
		if current != nil && line != "" {
			*current += line + "\n"
		}
	}
	return a
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
