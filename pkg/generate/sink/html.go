// Package sink renders the enhanced document model into each supported
// output format: HTML, PDF (via an external converter), DOCX and
// Markdown. One call renders one format; failure isolation across
// formats is the caller's job.
package sink

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

//go:embed templates/default.html.tmpl
var defaultHTMLTemplate string

var builtinHTML = htmltemplate.Must(htmltemplate.New("default.html").Parse(defaultHTMLTemplate))

// dateFormat matches the timestamp style used throughout rendered
// documents.
const dateFormat = "2006-01-02 15:04:05"

// htmlData wraps the model with fields only templates need.
type htmlData struct {
	*generate.Model
	GeneratedDate string
	CustomCSS     htmltemplate.CSS
	Letterhead    htmltemplate.HTML
	Footer        htmltemplate.HTML
	TopConnected  []generate.DeviceRef
	AISummary     string
}

// RenderHTML renders the model to HTML. A custom template body on the
// merged template record takes precedence over the built-in document;
// organization branding CSS variables are injected ahead of any
// template-specific styling either way.
func RenderHTML(m *generate.Model) ([]byte, error) {
	if m.Template != nil && m.Template.HTMLTemplate != "" {
		return renderCustomHTML(m)
	}

	data := htmlData{
		Model:         m,
		GeneratedDate: m.GeneratedAt.Format(dateFormat),
		Letterhead:    htmltemplate.HTML(m.Style.LetterheadHTML),
		Footer:        htmltemplate.HTML(m.Style.FooterHTML),
		TopConnected:  topConnected(m, 10),
		AISummary:     aiSummary(m.AIAnalysis),
	}
	if m.Template != nil {
		data.CustomCSS = htmltemplate.CSS(m.Template.CSSStyles)
	}

	var buf bytes.Buffer
	if err := builtinHTML.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render html document")
	}
	return buf.Bytes(), nil
}

// renderCustomHTML renders a user-supplied template body. The title is
// removed from the data map and passed as an explicit top-level
// argument; branding CSS variables are inserted into the output ahead
// of the template's own styling.
func renderCustomHTML(m *generate.Model) ([]byte, error) {
	tmpl, err := htmltemplate.New("custom").Parse(m.Template.HTMLTemplate)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse custom html template")
	}

	data := RenderData(m)
	title, _ := data["title"].(string)
	delete(data, "title")

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]any{
		"Title":         title,
		"GeneratedDate": m.GeneratedAt.Format(dateFormat),
		"Style":         m.Style,
		"Data":          data,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render custom html template")
	}

	return injectBrandingCSS(buf.Bytes(), m), nil
}

// RenderData flattens the model into the key set custom templates are
// written against.
func RenderData(m *generate.Model) map[string]any {
	data := map[string]any{
		"title":                       m.Title,
		"filename":                    m.Topology.Filename,
		"page_count":                  m.Topology.PageCount,
		"metadata":                    m.Topology.Metadata,
		"shapes":                      m.Topology.Shapes,
		"connections":                 m.Topology.Connections,
		"project_name":                m.ProjectName,
		"customer_name":               m.CustomerName,
		"doc_version":                 m.DocVersion,
		"doc_status":                  m.DocStatus,
		"project_id":                  m.ProjectID,
		"device_types":                m.Stats.DeviceTypes,
		"device_type_distribution":    m.Stats.DeviceTypeDistribution,
		"devices_by_type":             m.DevicesByType,
		"most_common_device_type":     m.Stats.MostCommonDeviceType,
		"avg_connections_per_device":  m.Stats.AvgConnectionsPerDevice,
		"network_density":             m.Stats.NetworkDensity,
		"network_type":                m.Stats.NetworkType,
		"topology_pattern":            m.Stats.TopologyPattern,
		"redundancy_level":            m.Stats.RedundancyLevel,
		"network_segments":            m.Stats.NetworkSegments,
		"network_segments_list":       m.Stats.Segments,
		"connection_types":            m.Stats.ConnectionTypes,
		"connections_enhanced":        m.Stats.Connections,
		"most_connected_devices":      m.Stats.MostConnected,
		"isolated_devices":            m.Stats.Isolated,
		"high_density_areas":          m.Stats.HighDensity,
		"top_connected_devices_names": m.Stats.TopConnectedNames,
		"top_connected_devices_counts": m.Stats.TopConnectedCounts,
	}
	if m.Supplemental != nil {
		data["supplemental"] = m.Supplemental
	}
	if ai := aiPayload(m.AIAnalysis); ai != nil {
		data["ai_analysis"] = ai
	}
	return data
}

// injectBrandingCSS inserts the branding variable block after <head>
// when present, otherwise ahead of the whole document.
func injectBrandingCSS(doc []byte, m *generate.Model) []byte {
	block := fmt.Sprintf(
		"<style>:root{--primary-color:%s;--secondary-color:%s;--accent-color:%s;}\n%s</style>",
		m.Style.PrimaryColor, m.Style.SecondaryColor, m.Style.AccentColor, customCSS(m))

	if i := bytes.Index(doc, []byte("<head>")); i >= 0 {
		insertAt := i + len("<head>")
		out := make([]byte, 0, len(doc)+len(block))
		out = append(out, doc[:insertAt]...)
		out = append(out, '\n')
		out = append(out, block...)
		out = append(out, doc[insertAt:]...)
		return out
	}
	return append([]byte(block+"\n"), doc...)
}

func customCSS(m *generate.Model) string {
	if m.Template == nil {
		return ""
	}
	return m.Template.CSSStyles
}

func topConnected(m *generate.Model, n int) []generate.DeviceRef {
	refs := m.Stats.MostConnected
	if len(refs) > n {
		refs = refs[:n]
	}
	return refs
}

// aiPayload decodes the opaque AI analysis for template access. A
// malformed payload is ignored rather than failing the render.
func aiPayload(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload
}

// aiSummary pulls the narrative summary string out of the AI payload
// when one exists.
func aiSummary(raw json.RawMessage) string {
	payload := aiPayload(raw)
	if payload == nil {
		return ""
	}
	if s, ok := payload["summary"].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
