// Package generate builds the enhanced document model from a parsed
// topology and renders it per output format.
//
// The model is constructed fresh for every generation request: derived
// network statistics, merged organization branding, merged template
// configuration, resolved supplemental answers and the attached AI
// payload. It is discarded after rendering; only output artifacts
// persist.
package generate

import (
	"encoding/json"
	"time"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// Branding is organization-level document customization as received in
// generate request messages.
type Branding struct {
	DisplayName string `json:"display_name"`
	LogoURL     string `json:"logo_url"`

	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`

	FontFamily string `json:"default_font_family"`
	FontSize   string `json:"default_font_size"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`

	LetterheadHTML  string `json:"letterhead_html"`
	FooterHTML      string `json:"footer_html"`
	NumberingFormat string `json:"document_numbering_format"`
}

// Template is a document template record as received in generate
// request messages. Template color and font settings take precedence
// over organization branding when both are present.
type Template struct {
	Name             string   `json:"name"`
	HTMLTemplate     string   `json:"html_template"`
	MarkdownTemplate string   `json:"markdown_template"`
	CSSStyles        string   `json:"css_styles"`
	SupportedFormats []string `json:"supported_formats"`

	PageMargins map[string]string `json:"page_margins"`
	FontConfig  map[string]string `json:"font_config"`
	ColorScheme map[string]string `json:"color_scheme"`
}

// Style is the merged presentation configuration: built-in defaults,
// overridden by organization branding, overridden by template settings.
type Style struct {
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	FontFamily     string
	FontSize       string

	LogoURL        string
	LetterheadHTML string
	FooterHTML     string

	Margins map[string]string
}

func defaultStyle() Style {
	return Style{
		PrimaryColor:   "#1e3c72",
		SecondaryColor: "#2a5298",
		AccentColor:    "#4CAF50",
		FontFamily:     "Arial",
		FontSize:       "14px",
		Margins: map[string]string{
			"top": "1in", "right": "1in", "bottom": "1in", "left": "1in",
		},
	}
}

// MergeStyle layers branding and template configuration onto the
// built-in defaults.
func MergeStyle(branding *Branding, template *Template) Style {
	style := defaultStyle()

	if branding != nil {
		setIf(&style.PrimaryColor, branding.PrimaryColor)
		setIf(&style.SecondaryColor, branding.SecondaryColor)
		setIf(&style.AccentColor, branding.AccentColor)
		setIf(&style.FontFamily, branding.FontFamily)
		setIf(&style.FontSize, branding.FontSize)
		style.LogoURL = branding.LogoURL
		style.LetterheadHTML = branding.LetterheadHTML
		style.FooterHTML = branding.FooterHTML
	}

	if template != nil {
		setIf(&style.PrimaryColor, template.ColorScheme["primary"])
		setIf(&style.SecondaryColor, template.ColorScheme["secondary"])
		setIf(&style.AccentColor, template.ColorScheme["accent"])
		setIf(&style.FontFamily, template.FontConfig["family"])
		setIf(&style.FontSize, template.FontConfig["size"])
		for k, v := range template.PageMargins {
			style.Margins[k] = v
		}
	}

	return style
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Model is the complete enhanced document model handed to renderers.
type Model struct {
	Topology *topology.ParsedTopology

	Title       string
	GeneratedAt time.Time

	// Project metadata merged from the generate request.
	ProjectName  string
	CustomerName string
	DocVersion   string
	DocStatus    string
	ProjectID    string

	Stats         Stats
	DevicesByType map[string][]topology.Shape

	Style    Style
	Template *Template

	Supplemental *SupplementalSummary

	// AIAnalysis is the opaque narrative payload. It is attached as-is
	// and never overwrites computed metrics.
	AIAnalysis json.RawMessage
}

// Options carries customization inputs for one generation request.
type Options struct {
	Title       string
	GeneratedAt time.Time // zero means time.Now()

	ProjectMetadata map[string]string

	Branding     *Branding
	Template     *Template
	Supplemental *Supplemental
	AIAnalysis   json.RawMessage
}

// Build constructs the enhanced model: statistics, merged style,
// resolved supplemental answers, AI payload. The topology's per-shape
// connection counts are filled as a side effect of stats computation.
func Build(t *topology.ParsedTopology, opts Options) *Model {
	m := &Model{
		Topology:     t,
		Title:        opts.Title,
		GeneratedAt:  opts.GeneratedAt,
		ProjectName:  "Network Infrastructure Implementation",
		DocVersion:   "1.0",
		DocStatus:    "Final",
		Style:        MergeStyle(opts.Branding, opts.Template),
		Template:     opts.Template,
		Supplemental: opts.Supplemental.Summarize(),
		AIAnalysis:   opts.AIAnalysis,
	}

	if m.Title == "" {
		m.Title = DefaultTitle(t)
	}
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}

	if meta := opts.ProjectMetadata; meta != nil {
		setIf(&m.ProjectName, meta["project_name"])
		setIf(&m.CustomerName, meta["customer_name"])
		setIf(&m.DocVersion, meta["doc_version"])
		setIf(&m.DocStatus, meta["doc_status"])
		setIf(&m.ProjectID, meta["project_id"])
	}
	if m.ProjectID == "" {
		m.ProjectID = t.ProjectID
	}

	m.Stats = ComputeStats(t)
	m.DevicesByType = DevicesByType(t)

	return m
}

// DefaultTitle derives a document title from the source filename.
func DefaultTitle(t *topology.ParsedTopology) string {
	name := t.Filename
	if name == "" {
		name = "Unknown"
	}
	return "Network Documentation - " + name
}
