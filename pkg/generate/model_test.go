package generate

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMergeStyleDefaults(t *testing.T) {
	style := MergeStyle(nil, nil)
	if style.PrimaryColor != "#1e3c72" || style.FontFamily != "Arial" {
		t.Errorf("defaults = %+v", style)
	}
	if style.Margins["top"] != "1in" {
		t.Errorf("margins = %v", style.Margins)
	}
}

func TestMergeStylePrecedence(t *testing.T) {
	branding := &Branding{
		PrimaryColor: "#111111",
		AccentColor:  "#222222",
		FontFamily:   "Helvetica",
		LogoURL:      "https://example.com/logo.png",
	}
	template := &Template{
		ColorScheme: map[string]string{"primary": "#333333"},
		FontConfig:  map[string]string{"size": "12px"},
		PageMargins: map[string]string{"top": "0.5in"},
	}

	style := MergeStyle(branding, template)

	// Template beats branding where both are set.
	if style.PrimaryColor != "#333333" {
		t.Errorf("primary = %q, want template value", style.PrimaryColor)
	}
	// Branding survives where the template is silent.
	if style.AccentColor != "#222222" {
		t.Errorf("accent = %q, want branding value", style.AccentColor)
	}
	if style.FontFamily != "Helvetica" {
		t.Errorf("font family = %q", style.FontFamily)
	}
	if style.FontSize != "12px" {
		t.Errorf("font size = %q, want template value", style.FontSize)
	}
	if style.Margins["top"] != "0.5in" || style.Margins["left"] != "1in" {
		t.Errorf("margins = %v", style.Margins)
	}
	if style.LogoURL != "https://example.com/logo.png" {
		t.Errorf("logo = %q", style.LogoURL)
	}
}

func TestBuild(t *testing.T) {
	topo := threeTierTopology()
	ai := json.RawMessage(`{"summary":"A small lab network."}`)

	m := Build(topo, Options{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ProjectMetadata: map[string]string{
			"project_name":  "Campus Refresh",
			"customer_name": "Acme",
		},
		AIAnalysis: ai,
	})

	if m.Title != "Network Documentation - campus.vsdx" {
		t.Errorf("title = %q", m.Title)
	}
	if m.ProjectName != "Campus Refresh" || m.CustomerName != "Acme" {
		t.Errorf("project metadata not merged: %q / %q", m.ProjectName, m.CustomerName)
	}
	if m.DocVersion != "1.0" || m.DocStatus != "Final" {
		t.Errorf("doc defaults = %q / %q", m.DocVersion, m.DocStatus)
	}

	// AI payload is attached, metrics stay computed.
	if string(m.AIAnalysis) != string(ai) {
		t.Errorf("ai payload = %s", m.AIAnalysis)
	}
	if m.Stats.TotalDevices != 3 || m.Stats.TotalConnections != 2 {
		t.Errorf("stats = %d/%d", m.Stats.TotalDevices, m.Stats.TotalConnections)
	}
	if len(m.DevicesByType["switch"]) != 1 {
		t.Errorf("devices by type = %v", m.DevicesByType)
	}
}

func TestBuildTitleKept(t *testing.T) {
	m := Build(threeTierTopology(), Options{Title: "Custom Title"})
	if m.Title != "Custom Title" {
		t.Errorf("title = %q", m.Title)
	}
	if m.GeneratedAt.IsZero() {
		t.Error("generated timestamp not defaulted")
	}
	if m.GeneratedAt.Location() != time.UTC {
		t.Errorf("generated timestamp location = %v, want UTC", m.GeneratedAt.Location())
	}
}
