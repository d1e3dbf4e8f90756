package sink

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

func testModel(t *testing.T, opts generate.Options) *generate.Model {
	t.Helper()
	topo := &topology.ParsedTopology{
		Filename: "campus.vsdx",
		Shapes: []topology.Shape{
			{ID: "1", Name: "Core Router", Type: topology.DeviceRouter, Properties: map[string]string{"vendor": "Cisco"}},
			{ID: "2", Name: "Access Switch", Type: topology.DeviceSwitch},
			{ID: "3", Name: "App Server", Type: topology.DeviceServer},
		},
		Connections: []topology.Connection{
			{ID: "c1", SourceID: "1", TargetID: "2", Type: topology.ConnEthernet, Properties: map[string]string{"bandwidth": "1 Gbps"}},
			{ID: "c2", SourceID: "2", TargetID: "3", Type: topology.ConnFiber},
		},
		PageCount: 1,
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return generate.Build(topo, opts)
}

func TestRenderHTMLDefault(t *testing.T) {
	m := testModel(t, generate.Options{
		Branding:   &generate.Branding{PrimaryColor: "#abc123"},
		AIAnalysis: json.RawMessage(`{"summary":"Two-tier lab network."}`),
	})

	out, err := RenderHTML(m)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<title>Network Documentation - campus.vsdx</title>",
		"--primary-color: #abc123",
		"Executive Summary",
		"Two-tier lab network.",
		"Access Switch",
		"2025-06-01 12:00:00",
		"vendor: Cisco",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html output missing %q", want)
		}
	}
}

func TestRenderHTMLCustomTemplate(t *testing.T) {
	m := testModel(t, generate.Options{
		Branding: &generate.Branding{PrimaryColor: "#abc123"},
		Template: &generate.Template{
			HTMLTemplate: `<html><head></head><body><h1>{{.Title}}</h1><p>{{index .Data "network_type"}}</p></body></html>`,
			CSSStyles:    "h1 { text-transform: uppercase; }",
		},
	})

	out, err := RenderHTML(m)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "<h1>Network Documentation - campus.vsdx</h1>") {
		t.Error("custom template did not receive the explicit title argument")
	}
	// Branding variables are injected ahead of the template's own CSS.
	varIdx := strings.Index(html, "--primary-color:#abc123")
	cssIdx := strings.Index(html, "text-transform: uppercase")
	if varIdx < 0 || cssIdx < 0 || varIdx > cssIdx {
		t.Errorf("branding css not injected before template styling (var at %d, css at %d)", varIdx, cssIdx)
	}
	if !strings.Contains(html, "<p>bus</p>") {
		t.Error("custom template did not see render data")
	}
}

func TestRenderHTMLCustomTemplateError(t *testing.T) {
	m := testModel(t, generate.Options{
		Template: &generate.Template{HTMLTemplate: "{{.Broken"},
	})
	if _, err := RenderHTML(m); err == nil {
		t.Fatal("expected parse error for malformed template")
	}
}

func TestRenderDataTitlePopped(t *testing.T) {
	m := testModel(t, generate.Options{Title: "Popped"})
	data := RenderData(m)
	if data["title"] != "Popped" {
		t.Errorf("render data title = %v", data["title"])
	}
	for _, key := range []string{"network_type", "shapes", "connections_enhanced", "avg_connections_per_device"} {
		if _, ok := data[key]; !ok {
			t.Errorf("render data missing %q", key)
		}
	}
}
