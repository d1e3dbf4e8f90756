package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/cache"
	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

const testPagesIndex = `<?xml version="1.0"?>
<Pages xmlns="http://schemas.microsoft.com/office/visio/2012/main"
       xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <Page ID="0" Name="Network"><Rel r:id="rId1"/></Page>
</Pages>`

const testPagesRels = `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.microsoft.com/visio/2010/relationships/page" Target="page1.xml"/>
</Relationships>`

const testMasters = `<?xml version="1.0"?>
<Masters xmlns="http://schemas.microsoft.com/office/visio/2012/main">
  <Master ID="2" Name="Router"/>
  <Master ID="4" Name="Switch"/>
  <Master ID="9" Name="Dynamic connector"/>
</Masters>`

const testPage1 = `<?xml version="1.0"?>
<PageContents xmlns="http://schemas.microsoft.com/office/visio/2012/main">
  <Shapes>
    <Shape ID="1" Name="Sheet.1" Master="2"><Text>Core Router</Text></Shape>
    <Shape ID="2" Name="Sheet.2" Master="4"><Text>Access Switch</Text></Shape>
    <Shape ID="5" Name="Sheet.5" Master="9"><Text>uplink</Text></Shape>
  </Shapes>
  <Connects>
    <Connect FromSheet="5" FromCell="BeginX" ToSheet="1"/>
    <Connect FromSheet="5" FromCell="EndX" ToSheet="2"/>
  </Connects>
</PageContents>`

// writeDiagram assembles a minimal two-device diagram and writes it
// to a temp .vsdx file.
func writeDiagram(t *testing.T) string {
	t.Helper()

	parts := map[string]string{
		"visio/pages/pages.xml":            testPagesIndex,
		"visio/pages/_rels/pages.xml.rels": testPagesRels,
		"visio/pages/page1.xml":            testPage1,
		"visio/masters/masters.xml":        testMasters,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create part %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	path := filepath.Join(t.TempDir(), "network.vsdx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write diagram: %v", err)
	}
	return path
}

func testRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestExecute(t *testing.T) {
	runner := testRunner(t, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Input:   writeDiagram(t),
		Formats: []string{generate.FormatHTML, generate.FormatMarkdown},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.DeviceCount != 2 {
		t.Errorf("DeviceCount = %d, want 2", result.Stats.DeviceCount)
	}
	if result.Stats.ConnectionCount != 1 {
		t.Errorf("ConnectionCount = %d, want 1", result.Stats.ConnectionCount)
	}
	if result.TopologyHash == "" {
		t.Error("TopologyHash is empty")
	}

	html := string(result.Artifacts[generate.FormatHTML])
	if !strings.Contains(html, "Core Router") {
		t.Error("HTML output missing device name")
	}
	md := string(result.Artifacts[generate.FormatMarkdown])
	if !strings.Contains(md, "Access Switch") {
		t.Error("markdown output missing device name")
	}

	// Enrichment defaults applied before rendering.
	router := result.Topology.Shapes[0]
	if router.Properties["vendor"] != "Generic" {
		t.Errorf("vendor = %q, want enrichment default", router.Properties["vendor"])
	}
}

func TestExecuteCacheHits(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := testRunner(t, fc)
	defer runner.Close()

	opts := Options{
		Input:   writeDiagram(t),
		Formats: []string{generate.FormatHTML},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ParseHit || first.CacheInfo.RenderHit {
		t.Fatal("first run must not hit the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ParseHit {
		t.Error("second run should hit the topology cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts["html"], second.Artifacts["html"]) {
		t.Error("cached artifact differs from rendered artifact")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := testRunner(t, fc)
	defer runner.Close()

	opts := Options{Input: writeDiagram(t)}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	opts.Refresh = true
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.ParseHit {
		t.Error("refresh run must reparse")
	}
}

func TestExecuteMissingInput(t *testing.T) {
	runner := testRunner(t, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidMessage) {
		t.Fatalf("expected INVALID_MESSAGE, got %v", err)
	}
}

func TestExecuteMissingFile(t *testing.T) {
	runner := testRunner(t, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{Input: "/nonexistent/net.vsdx"})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	runner := testRunner(t, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Input:   writeDiagram(t),
		Formats: []string{"xlsx"},
	})
	if !errors.Is(err, errors.ErrCodeUnsupportedOutput) {
		t.Fatalf("expected UNSUPPORTED_OUTPUT_FORMAT, got %v", err)
	}
}

func TestSkipEnrich(t *testing.T) {
	runner := testRunner(t, nil)
	defer runner.Close()

	parsed, err := runner.Parse(context.Background(), Options{
		Input:      writeDiagram(t),
		SkipEnrich: true,
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.Shapes[0].Properties["vendor"] != "" {
		t.Error("SkipEnrich must leave properties unfilled")
	}
}
