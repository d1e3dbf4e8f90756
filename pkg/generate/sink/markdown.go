package sink

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/nao1215/markdown"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

// RenderMarkdown renders the model to Markdown. A custom template body
// takes precedence over the built-in document, mirroring the HTML
// renderer; the built-in document is deterministic for a fixed
// generation timestamp.
func RenderMarkdown(m *generate.Model) ([]byte, error) {
	if m.Template != nil && m.Template.MarkdownTemplate != "" {
		return renderCustomMarkdown(m)
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	writeMarkdownHeader(md, m)
	writeMarkdownStats(md, m)
	writeMarkdownInventory(md, m)
	writeMarkdownConnections(md, m)
	writeMarkdownAnalysis(md, m)
	writeMarkdownSupplemental(md, m)

	md.HorizontalRule()
	md.PlainTextf("*Generated by NetDocGen on %s*", m.GeneratedAt.Format(dateFormat))

	if err := md.Build(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render markdown document")
	}
	return buf.Bytes(), nil
}

func renderCustomMarkdown(m *generate.Model) ([]byte, error) {
	tmpl, err := texttemplate.New("custom").Parse(m.Template.MarkdownTemplate)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse custom markdown template")
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
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render custom markdown template")
	}
	return buf.Bytes(), nil
}

func writeMarkdownHeader(md *markdown.Markdown, m *generate.Model) {
	md.H1(m.Title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", m.GeneratedAt.Format(dateFormat)},
			{"Source", orDash(m.Topology.Filename)},
			{"Pages", strconv.Itoa(m.Topology.PageCount)},
			{"Project", m.ProjectName},
			{"Version", m.DocVersion + " (" + m.DocStatus + ")"},
		},
	})
	md.PlainText("")

	if notice := m.Topology.Metadata.Notice; notice != "" {
		md.Note(notice)
		md.PlainText("")
	}

	md.H2("Executive Summary")
	md.PlainText("")
	md.PlainTextf(
		"This network documentation provides a comprehensive overview of the network infrastructure. The network consists of %d devices connected through %d connections.",
		m.Stats.TotalDevices, m.Stats.TotalConnections)
	md.PlainText("")
	if summary := aiSummary(m.AIAnalysis); summary != "" {
		md.PlainText(summary)
		md.PlainText("")
	}
}

func writeMarkdownStats(md *markdown.Markdown, m *generate.Model) {
	md.H2("Key Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Devices", strconv.Itoa(m.Stats.TotalDevices)},
			{"Total Connections", strconv.Itoa(m.Stats.TotalConnections)},
			{"Device Types", strconv.Itoa(len(m.Stats.DeviceTypes))},
			{"Most Common Device Type", m.Stats.MostCommonDeviceType},
			{"Average Connections per Device", fmt.Sprintf("%.2f", m.Stats.AvgConnectionsPerDevice)},
			{"Network Density", fmt.Sprintf("%.3f", m.Stats.NetworkDensity)},
			{"Isolated Devices", strconv.Itoa(len(m.Stats.Isolated))},
		},
	})
	md.PlainText("")
}

func writeMarkdownInventory(md *markdown.Markdown, m *generate.Model) {
	md.H2("Device Inventory")
	md.PlainText("")

	for _, deviceType := range m.Stats.DeviceTypes {
		devices := m.DevicesByType[deviceType]
		md.H3(fmt.Sprintf("%s (%d devices)", deviceType, len(devices)))
		md.PlainText("")

		rows := make([][]string, len(devices))
		for i, dev := range devices {
			rows[i] = []string{
				dev.Name,
				dev.ID,
				strconv.Itoa(dev.ConnectionsCount),
				formatProperties(dev.Properties),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Name", "ID", "Connections", "Properties"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func writeMarkdownConnections(md *markdown.Markdown, m *generate.Model) {
	md.H2("Network Connections")
	md.PlainText("")

	md.H3("Connection Types")
	md.PlainText("")
	var typeLines []string
	for _, connType := range sortedKeys(m.Stats.ConnectionTypes) {
		typeLines = append(typeLines, fmt.Sprintf("%s: %d connections", connType, m.Stats.ConnectionTypes[connType]))
	}
	if len(typeLines) == 0 {
		md.PlainText("No connections found.")
	} else {
		md.BulletList(typeLines...)
	}
	md.PlainText("")

	if len(m.Stats.Connections) > 0 {
		md.H3("Connection Details")
		md.PlainText("")
		rows := make([][]string, len(m.Stats.Connections))
		for i, conn := range m.Stats.Connections {
			rows[i] = []string{
				conn.SourceName,
				conn.TargetName,
				string(conn.Type),
				formatProperties(conn.Properties),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Source Device", "Target Device", "Type", "Properties"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func writeMarkdownAnalysis(md *markdown.Markdown, m *generate.Model) {
	md.H2("Network Analysis")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Characteristic", "Value"},
		Rows: [][]string{
			{"Network Type", m.Stats.NetworkType},
			{"Topology Pattern", m.Stats.TopologyPattern},
			{"Redundancy Level", m.Stats.RedundancyLevel},
			{"Estimated Segments", strconv.Itoa(m.Stats.NetworkSegments)},
		},
	})
	md.PlainText("")

	if refs := topConnected(m, 10); len(refs) > 0 {
		md.H3("Highly Connected Devices")
		md.PlainText("")
		var lines []string
		for _, ref := range refs {
			lines = append(lines, fmt.Sprintf("%s (%s) - %d connections", ref.Name, ref.Type, ref.Connections))
		}
		md.BulletList(lines...)
		md.PlainText("")
	}

	if len(m.Stats.Isolated) > 0 {
		md.H3("Isolated Devices")
		md.PlainText("")
		var lines []string
		for _, ref := range m.Stats.Isolated {
			lines = append(lines, fmt.Sprintf("%s (%s)", ref.Name, ref.Type))
		}
		md.BulletList(lines...)
		md.PlainText("")
	}
}

func writeMarkdownSupplemental(md *markdown.Markdown, m *generate.Model) {
	sup := m.Supplemental
	if sup == nil {
		return
	}

	md.H2("Supplemental Information")
	md.PlainText("")

	var rows [][]string
	if sup.NetworkDesign != "" {
		rows = append(rows, []string{"Network Design", sup.NetworkDesign})
	}
	if sup.NetworkDesignDeferred {
		rows = append(rows, []string{"Network Design", "To be confirmed (left to analysis)"})
	}
	if sup.PortChannels != "" {
		rows = append(rows, []string{"Port Channels", sup.PortChannels})
	}
	if sup.SiteDetails != "" {
		rows = append(rows, []string{"Site Details", sup.SiteDetails})
	}
	if len(rows) > 0 {
		md.Table(markdown.TableSet{Header: []string{"Item", "Value"}, Rows: rows})
		md.PlainText("")
	}

	if len(sup.VLANs) > 0 {
		md.H3("VLANs")
		md.PlainText("")
		vlanRows := make([][]string, len(sup.VLANs))
		for i, vlan := range sup.VLANs {
			vlanRows[i] = []string{strconv.Itoa(vlan.ID), orDash(vlan.Name), orDash(vlan.Description)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"ID", "Name", "Description"},
			Rows:   vlanRows,
		})
		md.PlainText("")
	}

	if sup.DeferredCount > 0 {
		md.PlainTextf("%d answer(s) deferred to automated analysis; %d provided by the user.",
			sup.DeferredCount, sup.ProvidedCount)
		md.PlainText("")
	}
}

// formatProperties flattens a property map to "k: v" pairs in sorted
// key order.
func formatProperties(props map[string]string) string {
	if len(props) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(props))
	for _, k := range sortedKeys(props) {
		parts = append(parts, k+": "+props[k])
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
