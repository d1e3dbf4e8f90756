package sink

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
)

// connectionTableCap bounds the connection detail table in the Word
// document; full detail stays in the HTML and Markdown outputs.
const connectionTableCap = 50

var docxRecommendations = []string{
	"Regular network documentation updates are recommended to maintain accuracy.",
	"Consider implementing redundancy for highly connected devices to avoid single points of failure.",
	"Review isolated devices to determine if they should be connected or removed.",
	"Monitor network growth and plan for scalability as needed.",
}

// RenderDOCX builds the Word document programmatically: title page,
// executive summary, key statistics table, per-type device sections,
// connection summary and capped detail table, connectivity analysis
// and a fixed recommendations list. The output is a WordprocessingML
// OPC container, the same packaging the parser reads on the way in.
func RenderDOCX(m *generate.Model) ([]byte, error) {
	b := newDocxBuilder()

	// Title page.
	b.para("DocTitle", m.Title)
	b.para("", "")
	b.para("Subtle", "Generated: "+m.GeneratedAt.Format(dateFormat))
	b.para("Subtle", "Source: "+orDefault(m.Topology.Filename, "Visio Diagram"))
	b.pageBreak()

	// Executive summary.
	b.para("Heading1", "Executive Summary")
	b.para("", fmt.Sprintf(
		"This network documentation provides a comprehensive overview of the network infrastructure. The network consists of %d devices connected through %d connections.",
		m.Stats.TotalDevices, m.Stats.TotalConnections))
	if summary := aiSummary(m.AIAnalysis); summary != "" {
		b.para("", summary)
	}
	if notice := m.Topology.Metadata.Notice; notice != "" {
		b.para("", notice)
	}

	b.para("Heading2", "Key Statistics")
	b.table([]string{"Metric", "Value"}, [][]string{
		{"Total Devices", strconv.Itoa(m.Stats.TotalDevices)},
		{"Total Connections", strconv.Itoa(m.Stats.TotalConnections)},
		{"Device Types", strconv.Itoa(len(m.Stats.DeviceTypes))},
		{"Most Common Device Type", m.Stats.MostCommonDeviceType},
		{"Average Connections per Device", fmt.Sprintf("%.2f", m.Stats.AvgConnectionsPerDevice)},
		{"Network Density", fmt.Sprintf("%.3f", m.Stats.NetworkDensity)},
		{"Isolated Devices", strconv.Itoa(len(m.Stats.Isolated))},
	})
	b.pageBreak()

	// Device inventory, one section per type.
	b.para("Heading1", "Device Inventory")
	for _, deviceType := range m.Stats.DeviceTypes {
		devices := m.DevicesByType[deviceType]
		b.para("Heading2", fmt.Sprintf("%s (%d devices)", deviceType, len(devices)))
		for _, dev := range devices {
			b.para("Heading3", dev.Name)
			b.bullet("ID: " + dev.ID)
			b.bullet("Type: " + string(dev.Type))
			if dev.ConnectionsCount > 0 {
				b.bullet("Connections: " + strconv.Itoa(dev.ConnectionsCount))
			}
			if len(dev.Properties) > 0 {
				b.bullet("Properties:")
				for _, k := range sortedKeys(dev.Properties) {
					b.bullet("    " + k + ": " + dev.Properties[k])
				}
			}
		}
	}
	b.pageBreak()

	// Connections.
	b.para("Heading1", "Network Connections")
	b.para("Heading2", "Connection Types Summary")
	for _, connType := range sortedKeys(m.Stats.ConnectionTypes) {
		b.bullet(fmt.Sprintf("%s: %d connections", connType, m.Stats.ConnectionTypes[connType]))
	}

	if len(m.Stats.Connections) > 0 {
		b.para("Heading2", "Connection Details")
		rows := make([][]string, 0, connectionTableCap)
		for i, conn := range m.Stats.Connections {
			if i == connectionTableCap {
				break
			}
			rows = append(rows, []string{
				conn.SourceName,
				conn.TargetName,
				string(conn.Type),
				formatProperties(conn.Properties),
			})
		}
		b.table([]string{"Source Device", "Target Device", "Connection Type", "Properties"}, rows)
		if len(m.Stats.Connections) > connectionTableCap {
			b.para("", fmt.Sprintf("Showing the first %d of %d connections.",
				connectionTableCap, len(m.Stats.Connections)))
		}
	}
	b.pageBreak()

	// Analysis.
	b.para("Heading1", "Network Analysis")
	b.para("Heading2", "Highly Connected Devices")
	for _, ref := range topConnected(m, 10) {
		b.bullet(fmt.Sprintf("%s (%s) - %d connections", ref.Name, ref.Type, ref.Connections))
	}
	if len(m.Stats.Isolated) > 0 {
		b.para("Heading2", "Isolated Devices")
		for _, ref := range m.Stats.Isolated {
			b.bullet(fmt.Sprintf("%s (%s)", ref.Name, ref.Type))
		}
	}

	// Recommendations.
	b.para("Heading1", "Recommendations")
	b.para("", "Based on the network analysis, here are some observations and recommendations:")
	for i, rec := range docxRecommendations {
		b.para("", fmt.Sprintf("%d. %s", i+1, rec))
	}

	return packDocx(b.document(), m.Style)
}

// docxBuilder accumulates WordprocessingML body markup.
type docxBuilder struct {
	body bytes.Buffer
}

func newDocxBuilder() *docxBuilder {
	return &docxBuilder{}
}

func (b *docxBuilder) para(style, text string) {
	b.body.WriteString("<w:p>")
	if style != "" {
		fmt.Fprintf(&b.body, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	if text != "" {
		fmt.Fprintf(&b.body, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, escapeXML(text))
	}
	b.body.WriteString("</w:p>")
}

func (b *docxBuilder) bullet(text string) {
	b.para("ListParagraph", "• "+text)
}

func (b *docxBuilder) pageBreak() {
	b.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func (b *docxBuilder) table(headers []string, rows [][]string) {
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/>` +
		`<w:tblW w:w="0" w:type="auto"/></w:tblPr>`)

	writeRow := func(cells []string, header bool) {
		b.body.WriteString("<w:tr>")
		for _, cell := range cells {
			b.body.WriteString("<w:tc><w:tcPr/><w:p><w:r>")
			if header {
				b.body.WriteString("<w:rPr><w:b/></w:rPr>")
			}
			fmt.Fprintf(&b.body, `<w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`, escapeXML(cell))
		}
		b.body.WriteString("</w:tr>")
	}

	writeRow(headers, true)
	for _, row := range rows {
		writeRow(row, false)
	}
	b.body.WriteString("</w:tbl>")
}

func (b *docxBuilder) document() []byte {
	var doc bytes.Buffer
	doc.WriteString(xml.Header)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	doc.Write(b.body.Bytes())
	doc.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:body></w:document>`)
	return doc.Bytes()
}

// packDocx assembles the OPC container around the document part.
func packDocx(document []byte, style generate.Style) ([]byte, error) {
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxPackageRels)},
		{"word/_rels/document.xml.rels", []byte(docxDocumentRels)},
		{"word/styles.xml", docxStyles(style)},
		{"word/document.xml", document},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "create docx part %s", part.name)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write docx part %s", part.name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "close docx container")
	}
	return buf.Bytes(), nil
}

const docxContentTypes = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const docxPackageRels = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxDocumentRels = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

// docxStyles emits the style part with merged branding colors and font.
func docxStyles(style generate.Style) []byte {
	primary := hexColor(style.PrimaryColor, "1E3C72")
	secondary := hexColor(style.SecondaryColor, "2A5298")
	font := escapeXML(orDefault(style.FontFamily, "Arial"))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	fmt.Fprintf(&buf, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>`, font, font)

	heading := func(id string, size int, color string) {
		fmt.Fprintf(&buf,
			`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/>`+
				`<w:rPr><w:b/><w:color w:val="%s"/><w:sz w:val="%d"/></w:rPr></w:style>`,
			id, id, color, size)
	}
	heading("DocTitle", 48, primary)
	heading("Heading1", 32, primary)
	heading("Heading2", 28, secondary)
	heading("Heading3", 24, secondary)

	buf.WriteString(`<w:style w:type="paragraph" w:styleId="Subtle"><w:name w:val="Subtle"/><w:rPr><w:i/><w:color w:val="666666"/></w:rPr></w:style>`)
	buf.WriteString(`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:pPr><w:ind w:left="360"/></w:pPr></w:style>`)
	buf.WriteString(`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/></w:style>`)
	buf.WriteString(`</w:styles>`)
	return buf.Bytes()
}

// hexColor strips the leading # and validates length; falls back to the
// given default.
func hexColor(c, fallback string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) != 6 {
		return fallback
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fallback
		}
	}
	return strings.ToUpper(c)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
