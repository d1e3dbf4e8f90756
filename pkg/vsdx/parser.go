// Package vsdx parses Microsoft Visio VSDX diagram files into the
// topology model.
//
// VSDX is an Open Packaging Conventions container: a zip archive of XML
// parts. The parser reads the page index, extracts shapes and connector
// records from each page, resolves connector endpoints and assigns each
// shape a coarse device type from its stencil name and label text.
//
// Legacy Visio formats (.vsd, .vss) and stencil files are recognized
// but not parsed; unrecognized extensions are rejected outright.
package vsdx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// recognizedExtensions are Visio file extensions the parser knows
// about. Only implementedExtensions can actually be parsed; the rest
// produce a NOT_IMPLEMENTED_FORMAT error so the caller can distinguish
// "old Visio format" from "not a Visio file at all".
var (
	recognizedExtensions = map[string]bool{
		".vsd":  true,
		".vsdx": true,
		".vsdm": true,
		".vss":  true,
		".vssx": true,
		".vssm": true,
	}
	implementedExtensions = map[string]bool{
		".vsdx": true,
		".vsdm": true,
	}
)

// Parser extracts network topologies from Visio diagram files.
type Parser struct {
	logger *log.Logger
}

// NewParser creates a Parser. A nil logger falls back to the package
// default.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{logger: logger}
}

// ParseFile parses the Visio file at path into a topology.
//
// It returns FILE_NOT_FOUND if the path does not exist,
// UNSUPPORTED_FORMAT if the extension is not a Visio format, and
// NOT_IMPLEMENTED_FORMAT for Visio formats the parser cannot read.
// Malformed shapes and connections inside an otherwise readable file
// are logged and skipped, not fatal.
func (p *Parser) ParseFile(path string) (*topology.ParsedTopology, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !recognizedExtensions[ext] {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "not a Visio file: %s", path)
	}
	if !implementedExtensions[ext] {
		return nil, errors.New(errors.ErrCodeNotImplementedFormat, "Visio format %s is not supported, convert to .vsdx", ext)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedFormat, err, "not a valid VSDX container: %s", path)
	}
	defer zr.Close()

	parsed, err := p.parseContainer(&zr.Reader)
	if err != nil {
		return nil, err
	}
	parsed.Filename = filepath.Base(path)
	return parsed, nil
}

// parseContainer extracts the topology from an open VSDX container.
func (p *Parser) parseContainer(zr *zip.Reader) (*topology.ParsedTopology, error) {
	c := openContainer(zr)

	refs := c.pageParts()
	if len(refs) == 0 {
		return nil, errors.New(errors.ErrCodeUnsupportedFormat, "container holds no diagram pages")
	}

	masters := c.masterNames()

	parsed := &topology.ParsedTopology{
		Shapes:      []topology.Shape{},
		Connections: []topology.Connection{},
		Metadata:    c.documentMetadata(),
		PageCount:   len(refs),
	}

	for i, ref := range refs {
		var page xmlPageContents
		if err := c.decodePart(ref.Part, &page); err != nil {
			p.logger.Warn("skipping unreadable page", "page", ref.Name, "part", ref.Part, "error", err)
			continue
		}
		p.extractPage(parsed, &page, masters, i)
	}

	return parsed, nil
}

// xmlPageContents is a visio/pages/pageN.xml part.
type xmlPageContents struct {
	XMLName  xml.Name     `xml:"PageContents"`
	Shapes   []xmlShape   `xml:"Shapes>Shape"`
	Connects []xmlConnect `xml:"Connects>Connect"`
}

type xmlShape struct {
	ID      string       `xml:"ID,attr"`
	Name    string       `xml:"Name,attr"`
	NameU   string       `xml:"NameU,attr"`
	Master  string       `xml:"Master,attr"`
	Type    string       `xml:"Type,attr"`
	Cells   []xmlCell    `xml:"Cell"`
	Section []xmlSection `xml:"Section"`
	Text    string       `xml:"Text"`
	Shapes  []xmlShape   `xml:"Shapes>Shape"`
}

type xmlCell struct {
	N string `xml:"N,attr"`
	V string `xml:"V,attr"`
}

type xmlSection struct {
	N    string   `xml:"N,attr"`
	Rows []xmlRow `xml:"Row"`
}

type xmlRow struct {
	N     string    `xml:"N,attr"`
	Cells []xmlCell `xml:"Cell"`
}

type xmlConnect struct {
	FromSheet string `xml:"FromSheet,attr"`
	FromCell  string `xml:"FromCell,attr"`
	ToSheet   string `xml:"ToSheet,attr"`
}

// extractPage converts one page's shapes and connector records into
// topology shapes and connections, appending them to parsed.
//
// Shape IDs in Visio restart on every page. IDs from the first page are
// kept as-is; later pages get a "p{n}." prefix so references stay
// unambiguous in multi-page documents.
func (p *Parser) extractPage(parsed *topology.ParsedTopology, page *xmlPageContents, masters map[string]string, pageIndex int) {
	qualify := func(id string) string {
		if pageIndex == 0 {
			return id
		}
		return fmt.Sprintf("p%d.%s", pageIndex+1, id)
	}

	// A shape is a connector when Connect records reference it as the
	// routing sheet. Endpoints: BeginX connects to the source shape,
	// EndX to the target.
	type endpoints struct {
		source string
		target string
	}
	connectors := make(map[string]*endpoints)
	for _, conn := range page.Connects {
		if conn.FromSheet == "" || conn.ToSheet == "" {
			continue
		}
		ep, ok := connectors[conn.FromSheet]
		if !ok {
			ep = &endpoints{}
			connectors[conn.FromSheet] = ep
		}
		switch conn.FromCell {
		case "BeginX":
			ep.source = conn.ToSheet
		case "EndX":
			ep.target = conn.ToSheet
		}
	}

	pageShapes := make(map[string]*xmlShape, len(page.Shapes))
	for i := range page.Shapes {
		shape := &page.Shapes[i]
		if shape.ID == "" {
			p.logger.Warn("skipping shape without ID", "page", pageIndex+1)
			continue
		}
		pageShapes[shape.ID] = shape
	}

	// Device shapes first, so endpoint resolution below can check that
	// both ends of a connection exist.
	extracted := make(map[string]bool)
	for i := range page.Shapes {
		shape := &page.Shapes[i]
		if shape.ID == "" || connectors[shape.ID] != nil {
			continue
		}

		masterName := masters[shape.Master]
		text := gatherText(shape)

		name := text
		if name == "" {
			name = "Shape_" + shape.ID
		}

		dev := topology.Shape{
			ID:         qualify(shape.ID),
			Name:       name,
			Type:       topology.DetectShapeType(masterName, text),
			Master:     masterName,
			Text:       text,
			Properties: shapeProperties(shape),
		}
		dev.X, dev.Y, dev.Width, dev.Height = shapeGeometry(p.logger, shape)

		parsed.Shapes = append(parsed.Shapes, dev)
		extracted[shape.ID] = true
	}

	typeOf := func(id string) topology.DeviceType {
		if s, ok := pageShapes[id]; ok {
			return topology.DetectShapeType(masters[s.Master], gatherText(s))
		}
		return topology.DeviceUnknown
	}

	// Connections, in shape order for deterministic output. Connectors
	// with an unresolved or dangling endpoint are dropped.
	for i := range page.Shapes {
		shape := &page.Shapes[i]
		ep := connectors[shape.ID]
		if ep == nil {
			continue
		}
		if ep.source == "" || ep.target == "" {
			p.logger.Debug("skipping connector with unresolved endpoint", "connector", shape.ID, "page", pageIndex+1)
			continue
		}
		if !extracted[ep.source] || !extracted[ep.target] {
			p.logger.Debug("skipping connector to missing shape",
				"connector", shape.ID, "source", ep.source, "target", ep.target, "page", pageIndex+1)
			continue
		}

		label := gatherText(shape)
		props := shapeProperties(shape)
		if label != "" {
			props["label"] = label
		}

		hint := strings.TrimSpace(label + " " + masters[shape.Master])
		parsed.Connections = append(parsed.Connections, topology.Connection{
			ID:         qualify(shape.ID),
			SourceID:   qualify(ep.source),
			TargetID:   qualify(ep.target),
			Type:       topology.NormalizeConnectionType(hint, typeOf(ep.source), typeOf(ep.target)),
			Properties: props,
		})
	}
}

// gatherText collects the shape's label text, including text carried by
// sub-shapes of a group, trimmed and space-joined.
func gatherText(shape *xmlShape) string {
	var parts []string
	if t := strings.TrimSpace(shape.Text); t != "" {
		parts = append(parts, t)
	}
	for i := range shape.Shapes {
		if t := gatherText(&shape.Shapes[i]); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// shapeProperties extracts the custom property section (Section
// N="Property") as a key/value map. Row names are lowercased so that
// downstream lookups like "ip_address" match regardless of the diagram
// author's casing.
func shapeProperties(shape *xmlShape) map[string]string {
	props := make(map[string]string)
	for _, section := range shape.Section {
		if section.N != "Property" {
			continue
		}
		for _, row := range section.Rows {
			if row.N == "" {
				continue
			}
			for _, cell := range row.Cells {
				if cell.N == "Value" && cell.V != "" {
					props[strings.ToLower(row.N)] = cell.V
				}
			}
		}
	}
	return props
}

// shapeGeometry reads the position and size cells. An unparseable cell
// leaves its value at zero rather than discarding the shape.
func shapeGeometry(logger *log.Logger, shape *xmlShape) (x, y, w, h float64) {
	for _, cell := range shape.Cells {
		var dst *float64
		switch cell.N {
		case "PinX":
			dst = &x
		case "PinY":
			dst = &y
		case "Width":
			dst = &w
		case "Height":
			dst = &h
		default:
			continue
		}
		v, err := strconv.ParseFloat(cell.V, 64)
		if err != nil {
			logger.Debug("ignoring unparseable geometry cell", "shape", shape.ID, "cell", cell.N, "value", cell.V)
			continue
		}
		*dst = v
	}
	return x, y, w, h
}
