package vsdx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// A VSDX file is an OPC container: a zip archive of XML parts. The
// functions here locate and decode the parts the parser needs: the
// page index, page contents, master (stencil) names and document
// properties.

const (
	partPages     = "visio/pages/pages.xml"
	partPagesRels = "visio/pages/_rels/pages.xml.rels"
	partMasters   = "visio/masters/masters.xml"
	partCoreProps = "docProps/core.xml"
	partAppProps  = "docProps/app.xml"
)

// container wraps an open zip archive with part lookup by name.
type container struct {
	parts map[string]*zip.File
}

func openContainer(r *zip.Reader) *container {
	parts := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		parts[f.Name] = f
	}
	return &container{parts: parts}
}

// readPart reads a named part in full. Returns an error if the part is
// absent or unreadable.
func (c *container) readPart(name string) ([]byte, error) {
	f, ok := c.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found in container", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decodePart reads and XML-decodes a named part into v.
func (c *container) decodePart(name string, v any) error {
	data, err := c.readPart(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode part %s: %w", name, err)
	}
	return nil
}

// hasPart reports whether the container holds a part with the name.
func (c *container) hasPart(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// xmlPageIndex is visio/pages/pages.xml: the ordered list of pages.
type xmlPageIndex struct {
	Pages []xmlPageRef `xml:"Page"`
}

type xmlPageRef struct {
	ID    string      `xml:"ID,attr"`
	Name  string      `xml:"Name,attr"`
	NameU string      `xml:"NameU,attr"`
	Rel   xmlRelIDRef `xml:"Rel"`
}

type xmlRelIDRef struct {
	ID string `xml:"id,attr"`
}

// xmlRelationships is an OPC .rels part mapping relationship IDs to
// part targets.
type xmlRelationships struct {
	Rels []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// pageRef pairs a page's display name with the part holding its
// contents.
type pageRef struct {
	Name string
	Part string
}

// pageParts resolves the ordered list of page content parts via the
// page index and its relationships. When the index or rels are missing
// or incomplete it falls back to enumerating visio/pages/page*.xml in
// numeric order, so a slightly malformed container still yields its
// pages.
func (c *container) pageParts() []pageRef {
	var index xmlPageIndex
	var rels xmlRelationships

	if c.decodePart(partPages, &index) == nil && c.decodePart(partPagesRels, &rels) == nil {
		targets := make(map[string]string, len(rels.Rels))
		for _, r := range rels.Rels {
			targets[r.ID] = r.Target
		}

		var refs []pageRef
		for _, p := range index.Pages {
			target, ok := targets[p.Rel.ID]
			if !ok {
				continue
			}
			name := p.Name
			if name == "" {
				name = p.NameU
			}
			refs = append(refs, pageRef{Name: name, Part: path.Join("visio/pages", target)})
		}
		if len(refs) > 0 {
			return refs
		}
	}

	// Fallback: enumerate page parts directly.
	var names []string
	for name := range c.parts {
		if strings.HasPrefix(name, "visio/pages/page") && strings.HasSuffix(name, ".xml") && name != partPages {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return pageOrdinal(names[i]) < pageOrdinal(names[j])
	})

	refs := make([]pageRef, 0, len(names))
	for i, name := range names {
		refs = append(refs, pageRef{Name: fmt.Sprintf("Page-%d", i+1), Part: name})
	}
	return refs
}

// pageOrdinal extracts the numeric suffix of a page part name so that
// page10.xml sorts after page2.xml.
func pageOrdinal(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	n := 0
	for _, r := range base {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// xmlMasters is visio/masters/masters.xml: stencil master definitions.
type xmlMasters struct {
	Masters []xmlMaster `xml:"Master"`
}

type xmlMaster struct {
	ID    string `xml:"ID,attr"`
	Name  string `xml:"Name,attr"`
	NameU string `xml:"NameU,attr"`
}

// masterNames maps master IDs to stencil names. Missing masters part
// yields an empty map; shapes simply have no stencil reference then.
func (c *container) masterNames() map[string]string {
	var masters xmlMasters
	if err := c.decodePart(partMasters, &masters); err != nil {
		return map[string]string{}
	}

	names := make(map[string]string, len(masters.Masters))
	for _, m := range masters.Masters {
		name := m.Name
		if name == "" {
			name = m.NameU
		}
		names[m.ID] = name
	}
	return names
}
