package vsdx

import (
	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// xmlCoreProps is docProps/core.xml, the Dublin Core document
// properties.
type xmlCoreProps struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

// xmlAppProps is docProps/app.xml, which carries the extended
// properties core.xml does not.
type xmlAppProps struct {
	Manager string `xml:"Manager"`
	Company string `xml:"Company"`
}

// documentMetadata assembles topology metadata from the document
// property parts. Both parts are optional; whatever is present is
// used.
func (c *container) documentMetadata() topology.Metadata {
	var meta topology.Metadata

	var core xmlCoreProps
	if c.decodePart(partCoreProps, &core) == nil {
		meta.Title = core.Title
		meta.Subject = core.Subject
		meta.Author = core.Creator
		meta.Created = core.Created
		meta.Modified = core.Modified
	}

	var app xmlAppProps
	if c.decodePart(partAppProps, &app) == nil {
		meta.Manager = app.Manager
		meta.Company = app.Company
	}

	return meta
}
