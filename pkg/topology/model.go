// Package topology defines the network topology model extracted from
// diagram files: shapes (devices), connections between them, and the
// parsed document as a whole.
//
// The model is the wire format of the persisted topology artifact: a
// ParsedTopology marshals to the parsed_data.json layout consumed by the
// generate worker and the upstream application.
package topology

import "time"

// DeviceType classifies a shape as a kind of network device.
type DeviceType string

// Device types recognized by classification.
const (
	DeviceRouter             DeviceType = "router"
	DeviceSwitch             DeviceType = "switch"
	DeviceFirewall           DeviceType = "firewall"
	DeviceLoadBalancer       DeviceType = "load_balancer"
	DeviceServer             DeviceType = "server"
	DeviceWirelessAP         DeviceType = "wireless_ap"
	DeviceWirelessController DeviceType = "wireless_controller"
	DeviceStorage            DeviceType = "storage"
	DeviceWorkstation        DeviceType = "workstation"
	DeviceCloud              DeviceType = "cloud"
	DeviceInternet           DeviceType = "internet"
	DeviceUnknown            DeviceType = "unknown"
)

// DeviceRole places a device in the network hierarchy.
type DeviceRole string

// Device roles recognized by classification.
const (
	RoleCore         DeviceRole = "core"
	RoleDistribution DeviceRole = "distribution"
	RoleAccess       DeviceRole = "access"
	RoleEdge         DeviceRole = "edge"
	RoleBorder       DeviceRole = "border"
	RoleSpine        DeviceRole = "spine"
	RoleLeaf         DeviceRole = "leaf"
	RoleCompute      DeviceRole = "compute"
	RoleStorage      DeviceRole = "storage"
	RoleManagement   DeviceRole = "management"
	RoleUnknown      DeviceRole = "unknown"
)

// ConnectionType classifies a link between two shapes.
type ConnectionType string

// Connection types produced by normalization.
const (
	ConnEthernet     ConnectionType = "ethernet"
	ConnFiber        ConnectionType = "fiber"
	ConnSerial       ConnectionType = "serial"
	ConnWireless     ConnectionType = "wireless"
	ConnVPN          ConnectionType = "vpn"
	ConnWAN          ConnectionType = "wan"
	ConnInternet     ConnectionType = "internet"
	ConnSecurityLink ConnectionType = "security_link"
	ConnNetworkLink  ConnectionType = "network_link"
)

// Shape is a diagram element representing a network device.
//
// Type holds the coarse classification assigned at extraction time by
// DetectShapeType; the full classification (role, vendor, model, ...)
// lives in resolve.DeviceInfo and is derived on demand.
type Shape struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   DeviceType `json:"type"`
	Master string     `json:"master_name,omitempty"`
	Text   string     `json:"text,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Properties holds diagram-label-derived key/value data.
	Properties map[string]string `json:"properties"`

	// ConnectionsCount is derived at generation time (device degree).
	ConnectionsCount int `json:"connections_count"`
}

// Connection is a diagram element linking two shapes. Both endpoint IDs
// reference existing shapes; a connection with an unresolved endpoint is
// dropped at extraction, never persisted with a dangling reference.
type Connection struct {
	ID       string         `json:"id"`
	SourceID string         `json:"source_id"`
	TargetID string         `json:"target_id"`
	Type     ConnectionType `json:"type"`

	// Properties carries link attributes (bandwidth, vlan, label, ...).
	Properties map[string]string `json:"properties"`
}

// Metadata holds document-level properties read from the diagram file,
// plus the enrichment notice set when defaults were applied.
type Metadata struct {
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
	Author   string `json:"author,omitempty"`
	Title    string `json:"title,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Manager  string `json:"manager,omitempty"`
	Company  string `json:"company,omitempty"`

	// DefaultsApplied and Notice are set by the enricher when any
	// placeholder value was filled in.
	DefaultsApplied bool   `json:"defaults_applied,omitempty"`
	Notice          string `json:"notice,omitempty"`
}

// ParsedTopology is the complete result of parsing one diagram file.
// It is created once per uploaded file and persisted as a read-only
// artifact at parsed/{documentID}/parsed_data.json.
type ParsedTopology struct {
	Filename    string       `json:"filename"`
	Shapes      []Shape      `json:"shapes"`
	Connections []Connection `json:"connections"`
	Metadata    Metadata     `json:"metadata"`
	PageCount   int          `json:"page_count"`

	// Set by the parse worker before persisting.
	DocumentID string    `json:"document_id,omitempty"`
	ProjectID  string    `json:"project_id,omitempty"`
	ParsedAt   time.Time `json:"parsed_at,omitempty"`
}

// ShapeByID returns a lookup map from shape ID to shape index.
func (t *ParsedTopology) ShapeByID() map[string]*Shape {
	m := make(map[string]*Shape, len(t.Shapes))
	for i := range t.Shapes {
		m[t.Shapes[i].ID] = &t.Shapes[i]
	}
	return m
}
