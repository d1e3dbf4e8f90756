// Package enrich fills missing device and connection properties with
// type-specific defaults.
//
// Enrichment is a pure in-place transformation with no I/O. It only
// fills absent keys, never overwrites values the diagram supplied, and
// records a notice on the topology metadata when any placeholder was
// used so consumers can tell users the document contains defaults.
package enrich

import (
	"strings"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// defaultsNotice is surfaced in generated documents when placeholder
// values were filled in.
const defaultsNotice = "Some network information was filled with default values. " +
	"Please update with actual values as needed."

// deviceDefaults maps a device type to the property keys filled when a
// shape of that type lacks them.
var deviceDefaults = map[topology.DeviceType]map[string]string{
	topology.DeviceRouter: {
		"vendor":        "Generic",
		"model":         "Router",
		"os_version":    "Latest",
		"management_ip": "10.0.0.X",
	},
	topology.DeviceSwitch: {
		"vendor":        "Generic",
		"model":         "Switch",
		"os_version":    "Latest",
		"management_ip": "10.0.0.X",
		"port_count":    "24",
	},
	topology.DeviceFirewall: {
		"vendor":        "Generic",
		"model":         "Firewall",
		"os_version":    "Latest",
		"management_ip": "10.0.0.X",
		"policy_count":  "0",
	},
	topology.DeviceServer: {
		"vendor":     "Generic",
		"model":      "Server",
		"os":         "Linux/Windows",
		"ip_address": "10.0.0.X",
	},
}

// genericDeviceDefaults apply to device types with no specific table.
var genericDeviceDefaults = map[string]string{
	"vendor": "Unknown",
	"model":  "Unknown",
}

// connectionDefaults are the base link properties; connection-type
// specific overrides are applied on top before filling.
var connectionDefaults = map[string]string{
	"bandwidth":  "1 Gbps",
	"media_type": "Ethernet",
	"protocol":   "TCP/IP",
}

var connectionOverrides = map[topology.ConnectionType]map[string]string{
	topology.ConnFiber: {
		"bandwidth":  "10 Gbps",
		"media_type": "Fiber Optic",
	},
	topology.ConnWireless: {
		"bandwidth":  "300 Mbps",
		"media_type": "Wireless",
		"protocol":   "802.11ac",
	},
	topology.ConnSerial: {
		"bandwidth":  "115200 bps",
		"media_type": "Serial",
		"protocol":   "RS-232",
	},
}

// Apply fills missing shape and connection properties in place and
// sets the metadata notice when at least one default was used.
func Apply(t *topology.ParsedTopology) {
	applied := false

	for i := range t.Shapes {
		if enrichShape(&t.Shapes[i]) {
			applied = true
		}
	}
	for i := range t.Connections {
		if enrichConnection(&t.Connections[i]) {
			applied = true
		}
	}

	if applied {
		t.Metadata.DefaultsApplied = true
		t.Metadata.Notice = defaultsNotice
	}
}

// DeviceDefaults returns the default properties for a device type,
// including the hostname and description derived from the device name.
func DeviceDefaults(deviceType topology.DeviceType, name string) map[string]string {
	base, ok := deviceDefaults[deviceType]
	if !ok {
		base = genericDeviceDefaults
	}

	defaults := make(map[string]string, len(base)+2)
	for k, v := range base {
		defaults[k] = v
	}
	if name != "" {
		defaults["hostname"] = name
		defaults["description"] = string(deviceType) + " - " + name
	} else {
		defaults["hostname"] = strings.ToUpper(string(deviceType)) + "_HOSTNAME"
		defaults["description"] = string(deviceType) + " Device"
	}
	return defaults
}

// ConnectionDefaults returns the default properties for a connection
// type.
func ConnectionDefaults(connType topology.ConnectionType) map[string]string {
	defaults := make(map[string]string, len(connectionDefaults))
	for k, v := range connectionDefaults {
		defaults[k] = v
	}
	for k, v := range connectionOverrides[connType] {
		defaults[k] = v
	}
	return defaults
}

func enrichShape(shape *topology.Shape) bool {
	if shape.Properties == nil {
		shape.Properties = make(map[string]string)
	}
	return fillMissing(shape.Properties, DeviceDefaults(shape.Type, shape.Name))
}

func enrichConnection(conn *topology.Connection) bool {
	if conn.Properties == nil {
		conn.Properties = make(map[string]string)
	}
	return fillMissing(conn.Properties, ConnectionDefaults(conn.Type))
}

// fillMissing copies defaults for absent keys only and reports whether
// anything was filled.
func fillMissing(props, defaults map[string]string) bool {
	filled := false
	for k, v := range defaults {
		if _, ok := props[k]; !ok {
			props[k] = v
			filled = true
		}
	}
	return filled
}
