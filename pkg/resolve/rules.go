package resolve

import (
	"regexp"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// The classification tables below are ordered, declarative predicate
// lists evaluated top to bottom; the first match wins. Order is part of
// the contract: "core switch" must classify as a router if "router"
// appears earlier in the text sources, and each rule is unit-testable in
// isolation.

type deviceTypeRule struct {
	pattern *regexp.Regexp
	device  topology.DeviceType
}

var deviceTypeRules = []deviceTypeRule{
	// Routers
	{regexp.MustCompile(`(?i)(rtr|router|rt)[-_]?(\w+)?`), topology.DeviceRouter},
	{regexp.MustCompile(`(?i)(gw|gateway)[-_]?(\w+)?`), topology.DeviceRouter},
	{regexp.MustCompile(`(?i)(bgp|mpls|wan)[-_]?(\w+)?`), topology.DeviceRouter},

	// Switches
	{regexp.MustCompile(`(?i)(sw|switch)[-_]?(\w+)?`), topology.DeviceSwitch},
	{regexp.MustCompile(`(?i)(core)[-_]?(sw|switch)?[-_]?(\w+)?`), topology.DeviceSwitch},
	{regexp.MustCompile(`(?i)(dist|distribution)[-_]?(sw|switch)?[-_]?(\w+)?`), topology.DeviceSwitch},
	{regexp.MustCompile(`(?i)(access)[-_]?(sw|switch)?[-_]?(\w+)?`), topology.DeviceSwitch},
	{regexp.MustCompile(`(?i)(tor|top[-_]?of[-_]?rack)[-_]?(\w+)?`), topology.DeviceSwitch},

	// Firewalls
	{regexp.MustCompile(`(?i)(fw|firewall|asa|palo|fortinet|checkpoint)[-_]?(\w+)?`), topology.DeviceFirewall},
	{regexp.MustCompile(`(?i)(dmz|security)[-_]?(\w+)?`), topology.DeviceFirewall},

	// Load balancers
	{regexp.MustCompile(`(?i)(lb|loadbalancer|f5|netscaler|haproxy)[-_]?(\w+)?`), topology.DeviceLoadBalancer},
	{regexp.MustCompile(`(?i)(vip|virtual[-_]?ip)[-_]?(\w+)?`), topology.DeviceLoadBalancer},

	// Servers
	{regexp.MustCompile(`(?i)(srv|server|host)[-_]?(\w+)?`), topology.DeviceServer},
	{regexp.MustCompile(`(?i)(web|app|db|database|sql)[-_]?(srv|server)?[-_]?(\w+)?`), topology.DeviceServer},
	{regexp.MustCompile(`(?i)(vm|virtual[-_]?machine)[-_]?(\w+)?`), topology.DeviceServer},

	// Wireless
	{regexp.MustCompile(`(?i)(ap|access[-_]?point|wap)[-_]?(\w+)?`), topology.DeviceWirelessAP},
	{regexp.MustCompile(`(?i)(wlc|wireless[-_]?controller)[-_]?(\w+)?`), topology.DeviceWirelessController},

	// Storage
	{regexp.MustCompile(`(?i)(storage|san|nas|filer)[-_]?(\w+)?`), topology.DeviceStorage},
}

// stencilTypeRule is a fallback checked against the master name only,
// after the main table found nothing.
type stencilTypeRule struct {
	keywords []string
	device   topology.DeviceType
}

var stencilTypeRules = []stencilTypeRule{
	{[]string{"router", "rtr", "asr", "isr"}, topology.DeviceRouter},
	{[]string{"switch", "sw", "catalyst", "nexus"}, topology.DeviceSwitch},
	{[]string{"firewall", "fw"}, topology.DeviceFirewall},
	{[]string{"server", "srv"}, topology.DeviceServer},
}

type roleRule struct {
	pattern *regexp.Regexp
	role    topology.DeviceRole
}

var roleRules = []roleRule{
	{regexp.MustCompile(`(?i)core`), topology.RoleCore},
	{regexp.MustCompile(`(?i)dist|distribution`), topology.RoleDistribution},
	{regexp.MustCompile(`(?i)access`), topology.RoleAccess},
	{regexp.MustCompile(`(?i)edge|border`), topology.RoleEdge},
	{regexp.MustCompile(`(?i)spine`), topology.RoleSpine},
	{regexp.MustCompile(`(?i)leaf`), topology.RoleLeaf},
	{regexp.MustCompile(`(?i)mgmt|management`), topology.RoleManagement},
}

type vendorRule struct {
	pattern *regexp.Regexp
	vendor  string
}

var vendorRules = []vendorRule{
	{regexp.MustCompile(`(?i)cisco|catalyst|nexus|asr|isr`), "Cisco"},
	{regexp.MustCompile(`(?i)juniper|junos|srx|ex\d+`), "Juniper"},
	{regexp.MustCompile(`(?i)arista|eos`), "Arista"},
	{regexp.MustCompile(`(?i)fortinet|fortigate`), "Fortinet"},
	{regexp.MustCompile(`(?i)palo[-_]?alto|pan`), "Palo Alto"},
	{regexp.MustCompile(`(?i)f5|bigip`), "F5"},
	{regexp.MustCompile(`(?i)dell|force10`), "Dell"},
	{regexp.MustCompile(`(?i)hp|hpe|aruba|procurve`), "HPE"},
	{regexp.MustCompile(`(?i)huawei`), "Huawei"},
	{regexp.MustCompile(`(?i)vmware|nsx`), "VMware"},
}

// modelPatterns match known model-number shapes; the whole match is the
// model string.
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(catalyst|cat)[-\s]?(\d{4}[a-z]?)`),
	regexp.MustCompile(`(?i)(nexus|n)[-\s]?(\d{4}[a-z]?)`),
	regexp.MustCompile(`(?i)(asr)[-\s]?(\d{4}[a-z]?)`),
	regexp.MustCompile(`(?i)(isr)[-\s]?(\d{4}[a-z]?)`),
	regexp.MustCompile(`(?i)(ex|srx)[-\s]?(\d{4}[a-z]?)`),
	regexp.MustCompile(`(?i)(fortigate)[-\s]?(\d{2,4}[a-z]?)`),
	regexp.MustCompile(`(?i)model[:\s]+([^\s,]+)`),
}

// ipPattern is a strict dotted quad with per-octet range checks.
var ipPattern = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)

// ipPropertyKeys are the property-key aliases checked for a management
// address, before falling back to free text.
var ipPropertyKeys = []string{"ip", "ip_address", "management_ip", "mgmt_ip", "address"}

// locationPropertyKeys are the property-key aliases checked for device
// location.
var locationPropertyKeys = []string{"location", "site", "building", "floor", "rack", "datacenter", "dc"}
