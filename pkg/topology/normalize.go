package topology

import "strings"

// labelRule maps connector-label keywords to a connection type.
// Evaluated in order; keyword rules take priority over endpoint-type
// inference.
type labelRule struct {
	keywords []string
	conn     ConnectionType
}

var labelRules = []labelRule{
	{[]string{"ethernet", "eth", "gig", "fast"}, ConnEthernet},
	{[]string{"fiber", "optical", "sfp"}, ConnFiber},
	{[]string{"serial", "rs232", "console"}, ConnSerial},
	{[]string{"wireless", "wifi", "wi-fi", "802.11"}, ConnWireless},
	{[]string{"vpn", "tunnel", "ipsec"}, ConnVPN},
	{[]string{"wan", "mpls", "leased"}, ConnWAN},
}

// NormalizeConnectionType refines a connection's placeholder type using
// the connector's label text and the types of both endpoints. Label
// keywords win; otherwise cloud/internet endpoints imply an internet
// link and firewall endpoints a security link.
func NormalizeConnectionType(label string, source, target DeviceType) ConnectionType {
	text := strings.ToLower(label)

	for _, rule := range labelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.conn
			}
		}
	}

	if source == DeviceCloud || source == DeviceInternet || target == DeviceCloud || target == DeviceInternet {
		return ConnInternet
	}
	if source == DeviceFirewall || target == DeviceFirewall {
		return ConnSecurityLink
	}

	return ConnNetworkLink
}
