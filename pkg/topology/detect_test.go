package topology

import "testing"

func TestDetectShapeType(t *testing.T) {
	tests := []struct {
		name   string
		master string
		text   string
		want   DeviceType
	}{
		{"router keyword", "", "Core Router 1", DeviceRouter},
		{"router abbreviation", "", "rt east", DeviceRouter},
		{"bgp implies router", "", "BGP peer", DeviceRouter},
		{"switch keyword", "", "Access Switch", DeviceSwitch},
		{"cisco switch stencil", "Cisco Switch Stencil", "", DeviceSwitch},
		{"firewall keyword", "", "Perimeter Firewall", DeviceFirewall},
		{"asa", "", "ASA 5506", DeviceFirewall},
		{"fortigate", "", "FortiGate 100F", DeviceFirewall},
		{"server keyword", "", "Web Server", DeviceServer},
		{"esxi host", "", "esxi-host-01", DeviceServer},
		{"workstation", "", "desktop east wing", DeviceWorkstation},
		{"cloud keyword", "", "AWS cloud", DeviceCloud},
		{"internet", "", "Internet", DeviceCloud},
		{"stencil fallback router", "Generic Router.32", "node-a", DeviceRouter},
		{"stencil fallback cloud", "Cloud shape", "", DeviceCloud},
		{"no match", "Rectangle", "Box 7", DeviceUnknown},
		{"empty input", "", "", DeviceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectShapeType(tt.master, tt.text); got != tt.want {
				t.Errorf("DetectShapeType(%q, %q) = %q, want %q", tt.master, tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectShapeTypeDeterministic(t *testing.T) {
	// Identical input must classify identically across repeated calls.
	for i := 0; i < 10; i++ {
		if got := DetectShapeType("Cisco Catalyst", "core switch stack"); got != DeviceSwitch {
			t.Fatalf("run %d: got %q, want %q", i, got, DeviceSwitch)
		}
	}
}

func TestNormalizeConnectionType(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		source DeviceType
		target DeviceType
		want   ConnectionType
	}{
		{"ethernet label", "GigE 1/0/1", DeviceSwitch, DeviceServer, ConnEthernet},
		{"fiber label", "10G SFP+", DeviceSwitch, DeviceSwitch, ConnFiber},
		{"serial label", "console cable", DeviceRouter, DeviceServer, ConnSerial},
		{"wireless label", "802.11ac uplink", DeviceWirelessAP, DeviceSwitch, ConnWireless},
		{"vpn label", "IPSEC tunnel", DeviceRouter, DeviceRouter, ConnVPN},
		{"wan label", "MPLS circuit", DeviceRouter, DeviceRouter, ConnWAN},
		{"label beats endpoints", "ethernet trunk", DeviceFirewall, DeviceCloud, ConnEthernet},
		{"cloud endpoint", "", DeviceRouter, DeviceCloud, ConnInternet},
		{"internet endpoint", "", DeviceInternet, DeviceSwitch, ConnInternet},
		{"firewall endpoint", "", DeviceFirewall, DeviceSwitch, ConnSecurityLink},
		{"cloud beats firewall", "", DeviceFirewall, DeviceCloud, ConnInternet},
		{"default", "", DeviceSwitch, DeviceServer, ConnNetworkLink},
		{"empty everything", "", DeviceUnknown, DeviceUnknown, ConnNetworkLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeConnectionType(tt.label, tt.source, tt.target)
			if got != tt.want {
				t.Errorf("NormalizeConnectionType(%q, %q, %q) = %q, want %q",
					tt.label, tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestShapeByID(t *testing.T) {
	top := ParsedTopology{
		Shapes: []Shape{
			{ID: "1", Name: "rtr-1"},
			{ID: "2", Name: "sw-1"},
		},
	}

	m := top.ShapeByID()
	if len(m) != 2 {
		t.Fatalf("ShapeByID() returned %d entries, want 2", len(m))
	}
	if m["1"].Name != "rtr-1" || m["2"].Name != "sw-1" {
		t.Error("ShapeByID() returned wrong shapes")
	}

	// Pointers must reference the backing slice so degree updates stick.
	m["1"].ConnectionsCount = 5
	if top.Shapes[0].ConnectionsCount != 5 {
		t.Error("ShapeByID() should return pointers into the topology")
	}
}
