package resolve

import (
	"reflect"
	"testing"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

func TestResolveDeviceType(t *testing.T) {
	tests := []struct {
		name  string
		shape topology.Shape
		want  topology.DeviceType
	}{
		{"router by name", topology.Shape{ID: "1", Name: "rtr-east-01"}, topology.DeviceRouter},
		{"gateway", topology.Shape{ID: "2", Name: "gw_branch"}, topology.DeviceRouter},
		{"switch by name", topology.Shape{ID: "3", Name: "sw-access-12"}, topology.DeviceSwitch},
		{"firewall by name", topology.Shape{ID: "4", Name: "fw-dmz"}, topology.DeviceFirewall},
		{"load balancer", topology.Shape{ID: "5", Name: "lb-prod"}, topology.DeviceLoadBalancer},
		{"server", topology.Shape{ID: "6", Name: "srv-db-01"}, topology.DeviceServer},
		{"wireless ap", topology.Shape{ID: "7", Name: "ap-floor3"}, topology.DeviceWirelessAP},
		{"storage", topology.Shape{ID: "8", Name: "nas-backup"}, topology.DeviceStorage},
		{"stencil text only", topology.Shape{ID: "9", Master: "Cisco Catalyst 3850"}, topology.DeviceSwitch},
		{"from properties", topology.Shape{ID: "10", Name: "node-a", Properties: map[string]string{"kind": "firewall"}}, topology.DeviceFirewall},
		{"unmatched", topology.Shape{ID: "11", Name: "thing"}, topology.DeviceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewSession().Resolve(tt.shape)
			if info.Type != tt.want {
				t.Errorf("Resolve(%q).Type = %q, want %q", tt.shape.Name, info.Type, tt.want)
			}
		})
	}
}

func TestResolveRoles(t *testing.T) {
	tests := []struct {
		shapeName string
		want      topology.DeviceRole
	}{
		{"core-sw-01", topology.RoleCore},
		{"dist-sw-02", topology.RoleDistribution},
		{"access-sw-03", topology.RoleAccess},
		{"edge-rtr-01", topology.RoleEdge},
		{"border-rtr-02", topology.RoleEdge},
		{"spine-01", topology.RoleSpine},
		{"leaf-12", topology.RoleLeaf},
		{"mgmt-sw", topology.RoleManagement},
		{"lonely-box", topology.RoleUnknown},
	}

	for _, tt := range tests {
		info := NewSession().Resolve(topology.Shape{ID: "x", Name: tt.shapeName})
		if info.Role != tt.want {
			t.Errorf("Resolve(%q).Role = %q, want %q", tt.shapeName, info.Role, tt.want)
		}
	}
}

func TestResolveCiscoCatalyst(t *testing.T) {
	// A shape whose only signal is the stencil text must still resolve
	// switch / Cisco / Catalyst 3850.
	shape := topology.Shape{ID: "42", Master: "Cisco Catalyst 3850"}
	info := NewSession().Resolve(shape)

	if info.Type != topology.DeviceSwitch {
		t.Errorf("Type = %q, want switch", info.Type)
	}
	if info.Vendor != "Cisco" {
		t.Errorf("Vendor = %q, want Cisco", info.Vendor)
	}
	if info.Model != "Catalyst 3850" {
		t.Errorf("Model = %q, want Catalyst 3850", info.Model)
	}
}

func TestResolveManagementIP(t *testing.T) {
	tests := []struct {
		name  string
		shape topology.Shape
		want  string
	}{
		{
			"property alias wins",
			topology.Shape{ID: "1", Text: "10.9.9.9", Properties: map[string]string{"management_ip": "192.168.1.10"}},
			"192.168.1.10",
		},
		{
			"free text fallback",
			topology.Shape{ID: "2", Text: "core router 10.0.0.1 rack 4"},
			"10.0.0.1",
		},
		{
			"rejects out-of-range octet",
			topology.Shape{ID: "3", Text: "999.1.1.1"},
			"",
		},
		{
			"no address",
			topology.Shape{ID: "4", Name: "sw-1"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewSession().Resolve(tt.shape)
			if info.ManagementIP != tt.want {
				t.Errorf("ManagementIP = %q, want %q", info.ManagementIP, tt.want)
			}
		})
	}
}

func TestResolveLocation(t *testing.T) {
	shape := topology.Shape{ID: "1", Properties: map[string]string{"rack": "R12", "color": "blue"}}
	if got := NewSession().Resolve(shape).Location; got != "R12" {
		t.Errorf("Location = %q, want R12", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		shape topology.Shape
		want  string
	}{
		{"keeps real name", topology.Shape{ID: "1", Name: "core-sw-01"}, "core-sw-01"},
		{"synthesizes from role and type", topology.Shape{ID: "2", Name: "Shape_7", Text: "core switch 3"}, "Core Switch 7"},
		{"id placeholder", topology.Shape{ID: "9"}, "Device_9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewSession().Resolve(tt.shape)
			if info.DisplayName != tt.want {
				t.Errorf("DisplayName = %q, want %q", info.DisplayName, tt.want)
			}
		})
	}
}

func TestSessionCaching(t *testing.T) {
	s := NewSession()
	shape := topology.Shape{ID: "1", Name: "rtr-1"}

	first := s.Resolve(shape)

	// Same ID with different content must return the cached result:
	// resolution is idempotent within one session.
	second := s.Resolve(topology.Shape{ID: "1", Name: "completely-different"})
	if !reflect.DeepEqual(first, second) {
		t.Error("second Resolve with same ID should hit the session cache")
	}

	// A fresh session sees the new content.
	fresh := NewSession().Resolve(topology.Shape{ID: "1", Name: "sw-9"})
	if fresh.Type != topology.DeviceSwitch {
		t.Errorf("fresh session Type = %q, want switch", fresh.Type)
	}
}

func TestResolveDeterministicWithProperties(t *testing.T) {
	// Property map iteration order must not affect classification.
	shape := topology.Shape{ID: "1", Name: "box", Properties: map[string]string{
		"a": "workstation", "b": "server", "c": "cloud", "d": "other",
	}}

	want := NewSession().Resolve(shape)
	for i := 0; i < 20; i++ {
		got := NewSession().Resolve(shape)
		if got.Type != want.Type || got.Role != want.Role || got.Vendor != want.Vendor {
			t.Fatalf("run %d: classification changed: got %+v, want %+v", i, got, want)
		}
	}
}

func TestInventoryOrdering(t *testing.T) {
	devices := map[string]DeviceInfo{
		"a": {ID: "a", DisplayName: "access-1", Type: topology.DeviceSwitch, Role: topology.RoleAccess},
		"b": {ID: "b", DisplayName: "core-1", Type: topology.DeviceSwitch, Role: topology.RoleCore},
		"c": {ID: "c", DisplayName: "mystery", Type: topology.DeviceUnknown, Role: topology.RoleUnknown},
		"d": {ID: "d", DisplayName: "dist-1", Type: topology.DeviceSwitch, Role: topology.RoleDistribution},
		"e": {ID: "e", DisplayName: "spine-1", Type: topology.DeviceSwitch, Role: topology.RoleSpine},
	}

	inv := Inventory(devices)

	gotOrder := make([]string, len(inv))
	for i, e := range inv {
		gotOrder[i] = e.Name
	}
	wantOrder := []string{"core-1", "spine-1", "dist-1", "access-1", "mystery"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("Inventory order = %v, want %v", gotOrder, wantOrder)
	}
}

func TestInventoryDeterministic(t *testing.T) {
	devices := map[string]DeviceInfo{}
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		devices[id] = DeviceInfo{ID: id, DisplayName: "sw-" + id, Type: topology.DeviceSwitch, Role: topology.RoleAccess}
	}

	want := Inventory(devices)
	for i := 0; i < 10; i++ {
		if got := Inventory(devices); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: inventory order not deterministic", i)
		}
	}
}

func TestInventoryDeterministicWithDuplicateNames(t *testing.T) {
	// Devices sharing display name, type and role must still order
	// stably, by ID.
	devices := map[string]DeviceInfo{}
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		devices[id] = DeviceInfo{ID: id, DisplayName: "Switch", Type: topology.DeviceSwitch, Role: topology.RoleAccess}
	}

	for i := 0; i < 20; i++ {
		inv := Inventory(devices)
		for j, e := range inv {
			if e.ID != ids[j] {
				t.Fatalf("run %d: position %d has ID %q, want %q", i, j, e.ID, ids[j])
			}
		}
	}
}

func TestInventoryPlaceholders(t *testing.T) {
	inv := Inventory(map[string]DeviceInfo{
		"1": {ID: "1", DisplayName: "box", Type: topology.DeviceUnknown, Role: topology.RoleUnknown},
	})
	e := inv[0]
	if e.Vendor != "Unknown" || e.Model != "Unknown" || e.ManagementIP != "N/A" || e.Location != "N/A" {
		t.Errorf("placeholders wrong: %+v", e)
	}
}
