package resolve

import (
	"sort"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// InventoryEntry is one row of the device inventory report. Empty
// resolved fields render as the placeholders the report consumers
// expect.
type InventoryEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Role         string `json:"role"`
	Vendor       string `json:"vendor"`
	Model        string `json:"model"`
	ManagementIP string `json:"management_ip"`
	Location     string `json:"location"`
	Description  string `json:"description"`
}

// rolePriority orders inventory rows by hierarchical network position.
// Unlisted roles sort between management and unknown.
var rolePriority = map[topology.DeviceRole]int{
	topology.RoleCore:         1,
	topology.RoleSpine:        2,
	topology.RoleDistribution: 3,
	topology.RoleLeaf:         4,
	topology.RoleAccess:       5,
	topology.RoleEdge:         6,
	topology.RoleManagement:   7,
	topology.RoleUnknown:      99,
}

const defaultRolePriority = 50

// Inventory builds a sorted device inventory from resolved devices.
// Sort keys: role priority, then type, then name, then ID, so output is
// stable for identical input regardless of map iteration order.
func Inventory(devices map[string]DeviceInfo) []InventoryEntry {
	entries := make([]InventoryEntry, 0, len(devices))

	for id, d := range devices {
		entries = append(entries, InventoryEntry{
			ID:           id,
			Name:         d.DisplayName,
			Type:         string(d.Type),
			Role:         string(d.Role),
			Vendor:       orPlaceholder(d.Vendor, "Unknown"),
			Model:        orPlaceholder(d.Model, "Unknown"),
			ManagementIP: orPlaceholder(d.ManagementIP, "N/A"),
			Location:     orPlaceholder(d.Location, "N/A"),
			Description:  d.Description,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := priorityFor(entries[i].Role), priorityFor(entries[j].Role)
		if pi != pj {
			return pi < pj
		}
		if entries[i].Type != entries[j].Type {
			return entries[i].Type < entries[j].Type
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})

	return entries
}

func priorityFor(role string) int {
	if p, ok := rolePriority[topology.DeviceRole(role)]; ok {
		return p
	}
	return defaultRolePriority
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
