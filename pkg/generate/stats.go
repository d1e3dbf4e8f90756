package generate

import (
	"sort"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// DeviceRef is a device reference used in ranked lists (most connected,
// isolated, high density).
type DeviceRef struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        topology.DeviceType `json:"type"`
	Connections int                 `json:"connections"`
}

// ConnectionView is a connection with endpoint names resolved for
// rendering.
type ConnectionView struct {
	topology.Connection
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
}

// Segment is a heuristic network segment summary.
type Segment struct {
	Name                string      `json:"name"`
	DeviceCount         int         `json:"device_count"`
	InternalConnections int         `json:"internal_connections"`
	ExternalConnections int         `json:"external_connections"`
	KeyDevices          []DeviceRef `json:"key_devices"`
}

// Stats holds every derived network metric. All values are pure
// functions of the topology; identical input yields identical stats.
type Stats struct {
	TotalDevices     int `json:"total_devices"`
	TotalConnections int `json:"total_connections"`

	DeviceTypes            []string       `json:"device_types"`
	DeviceTypeDistribution map[string]int `json:"device_type_distribution"`
	MostCommonDeviceType   string         `json:"most_common_device_type"`

	AvgConnectionsPerDevice float64 `json:"avg_connections_per_device"`
	NetworkDensity          float64 `json:"network_density"`

	NetworkType     string `json:"network_type"`
	TopologyPattern string `json:"topology_pattern"`
	RedundancyLevel string `json:"redundancy_level"`
	NetworkSegments int    `json:"network_segments"`

	Degrees map[string]int `json:"-"`

	MostConnected []DeviceRef `json:"most_connected_devices"`
	Isolated      []DeviceRef `json:"isolated_devices"`
	HighDensity   []DeviceRef `json:"high_density_areas"`

	TopConnectedNames  []string `json:"top_connected_devices_names"`
	TopConnectedCounts []int    `json:"top_connected_devices_counts"`

	ConnectionTypes map[string]int   `json:"connection_types"`
	Connections     []ConnectionView `json:"connections_enhanced"`
	Segments        []Segment        `json:"network_segments_list"`
}

// ComputeStats derives all network metrics from the topology. It also
// writes each shape's ConnectionsCount back onto the topology so
// renderers see per-device degrees.
func ComputeStats(t *topology.ParsedTopology) Stats {
	byID := t.ShapeByID()

	degrees := make(map[string]int)
	for _, conn := range t.Connections {
		if _, ok := byID[conn.SourceID]; ok {
			degrees[conn.SourceID]++
		}
		if _, ok := byID[conn.TargetID]; ok {
			degrees[conn.TargetID]++
		}
	}
	for i := range t.Shapes {
		t.Shapes[i].ConnectionsCount = degrees[t.Shapes[i].ID]
	}

	stats := Stats{
		TotalDevices:     len(t.Shapes),
		TotalConnections: len(t.Connections),
		Degrees:          degrees,
	}

	// Type distribution.
	stats.DeviceTypeDistribution = make(map[string]int)
	for _, s := range t.Shapes {
		stats.DeviceTypeDistribution[string(s.Type)]++
	}
	stats.DeviceTypes = make([]string, 0, len(stats.DeviceTypeDistribution))
	for dt := range stats.DeviceTypeDistribution {
		stats.DeviceTypes = append(stats.DeviceTypes, dt)
	}
	sort.Strings(stats.DeviceTypes)
	stats.MostCommonDeviceType = mostCommonType(stats.DeviceTypes, stats.DeviceTypeDistribution)

	// Core metrics.
	if stats.TotalDevices > 0 {
		stats.AvgConnectionsPerDevice = 2 * float64(stats.TotalConnections) / float64(stats.TotalDevices)
	}
	if stats.TotalDevices >= 2 {
		possible := float64(stats.TotalDevices) * float64(stats.TotalDevices-1) / 2
		stats.NetworkDensity = float64(stats.TotalConnections) / possible
	}

	stats.NetworkType = networkType(stats.TotalDevices, stats.TotalConnections, stats.AvgConnectionsPerDevice)
	stats.RedundancyLevel = redundancyLevel(stats.TotalDevices, stats.TotalConnections, stats.AvgConnectionsPerDevice)
	stats.NetworkSegments = estimateSegments(stats.TotalDevices, stats.TotalConnections, stats.AvgConnectionsPerDevice)

	// Ranked device lists. Built in shape order so ties stay stable.
	var connected []DeviceRef
	for _, s := range t.Shapes {
		deg := degrees[s.ID]
		ref := DeviceRef{ID: s.ID, Name: s.Name, Type: s.Type, Connections: deg}
		if deg == 0 {
			stats.Isolated = append(stats.Isolated, ref)
		} else {
			connected = append(connected, ref)
		}
	}
	sort.SliceStable(connected, func(i, j int) bool {
		return connected[i].Connections > connected[j].Connections
	})
	stats.MostConnected = connected

	for _, ref := range topN(connected, 5) {
		stats.TopConnectedNames = append(stats.TopConnectedNames, ref.Name)
		stats.TopConnectedCounts = append(stats.TopConnectedCounts, ref.Connections)
	}

	stats.TopologyPattern = topologyPattern(connected)
	stats.HighDensity = highDensity(t.Shapes, degrees, connected)

	// Connection views and type counts.
	stats.ConnectionTypes = make(map[string]int)
	stats.Connections = make([]ConnectionView, 0, len(t.Connections))
	for _, conn := range t.Connections {
		stats.ConnectionTypes[string(conn.Type)]++
		view := ConnectionView{Connection: conn, SourceName: conn.SourceID, TargetName: conn.TargetID}
		if s, ok := byID[conn.SourceID]; ok {
			view.SourceName = s.Name
		}
		if s, ok := byID[conn.TargetID]; ok {
			view.TargetName = s.Name
		}
		stats.Connections = append(stats.Connections, view)
	}

	if stats.TotalDevices > 0 && stats.TotalConnections > 0 {
		stats.Segments = []Segment{{
			Name:                "Main Network Segment",
			DeviceCount:         stats.TotalDevices,
			InternalConnections: stats.TotalConnections,
			KeyDevices:          topN(connected, 5),
		}}
	}

	return stats
}

// DevicesByType groups shapes by device type, preserving shape order
// within each group.
func DevicesByType(t *topology.ParsedTopology) map[string][]topology.Shape {
	grouped := make(map[string][]topology.Shape)
	for _, s := range t.Shapes {
		grouped[string(s.Type)] = append(grouped[string(s.Type)], s)
	}
	return grouped
}

// mostCommonType picks the device type with the highest count. Types
// are scanned in sorted order so ties resolve deterministically.
func mostCommonType(types []string, distribution map[string]int) string {
	if len(types) == 0 {
		return "N/A"
	}
	best, bestCount := "", -1
	for _, dt := range types {
		if distribution[dt] > bestCount {
			best, bestCount = dt, distribution[dt]
		}
	}
	return best
}

func networkType(devices, connections int, avg float64) string {
	switch {
	case devices == 0:
		return "empty"
	case connections == 0:
		return "disconnected"
	case avg > 4:
		return "mesh"
	case avg > 2.5:
		return "hybrid"
	case avg > 1.5:
		return "star"
	default:
		return "bus"
	}
}

// topologyPattern classifies the connectivity shape from the degrees of
// connected devices.
func topologyPattern(connected []DeviceRef) string {
	if len(connected) == 0 {
		return "none"
	}

	maxDeg, sum := 0, 0
	allRedundant := true
	for _, ref := range connected {
		if ref.Connections > maxDeg {
			maxDeg = ref.Connections
		}
		if ref.Connections < 2 {
			allRedundant = false
		}
		sum += ref.Connections
	}
	avg := float64(sum) / float64(len(connected))

	switch {
	case float64(maxDeg) > avg*3:
		return "hub_and_spoke"
	case allRedundant:
		return "redundant"
	default:
		return "hierarchical"
	}
}

func redundancyLevel(devices, connections int, avg float64) string {
	if devices == 0 || connections == 0 {
		return "none"
	}
	switch {
	case avg >= 3:
		return "high"
	case avg >= 2:
		return "medium"
	case avg >= 1.5:
		return "low"
	default:
		return "none"
	}
}

// estimateSegments is a documented threshold heuristic, not graph
// partitioning.
func estimateSegments(devices, connections int, avg float64) int {
	if devices == 0 {
		return 0
	}
	if connections == 0 {
		return devices
	}
	switch {
	case avg > 3:
		return 1
	case avg > 1.5:
		return 2
	default:
		return 3
	}
}

// highDensity lists devices whose degree exceeds twice the average
// degree among connected devices, in shape order.
func highDensity(shapes []topology.Shape, degrees map[string]int, connected []DeviceRef) []DeviceRef {
	if len(connected) == 0 {
		return nil
	}
	sum := 0
	for _, ref := range connected {
		sum += ref.Connections
	}
	threshold := 2 * float64(sum) / float64(len(connected))

	var dense []DeviceRef
	for _, s := range shapes {
		if deg := degrees[s.ID]; float64(deg) > threshold {
			dense = append(dense, DeviceRef{ID: s.ID, Name: s.Name, Type: s.Type, Connections: deg})
		}
	}
	return dense
}

func topN(refs []DeviceRef, n int) []DeviceRef {
	if len(refs) < n {
		n = len(refs)
	}
	return refs[:n]
}
