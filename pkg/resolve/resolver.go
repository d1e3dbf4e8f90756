// Package resolve classifies raw diagram shapes into structured device
// descriptions: type, role, vendor, model, management address, location
// and a display name.
//
// Resolution is heuristic. The source diagrams carry no
// semantic device typing, so classification works from ordered keyword
// and pattern tables over the shape's name, text, stencil reference and
// data properties. Resolution never fails: anything the tables do not
// match defaults to unknown or empty, and identical shape content always
// produces the identical DeviceInfo.
package resolve

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Jgiet001-AI/NetDocGen/pkg/topology"
)

// DeviceInfo is the structured description of one resolved device.
type DeviceInfo struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	DisplayName  string              `json:"display_name"`
	Type         topology.DeviceType `json:"device_type"`
	Role         topology.DeviceRole `json:"device_role"`
	Vendor       string              `json:"vendor,omitempty"`
	Model        string              `json:"model,omitempty"`
	ManagementIP string              `json:"management_ip,omitempty"`
	Location     string              `json:"location,omitempty"`
	Description  string              `json:"description,omitempty"`
	Properties   map[string]string   `json:"properties,omitempty"`
}

// Session is the per-parse resolution arena: a cache keyed by shape ID
// that guarantees idempotent resolution within one parse call. Sessions
// are never shared across parse calls and are not safe for concurrent
// use.
type Session struct {
	cache map[string]DeviceInfo
}

// NewSession creates an empty resolution session.
func NewSession() *Session {
	return &Session{cache: make(map[string]DeviceInfo)}
}

// Resolve produces the DeviceInfo for a shape. Repeated calls with the
// same shape ID within one session return the cached result.
func (s *Session) Resolve(shape topology.Shape) DeviceInfo {
	if info, ok := s.cache[shape.ID]; ok {
		return info
	}

	combined := combinedText(shape.Name, shape.Text, shape.Master, shape.Properties)

	info := DeviceInfo{
		ID:           shape.ID,
		Name:         shape.Name,
		Type:         detectType(combined, shape.Master),
		Role:         detectRole(combined),
		Vendor:       detectVendor(combined),
		Model:        extractModel(shape.Name, shape.Text, shape.Master, shape.Properties),
		ManagementIP: extractIP(shape.Text, shape.Properties),
		Location:     extractLocation(shape.Properties),
		Properties:   shape.Properties,
	}
	if info.Name == "" {
		info.Name = "Device_" + shape.ID
	}
	if shape.Text != "" && shape.Text != shape.Name {
		info.Description = shape.Text
	}
	info.DisplayName = displayName(shape.ID, shape.Name, shape.Text, info.Type, info.Role)

	s.cache[shape.ID] = info
	return info
}

// ResolveAll resolves every shape and returns the results keyed by
// shape ID.
func (s *Session) ResolveAll(shapes []topology.Shape) map[string]DeviceInfo {
	devices := make(map[string]DeviceInfo, len(shapes))
	for _, shape := range shapes {
		info := s.Resolve(shape)
		devices[info.ID] = info
	}
	return devices
}

// combinedText joins the classification text sources in lowercase.
// Property values are joined in sorted key order so that map iteration
// can never change the classification.
func combinedText(name, text, master string, properties map[string]string) string {
	parts := []string{strings.ToLower(name), strings.ToLower(text), strings.ToLower(master)}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, strings.ToLower(properties[k]))
	}

	return strings.Join(parts, " ")
}

func detectType(combined, master string) topology.DeviceType {
	for _, rule := range deviceTypeRules {
		if rule.pattern.MatchString(combined) {
			return rule.device
		}
	}

	masterLower := strings.ToLower(master)
	if masterLower != "" {
		for _, rule := range stencilTypeRules {
			for _, kw := range rule.keywords {
				if strings.Contains(masterLower, kw) {
					return rule.device
				}
			}
		}
	}

	return topology.DeviceUnknown
}

func detectRole(combined string) topology.DeviceRole {
	for _, rule := range roleRules {
		if rule.pattern.MatchString(combined) {
			return rule.role
		}
	}
	return topology.RoleUnknown
}

func detectVendor(combined string) string {
	for _, rule := range vendorRules {
		if rule.pattern.MatchString(combined) {
			return rule.vendor
		}
	}
	return ""
}

// extractModel scans name, text, stencil name and property values (in
// sorted key order) for a known model-number pattern.
func extractModel(name, text, master string, properties map[string]string) string {
	sources := []string{name, text, master}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sources = append(sources, properties[k])
	}

	for _, source := range sources {
		if source == "" {
			continue
		}
		for _, pattern := range modelPatterns {
			if m := pattern.FindString(source); m != "" {
				return strings.TrimSpace(m)
			}
		}
	}
	return ""
}

// extractIP checks the property-key aliases first, then free text, for
// a strict dotted-quad address.
func extractIP(text string, properties map[string]string) string {
	for _, key := range ipPropertyKeys {
		if v, ok := properties[key]; ok && v != "" {
			if m := ipPattern.FindString(v); m != "" {
				return m
			}
		}
	}
	if text != "" {
		if m := ipPattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func extractLocation(properties map[string]string) string {
	for _, key := range locationPropertyKeys {
		if v, ok := properties[key]; ok && v != "" {
			return v
		}
	}
	return ""
}

var digitsPattern = regexp.MustCompile(`\d+`)

// displayName prefers an existing non-generic shape name, then
// synthesizes "{Role} {Type} {first number}", then falls back to an
// id-derived placeholder.
func displayName(id, name, text string, dt topology.DeviceType, role topology.DeviceRole) string {
	if name != "" && !strings.HasPrefix(name, "Shape_") && !strings.HasPrefix(name, "shape_") {
		return name
	}

	var parts []string
	if role != topology.RoleUnknown {
		parts = append(parts, titleCase(string(role)))
	}
	if dt != topology.DeviceUnknown {
		parts = append(parts, titleCase(string(dt)))
	}
	if num := digitsPattern.FindString(name + " " + text); num != "" {
		parts = append(parts, num)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	if name != "" {
		return name
	}
	return "Device_" + id
}

// titleCase capitalizes each underscore-separated word, so
// "load_balancer" renders as "Load Balancer".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
