package generate

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// AnswerState distinguishes a value the user supplied from one they
// explicitly marked as unknown, and both from a question never answered.
type AnswerState int

const (
	// AnswerAbsent means the question was never answered.
	AnswerAbsent AnswerState = iota
	// AnswerProvided means the user supplied a concrete value.
	AnswerProvided
	// AnswerDeferred means the user explicitly answered "not sure";
	// the value is left to AI inference and tracked, never stored as
	// literal data.
	AnswerDeferred
)

// Answer is a tri-state supplemental answer.
type Answer struct {
	State AnswerState
	Value string
}

// UnmarshalJSON maps the upstream wire form onto the tri-state: an
// empty string is absent, the literal "not_sure" (in any casing or
// spacing) is deferred, anything else is a provided value.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch normalized := strings.ToLower(strings.TrimSpace(s)); {
	case normalized == "":
		*a = Answer{State: AnswerAbsent}
	case normalized == "not_sure" || normalized == "not sure":
		*a = Answer{State: AnswerDeferred}
	default:
		*a = Answer{State: AnswerProvided, Value: strings.TrimSpace(s)}
	}
	return nil
}

// MarshalJSON writes the wire form back out.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.State {
	case AnswerDeferred:
		return json.Marshal("not_sure")
	case AnswerProvided:
		return json.Marshal(a.Value)
	default:
		return json.Marshal("")
	}
}

// Supplemental is the raw user-supplied answer set from the generate
// request message.
type Supplemental struct {
	NetworkDesign Answer                       `json:"network_design"`
	VLANList      string                       `json:"vlan_list"`
	DeviceDetails map[string]map[string]Answer `json:"device_details"`
	PortChannels  string                       `json:"port_channels"`
	SiteDetails   string                       `json:"site_details"`
}

// VLAN is one record parsed out of the free-text VLAN list.
type VLAN struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SupplementalSummary is the merged view of supplemental answers used
// by renderers: provided values resolved, deferred questions flagged,
// and a running tally of each.
type SupplementalSummary struct {
	NetworkDesign         string
	NetworkDesignDeferred bool

	VLANs []VLAN

	// DeviceOverrides holds per-device field values the user provided.
	DeviceOverrides map[string]map[string]string
	// DeferredDevices lists device IDs with at least one field left to
	// AI inference, sorted for deterministic output.
	DeferredDevices []string

	PortChannels string
	SiteDetails  string

	ProvidedCount int
	DeferredCount int
}

// Summarize resolves the raw answers into a rendering summary.
func (s *Supplemental) Summarize() *SupplementalSummary {
	if s == nil {
		return nil
	}

	sum := &SupplementalSummary{
		VLANs:        ParseVLANList(s.VLANList),
		PortChannels: strings.TrimSpace(s.PortChannels),
		SiteDetails:  strings.TrimSpace(s.SiteDetails),
	}

	switch s.NetworkDesign.State {
	case AnswerProvided:
		sum.NetworkDesign = s.NetworkDesign.Value
		sum.ProvidedCount++
	case AnswerDeferred:
		sum.NetworkDesignDeferred = true
		sum.DeferredCount++
	}
	if s.VLANList != "" {
		sum.ProvidedCount++
	}
	if sum.PortChannels != "" {
		sum.ProvidedCount++
	}
	if sum.SiteDetails != "" {
		sum.ProvidedCount++
	}

	deferred := make(map[string]bool)
	for deviceID, fields := range s.DeviceDetails {
		for field, answer := range fields {
			switch answer.State {
			case AnswerProvided:
				if sum.DeviceOverrides == nil {
					sum.DeviceOverrides = make(map[string]map[string]string)
				}
				if sum.DeviceOverrides[deviceID] == nil {
					sum.DeviceOverrides[deviceID] = make(map[string]string)
				}
				sum.DeviceOverrides[deviceID][field] = answer.Value
				sum.ProvidedCount++
			case AnswerDeferred:
				deferred[deviceID] = true
				sum.DeferredCount++
			}
		}
	}
	for deviceID := range deferred {
		sum.DeferredDevices = append(sum.DeferredDevices, deviceID)
	}
	sort.Strings(sum.DeferredDevices)

	return sum
}

// ParseVLANList parses free-text VLAN answers into records. Each
// non-empty line yields at most one record: the first integer on the
// line is the VLAN ID, the next word the name, the remainder the
// description. Lines without a number are skipped. Separators (:, -,
// commas) and a leading "vlan" keyword are tolerated.
func ParseVLANList(text string) []VLAN {
	var vlans []VLAN
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return unicode.IsSpace(r) || r == ':' || r == '-' || r == ','
		})

		vlan := VLAN{ID: -1}
		var rest []string
		for _, f := range fields {
			if vlan.ID < 0 {
				candidate := strings.TrimPrefix(strings.ToLower(f), "vlan")
				if candidate == "" {
					continue
				}
				if id, err := strconv.Atoi(candidate); err == nil {
					vlan.ID = id
					continue
				}
				if strings.EqualFold(f, "vlan") {
					continue
				}
				// Text before any number is noise on this line.
				continue
			}
			if vlan.Name == "" {
				vlan.Name = f
				continue
			}
			rest = append(rest, f)
		}
		if vlan.ID < 0 {
			continue
		}
		vlan.Description = strings.Join(rest, " ")
		vlans = append(vlans, vlan)
	}
	return vlans
}
