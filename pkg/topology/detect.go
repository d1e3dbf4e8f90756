package topology

import (
	"regexp"
	"strings"
)

// typeRule maps a compiled pattern to the device type it indicates.
// Rules are evaluated in declaration order; the first match wins, so the
// table order is part of the classification contract.
type typeRule struct {
	pattern *regexp.Regexp
	device  DeviceType
}

// coarseRules is the lightweight keyword table used at extraction time.
// It is intentionally simpler than the resolve package's full rule set:
// the parser only needs a rough type for connection normalization and
// grouping, and anything it misses stays "unknown" until resolution.
var coarseRules = []typeRule{
	{regexp.MustCompile(`\brouter\b`), DeviceRouter},
	{regexp.MustCompile(`\brt\b`), DeviceRouter},
	{regexp.MustCompile(`\bcisco.*router`), DeviceRouter},
	{regexp.MustCompile(`\bjuniper.*router`), DeviceRouter},
	{regexp.MustCompile(`\bmikrotik`), DeviceRouter},
	{regexp.MustCompile(`\bedge.*router`), DeviceRouter},
	{regexp.MustCompile(`\bcore.*router`), DeviceRouter},
	{regexp.MustCompile(`\bbgp`), DeviceRouter},

	{regexp.MustCompile(`\bswitch\b`), DeviceSwitch},
	{regexp.MustCompile(`\bsw\b`), DeviceSwitch},
	{regexp.MustCompile(`\bl2.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\bl3.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\bmanaged.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\bcore.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\bdistribution.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\baccess.*switch`), DeviceSwitch},
	{regexp.MustCompile(`\bcisco.*switch`), DeviceSwitch},

	{regexp.MustCompile(`\bfirewall\b`), DeviceFirewall},
	{regexp.MustCompile(`\bfw\b`), DeviceFirewall},
	{regexp.MustCompile(`\basa\b`), DeviceFirewall},
	{regexp.MustCompile(`\bpalo.*alto`), DeviceFirewall},
	{regexp.MustCompile(`\bfortinet`), DeviceFirewall},
	{regexp.MustCompile(`\bfortigate`), DeviceFirewall},
	{regexp.MustCompile(`\bcheckpoint`), DeviceFirewall},
	{regexp.MustCompile(`\bpfsense`), DeviceFirewall},
	{regexp.MustCompile(`\bsecurity.*appliance`), DeviceFirewall},

	{regexp.MustCompile(`\bserver\b`), DeviceServer},
	{regexp.MustCompile(`\bsrv\b`), DeviceServer},
	{regexp.MustCompile(`\bhost\b`), DeviceServer},
	{regexp.MustCompile(`\bvm\b`), DeviceServer},
	{regexp.MustCompile(`\bwindows.*server`), DeviceServer},
	{regexp.MustCompile(`\blinux.*server`), DeviceServer},
	{regexp.MustCompile(`\besxi`), DeviceServer},
	{regexp.MustCompile(`\bvmware`), DeviceServer},
	{regexp.MustCompile(`\bhyper-v`), DeviceServer},
	{regexp.MustCompile(`\bapp.*server`), DeviceServer},
	{regexp.MustCompile(`\bweb.*server`), DeviceServer},
	{regexp.MustCompile(`\bdatabase.*server`), DeviceServer},
	{regexp.MustCompile(`\bfile.*server`), DeviceServer},

	{regexp.MustCompile(`\bworkstation\b`), DeviceWorkstation},
	{regexp.MustCompile(`\bpc\b`), DeviceWorkstation},
	{regexp.MustCompile(`\bdesktop\b`), DeviceWorkstation},
	{regexp.MustCompile(`\blaptop\b`), DeviceWorkstation},
	{regexp.MustCompile(`\bcomputer\b`), DeviceWorkstation},
	{regexp.MustCompile(`\bclient\b`), DeviceWorkstation},
	{regexp.MustCompile(`\buser.*device`), DeviceWorkstation},
	{regexp.MustCompile(`\bendpoint`), DeviceWorkstation},

	{regexp.MustCompile(`\bcloud\b`), DeviceCloud},
	{regexp.MustCompile(`\baws\b`), DeviceCloud},
	{regexp.MustCompile(`\bazure\b`), DeviceCloud},
	{regexp.MustCompile(`\bgcp\b`), DeviceCloud},
	{regexp.MustCompile(`\binternet\b`), DeviceCloud},
	{regexp.MustCompile(`\bweb\b`), DeviceCloud},
	{regexp.MustCompile(`\bsaas\b`), DeviceCloud},
	{regexp.MustCompile(`\bpaas`), DeviceCloud},
	{regexp.MustCompile(`\biaas`), DeviceCloud},
	{regexp.MustCompile(`\bpublic.*cloud`), DeviceCloud},
	{regexp.MustCompile(`\bprivate.*cloud`), DeviceCloud},
}

// stencilRule keys a stencil-name substring to a device type.
// Checked after the keyword table, against the master name only.
type stencilRule struct {
	substr string
	device DeviceType
}

var stencilRules = []stencilRule{
	{"router", DeviceRouter},
	{"switch", DeviceSwitch},
	{"firewall", DeviceFirewall},
	{"server", DeviceServer},
	{"pc", DeviceWorkstation},
	{"computer", DeviceWorkstation},
	{"cloud", DeviceCloud},
	{"internet", DeviceCloud},
}

// DetectShapeType classifies a shape into a coarse device type from its
// stencil (master) name and text content. Unmatched shapes are unknown,
// never an error. The function is pure: identical input always yields
// the same type.
func DetectShapeType(masterName, text string) DeviceType {
	combined := strings.ToLower(masterName + " " + text)

	for _, rule := range coarseRules {
		if rule.pattern.MatchString(combined) {
			return rule.device
		}
	}

	master := strings.ToLower(masterName)
	for _, rule := range stencilRules {
		if strings.Contains(master, rule.substr) {
			return rule.device
		}
	}

	return DeviceUnknown
}
