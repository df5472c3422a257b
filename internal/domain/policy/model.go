package policy

import "strings"

// Type identifies what a policy checks
type Type string

// Policy types
const (
	TypeEncryption Type = "encryption"
	TypePassword   Type = "password"
	TypeFirewall   Type = "firewall"
	TypeAntivirus  Type = "antivirus"
	TypeScreenLock Type = "screen_lock"
	TypeMinimumOS  Type = "minimum_os"
	TypeJailbreak  Type = "jailbreak"
	TypeUnknown    Type = "unknown"
)

// ParseType maps a raw string onto a known policy type, defaulting to
// TypeUnknown so raw strings never flow through the evaluators.
func ParseType(s string) Type {
	switch Type(s) {
	case TypeEncryption, TypePassword, TypeFirewall, TypeAntivirus,
		TypeScreenLock, TypeMinimumOS, TypeJailbreak:
		return Type(s)
	default:
		return TypeUnknown
	}
}

// Severity is the ordinal risk ranking of a policy
type Severity string

// Severity levels
const (
	SeverityCritical      Severity = "critical"
	SeverityHigh          Severity = "high"
	SeverityMedium        Severity = "medium"
	SeverityLow           Severity = "low"
	SeverityInformational Severity = "informational"
)

// ParseSeverity maps a raw string onto a severity, defaulting to informational
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	default:
		return SeverityInformational
	}
}

// Rank returns the numeric ordering used for threshold comparison:
// critical=4 > high=3 > medium=2 > low=1 > informational=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Meets reports whether this severity meets the given threshold
func (s Severity) Meets(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// Scope is a policy applicability scope tag
type Scope string

// Applicability scopes
const (
	ScopeAllDevices    Scope = "all_company_devices"
	ScopeMobileDevices Scope = "all_mobile_devices"
	ScopeLaptops       Scope = "laptops"
	ScopeDesktops      Scope = "desktops"
	ScopeServers       Scope = "servers"
)

// Requirement holds per-platform expected values for a policy
type Requirement struct {
	MinVersion       string            `json:"min_version,omitempty"`
	EncryptionMethod string            `json:"encryption_method,omitempty"`
	Settings         map[string]string `json:"settings,omitempty"`
}

// Policy is a compliance policy definition. Policies are immutable once
// loaded; the catalog is fixed for a process lifetime.
type Policy struct {
	ID               string                 `json:"policy_id"`
	Name             string                 `json:"policy_name"`
	Type             Type                   `json:"policy_type"`
	Description      string                 `json:"description"`
	Requirements     map[string]Requirement `json:"requirements"` // keyed by OS family
	Severity         Severity               `json:"severity"`
	Platforms        []string               `json:"platforms"` // windows, macos, ios, android, linux
	AppliesTo        []Scope                `json:"applies_to"`
	RemediationSteps []string               `json:"remediation_steps"`
	References       []string               `json:"references"`
}

// SupportsPlatform reports whether the device platform string intersects the
// policy's supported platforms. Matching is substring based: an OS report of
// "windows 11 enterprise" matches the "windows" platform.
func (p *Policy) SupportsPlatform(platform string) bool {
	for _, supported := range p.Platforms {
		if supported != "" && strings.Contains(platform, supported) {
			return true
		}
	}
	return false
}

// RequirementFor returns the requirement entry whose platform key is a
// substring of the device platform, if any.
func (p *Policy) RequirementFor(platform string) (Requirement, bool) {
	for key, req := range p.Requirements {
		if strings.Contains(platform, key) {
			return req, true
		}
	}
	return Requirement{}, false
}
