package services

import (
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

// ApplicabilityMatcher decides which policies apply to which devices. A
// policy that does not apply produces no check result at all, as opposed to
// a not_applicable one.
type ApplicabilityMatcher struct {
	enabledTypes      map[policy.Type]bool
	severityThreshold policy.Severity
}

// NewApplicabilityMatcher creates a matcher for the given enabled policy
// types and minimum severity.
func NewApplicabilityMatcher(checkTypes []string, severityThreshold string) *ApplicabilityMatcher {
	enabled := make(map[policy.Type]bool, len(checkTypes))
	for _, t := range checkTypes {
		enabled[policy.ParseType(t)] = true
	}
	return &ApplicabilityMatcher{
		enabledTypes:      enabled,
		severityThreshold: policy.ParseSeverity(severityThreshold),
	}
}

// Matches reports whether the policy applies to the device. The gates run in
// a fixed order: enabled type, platform, scope, severity threshold.
func (m *ApplicabilityMatcher) Matches(p *policy.Policy, rec *device.Record) bool {
	if !m.enabledTypes[p.Type] {
		return false
	}
	if !p.SupportsPlatform(rec.Platform()) {
		return false
	}
	if !m.scopeMatches(p, rec) {
		return false
	}
	return p.Severity.Meets(m.severityThreshold)
}

// ApplicablePolicies filters the catalog down to the policies that apply to
// the device, preserving catalog order.
func (m *ApplicabilityMatcher) ApplicablePolicies(policies []*policy.Policy, rec *device.Record) []*policy.Policy {
	var out []*policy.Policy
	for _, p := range policies {
		if m.Matches(p, rec) {
			out = append(out, p)
		}
	}
	return out
}

func (m *ApplicabilityMatcher) scopeMatches(p *policy.Policy, rec *device.Record) bool {
	if len(p.AppliesTo) == 0 {
		return true
	}

	class := rec.InferClass()
	for _, scope := range p.AppliesTo {
		switch scope {
		case policy.ScopeAllDevices:
			return true
		case policy.ScopeMobileDevices:
			if class == device.ClassMobile || class == device.ClassTablet {
				return true
			}
		case policy.ScopeLaptops:
			if class == device.ClassLaptop {
				return true
			}
		case policy.ScopeDesktops:
			if class == device.ClassDesktop {
				return true
			}
		case policy.ScopeServers:
			if class == device.ClassServer {
				return true
			}
		}
	}
	return false
}
