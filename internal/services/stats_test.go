package services

import (
	"testing"

	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

func TestBuildFleetStatistics(t *testing.T) {
	results := []compliance.CheckResult{
		{Status: compliance.StatusCompliant, PolicyName: "Firewall Enabled", PolicyType: policy.TypeFirewall, Severity: policy.SeverityHigh},
		{Status: compliance.StatusCompliant, PolicyName: "Device Encryption Requirement", PolicyType: policy.TypeEncryption, Severity: policy.SeverityCritical},
		{Status: compliance.StatusNonCompliant, PolicyName: "Device Encryption Requirement", PolicyType: policy.TypeEncryption, Severity: policy.SeverityCritical},
		{Status: compliance.StatusNonCompliant, PolicyName: "Firewall Enabled", PolicyType: policy.TypeFirewall, Severity: policy.SeverityHigh},
		{Status: compliance.StatusError, PolicyName: "Minimum OS Version", PolicyType: policy.TypeMinimumOS, Severity: policy.SeverityHigh},
	}

	summaries := map[string]*compliance.DeviceSummary{
		"dev-1": {DeviceID: "dev-1", ComplianceScore: 100},
		"dev-2": {DeviceID: "dev-2", ComplianceScore: 50, RequiresAttention: true},
	}

	stats := NewStatsBuilder(5).Build(results, summaries)

	if stats.TotalChecks != 5 {
		t.Errorf("TotalChecks = %d, want 5", stats.TotalChecks)
	}
	if stats.TotalDevices != 2 {
		t.Errorf("TotalDevices = %d, want 2", stats.TotalDevices)
	}
	if stats.DevicesNeedingAttention != 1 {
		t.Errorf("DevicesNeedingAttention = %d, want 1", stats.DevicesNeedingAttention)
	}
	if stats.AverageComplianceScore != 75 {
		t.Errorf("AverageComplianceScore = %.1f, want 75", stats.AverageComplianceScore)
	}
	if stats.ComplianceScoreRange.Min != 50 || stats.ComplianceScoreRange.Max != 100 {
		t.Errorf("score range = %+v, want 50..100", stats.ComplianceScoreRange)
	}
	if stats.ComplianceRate != 50 {
		t.Errorf("ComplianceRate = %.1f, want 50 (error check excluded)", stats.ComplianceRate)
	}
	if stats.SeverityDistribution[policy.SeverityCritical] != 1 {
		t.Errorf("critical severity count = %d, want 1 (non-compliant only)", stats.SeverityDistribution[policy.SeverityCritical])
	}
	if stats.StatusDistribution[compliance.StatusError] != 1 {
		t.Errorf("error count = %d, want 1", stats.StatusDistribution[compliance.StatusError])
	}
}

func TestTopPoliciesRanking(t *testing.T) {
	counts := map[string]int{
		"Password Complexity Requirement": 2,
		"Device Encryption Requirement":   2,
		"Firewall Enabled":                3,
		"Screen Lock Timeout":             1,
	}

	got := topPolicies(counts, 3)

	want := []compliance.PolicyCount{
		{PolicyName: "Firewall Enabled", Count: 3},
		{PolicyName: "Device Encryption Requirement", Count: 2},
		{PolicyName: "Password Complexity Requirement", Count: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ranked[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopPoliciesEmpty(t *testing.T) {
	if got := topPolicies(map[string]int{}, 5); len(got) != 0 {
		t.Errorf("expected empty ranking, got %v", got)
	}
}
