package services

import (
	"testing"

	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/patch"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/testutil"
)

func newPatchService(provider patch.DataProvider) *PatchService {
	clock := testutil.NewFixedClock()
	return NewPatchService(NewOSVersionAnalyzer(clock), provider, clock, logger.Nop())
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		status  patch.Status
		vuln    patch.VulnerabilityLevel
		days    int
		missing int
		want    float64
	}{
		{"clean device", patch.StatusUpToDate, patch.VulnNone, 0, 0, 100},
		{"feature updates pending", patch.StatusFeatureUpdates, patch.VulnMedium, 0, 0, 80},
		{"security updates with high vuln", patch.StatusSecurityUpdates, patch.VulnHigh, 0, 0, 60},
		{"recency bucket over 7", patch.StatusUpToDate, patch.VulnNone, 8, 0, 95},
		{"recency bucket over 14", patch.StatusUpToDate, patch.VulnNone, 15, 0, 90},
		{"recency bucket over 30 only deepest applies", patch.StatusUpToDate, patch.VulnNone, 45, 0, 85},
		{"missing patches capped at 30", patch.StatusUpToDate, patch.VulnNone, 0, 10, 70},
		{"two missing patches", patch.StatusUpToDate, patch.VulnNone, 0, 2, 90},
		{"worst case clamps to zero", patch.StatusUnsupported, patch.VulnCritical, 60, 10, 0},
		{"unknown status", patch.StatusUnknown, patch.VulnNone, 0, 0, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.status, tt.vuln, tt.days, tt.missing); got != tt.want {
				t.Errorf("Score() = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

func TestRecordProviderUnsupportedOverride(t *testing.T) {
	rec := &device.Record{
		DeviceID:           "dev-1",
		ReportedPatchState: "up_to_date",
	}

	obs := RecordProvider{}.Observe(rec, &patch.OSVersionInfo{IsSupported: false})
	if obs.Status != patch.StatusUnsupported {
		t.Errorf("Status = %v, want unsupported override", obs.Status)
	}
	if obs.Vulnerability != patch.VulnCritical {
		t.Errorf("Vulnerability = %v, want critical", obs.Vulnerability)
	}
}

func TestRecordProviderReadsTelemetry(t *testing.T) {
	rec := &device.Record{
		DeviceID:               "dev-1",
		ReportedPatchState:     "security_updates_available",
		ReportedVulnerability:  "high",
		DaysSinceLastPatch:     testutil.IntPtr(12),
		MissingSecurityPatches: 3,
		PendingReboot:          true,
	}

	obs := RecordProvider{}.Observe(rec, &patch.OSVersionInfo{IsSupported: true})
	if obs.Status != patch.StatusSecurityUpdates {
		t.Errorf("Status = %v", obs.Status)
	}
	if obs.Vulnerability != patch.VulnHigh {
		t.Errorf("Vulnerability = %v", obs.Vulnerability)
	}
	if obs.DaysSinceLastPatch != 12 {
		t.Errorf("DaysSinceLastPatch = %d", obs.DaysSinceLastPatch)
	}
	if !obs.PendingReboot {
		t.Error("PendingReboot should carry through")
	}
}

func TestCheckUnsupportedDevice(t *testing.T) {
	svc := newPatchService(nil)

	rec := testutil.NonCompliantRecord() // Windows 10 21H2, past end of support
	st := svc.Check(rec)

	if st.PatchStatus != patch.StatusUnsupported {
		t.Errorf("PatchStatus = %v, want unsupported", st.PatchStatus)
	}
	if st.OSInfo.IsSupported {
		t.Error("OS should be unsupported")
	}
	// 100 - 60 (unsupported) - 30 (critical) = 10
	if st.ComplianceScore != 10 {
		t.Errorf("ComplianceScore = %.1f, want 10", st.ComplianceScore)
	}
	if !st.NeedsAttention() {
		t.Error("unsupported device should need attention")
	}
}

func TestStatistics(t *testing.T) {
	svc := newPatchService(StaticObservation(patch.Observation{
		Status:        patch.StatusUpToDate,
		Vulnerability: patch.VulnNone,
	}))

	records := []*device.Record{
		testutil.WindowsRecord(),
		testutil.MacRecord(),
		testutil.NonCompliantRecord(), // unsupported OS overrides the static observation
	}

	stats := svc.Statistics(svc.CheckFleet(records))

	if stats.TotalDevices != 3 {
		t.Fatalf("TotalDevices = %d, want 3", stats.TotalDevices)
	}
	if stats.StatusDistribution[patch.StatusUpToDate] != 2 {
		t.Errorf("up to date count = %d, want 2", stats.StatusDistribution[patch.StatusUpToDate])
	}
	if stats.StatusDistribution[patch.StatusUnsupported] != 1 {
		t.Errorf("unsupported count = %d, want 1", stats.StatusDistribution[patch.StatusUnsupported])
	}
	if stats.UnsupportedDevices != 1 {
		t.Errorf("UnsupportedDevices = %d, want 1", stats.UnsupportedDevices)
	}
	if stats.AttentionCount != 1 {
		t.Errorf("AttentionCount = %d, want 1", stats.AttentionCount)
	}
	if len(stats.DevicesNeedingAttention) != 1 {
		t.Fatalf("attention list = %v", stats.DevicesNeedingAttention)
	}
	if stats.DevicesNeedingAttention[0].DeviceName != "SALES-DESKTOP-03" {
		t.Errorf("attention device = %q", stats.DevicesNeedingAttention[0].DeviceName)
	}

	// (100 + 100 + 10) / 3 = 70
	if stats.AverageComplianceScore != 70 {
		t.Errorf("AverageComplianceScore = %.1f, want 70", stats.AverageComplianceScore)
	}
	if stats.MinComplianceScore != 10 || stats.MaxComplianceScore != 100 {
		t.Errorf("score range = %.0f..%.0f, want 10..100", stats.MinComplianceScore, stats.MaxComplianceScore)
	}
	if stats.ScoreDistribution.Excellent90To100 != 2 || stats.ScoreDistribution.CriticalBelow60 != 1 {
		t.Errorf("score distribution = %+v", stats.ScoreDistribution)
	}

	// 2 of 3 up to date
	if stats.PatchComplianceRate < 66.6 || stats.PatchComplianceRate > 66.7 {
		t.Errorf("PatchComplianceRate = %.2f", stats.PatchComplianceRate)
	}
	// critical vulnerability share is 33%, average 70: Poor
	if stats.OverallHealth != "Poor" {
		t.Errorf("OverallHealth = %q, want Poor", stats.OverallHealth)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	svc := newPatchService(nil)
	stats := svc.Statistics(nil)
	if stats.TotalDevices != 0 {
		t.Errorf("TotalDevices = %d, want 0", stats.TotalDevices)
	}
}

// StaticObservation adapts a fixed observation into a DataProvider, letting
// the OS support override still apply.
func StaticObservation(obs patch.Observation) patch.DataProvider {
	return staticProvider{obs: obs}
}

type staticProvider struct {
	obs patch.Observation
}

func (p staticProvider) Observe(rec *device.Record, osInfo *patch.OSVersionInfo) patch.Observation {
	out := p.obs
	if !osInfo.IsSupported {
		out.Status = patch.StatusUnsupported
		out.Vulnerability = patch.VulnCritical
	}
	return out
}
