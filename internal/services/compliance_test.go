package services

import (
	"context"
	"testing"

	"github.com/fleetlens/fleetlens/internal/config"
	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/testutil"
)

func engineConfig() config.EngineConfig {
	return config.EngineConfig{
		CheckTypes:        config.DefaultCheckTypes,
		SeverityThreshold: "medium",
		AlertThreshold:    80,
		TopPolicies:       5,
		Parallelism:       4,
	}
}

func TestRunFleet(t *testing.T) {
	svc := NewComplianceService(policy.Default(), engineConfig(), testutil.NewFixedClock(), logger.Nop())

	records := []*device.Record{
		testutil.WindowsRecord(),
		testutil.NonCompliantRecord(),
	}

	report, err := svc.RunFleet(context.Background(), records)
	if err != nil {
		t.Fatalf("RunFleet() error = %v", err)
	}

	if report.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(report.Summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(report.Summaries))
	}

	healthy := report.Summaries["dev-win-001"]
	if healthy.ComplianceScore != 100 {
		t.Errorf("healthy device score = %.1f, want 100", healthy.ComplianceScore)
	}
	if healthy.RequiresAttention {
		t.Errorf("healthy device should not need attention: %v", healthy.AttentionReasons)
	}

	// 5 applicable checks: encryption, password, firewall, antivirus and
	// minimum OS; screen lock is laptop/mobile scoped and this is a desktop.
	broken := report.Summaries["dev-win-002"]
	if broken.TotalChecks != 5 {
		t.Errorf("broken device checks = %d, want 5", broken.TotalChecks)
	}
	if broken.NonCompliantChecks != 4 {
		t.Errorf("broken device non-compliant = %d, want 4", broken.NonCompliantChecks)
	}
	if broken.ComplianceScore != 20 {
		t.Errorf("broken device score = %.1f, want 20", broken.ComplianceScore)
	}
	if broken.CriticalIssues != 1 {
		t.Errorf("broken device critical issues = %d, want 1", broken.CriticalIssues)
	}
	if !broken.RequiresAttention {
		t.Error("broken device should need attention")
	}

	stats := report.Statistics
	if stats.TotalDevices != 2 {
		t.Errorf("TotalDevices = %d, want 2", stats.TotalDevices)
	}
	if stats.DevicesNeedingAttention != 1 {
		t.Errorf("DevicesNeedingAttention = %d, want 1", stats.DevicesNeedingAttention)
	}
	if stats.AverageComplianceScore != 60 {
		t.Errorf("AverageComplianceScore = %.1f, want 60", stats.AverageComplianceScore)
	}
}

func TestRunFleetResultOrderIsStable(t *testing.T) {
	svc := NewComplianceService(policy.Default(), engineConfig(), testutil.NewFixedClock(), logger.Nop())

	records := []*device.Record{
		testutil.WindowsRecord(),
		testutil.MacRecord(),
		testutil.NonCompliantRecord(),
	}

	first, err := svc.RunFleet(context.Background(), records)
	if err != nil {
		t.Fatalf("RunFleet() error = %v", err)
	}
	second, err := svc.RunFleet(context.Background(), records)
	if err != nil {
		t.Fatalf("RunFleet() error = %v", err)
	}

	if len(first.Results) != len(second.Results) {
		t.Fatalf("result counts differ: %d vs %d", len(first.Results), len(second.Results))
	}
	for i := range first.Results {
		if first.Results[i].CheckID != second.Results[i].CheckID {
			t.Fatalf("result order differs at %d: %s vs %s",
				i, first.Results[i].CheckID, second.Results[i].CheckID)
		}
	}
}

func TestRunFleetEmpty(t *testing.T) {
	svc := NewComplianceService(policy.Default(), engineConfig(), testutil.NewFixedClock(), logger.Nop())

	report, err := svc.RunFleet(context.Background(), nil)
	if err != nil {
		t.Fatalf("RunFleet() error = %v", err)
	}
	if report.Statistics.TotalChecks != 0 {
		t.Errorf("TotalChecks = %d, want 0", report.Statistics.TotalChecks)
	}
}

func TestRunFleetCancelled(t *testing.T) {
	svc := NewComplianceService(policy.Default(), engineConfig(), testutil.NewFixedClock(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]*device.Record, 100)
	for i := range records {
		records[i] = testutil.WindowsRecord()
	}

	if _, err := svc.RunFleet(ctx, records); err == nil {
		t.Error("expected context cancellation error")
	}
}

func TestCheckDevice(t *testing.T) {
	svc := NewComplianceService(policy.Default(), engineConfig(), testutil.NewFixedClock(), logger.Nop())

	results := svc.CheckDevice(testutil.MacRecord())
	if len(results) == 0 {
		t.Fatal("expected results for mac device")
	}
	for _, r := range results {
		if r.Status != compliance.StatusCompliant {
			t.Errorf("check %s = %v, want compliant", r.CheckID, r.Status)
		}
	}
}
