package services

import (
	"fmt"

	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

// Scorer turns a device's check results into a summary with a 0-100 score
// and attention flags.
type Scorer struct {
	alertThreshold float64
}

// NewScorer creates a scorer. alertThreshold is the score below which a
// device picks up a low-score attention reason.
func NewScorer(alertThreshold float64) *Scorer {
	return &Scorer{alertThreshold: alertThreshold}
}

// Summarize builds the device summary from its results. Error and
// not_applicable results are counted but excluded from the score: a device
// with no scorable checks is vacuously compliant at 100.
func (s *Scorer) Summarize(rec *device.Record, results []compliance.CheckResult) *compliance.DeviceSummary {
	summary := &compliance.DeviceSummary{
		DeviceID:   rec.DeviceID,
		DeviceName: rec.DisplayName(),
		Platform:   rec.Platform(),
	}

	for _, r := range results {
		summary.TotalChecks++

		switch r.Status {
		case compliance.StatusCompliant:
			summary.CompliantChecks++
		case compliance.StatusNonCompliant:
			summary.NonCompliantChecks++
			switch r.Severity {
			case policy.SeverityCritical:
				summary.CriticalIssues++
			case policy.SeverityHigh:
				summary.HighIssues++
			case policy.SeverityMedium:
				summary.MediumIssues++
			case policy.SeverityLow:
				summary.LowIssues++
			}
		case compliance.StatusError:
			summary.ErrorChecks++
		}

		if r.Timestamp.After(summary.LastCheck) {
			summary.LastCheck = r.Timestamp
		}
	}

	scorable := summary.CompliantChecks + summary.NonCompliantChecks
	if scorable == 0 {
		summary.ComplianceScore = 100
	} else {
		summary.ComplianceScore = float64(summary.CompliantChecks) / float64(scorable) * 100
	}

	if summary.CriticalIssues > 0 {
		summary.AttentionReasons = append(summary.AttentionReasons,
			fmt.Sprintf("%d critical issue(s)", summary.CriticalIssues))
	}
	if summary.HighIssues > 0 {
		summary.AttentionReasons = append(summary.AttentionReasons,
			fmt.Sprintf("%d high severity issue(s)", summary.HighIssues))
	}
	if summary.ComplianceScore < s.alertThreshold {
		summary.AttentionReasons = append(summary.AttentionReasons,
			fmt.Sprintf("Compliance score below %.0f%%", s.alertThreshold))
	}
	// Any non-compliant check flags the device, even when no severity or
	// score reason applies.
	summary.RequiresAttention = summary.NonCompliantChecks > 0

	return summary
}
