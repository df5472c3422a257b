package services

import (
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/patch"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/pkg/metrics"
)

// RecordProvider derives patch observations from the telemetry fields the
// device record already carries. It is the default provider; deployments
// with a richer patch feed supply their own.
type RecordProvider struct{}

// Observe reads the record's patch telemetry. An unsupported OS overrides
// whatever the agent reported: it is always unsupported with critical
// exposure.
func (RecordProvider) Observe(rec *device.Record, osInfo *patch.OSVersionInfo) patch.Observation {
	obs := patch.Observation{
		Status:                 patch.ParseStatus(rec.ReportedPatchState),
		Vulnerability:          patch.ParseVulnerabilityLevel(rec.ReportedVulnerability),
		MissingSecurityPatches: rec.MissingSecurityPatches,
		MissingFeatureUpdates:  rec.MissingFeatureUpdates,
		PendingReboot:          rec.PendingReboot,
	}
	if rec.DaysSinceLastPatch != nil {
		obs.DaysSinceLastPatch = *rec.DaysSinceLastPatch
	}

	if !osInfo.IsSupported {
		obs.Status = patch.StatusUnsupported
		obs.Vulnerability = patch.VulnCritical
	}

	return obs
}

// PatchService evaluates per-device patch posture and fleet statistics
type PatchService struct {
	analyzer *OSVersionAnalyzer
	provider patch.DataProvider
	clock    Clock
	logger   *logger.Logger
}

// NewPatchService creates a patch service. A nil provider falls back to the
// record-backed one.
func NewPatchService(analyzer *OSVersionAnalyzer, provider patch.DataProvider, clock Clock, log *logger.Logger) *PatchService {
	if provider == nil {
		provider = RecordProvider{}
	}
	return &PatchService{
		analyzer: analyzer,
		provider: provider,
		clock:    clock,
		logger:   log,
	}
}

// Check evaluates one device's patch posture
func (s *PatchService) Check(rec *device.Record) *patch.DeviceStatus {
	osInfo := s.analyzer.Analyze(rec.OperatingSystem, rec.OSVersion, rec.BuildNumber)
	obs := s.provider.Observe(rec, osInfo)

	return &patch.DeviceStatus{
		DeviceID:               rec.DeviceID,
		DeviceName:             rec.DisplayName(),
		OSInfo:                 *osInfo,
		PatchStatus:            obs.Status,
		Vulnerability:          obs.Vulnerability,
		DaysSinceLastPatch:     obs.DaysSinceLastPatch,
		MissingSecurityPatches: obs.MissingSecurityPatches,
		MissingFeatureUpdates:  obs.MissingFeatureUpdates,
		PendingReboot:          obs.PendingReboot,
		LastPatchScan:          s.clock.Now(),
		ComplianceScore: Score(obs.Status, obs.Vulnerability, obs.DaysSinceLastPatch,
			obs.MissingSecurityPatches+obs.MissingFeatureUpdates),
	}
}

// CheckFleet evaluates every device and returns the statuses in input order
func (s *PatchService) CheckFleet(records []*device.Record) []*patch.DeviceStatus {
	s.logger.Infof("checking patch status for %d devices", len(records))

	statuses := make([]*patch.DeviceStatus, 0, len(records))
	for _, rec := range records {
		statuses = append(statuses, s.Check(rec))
	}
	return statuses
}

// Score computes the 0-100 patch compliance score. Penalties are additive
// except the recency deduction, where only the deepest bucket applies.
func Score(status patch.Status, vuln patch.VulnerabilityLevel, daysSincePatch, missingPatches int) float64 {
	score := 100.0

	switch status {
	case patch.StatusUpToDate:
	case patch.StatusFeatureUpdates:
		score -= 10
	case patch.StatusSecurityUpdates:
		score -= 20
	case patch.StatusUnknown:
		score -= 30
	case patch.StatusOutdated:
		score -= 40
	case patch.StatusUnsupported:
		score -= 60
	}

	switch vuln {
	case patch.VulnCritical:
		score -= 30
	case patch.VulnHigh:
		score -= 20
	case patch.VulnMedium:
		score -= 10
	case patch.VulnLow:
		score -= 5
	}

	switch {
	case daysSincePatch > 30:
		score -= 15
	case daysSincePatch > 14:
		score -= 10
	case daysSincePatch > 7:
		score -= 5
	}

	missingPenalty := float64(missingPatches) * 5
	if missingPenalty > 30 {
		missingPenalty = 30
	}
	score -= missingPenalty

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Statistics rolls up device statuses into the fleet posture summary
func (s *PatchService) Statistics(statuses []*patch.DeviceStatus) *patch.Statistics {
	stats := &patch.Statistics{
		TotalDevices:              len(statuses),
		StatusDistribution:        make(map[patch.Status]int),
		VulnerabilityDistribution: make(map[patch.VulnerabilityLevel]int),
		OSDistribution:            make(map[string]int),
	}
	if len(statuses) == 0 {
		return stats
	}

	var scoreSum, daysSum float64
	stats.MinComplianceScore = statuses[0].ComplianceScore
	stats.MaxComplianceScore = statuses[0].ComplianceScore

	for _, st := range statuses {
		stats.StatusDistribution[st.PatchStatus]++
		stats.VulnerabilityDistribution[st.Vulnerability]++
		stats.OSDistribution[st.OSInfo.OSName]++

		scoreSum += st.ComplianceScore
		daysSum += float64(st.DaysSinceLastPatch)
		if st.ComplianceScore < stats.MinComplianceScore {
			stats.MinComplianceScore = st.ComplianceScore
		}
		if st.ComplianceScore > stats.MaxComplianceScore {
			stats.MaxComplianceScore = st.ComplianceScore
		}

		switch {
		case st.ComplianceScore >= 90:
			stats.ScoreDistribution.Excellent90To100++
		case st.ComplianceScore >= 80:
			stats.ScoreDistribution.Good80To89++
		case st.ComplianceScore >= 70:
			stats.ScoreDistribution.Fair70To79++
		case st.ComplianceScore >= 60:
			stats.ScoreDistribution.Poor60To69++
		default:
			stats.ScoreDistribution.CriticalBelow60++
		}

		stats.TotalMissingSecurity += st.MissingSecurityPatches
		stats.TotalMissingFeature += st.MissingFeatureUpdates
		if st.PendingReboot {
			stats.DevicesPendingReboot++
		}
		if !st.OSInfo.IsSupported {
			stats.UnsupportedDevices++
		}

		if st.NeedsAttention() {
			stats.AttentionCount++
			if len(stats.DevicesNeedingAttention) < 10 {
				stats.DevicesNeedingAttention = append(stats.DevicesNeedingAttention, patch.AttentionDevice{
					DeviceName: st.DeviceName,
					OSName:     st.OSInfo.OSName,
					Version:    st.OSInfo.Version,
					Issues:     st.Issues(),
				})
			}
		}
	}

	total := float64(len(statuses))
	stats.AverageComplianceScore = scoreSum / total
	stats.AverageDaysSincePatch = daysSum / total

	upToDate := stats.StatusDistribution[patch.StatusUpToDate]
	securityDue := stats.StatusDistribution[patch.StatusSecurityUpdates]
	outdated := stats.StatusDistribution[patch.StatusOutdated]
	stats.PatchComplianceRate = float64(upToDate) / total * 100
	stats.SecurityComplianceRate = float64(len(statuses)-securityDue-outdated) / total * 100

	criticalPct := float64(stats.VulnerabilityDistribution[patch.VulnCritical]) / total * 100
	stats.OverallHealth = overallHealth(stats.AverageComplianceScore, criticalPct)

	for status, count := range stats.StatusDistribution {
		metrics.SetPatchStatusDevices(string(status), float64(count))
	}
	metrics.SetUnsupportedOSDevices(float64(stats.UnsupportedDevices))

	return stats
}

func overallHealth(avgScore, criticalPct float64) string {
	switch {
	case avgScore >= 90 && criticalPct == 0:
		return "Excellent"
	case avgScore >= 80 && criticalPct < 5:
		return "Good"
	case avgScore >= 70 && criticalPct < 10:
		return "Fair"
	case avgScore >= 60:
		return "Poor"
	default:
		return "Critical"
	}
}
