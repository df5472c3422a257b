package services

import (
	"sort"

	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

// StatsBuilder rolls up check results and device summaries into fleet-wide
// statistics.
type StatsBuilder struct {
	topPolicies int
}

// NewStatsBuilder creates a stats builder keeping the top N non-compliant
// policies in the ranking.
func NewStatsBuilder(topPolicies int) *StatsBuilder {
	if topPolicies < 1 {
		topPolicies = 5
	}
	return &StatsBuilder{topPolicies: topPolicies}
}

// Build computes fleet statistics. The severity distribution counts
// non-compliant results only; the compliance rate ignores error and
// not_applicable checks.
func (b *StatsBuilder) Build(results []compliance.CheckResult, summaries map[string]*compliance.DeviceSummary) *compliance.FleetStatistics {
	stats := &compliance.FleetStatistics{
		TotalChecks:            len(results),
		StatusDistribution:     make(map[compliance.Status]int),
		SeverityDistribution:   make(map[policy.Severity]int),
		PolicyTypeDistribution: make(map[policy.Type]int),
		TotalDevices:           len(summaries),
	}

	nonCompliantByPolicy := make(map[string]int)
	for _, r := range results {
		stats.StatusDistribution[r.Status]++
		stats.PolicyTypeDistribution[r.PolicyType]++

		if r.Status == compliance.StatusNonCompliant {
			stats.SeverityDistribution[r.Severity]++
			nonCompliantByPolicy[r.PolicyName]++
		}
	}

	first := true
	var scoreSum float64
	for _, s := range summaries {
		scoreSum += s.ComplianceScore
		if s.RequiresAttention {
			stats.DevicesNeedingAttention++
		}
		if first || s.ComplianceScore < stats.ComplianceScoreRange.Min {
			stats.ComplianceScoreRange.Min = s.ComplianceScore
		}
		if first || s.ComplianceScore > stats.ComplianceScoreRange.Max {
			stats.ComplianceScoreRange.Max = s.ComplianceScore
		}
		first = false
	}
	if len(summaries) > 0 {
		stats.AverageComplianceScore = scoreSum / float64(len(summaries))
	}

	compliant := stats.StatusDistribution[compliance.StatusCompliant]
	nonCompliant := stats.StatusDistribution[compliance.StatusNonCompliant]
	if scorable := compliant + nonCompliant; scorable > 0 {
		stats.ComplianceRate = float64(compliant) / float64(scorable) * 100
	}

	stats.TopNonCompliantPolicies = topPolicies(nonCompliantByPolicy, b.topPolicies)

	return stats
}

// topPolicies ranks policies by non-compliant count descending, breaking
// ties by policy name so the ordering is stable across runs.
func topPolicies(counts map[string]int, n int) []compliance.PolicyCount {
	ranked := make([]compliance.PolicyCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, compliance.PolicyCount{PolicyName: name, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].PolicyName < ranked[j].PolicyName
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
