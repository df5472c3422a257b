package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fleetlens/fleetlens/internal/config"
	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/policy"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/pkg/metrics"
)

// ComplianceService evaluates the policy catalog against device fleets
type ComplianceService struct {
	catalog     *policy.Catalog
	matcher     *ApplicabilityMatcher
	evaluator   *Evaluator
	scorer      *Scorer
	stats       *StatsBuilder
	parallelism int
	clock       Clock
	logger      *logger.Logger
}

// NewComplianceService creates a compliance service from configuration
func NewComplianceService(catalog *policy.Catalog, cfg config.EngineConfig, clock Clock, log *logger.Logger) *ComplianceService {
	return &ComplianceService{
		catalog:     catalog,
		matcher:     NewApplicabilityMatcher(cfg.CheckTypes, cfg.SeverityThreshold),
		evaluator:   NewEvaluator(clock),
		scorer:      NewScorer(cfg.AlertThreshold),
		stats:       NewStatsBuilder(cfg.TopPolicies),
		parallelism: cfg.Parallelism,
		clock:       clock,
		logger:      log,
	}
}

// CheckDevice evaluates every applicable policy against one device
func (s *ComplianceService) CheckDevice(rec *device.Record) []compliance.CheckResult {
	applicable := s.matcher.ApplicablePolicies(s.catalog.List(), rec)

	results := make([]compliance.CheckResult, 0, len(applicable))
	for _, p := range applicable {
		result := s.evaluator.Evaluate(p, rec)
		results = append(results, result)
		metrics.RecordCheck(string(result.PolicyType), string(result.Status))
	}
	return results
}

// RunFleet evaluates the whole fleet and produces a report. Devices are
// evaluated concurrently with a bounded worker pool; result ordering follows
// the input record order regardless of worker scheduling.
func (s *ComplianceService) RunFleet(ctx context.Context, records []*device.Record) (*compliance.Report, error) {
	start := s.clock.Now()

	s.logger.WithFields(map[string]interface{}{
		"devices":  len(records),
		"policies": s.catalog.Len(),
	}).Info("starting fleet compliance run")

	type deviceOutcome struct {
		results []compliance.CheckResult
		summary *compliance.DeviceSummary
	}
	outcomes := make([]deviceOutcome, len(records))

	workers := s.parallelism
	if workers < 1 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := records[i]
				results := s.CheckDevice(rec)
				outcomes[i] = deviceOutcome{
					results: results,
					summary: s.scorer.Summarize(rec, results),
				}
			}
		}()
	}

	for i := range records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	report := &compliance.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: start,
		Summaries:   make(map[string]*compliance.DeviceSummary, len(records)),
	}
	for _, o := range outcomes {
		report.Results = append(report.Results, o.results...)
		if o.summary != nil {
			report.Summaries[o.summary.DeviceID] = o.summary
		}
	}
	report.Statistics = s.stats.Build(report.Results, report.Summaries)

	metrics.RecordComplianceBatch(s.clock.Now().Sub(start))
	metrics.SetAverageComplianceScore(report.Statistics.AverageComplianceScore)
	metrics.SetDevicesRequiringAttention(float64(report.Statistics.DevicesNeedingAttention))

	s.logger.WithFields(map[string]interface{}{
		"run_id":        report.RunID,
		"total_checks":  report.Statistics.TotalChecks,
		"average_score": report.Statistics.AverageComplianceScore,
		"attention":     report.Statistics.DevicesNeedingAttention,
	}).Info("fleet compliance run complete")

	return report, nil
}
