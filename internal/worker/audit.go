// Package worker runs scheduled fleet audits.
package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/fleetlens/fleetlens/internal/domain/compliance"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/patch"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/services"
)

// RecordSource supplies the device records for a scheduled audit run.
// Implementations pull from whatever management system fronts the fleet.
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]*device.Record, error)
}

// AuditResult is the combined output of one scheduled audit run
type AuditResult struct {
	Report          *compliance.Report
	PatchStatistics *patch.Statistics
	AssetsProcessed int
}

// AuditRunner runs the full audit pipeline on a cron schedule: compliance
// evaluation, patch posture, then asset inventory merge.
type AuditRunner struct {
	source     RecordSource
	compliance *services.ComplianceService
	patches    *services.PatchService
	assets     *services.AssetService
	schedule   string
	logger     *logger.Logger

	cron    *cron.Cron
	entryID cron.EntryID
}

// NewAuditRunner creates an audit runner with the given cron schedule
func NewAuditRunner(
	source RecordSource,
	complianceSvc *services.ComplianceService,
	patchSvc *services.PatchService,
	assetSvc *services.AssetService,
	schedule string,
	log *logger.Logger,
) *AuditRunner {
	return &AuditRunner{
		source:     source,
		compliance: complianceSvc,
		patches:    patchSvc,
		assets:     assetSvc,
		schedule:   schedule,
		logger:     log,
	}
}

// Start schedules the audit. The first run happens at the next schedule
// tick, not immediately.
func (r *AuditRunner) Start() error {
	r.cron = cron.New()

	id, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			r.logger.ErrorWithErr(err, "scheduled audit run failed")
		}
	})
	if err != nil {
		return err
	}
	r.entryID = id

	r.cron.Start()
	r.logger.Infof("audit runner started with schedule %q", r.schedule)
	return nil
}

// Stop halts the schedule and waits for a running audit to finish
func (r *AuditRunner) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("audit runner stopped")
}

// RunOnce executes one full audit pipeline run
func (r *AuditRunner) RunOnce(ctx context.Context) (*AuditResult, error) {
	records, err := r.source.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}
	r.logger.Infof("audit run starting with %d device records", len(records))

	report, err := r.compliance.RunFleet(ctx, records)
	if err != nil {
		return nil, err
	}

	statuses := r.patches.CheckFleet(records)
	patchStats := r.patches.Statistics(statuses)

	assets, err := r.assets.MergeDevices(records)
	if err != nil {
		return nil, err
	}

	result := &AuditResult{
		Report:          report,
		PatchStatistics: patchStats,
		AssetsProcessed: len(assets),
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id":       report.RunID,
		"devices":      len(records),
		"patch_health": patchStats.OverallHealth,
		"assets":       len(assets),
	}).Info("audit run complete")

	return result, nil
}
