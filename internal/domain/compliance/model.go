package compliance

import (
	"time"

	"github.com/fleetlens/fleetlens/internal/domain/policy"
)

// Status is the terminal outcome of a single check evaluation
type Status string

// Check statuses
const (
	StatusCompliant     Status = "compliant"
	StatusNonCompliant  Status = "non_compliant"
	StatusError         Status = "error"
	StatusNotApplicable Status = "not_applicable"
	StatusPending       Status = "pending"
)

// ParseStatus maps a raw string onto a check status, defaulting to pending
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusCompliant, StatusNonCompliant, StatusError, StatusNotApplicable:
		return Status(s)
	default:
		return StatusPending
	}
}

// CheckResult is the outcome of evaluating one policy against one device.
// Results are produced per report run and not persisted.
type CheckResult struct {
	CheckID             string          `json:"check_id"`
	PolicyID            string          `json:"policy_id"`
	PolicyName          string          `json:"policy_name"`
	PolicyType          policy.Type     `json:"policy_type"`
	DeviceID            string          `json:"device_id"`
	DeviceName          string          `json:"device_name"`
	Status              Status          `json:"status"`
	Severity            policy.Severity `json:"severity"`
	Details             string          `json:"check_details"`
	ActualValue         string          `json:"actual_value"`
	ExpectedValue       string          `json:"expected_value"`
	Timestamp           time.Time       `json:"timestamp"`
	ErrorMessage        string          `json:"error_message,omitempty"`
	RemediationRequired bool            `json:"remediation_required"`
	RemediationSteps    []string        `json:"remediation_steps,omitempty"`
}

// DeviceSummary aggregates a device's check results
type DeviceSummary struct {
	DeviceID           string    `json:"device_id"`
	DeviceName         string    `json:"device_name"`
	Platform           string    `json:"platform"`
	TotalChecks        int       `json:"total_checks"`
	CompliantChecks    int       `json:"compliant_checks"`
	NonCompliantChecks int       `json:"non_compliant_checks"`
	ErrorChecks        int       `json:"error_checks"`
	ComplianceScore    float64   `json:"compliance_score"` // 0-100
	CriticalIssues     int       `json:"critical_issues"`
	HighIssues         int       `json:"high_issues"`
	MediumIssues       int       `json:"medium_issues"`
	LowIssues          int       `json:"low_issues"`
	LastCheck          time.Time `json:"last_check"`
	RequiresAttention  bool      `json:"requires_attention"`
	AttentionReasons   []string  `json:"attention_reasons,omitempty"`
}

// PolicyCount is one entry of the non-compliant policy ranking
type PolicyCount struct {
	PolicyName string `json:"policy_name"`
	Count      int    `json:"count"`
}

// ScoreRange holds the fleet min/max device scores
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FleetStatistics is the fleet-wide roll-up of a report run
type FleetStatistics struct {
	TotalChecks             int                     `json:"total_checks"`
	StatusDistribution      map[Status]int          `json:"status_distribution"`
	SeverityDistribution    map[policy.Severity]int `json:"severity_distribution"` // non-compliant only
	PolicyTypeDistribution  map[policy.Type]int     `json:"policy_type_distribution"`
	TotalDevices            int                     `json:"total_devices"`
	DevicesNeedingAttention int                     `json:"devices_requiring_attention"`
	AverageComplianceScore  float64                 `json:"average_compliance_score"`
	ComplianceScoreRange    ScoreRange              `json:"compliance_score_range"`
	TopNonCompliantPolicies []PolicyCount           `json:"top_non_compliant_policies"`
	ComplianceRate          float64                 `json:"compliance_rate"`
}

// Report is the full output of one fleet compliance run
type Report struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Results     []CheckResult             `json:"results"`
	Summaries   map[string]*DeviceSummary `json:"summaries"` // keyed by device ID
	Statistics  *FleetStatistics          `json:"statistics"`
}
