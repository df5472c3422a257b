package patch

import (
	"fmt"
	"time"

	"github.com/fleetlens/fleetlens/internal/domain/device"
)

// Status is the coarse OS-patch freshness category of a device
type Status string

// Patch statuses
const (
	StatusUpToDate        Status = "up_to_date"
	StatusSecurityUpdates Status = "security_updates_available"
	StatusFeatureUpdates  Status = "feature_updates_available"
	StatusOutdated        Status = "outdated"
	StatusUnsupported     Status = "unsupported"
	StatusUnknown         Status = "unknown"
)

// ParseStatus maps a raw string onto a patch status, defaulting to unknown
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusUpToDate, StatusSecurityUpdates, StatusFeatureUpdates,
		StatusOutdated, StatusUnsupported:
		return Status(s)
	default:
		return StatusUnknown
	}
}

// VulnerabilityLevel is the severity of known unpatched exposure
type VulnerabilityLevel string

// Vulnerability levels
const (
	VulnCritical VulnerabilityLevel = "critical"
	VulnHigh     VulnerabilityLevel = "high"
	VulnMedium   VulnerabilityLevel = "medium"
	VulnLow      VulnerabilityLevel = "low"
	VulnNone     VulnerabilityLevel = "none"
)

// ParseVulnerabilityLevel maps a raw string onto a level, defaulting to none
func ParseVulnerabilityLevel(s string) VulnerabilityLevel {
	switch VulnerabilityLevel(s) {
	case VulnCritical, VulnHigh, VulnMedium, VulnLow:
		return VulnerabilityLevel(s)
	default:
		return VulnNone
	}
}

// OSVersionInfo is the normalized support information for one device's OS
type OSVersionInfo struct {
	OSName        string     `json:"os_name"` // windows, macos, ios, android, linux
	Version       string     `json:"version"`
	BuildNumber   string     `json:"build_number"`
	ReleaseName   string     `json:"release_name"` // e.g. "22H2", "Ventura"
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	EndOfSupport  *time.Time `json:"end_of_support,omitempty"`
	IsSupported   bool       `json:"is_supported"`
	LatestVersion string     `json:"latest_version"`
	LatestBuild   string     `json:"latest_build"`
}

// Observation is the raw patch telemetry for one device, supplied by a
// DataProvider. Keeping it injected keeps the scoring deterministic.
type Observation struct {
	Status                 Status
	Vulnerability          VulnerabilityLevel
	DaysSinceLastPatch     int
	MissingSecurityPatches int
	MissingFeatureUpdates  int
	PendingReboot          bool
}

// DataProvider supplies patch observations for devices. Implementations may
// read device telemetry, an external feed, or a fixture in tests.
type DataProvider interface {
	Observe(rec *device.Record, osInfo *OSVersionInfo) Observation
}

// DeviceStatus is the per-device patch risk evaluation result
type DeviceStatus struct {
	DeviceID               string             `json:"device_id"`
	DeviceName             string             `json:"device_name"`
	OSInfo                 OSVersionInfo      `json:"os_info"`
	PatchStatus            Status             `json:"patch_status"`
	Vulnerability          VulnerabilityLevel `json:"vulnerability_level"`
	DaysSinceLastPatch     int                `json:"days_since_last_patch"`
	MissingSecurityPatches int                `json:"missing_security_patches"`
	MissingFeatureUpdates  int                `json:"missing_feature_updates"`
	PendingReboot          bool               `json:"pending_reboot"`
	LastPatchScan          time.Time          `json:"last_patch_scan"`
	ComplianceScore        float64            `json:"patch_compliance_score"` // 0-100
}

// NeedsAttention reports whether this device should be surfaced for action
func (s *DeviceStatus) NeedsAttention() bool {
	return s.PatchStatus == StatusOutdated ||
		s.PatchStatus == StatusUnsupported ||
		s.Vulnerability == VulnCritical ||
		s.Vulnerability == VulnHigh ||
		s.DaysSinceLastPatch > 30 ||
		s.MissingSecurityPatches > 0
}

// Issues returns the human-readable issue list for an attention device
func (s *DeviceStatus) Issues() []string {
	var issues []string

	switch s.PatchStatus {
	case StatusUnsupported:
		issues = append(issues, "OS unsupported")
	case StatusOutdated:
		issues = append(issues, "OS outdated")
	}

	switch s.Vulnerability {
	case VulnCritical:
		issues = append(issues, "Critical vulnerabilities")
	case VulnHigh:
		issues = append(issues, "High vulnerabilities")
	}

	if s.DaysSinceLastPatch > 30 {
		issues = append(issues, "No patches in 30+ days")
	}
	if s.MissingSecurityPatches > 0 {
		issues = append(issues, fmtMissing(s.MissingSecurityPatches))
	}
	if s.PendingReboot {
		issues = append(issues, "Pending reboot")
	}
	if !s.OSInfo.IsSupported {
		issues = append(issues, "Unsupported OS version")
	}

	return issues
}

func fmtMissing(n int) string {
	return fmt.Sprintf("%d missing security patches", n)
}

// AttentionDevice is one fleet-statistics entry for a device needing action
type AttentionDevice struct {
	DeviceName string   `json:"device_name"`
	OSName     string   `json:"os"`
	Version    string   `json:"version"`
	Issues     []string `json:"issues"`
}

// ScoreBuckets is the fleet score distribution in coarse ranges
type ScoreBuckets struct {
	Excellent90To100 int `json:"excellent_90_100"`
	Good80To89       int `json:"good_80_89"`
	Fair70To79       int `json:"fair_70_79"`
	Poor60To69       int `json:"poor_60_69"`
	CriticalBelow60  int `json:"critical_below_60"`
}

// Statistics is the fleet-wide patch posture roll-up
type Statistics struct {
	TotalDevices              int                        `json:"total_devices"`
	StatusDistribution        map[Status]int             `json:"status_distribution"`
	VulnerabilityDistribution map[VulnerabilityLevel]int `json:"vulnerability_distribution"`
	OSDistribution            map[string]int             `json:"os_distribution"`
	AverageComplianceScore    float64                    `json:"average_compliance_score"`
	MinComplianceScore        float64                    `json:"min_compliance_score"`
	MaxComplianceScore        float64                    `json:"max_compliance_score"`
	ScoreDistribution         ScoreBuckets               `json:"score_distribution"`
	TotalMissingSecurity      int                        `json:"total_missing_security_patches"`
	TotalMissingFeature       int                        `json:"total_missing_feature_updates"`
	AverageDaysSincePatch     float64                    `json:"average_days_since_last_patch"`
	DevicesPendingReboot      int                        `json:"devices_pending_reboot"`
	UnsupportedDevices        int                        `json:"unsupported_devices"`
	AttentionCount            int                        `json:"attention_count"`
	DevicesNeedingAttention   []AttentionDevice          `json:"devices_needing_attention"` // capped at 10

	PatchComplianceRate    float64 `json:"patch_compliance_rate"`
	SecurityComplianceRate float64 `json:"security_compliance_rate"`
	OverallHealth          string  `json:"overall_health"`
}
