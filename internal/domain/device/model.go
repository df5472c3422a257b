package device

import (
	"strings"
	"time"
)

// Record is the flat per-device attribute record supplied by an external
// inventory collaborator. The engine never fetches it; it arrives pre-fetched.
type Record struct {
	DeviceID        string     `json:"device_id" validate:"required"`
	DeviceName      string     `json:"device_name"`
	OperatingSystem string     `json:"operating_system"`
	OSVersion       string     `json:"os_version"`
	BuildNumber     string     `json:"build_number"`
	Manufacturer    string     `json:"manufacturer"`
	Model           string     `json:"model"`
	SerialNumber    string     `json:"serial_number"`
	IsEncrypted     *bool      `json:"is_encrypted"` // tri-state: nil means unknown
	EncryptionType  string     `json:"encryption_type"`
	ComplianceState string     `json:"compliance_state"`
	ManagementAgent string     `json:"management_agent"`
	AssignedUser    string     `json:"user_principal_name"`
	Department      string     `json:"department"`
	Location        string     `json:"location"`
	LastSync        *time.Time `json:"last_sync_date_time"`
	AppliedPolicies []string   `json:"applied_policies"`

	// Optional patch telemetry, consumed by the record-backed patch provider
	DaysSinceLastPatch     *int   `json:"days_since_last_patch"`
	MissingSecurityPatches int    `json:"missing_security_patches"`
	MissingFeatureUpdates  int    `json:"missing_feature_updates"`
	PendingReboot          bool   `json:"pending_reboot"`
	ReportedPatchState     string `json:"patch_state"`
	ReportedVulnerability  string `json:"vulnerability_level"`
}

// Platform returns the lower-cased OS family string used for matching
func (r *Record) Platform() string {
	return strings.ToLower(r.OperatingSystem)
}

// DisplayName returns the device name, or a stable placeholder
func (r *Record) DisplayName() string {
	if r.DeviceName != "" {
		return r.DeviceName
	}
	return "Unknown"
}

// Class is the inferred device class
type Class string

// Device classes
const (
	ClassMobile  Class = "mobile"
	ClassLaptop  Class = "laptop"
	ClassDesktop Class = "desktop"
	ClassServer  Class = "server"
	ClassTablet  Class = "tablet"
	ClassUnknown Class = "unknown"
)

var (
	laptopNameWords  = []string{"laptop", "notebook", "ultrabook", "macbook", "latitude", "xps", "spectre"}
	desktopNameWords = []string{"desktop", "workstation", "tower", "imac", "optiplex"}
	serverNameWords  = []string{"server", "esxi", "hyper-v"}
	tabletNameWords  = []string{"tablet", "ipad", "surface", "galaxy tab"}
	mobileNameWords  = []string{"phone", "iphone", "android", "galaxy", "pixel"}

	laptopModelWords  = []string{"macbook", "thinkpad", "latitude", "elitebook", "probook"}
	desktopModelWords = []string{"imac", "optiplex", "thinkcentre"}
	tabletModelWords  = []string{"ipad", "surface"}
	mobileModelWords  = []string{"iphone", "galaxy", "pixel"}
)

// InferClass determines the device class using an ordered keyword search:
// device-name keywords first, then model-name keywords, then an OS-based
// guess. The first matching rule wins.
func (r *Record) InferClass() Class {
	name := strings.ToLower(r.DeviceName)
	model := strings.ToLower(r.Model)
	osName := r.Platform()

	switch {
	case containsAny(name, laptopNameWords):
		return ClassLaptop
	case containsAny(name, desktopNameWords):
		return ClassDesktop
	case containsAny(name, serverNameWords):
		return ClassServer
	case containsAny(name, tabletNameWords):
		return ClassTablet
	case containsAny(name, mobileNameWords):
		return ClassMobile
	}

	switch {
	case containsAny(model, laptopModelWords):
		return ClassLaptop
	case containsAny(model, desktopModelWords):
		return ClassDesktop
	case containsAny(model, tabletModelWords):
		return ClassTablet
	case containsAny(model, mobileModelWords):
		return ClassMobile
	}

	switch {
	case strings.Contains(osName, "windows"):
		if strings.Contains(name, "surface") {
			return ClassLaptop
		}
		return ClassDesktop
	case strings.Contains(osName, "mac"):
		if strings.Contains(model, "macbook") {
			return ClassLaptop
		}
		return ClassDesktop
	case strings.Contains(osName, "ios"):
		if strings.Contains(model, "iphone") {
			return ClassMobile
		}
		return ClassTablet
	case strings.Contains(osName, "android"):
		return ClassMobile
	}

	return ClassUnknown
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
