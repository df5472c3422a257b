package asset

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Type categorizes an asset
type Type string

// Asset types
const (
	TypeLaptop     Type = "laptop"
	TypeDesktop    Type = "desktop"
	TypeServer     Type = "server"
	TypeTablet     Type = "tablet"
	TypeMobile     Type = "mobile"
	TypeMonitor    Type = "monitor"
	TypePrinter    Type = "printer"
	TypeNetwork    Type = "network"
	TypePeripheral Type = "peripheral"
	TypeOther      Type = "other"
)

// ParseType maps a raw string onto an asset type, defaulting to other
func ParseType(s string) Type {
	switch Type(s) {
	case TypeLaptop, TypeDesktop, TypeServer, TypeTablet, TypeMobile,
		TypeMonitor, TypePrinter, TypeNetwork, TypePeripheral:
		return Type(s)
	default:
		return TypeOther
	}
}

// Status is the lifecycle state of an asset
type Status string

// Asset statuses
const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusRetired     Status = "retired"
	StatusLost        Status = "lost"
	StatusStolen      Status = "stolen"
	StatusUnderRepair Status = "under_repair"
	StatusInStorage   Status = "in_storage"
	StatusUnknown     Status = "unknown"
)

// ParseStatus maps a raw string onto a status, defaulting to unknown
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusRetired, StatusLost,
		StatusStolen, StatusUnderRepair, StatusInStorage:
		return Status(s)
	default:
		return StatusUnknown
	}
}

// WarrantyStatus is recomputed from the warranty end date and "now"
type WarrantyStatus string

// Warranty statuses
const (
	WarrantyActive       WarrantyStatus = "active"
	WarrantyExpired      WarrantyStatus = "expired"
	WarrantyExpiringSoon WarrantyStatus = "expiring_soon"
	WarrantyUnknown      WarrantyStatus = "unknown"
	WarrantyNone         WarrantyStatus = "none"
)

// ParseWarrantyStatus maps a raw string onto a status, defaulting to unknown
func ParseWarrantyStatus(s string) WarrantyStatus {
	switch WarrantyStatus(s) {
	case WarrantyActive, WarrantyExpired, WarrantyExpiringSoon, WarrantyNone:
		return WarrantyStatus(s)
	default:
		return WarrantyUnknown
	}
}

// Asset is one persisted inventory record representing a physical device,
// independent of any single report run. Created when first observed, mutated
// by merge on every subsequent observation, never automatically deleted.
type Asset struct {
	AssetID      string `json:"asset_id"`
	SerialNumber string `json:"serial_number"`
	AssetTag     string `json:"asset_tag,omitempty"`
	DeviceName   string `json:"device_name"`
	AssetType    Type   `json:"asset_type"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	ModelNumber  string `json:"model_number,omitempty"`

	// Assignment
	AssignedTo string `json:"assigned_to"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
	CostCenter string `json:"cost_center,omitempty"`

	// Dates
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	WarrantyEndDate *time.Time `json:"warranty_end_date,omitempty"`
	DeploymentDate  *time.Time `json:"deployment_date,omitempty"`
	LastSeenDate    *time.Time `json:"last_seen_date,omitempty"`

	// Status
	Status            Status         `json:"status"`
	WarrantyStatus    WarrantyStatus `json:"warranty_status"`
	IsManaged         bool           `json:"is_managed"`
	RequiresAttention bool           `json:"requires_attention"`
	AttentionReason   string         `json:"attention_reason,omitempty"`

	// Financial
	PurchasePrice    float64 `json:"purchase_price"`
	CurrentValue     float64 `json:"current_value"`
	DepreciationRate float64 `json:"depreciation_rate"`

	// Technical specs
	Specifications map[string]string `json:"specifications,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// CalculateCurrentValue returns the straight-line depreciated value at the
// given time, floored at 10% of the purchase price.
func (a *Asset) CalculateCurrentValue(now time.Time) float64 {
	if a.PurchaseDate == nil || a.PurchasePrice <= 0 {
		return 0
	}

	yearsOwned := now.Sub(*a.PurchaseDate).Hours() / 24 / 365.25
	if yearsOwned < 0 {
		yearsOwned = 0
	}

	value := a.PurchasePrice * math.Pow(1-a.DepreciationRate, yearsOwned)

	floor := a.PurchasePrice * 0.1
	if value < floor {
		return floor
	}
	return value
}

// CalculateWarrantyStatus derives the warranty status at the given time.
// warningWindow is how close to the warranty end "expiring soon" starts.
func (a *Asset) CalculateWarrantyStatus(now time.Time, warningWindow time.Duration) WarrantyStatus {
	if a.WarrantyEndDate == nil {
		return WarrantyUnknown
	}

	switch {
	case now.After(*a.WarrantyEndDate):
		return WarrantyExpired
	case a.WarrantyEndDate.Sub(now) <= warningWindow:
		return WarrantyExpiringSoon
	default:
		return WarrantyActive
	}
}

// UpdateAttention recomputes the attention flag and reason at the given
// time. attentionWindow is how long an asset may go unseen before flagging;
// warrantyWindow is the "expiring soon" horizon.
func (a *Asset) UpdateAttention(now time.Time, attentionWindow, warrantyWindow time.Duration) {
	var reasons []string

	switch a.CalculateWarrantyStatus(now, warrantyWindow) {
	case WarrantyExpired:
		reasons = append(reasons, "Warranty expired")
	case WarrantyExpiringSoon:
		reasons = append(reasons, "Warranty expiring soon")
	}

	if a.Status == StatusLost || a.Status == StatusStolen {
		reasons = append(reasons, "Asset "+string(a.Status))
	}

	if a.LastSeenDate != nil {
		unseen := now.Sub(*a.LastSeenDate)
		if unseen > attentionWindow {
			days := int(unseen.Hours() / 24)
			reasons = append(reasons, fmt.Sprintf("Not seen in %d days", days))
		}
	}

	if a.Status == StatusActive && a.AssignedTo == "" {
		reasons = append(reasons, "Active but unassigned")
	}

	a.RequiresAttention = len(reasons) > 0
	a.AttentionReason = strings.Join(reasons, "; ")
}

// AgeBuckets is the fleet age distribution measured from purchase date
type AgeBuckets struct {
	Under1Year int `json:"under_1_year"`
	Years1To3  int `json:"years_1_3"`
	Years3To5  int `json:"years_3_5"`
	Over5Years int `json:"over_5_years"`
}

// Summary is the inventory-wide roll-up
type Summary struct {
	TotalAssets         int                    `json:"total_assets"`
	TypeCounts          map[Type]int           `json:"type_counts"`
	StatusCounts        map[Status]int         `json:"status_counts"`
	WarrantyCounts      map[WarrantyStatus]int `json:"warranty_counts"`
	DepartmentCounts    map[string]int         `json:"department_counts"`
	ManagedAssets       int                    `json:"managed_assets"`
	UnmanagedAssets     int                    `json:"unmanaged_assets"`
	TotalPurchaseValue  float64                `json:"total_purchase_value"`
	TotalCurrentValue   float64                `json:"total_current_value"`
	TotalDepreciation   float64                `json:"total_depreciation"`
	AgeDistribution     AgeBuckets             `json:"age_distribution"`
	AssetsNeedingAction int                    `json:"assets_needing_attention"`
	AttentionReasons    map[string]int         `json:"attention_reasons"`
}
