// Package testutil provides shared fixtures and fakes for tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/fleetlens/fleetlens/internal/domain/asset"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/domain/patch"
)

// FixedClock always returns the same instant
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// NewFixedClock returns a clock pinned to 2025-06-15T12:00:00Z
func NewFixedClock() FixedClock {
	return FixedClock{Time: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
}

// MockAssetRepository is an in-memory implementation of asset.Repository
type MockAssetRepository struct {
	Assets    []*asset.Asset
	SaveCalls int
	LoadError error
	SaveError error
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{}
}

func (m *MockAssetRepository) Load() ([]*asset.Asset, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return m.Assets, nil
}

func (m *MockAssetRepository) Save(assets []*asset.Asset) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Assets = assets
	return nil
}

// SequentialIDGenerator mints IDs with a counter suffix
type SequentialIDGenerator struct {
	next int
}

func (g *SequentialIDGenerator) NewID(assetType asset.Type, serialNumber string) string {
	g.next++
	return fmt.Sprintf("%s-%s-%04d", assetType, serialNumber, g.next)
}

// StaticPatchProvider returns the same observation for every device
type StaticPatchProvider struct {
	Observation patch.Observation
}

func (p StaticPatchProvider) Observe(rec *device.Record, osInfo *patch.OSVersionInfo) patch.Observation {
	return p.Observation
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to the given int
func IntPtr(n int) *int { return &n }

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time { return &t }

// WindowsRecord returns a fully-populated compliant Windows 11 record
func WindowsRecord() *device.Record {
	sync := time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC)
	return &device.Record{
		DeviceID:        "dev-win-001",
		DeviceName:      "FINANCE-LAPTOP-01",
		OperatingSystem: "Windows",
		OSVersion:       "10.0.22631",
		BuildNumber:     "22631",
		Manufacturer:    "Dell",
		Model:           "Latitude 7440",
		SerialNumber:    "DL744X01",
		IsEncrypted:     BoolPtr(true),
		EncryptionType:  "BitLocker",
		ComplianceState: "compliant",
		ManagementAgent: "mdm",
		AssignedUser:    "alice@example.com",
		Department:      "Finance",
		Location:        "HQ",
		LastSync:        &sync,
	}
}

// MacRecord returns a compliant macOS record
func MacRecord() *device.Record {
	sync := time.Date(2025, 6, 13, 9, 30, 0, 0, time.UTC)
	return &device.Record{
		DeviceID:        "dev-mac-001",
		DeviceName:      "ENG-MACBOOK-07",
		OperatingSystem: "macOS",
		OSVersion:       "14.5",
		Manufacturer:    "Apple",
		Model:           "MacBook Pro 14",
		SerialNumber:    "C02XY1234",
		IsEncrypted:     BoolPtr(true),
		EncryptionType:  "FileVault",
		ComplianceState: "compliant",
		ManagementAgent: "mdm",
		AssignedUser:    "bob@example.com",
		Department:      "Engineering",
		LastSync:        &sync,
	}
}

// NonCompliantRecord returns an unencrypted, non-compliant Windows record
func NonCompliantRecord() *device.Record {
	sync := time.Date(2025, 6, 10, 16, 45, 0, 0, time.UTC)
	return &device.Record{
		DeviceID:        "dev-win-002",
		DeviceName:      "SALES-DESKTOP-03",
		OperatingSystem: "Windows",
		OSVersion:       "10.0.19044",
		BuildNumber:     "19044",
		Manufacturer:    "HP",
		Model:           "EliteDesk 800",
		SerialNumber:    "HP800X03",
		IsEncrypted:     BoolPtr(false),
		ComplianceState: "noncompliant",
		ManagementAgent: "mdm",
		AssignedUser:    "carol@example.com",
		Department:      "Sales",
		LastSync:        &sync,
	}
}
