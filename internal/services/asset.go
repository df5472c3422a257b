package services

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fleetlens/fleetlens/internal/config"
	"github.com/fleetlens/fleetlens/internal/domain/asset"
	"github.com/fleetlens/fleetlens/internal/domain/device"
	"github.com/fleetlens/fleetlens/internal/pkg/logger"
	"github.com/fleetlens/fleetlens/internal/pkg/metrics"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type fnvIDGenerator struct{}

// NewID derives the asset ID from the type and serial number. The suffix is
// a hash of both, so re-ingesting the same device always yields the same ID.
func (fnvIDGenerator) NewID(assetType asset.Type, serialNumber string) string {
	serialPart := strings.ToUpper(serialNumber)
	serialPart = strings.ReplaceAll(serialPart, " ", "X")
	if len(serialPart) > 6 {
		serialPart = serialPart[:6]
	}

	typeCode := strings.ToUpper(string(assetType))
	if len(typeCode) > 3 {
		typeCode = typeCode[:3]
	}

	h := fnv.New32a()
	h.Write([]byte(string(assetType) + ":" + serialNumber))
	sum := h.Sum32()

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = idAlphabet[sum%uint32(len(idAlphabet))]
		sum /= uint32(len(idAlphabet))
	}

	return fmt.Sprintf("%s-%s-%s", typeCode, serialPart, suffix)
}

// DeterministicIDGenerator returns the hash-based asset ID generator
func DeterministicIDGenerator() asset.IDGenerator { return fnvIDGenerator{} }

// Estimated purchase price midpoints per asset type, used when no purchase
// record exists.
var purchasePriceRanges = map[asset.Type][2]float64{
	asset.TypeLaptop:     {800, 2500},
	asset.TypeDesktop:    {500, 1500},
	asset.TypeServer:     {2000, 10000},
	asset.TypeTablet:     {300, 1200},
	asset.TypeMobile:     {300, 1500},
	asset.TypeMonitor:    {200, 1500},
	asset.TypePrinter:    {100, 3000},
	asset.TypeNetwork:    {500, 5000},
	asset.TypePeripheral: {50, 500},
	asset.TypeOther:      {100, 1000},
}

func estimatePurchasePrice(t asset.Type) float64 {
	r, ok := purchasePriceRanges[t]
	if !ok {
		r = [2]float64{100, 1000}
	}
	return (r[0] + r[1]) / 2
}

// AssetService maintains the persisted asset inventory. It is the single
// writer: all mutation goes through the mutex, and the inventory is loaded
// from the repository exactly once per process.
type AssetService struct {
	repo   asset.Repository
	idgen  asset.IDGenerator
	clock  Clock
	cfg    config.InventoryConfig
	logger *logger.Logger

	mu     sync.Mutex
	assets map[string]*asset.Asset
	loaded bool
}

// NewAssetService creates an asset service. A nil idgen falls back to the
// deterministic hash-based one.
func NewAssetService(repo asset.Repository, idgen asset.IDGenerator, cfg config.InventoryConfig, clock Clock, log *logger.Logger) *AssetService {
	if idgen == nil {
		idgen = DeterministicIDGenerator()
	}
	return &AssetService{
		repo:   repo,
		idgen:  idgen,
		clock:  clock,
		cfg:    cfg,
		logger: log,
		assets: make(map[string]*asset.Asset),
	}
}

// ensureLoaded pulls the inventory from the repository once. A load failure
// is logged and treated as an empty inventory so a corrupt store never blocks
// a merge batch.
func (s *AssetService) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true

	assets, err := s.repo.Load()
	if err != nil {
		s.logger.ErrorWithErr(err, "failed to load asset inventory, starting empty")
		return
	}
	for _, a := range assets {
		s.assets[a.AssetID] = a
	}

	s.logger.Infof("loaded %d assets from inventory", len(assets))
}

// MergeDevices folds a batch of device records into the inventory: new
// devices become assets, known devices update in place, and every asset is
// then recomputed and the inventory saved. A save failure is logged but does
// not discard the in-memory merge.
func (s *AssetService) MergeDevices(records []*device.Record) ([]*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	start := s.clock.Now()
	processed := make([]*asset.Asset, 0, len(records))

	for _, rec := range records {
		incoming := s.buildAsset(rec)

		if existing, ok := s.assets[incoming.AssetID]; ok {
			mergeAsset(existing, incoming)
			processed = append(processed, existing)
		} else {
			s.assets[incoming.AssetID] = incoming
			processed = append(processed, incoming)
		}
	}

	now := s.clock.Now()
	attention := 0
	for _, a := range s.assets {
		a.WarrantyStatus = a.CalculateWarrantyStatus(now, s.cfg.WarrantyWarning)
		a.CurrentValue = a.CalculateCurrentValue(now)
		a.UpdateAttention(now, s.cfg.AttentionWindow, s.cfg.WarrantyWarning)
		if a.RequiresAttention {
			attention++
		}
	}

	if err := s.repo.Save(s.snapshot()); err != nil {
		s.logger.ErrorWithErr(err, "failed to save asset inventory")
	}

	metrics.SetAssetsTotal(float64(len(s.assets)))
	metrics.SetAssetsNeedingAttention(float64(attention))
	metrics.RecordMergeBatch(s.clock.Now().Sub(start))

	s.logger.WithFields(map[string]interface{}{
		"processed": len(processed),
		"inventory": len(s.assets),
		"attention": attention,
	}).Info("asset merge complete")

	return processed, nil
}

// buildAsset creates the incoming asset for a device record, filling the
// gaps a fresh record always has: estimated purchase date and price, a one
// year default warranty, and the last sync as the deployment date.
func (s *AssetService) buildAsset(rec *device.Record) *asset.Asset {
	now := s.clock.Now()

	serial := rec.SerialNumber
	if serial == "" {
		id := rec.DeviceID
		if len(id) > 8 {
			id = id[:8]
		}
		serial = "UNKNOWN-" + id
	}

	assetType := determineAssetType(rec)

	deviceName := rec.DeviceName
	if deviceName == "" {
		tail := serial
		if len(tail) > 6 {
			tail = tail[len(tail)-6:]
		}
		deviceName = fmt.Sprintf("%s-%s", assetType, tail)
	}

	a := &asset.Asset{
		AssetID:          s.idgen.NewID(assetType, serial),
		SerialNumber:     serial,
		DeviceName:       deviceName,
		AssetType:        assetType,
		Manufacturer:     orUnknown(rec.Manufacturer),
		Model:            orUnknown(rec.Model),
		AssignedTo:       rec.AssignedUser,
		Department:       rec.Department,
		Location:         rec.Location,
		LastSeenDate:     rec.LastSync,
		Status:           asset.StatusActive,
		IsManaged:        true,
		PurchasePrice:    estimatePurchasePrice(assetType),
		DepreciationRate: s.cfg.DepreciationRate,
		Specifications: map[string]string{
			"operating_system": rec.OperatingSystem,
			"os_version":       rec.OSVersion,
			"management_agent": rec.ManagementAgent,
			"compliance_state": rec.ComplianceState,
			"device_id":        rec.DeviceID,
		},
	}

	warranty := now.Add(365 * 24 * time.Hour)
	a.WarrantyEndDate = &warranty

	purchase := now.Add(-180 * 24 * time.Hour)
	a.PurchaseDate = &purchase

	if rec.LastSync != nil {
		a.DeploymentDate = rec.LastSync
	}

	return a
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// mergeAsset folds an incoming observation into the stored asset. Identity
// and purchase data stay; liveness and assignment follow the observation.
func mergeAsset(existing, incoming *asset.Asset) {
	if incoming.LastSeenDate != nil &&
		(existing.LastSeenDate == nil || incoming.LastSeenDate.After(*existing.LastSeenDate)) {
		existing.LastSeenDate = incoming.LastSeenDate
	}

	if incoming.AssignedTo != "" && incoming.AssignedTo != existing.AssignedTo {
		existing.AssignedTo = incoming.AssignedTo
	}

	if incoming.DeviceName != "" && !strings.Contains(strings.ToLower(incoming.DeviceName), "unknown") {
		existing.DeviceName = incoming.DeviceName
	}

	if existing.Manufacturer == "" || existing.Manufacturer == "Unknown" {
		existing.Manufacturer = incoming.Manufacturer
	}
	if existing.Model == "" || existing.Model == "Unknown" {
		existing.Model = incoming.Model
	}

	existing.IsManaged = true

	if existing.Specifications == nil {
		existing.Specifications = make(map[string]string)
	}
	for k, v := range incoming.Specifications {
		existing.Specifications[k] = v
	}
}

// Asset type keywords. These overlap the device class keywords but cover
// more ground: inventories also track monitors, printers and network gear.
var (
	assetLaptopWords  = []string{"laptop", "notebook", "ultrabook", "latitude", "xps", "spectre"}
	assetDesktopWords = []string{"desktop", "workstation", "tower", "optiplex"}
	assetServerWords  = []string{"server", "esxi", "hyper-v"}
	assetTabletWords  = []string{"tablet", "ipad", "surface", "galaxy tab"}
	assetMobileWords  = []string{"phone", "iphone", "android", "galaxy"}
	assetNetworkWords = []string{"switch", "router", "firewall", "access point"}

	assetLaptopModels  = []string{"macbook", "thinkpad", "latitude", "elitebook", "probook"}
	assetDesktopModels = []string{"imac", "optiplex", "thinkcentre"}
	assetTabletModels  = []string{"ipad", "surface"}
	assetMobileModels  = []string{"iphone", "galaxy", "pixel"}
)

func determineAssetType(rec *device.Record) asset.Type {
	name := strings.ToLower(rec.DeviceName)
	model := strings.ToLower(rec.Model)
	osName := rec.Platform()

	switch {
	case containsAnyWord(name, assetLaptopWords):
		return asset.TypeLaptop
	case containsAnyWord(name, assetDesktopWords):
		return asset.TypeDesktop
	case containsAnyWord(name, assetServerWords):
		return asset.TypeServer
	case containsAnyWord(name, assetTabletWords):
		return asset.TypeTablet
	case containsAnyWord(name, assetMobileWords):
		return asset.TypeMobile
	case strings.Contains(name, "monitor"), strings.Contains(name, "display"):
		return asset.TypeMonitor
	case strings.Contains(name, "printer"):
		return asset.TypePrinter
	case containsAnyWord(name, assetNetworkWords):
		return asset.TypeNetwork
	}

	switch {
	case containsAnyWord(model, assetLaptopModels):
		return asset.TypeLaptop
	case containsAnyWord(model, assetDesktopModels):
		return asset.TypeDesktop
	case containsAnyWord(model, assetTabletModels):
		return asset.TypeTablet
	case containsAnyWord(model, assetMobileModels):
		return asset.TypeMobile
	}

	switch {
	case strings.Contains(osName, "windows"):
		if strings.Contains(name, "surface") {
			return asset.TypeLaptop
		}
		return asset.TypeDesktop
	case strings.Contains(osName, "macos"), strings.Contains(osName, "mac os"):
		if strings.Contains(model, "macbook") {
			return asset.TypeLaptop
		}
		return asset.TypeDesktop
	case strings.Contains(osName, "ios"):
		if strings.Contains(model, "iphone") {
			return asset.TypeMobile
		}
		return asset.TypeTablet
	case strings.Contains(osName, "android"):
		return asset.TypeMobile
	}

	return asset.TypeOther
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// snapshot returns the inventory sorted by asset ID for stable persistence
func (s *AssetService) snapshot() []*asset.Asset {
	out := make([]*asset.Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out
}

// All returns the full inventory sorted by asset ID
func (s *AssetService) All() ([]*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	return s.snapshot(), nil
}

// FindBySerial returns every asset with the given serial number,
// case-insensitively.
func (s *AssetService) FindBySerial(serial string) ([]*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	want := strings.ToLower(serial)
	var out []*asset.Asset
	for _, a := range s.snapshot() {
		if strings.ToLower(a.SerialNumber) == want {
			out = append(out, a)
		}
	}
	return out, nil
}

// FindByUser returns every asset whose assignment contains the username,
// case-insensitively.
func (s *AssetService) FindByUser(username string) ([]*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	want := strings.ToLower(username)
	var out []*asset.Asset
	for _, a := range s.snapshot() {
		if strings.Contains(strings.ToLower(a.AssignedTo), want) {
			out = append(out, a)
		}
	}
	return out, nil
}

// FindDuplicateSerials returns serial numbers claimed by more than one
// asset, for inventory audits.
func (s *AssetService) FindDuplicateSerials() (map[string][]*asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	bySerial := make(map[string][]*asset.Asset)
	for _, a := range s.snapshot() {
		key := strings.ToLower(a.SerialNumber)
		bySerial[key] = append(bySerial[key], a)
	}

	dupes := make(map[string][]*asset.Asset)
	for serial, group := range bySerial {
		if len(group) > 1 && !strings.HasPrefix(serial, "unknown-") {
			dupes[serial] = group
		}
	}
	return dupes, nil
}

// Summary rolls up the inventory
func (s *AssetService) Summary() (*asset.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	now := s.clock.Now()
	summary := &asset.Summary{
		TotalAssets:      len(s.assets),
		TypeCounts:       make(map[asset.Type]int),
		StatusCounts:     make(map[asset.Status]int),
		WarrantyCounts:   make(map[asset.WarrantyStatus]int),
		DepartmentCounts: make(map[string]int),
		AttentionReasons: make(map[string]int),
	}

	for _, a := range s.assets {
		summary.TypeCounts[a.AssetType]++
		summary.StatusCounts[a.Status]++
		summary.WarrantyCounts[a.WarrantyStatus]++
		if a.Department != "" {
			summary.DepartmentCounts[a.Department]++
		}

		if a.IsManaged {
			summary.ManagedAssets++
		} else {
			summary.UnmanagedAssets++
		}

		summary.TotalPurchaseValue += a.PurchasePrice
		summary.TotalCurrentValue += a.CurrentValue
		summary.TotalDepreciation += a.PurchasePrice - a.CurrentValue

		if a.PurchaseDate != nil {
			years := now.Sub(*a.PurchaseDate).Hours() / 24 / 365.25
			switch {
			case years < 1:
				summary.AgeDistribution.Under1Year++
			case years < 3:
				summary.AgeDistribution.Years1To3++
			case years < 5:
				summary.AgeDistribution.Years3To5++
			default:
				summary.AgeDistribution.Over5Years++
			}
		}

		if a.RequiresAttention {
			summary.AssetsNeedingAction++
			for _, reason := range strings.Split(a.AttentionReason, "; ") {
				if reason != "" {
					summary.AttentionReasons[reason]++
				}
			}
		}
	}

	return summary, nil
}
