package asset

// Repository persists the full asset inventory as one document. Load on a
// missing store returns an empty slice, not an error.
type Repository interface {
	Load() ([]*Asset, error)
	Save(assets []*Asset) error
}

// IDGenerator mints asset IDs. Implementations must be deterministic for a
// given (assetType, serialNumber) pair so re-ingesting a fleet never forks IDs.
type IDGenerator interface {
	NewID(assetType Type, serialNumber string) string
}
