package device

import (
	"encoding/json"

	"github.com/fleetlens/fleetlens/internal/pkg/errors"
	"github.com/fleetlens/fleetlens/internal/pkg/validator"
)

// ParseRecords decodes and validates a batch of device records from JSON.
// This is the single ingestion boundary: unrecognized attributes are dropped,
// recognized ones are validated, and records failing validation are rejected
// with field details rather than flowing into the engine.
func ParseRecords(data []byte, v *validator.Validator) ([]*Record, error) {
	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Parse("failed to decode device records", err)
	}

	for i, rec := range records {
		if verrs := v.Validate(rec); len(verrs) > 0 {
			return nil, errors.ValidationError("invalid device record", map[string]interface{}{
				"index":  i,
				"errors": verrs,
			})
		}
	}

	return records, nil
}
