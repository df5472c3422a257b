// Package jsonfile persists the asset inventory as a single JSON document.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fleetlens/fleetlens/internal/domain/asset"
)

// document is the on-disk envelope
type document struct {
	LastUpdated time.Time      `json:"last_updated"`
	TotalAssets int            `json:"total_assets"`
	Assets      []*asset.Asset `json:"assets"`
}

// InventoryStore reads and writes the inventory document. Saves are atomic:
// the document is written to a temp file and renamed into place.
type InventoryStore struct {
	path string
	now  func() time.Time
}

// NewInventoryStore creates a store backed by the given file path
func NewInventoryStore(path string) *InventoryStore {
	return &InventoryStore{path: path, now: func() time.Time { return time.Now().UTC() }}
}

// Load reads the inventory. A missing file is an empty inventory, not an
// error; a corrupt one is an error.
func (s *InventoryStore) Load() ([]*asset.Asset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inventory %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding inventory %s: %w", s.path, err)
	}

	return doc.Assets, nil
}

// Save writes the full inventory document
func (s *InventoryStore) Save(assets []*asset.Asset) error {
	doc := document{
		LastUpdated: s.now(),
		TotalAssets: len(assets),
		Assets:      assets,
	}
	if doc.Assets == nil {
		doc.Assets = []*asset.Asset{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating inventory directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp inventory file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing inventory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing inventory file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing inventory %s: %w", s.path, err)
	}
	return nil
}
