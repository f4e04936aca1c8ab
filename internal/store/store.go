// Package store persists the placeholder composite list between sessions.
//
// The persisted value is versioned JSON stored under a single fixed key: it is
// read once when the coordinator is constructed and written once at shutdown.
// A missing or unreadable record is never fatal; the coordinator treats it as
// "no prior placeholders".
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rcalder/wharf/internal/composite"
)

// Key is the fixed key the placeholder list is stored under.
const Key = "workbench.activity.placeholderComposites"

// FormatVersion is the current version of the serialized record.
const FormatVersion = 1

// Store loads and saves the placeholder composite list.
type Store interface {
	// Load reads the placeholder list. ok is false when no record exists
	// under the fixed key (first run, or legacy-only state).
	Load(ctx context.Context) (placeholders []composite.Placeholder, ok bool, err error)

	// Save writes the placeholder list, replacing any prior record.
	Save(ctx context.Context, placeholders []composite.Placeholder) error

	// Close releases the underlying backend.
	Close() error
}

// record is the serialized envelope.
type record struct {
	Version      int               `json:"version"`
	Placeholders []placeholderJSON `json:"placeholders"`
}

type placeholderJSON struct {
	ID      string `json:"id"`
	IconURL string `json:"iconUrl,omitempty"`
}

// Encode serializes placeholders into the versioned JSON record.
func Encode(placeholders []composite.Placeholder) ([]byte, error) {
	rec := record{Version: FormatVersion, Placeholders: make([]placeholderJSON, 0, len(placeholders))}
	for _, p := range placeholders {
		rec.Placeholders = append(rec.Placeholders, placeholderJSON{
			ID:      p.ID,
			IconURL: string(p.Icon),
		})
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding placeholder record: %w", err)
	}
	return data, nil
}

// Decode parses a versioned JSON record into placeholders.
func Decode(data []byte) ([]composite.Placeholder, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding placeholder record: %w", err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported placeholder record version %d", rec.Version)
	}
	placeholders := make([]composite.Placeholder, 0, len(rec.Placeholders))
	for _, p := range rec.Placeholders {
		if p.ID == "" {
			continue
		}
		placeholders = append(placeholders, composite.Placeholder{
			ID:   p.ID,
			Icon: composite.IconRef(p.IconURL),
		})
	}
	return placeholders, nil
}
