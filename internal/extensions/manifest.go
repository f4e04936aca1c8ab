package extensions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcalder/wharf/internal/composite"
)

// Manifest is the on-disk description of one extension-contributed composite.
type Manifest struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Order   *int   `yaml:"order,omitempty"`
	Icon    string `yaml:"icon,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// ParseManifest decodes and validates a single manifest document.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.ID == "" {
		return Manifest{}, fmt.Errorf("manifest missing required field: id")
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return m, nil
}

// LoadManifestFile reads and parses one manifest file.
func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the scanned manifest directory
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Descriptor converts the manifest into a registration descriptor. Enabled
// defaults to true when the manifest omits it.
func (m Manifest) Descriptor() composite.Descriptor {
	enabled := true
	if m.Enabled != nil {
		enabled = *m.Enabled
	}
	return composite.Descriptor{
		ID:      m.ID,
		Name:    m.Name,
		Order:   m.Order,
		Icon:    composite.IconRef(m.Icon),
		Enabled: enabled,
	}
}
