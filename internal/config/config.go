// Package config provides configuration types, defaults, and persistence for
// wharf.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rcalder/wharf/internal/tracing"
)

// Config holds all configuration options for wharf.
type Config struct {
	// StatePath is the SQLite database holding placeholder state.
	// Default: ~/.config/wharf/state.db
	StatePath string `mapstructure:"state_path"`

	// ManifestDir is the directory scanned for extension manifests.
	// Default: ~/.config/wharf/extensions
	ManifestDir string `mapstructure:"manifest_dir"`

	// Ephemeral keeps placeholder state in memory only. Nothing is
	// persisted across sessions.
	Ephemeral bool `mapstructure:"ephemeral"`

	Bar     BarConfig      `mapstructure:"bar"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// BarConfig holds activity bar options.
type BarConfig struct {
	// Width is the bar column width in terminal cells.
	Width int `mapstructure:"width"`

	// LegacyPinned is the pre-versioned pinned-id list. It seeds the
	// placeholder set when no modern placeholder record exists.
	LegacyPinned []string `mapstructure:"legacy_pinned"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	tracingCfg := tracing.DefaultConfig()
	tracingCfg.FilePath = DefaultTracesFilePath()

	return Config{
		StatePath:   DefaultStatePath(),
		ManifestDir: DefaultManifestDir(),
		Bar: BarConfig{
			Width: 22,
		},
		Tracing: tracingCfg,
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wharf/traces.jsonl"
	}
	return filepath.Join(home, ".config", "wharf", "traces", "traces.jsonl")
}

// DefaultStatePath returns ~/.config/wharf/state.db, or a relative fallback
// when the home directory is unavailable.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wharf/state.db"
	}
	return filepath.Join(home, ".config", "wharf", "state.db")
}

// DefaultManifestDir returns ~/.config/wharf/extensions, or a relative
// fallback when the home directory is unavailable.
func DefaultManifestDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wharf/extensions"
	}
	return filepath.Join(home, ".config", "wharf", "extensions")
}

// DefaultLogPath returns the debug log location.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wharf/debug.log"
	}
	return filepath.Join(home, ".config", "wharf", "debug.log")
}

// WriteDefaultConfig writes the default configuration as YAML to path,
// creating parent directories. Refuses to overwrite an existing file.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := Defaults()
	doc := map[string]any{
		"state_path":   defaults.StatePath,
		"manifest_dir": defaults.ManifestDir,
		"ephemeral":    defaults.Ephemeral,
		"bar": map[string]any{
			"width":         defaults.Bar.Width,
			"legacy_pinned": []string{},
		},
		"tracing": map[string]any{
			"enabled":     defaults.Tracing.Enabled,
			"exporter":    defaults.Tracing.Exporter,
			"sample_rate": defaults.Tracing.SampleRate,
		},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: config file is not sensitive
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
