package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NotEmpty(t, cfg.StatePath)
	require.NotEmpty(t, cfg.ManifestDir)
	require.False(t, cfg.Ephemeral)
	require.Equal(t, 22, cfg.Bar.Width)
	require.Empty(t, cfg.Bar.LegacyPinned)
}

func TestWriteDefaultConfig_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Contains(t, doc, "state_path")
	require.Contains(t, doc, "bar")
	require.Contains(t, doc, "tracing")
}

func TestWriteDefaultConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bar:\n  legacy_pinned: [scm]\n"), 0o644))

	err := WriteDefaultConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	// Existing content untouched.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "legacy_pinned")
}
