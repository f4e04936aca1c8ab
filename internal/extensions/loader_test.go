package extensions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParseManifest_Valid(t *testing.T) {
	m, err := ParseManifest([]byte("id: timeline\nname: Timeline\norder: 5\nicon: \"~\"\n"))
	require.NoError(t, err)
	require.Equal(t, "timeline", m.ID)
	require.Equal(t, "Timeline", m.Name)
	require.NotNil(t, m.Order)
	require.Equal(t, 5, *m.Order)

	d := m.Descriptor()
	require.True(t, d.Enabled, "enabled defaults to true")
}

func TestParseManifest_NameDefaultsToID(t *testing.T) {
	m, err := ParseManifest([]byte("id: timeline\n"))
	require.NoError(t, err)
	require.Equal(t, "timeline", m.Name)
}

func TestParseManifest_MissingID(t *testing.T) {
	_, err := ParseManifest([]byte("name: No ID\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "id")
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	_, err := ParseManifest([]byte("id: [unclosed"))
	require.Error(t, err)
}

func TestManifest_DisabledDescriptor(t *testing.T) {
	m, err := ParseManifest([]byte("id: timeline\nenabled: false\n"))
	require.NoError(t, err)
	require.False(t, m.Descriptor().Enabled)
}

func TestLoader_ScanRegistersBuiltinsThenManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "b-timeline.yaml", "id: timeline\nname: Timeline\n")
	writeManifest(t, dir, "a-outline.yaml", "id: outline\nname: Outline\n")
	writeManifest(t, dir, "notes.txt", "not a manifest")

	s := NewService()
	h := &recordingHandler{}
	s.AddHandler(h)

	require.NoError(t, NewLoader(s, dir).Scan())

	// Built-ins first, then manifests in filename order, then ready.
	require.Equal(t, []string{
		"register:explorer",
		"register:search",
		"register:scm",
		"register:extensions",
		"register:outline",
		"register:timeline",
		"ready",
	}, h.events)
	require.True(t, s.Ready())
}

func TestLoader_ScanSkipsInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "bad.yaml", "name: no id here\n")
	writeManifest(t, dir, "good.yaml", "id: good\n")

	s := NewService()
	require.NoError(t, NewLoader(s, dir).Scan())

	list := s.ListComposites()
	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	require.Contains(t, ids, "good")
	require.NotContains(t, ids, "no id here")
}

func TestLoader_ScanMissingDirIsNotFatal(t *testing.T) {
	s := NewService()
	loader := NewLoader(s, filepath.Join(t.TempDir(), "does-not-exist"))

	require.NoError(t, loader.Scan())
	require.True(t, s.Ready())
	require.Len(t, s.ListComposites(), len(BuiltinComposites()))
}

func TestLoader_EmptyDirRegistersOnlyBuiltins(t *testing.T) {
	s := NewService()
	require.NoError(t, NewLoader(s, "").Scan())

	require.Len(t, s.ListComposites(), len(BuiltinComposites()))
	require.True(t, s.Ready())
}

func TestLoader_DisabledManifestRegistersDisabled(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "off.yaml", "id: off\nenabled: false\n")

	s := NewService()
	h := &recordingHandler{}
	s.AddHandler(h)

	require.NoError(t, NewLoader(s, dir).Scan())

	require.Contains(t, h.events, "register:off")
	require.Contains(t, h.events, "disable:off")

	for _, d := range s.ListComposites() {
		if d.ID == "off" {
			require.False(t, d.Enabled)
		}
	}
}
