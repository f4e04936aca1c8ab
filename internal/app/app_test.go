package app

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/config"
	"github.com/rcalder/wharf/internal/ui/activitybar"
)

func init() {
	zone.NewGlobal()
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.Defaults()
	cfg.Ephemeral = true
	cfg.ManifestDir = t.TempDir()
	cfg.StatePath = filepath.Join(t.TempDir(), "state.db")

	m, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// scan runs the initial manifest scan synchronously, the way Init's command
// would on the program loop.
func scan(t *testing.T, m *Model) {
	t.Helper()
	require.NoError(t, m.loader.Scan())
	m.ready = true
}

func TestApp_ScanRegistersBuiltins(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)

	ids := m.widget.EntryIDs()
	require.Contains(t, ids, "explorer")
	require.Contains(t, ids, "search")
	require.Contains(t, ids, "scm")
	require.Contains(t, ids, "extensions")
	require.True(t, m.service.Ready())
}

func TestApp_EntryActivation(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)

	_, cmd := m.Update(activitybar.EntryActivatedMsg{ID: "explorer"})
	require.Nil(t, cmd)

	id, ok := m.widget.ActiveID()
	require.True(t, ok)
	require.Equal(t, "explorer", id)

	activeID, ok := m.service.ActiveCompositeID()
	require.True(t, ok)
	require.Equal(t, "explorer", activeID)
}

func TestApp_PinToggle(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)

	// Built-ins start pinned (first-seen default).
	require.True(t, m.widget.IsPinned("explorer"))

	_, cmd := m.Update(activitybar.PinToggledMsg{ID: "explorer"})
	require.Nil(t, cmd)
	require.False(t, m.widget.IsPinned("explorer"))
}

func TestApp_BadgeThroughOverlay(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)

	handle, err := m.Overlay().ShowActivity("scm", &composite.Badge{Content: "4"}, "", 0)
	require.NoError(t, err)

	b, ok := m.widget.Badge("scm")
	require.True(t, ok)
	require.Equal(t, "4", b.Content)

	handle.Release()
	_, ok = m.widget.Badge("scm")
	require.False(t, ok)
}

func TestApp_ViewRendersEntries(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	out := ansi.Strip(m.View())
	require.Contains(t, out, "Explorer")
	require.Contains(t, out, "Accounts")
}

func TestApp_CloseShutsDownCoordinator(t *testing.T) {
	m := newTestModel(t)
	scan(t, m)

	require.NoError(t, m.Close())

	// Events after shutdown are dropped by the coordinator.
	m.service.Register(composite.Descriptor{ID: "late", Name: "Late", Enabled: true})
	require.NotContains(t, m.widget.EntryIDs(), "late")
}
