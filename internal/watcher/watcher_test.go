package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsManifest(t *testing.T) {
	require.True(t, IsManifest("git.yaml"))
	require.True(t, IsManifest("/ext/dir/git.YML"))
	require.False(t, IsManifest("notes.txt"))
	require.False(t, IsManifest("git.yaml.bak"))
}

func TestWatcher_ReportsNewManifest(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dir: dir, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	path := filepath.Join(dir, "git.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: git\nname: Git\n"), 0644))

	select {
	case batch := <-changes:
		require.Contains(t, batch, path)
	case <-time.After(2 * time.Second):
		require.Fail(t, "timeout waiting for change batch")
	}
}

func TestWatcher_IgnoresNonManifests(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dir: dir, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0644))

	select {
	case batch := <-changes:
		require.Failf(t, "unexpected batch", "%v", batch)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{Dir: dir, DebounceDur: 100 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("id: a\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("id: b\n"), 0644))

	select {
	case batch := <-changes:
		require.Contains(t, batch, a)
		require.Contains(t, batch, b)
	case <-time.After(2 * time.Second):
		require.Fail(t, "timeout waiting for coalesced batch")
	}
}
