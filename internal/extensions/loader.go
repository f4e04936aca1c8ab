package extensions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/rcalder/wharf/internal/log"
	"github.com/rcalder/wharf/internal/watcher"
)

// Loader scans a manifest directory and feeds the Service. The initial scan
// registers the built-in set first, then every manifest in filename order,
// then signals FinishLoading. Watch delivers manifests dropped in afterwards
// as late registrations.
type Loader struct {
	service *Service
	dir     string
}

// NewLoader creates a loader feeding service from dir. An empty dir skips
// manifest scanning; built-ins still register.
func NewLoader(service *Service, dir string) *Loader {
	return &Loader{service: service, dir: dir}
}

// Scan performs the initial registration pass and signals FinishLoading.
// Unreadable or invalid manifests are skipped with a warning; a missing
// manifest directory is not an error.
func (l *Loader) Scan() error {
	for _, d := range BuiltinComposites() {
		l.service.Register(d)
	}

	if l.dir != "" {
		paths, err := l.manifestPaths()
		if err != nil {
			return err
		}
		for _, path := range paths {
			l.loadOne(path)
		}
	}

	l.service.FinishLoading()
	return nil
}

func (l *Loader) manifestPaths() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !watcher.IsManifest(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// loadOne registers a single manifest, stamping the load with an install
// token so the registration can be correlated across log lines.
func (l *Loader) loadOne(path string) {
	token := uuid.NewString()

	m, err := LoadManifestFile(path)
	if err != nil {
		log.Warn(log.CatExt, "manifest skipped", "path", path, "token", token, "error", err.Error())
		return
	}

	d := m.Descriptor()
	log.Info(log.CatExt, "manifest loaded", "id", d.ID, "path", filepath.Base(path), "token", token)

	if !d.Enabled {
		// Disabled contributions are recorded but not surfaced.
		l.service.Register(d)
		l.service.SetEnablement(d.ID, false)
		return
	}
	l.service.Register(d)
}

// Watch follows the manifest directory until ctx is cancelled, registering
// manifests that appear or change after the initial scan. Returns immediately
// when the loader has no manifest directory.
func (l *Loader) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}

	w, err := watcher.New(watcher.DefaultConfig(l.dir))
	if err != nil {
		return err
	}

	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}

	log.SafeGo("manifest-watch", func() {
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case batch, ok := <-changes:
				if !ok {
					return
				}
				sort.Strings(batch)
				for _, path := range batch {
					l.loadOne(path)
				}
			}
		}
	})

	return nil
}
