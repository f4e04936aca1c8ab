// Package activitybar renders the vertical launcher bar and implements the
// host interface the lifecycle coordinator drives. The widget owns entry
// geometry, display order, and pin state; the coordinator is its only writer.
package activitybar

import (
	"sort"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rcalder/wharf/internal/bar"
	"github.com/rcalder/wharf/internal/cachemanager"
	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/log"
)

// EntryActivatedMsg is emitted when the user opens an entry (click or enter).
// The app routes it to the entry's activity control.
type EntryActivatedMsg struct{ ID string }

// PinToggledMsg is emitted when the user toggles an entry's pin. The app
// routes it to the entry's pin control.
type PinToggledMsg struct{ ID string }

// entry is one bar cell. seq preserves insertion order as the tiebreaker for
// entries without an explicit order.
type entry struct {
	desc   composite.Descriptor
	pinned bool
	seq    int
}

// Config holds the widget's construction options.
type Config struct {
	// LegacyPinned is the pre-versioned pinned-id list from config, served
	// to the coordinator when no modern placeholder record exists.
	LegacyPinned []string
	Keys         KeyMap
}

// Model is the activity bar widget. Host mutations may arrive from the
// manifest watcher goroutine while Update runs on the program loop, so all
// state is guarded by one mutex.
type Model struct {
	mu sync.Mutex

	entries []*entry
	index   map[string]*entry
	badges  map[string]composite.Badge
	active  string
	nextSeq int

	legacyPinned []string
	keys         KeyMap
	cursor       int
	width        int
	height       int
	tornDown     bool

	cache *cachemanager.InMemoryCacheManager[string, string]
}

// New creates an empty activity bar.
func New(cfg Config) *Model {
	keys := cfg.Keys
	if len(keys.Up.Keys()) == 0 {
		keys = DefaultKeyMap()
	}
	return &Model{
		index:        make(map[string]*entry),
		badges:       make(map[string]composite.Badge),
		legacyPinned: cfg.LegacyPinned,
		keys:         keys,
		width:        defaultWidth,
		cache: cachemanager.NewInMemoryCacheManager[string, string](
			"activitybar-cells",
			cachemanager.DefaultExpiration,
			cachemanager.DefaultCleanupInterval,
		),
	}
}

var _ bar.Host = (*Model)(nil)

// AddEntry upserts an entry. New entries join at the position their
// descriptor order requests; re-added ids update in place.
func (m *Model) AddEntry(d composite.Descriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.index[d.ID]; ok {
		e.desc = d
		m.resortLocked()
		m.invalidateLocked(d.ID)
		return
	}

	e := &entry{desc: d, seq: m.nextSeq}
	m.nextSeq++
	m.index[d.ID] = e
	m.entries = append(m.entries, e)
	m.resortLocked()
	log.Debug(log.CatUI, "bar entry added", "id", d.ID, "entries", len(m.entries))
}

// RemoveEntry removes an entry. No-op for unknown ids.
func (m *Model) RemoveEntry(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[id]; !ok {
		return
	}
	delete(m.index, id)
	delete(m.badges, id)
	for i, e := range m.entries {
		if e.desc.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	if m.active == id {
		m.active = ""
	}
	if m.cursor >= len(m.entries) && m.cursor > 0 {
		m.cursor = len(m.entries) - 1
	}
	m.invalidateLocked(id)
	log.Debug(log.CatUI, "bar entry removed", "id", id)
}

// Pin marks an entry pinned.
func (m *Model) Pin(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.index[id]; ok {
		e.pinned = true
		m.invalidateLocked(id)
	}
}

// Unpin clears an entry's pinned mark.
func (m *Model) Unpin(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.index[id]; ok {
		e.pinned = false
		m.invalidateLocked(id)
	}
}

// IsPinned reports an entry's pinned mark. Unknown ids are unpinned.
func (m *Model) IsPinned(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.index[id]
	return ok && e.pinned
}

// Activate highlights an entry as the open one.
func (m *Model) Activate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.active
	m.active = id
	m.invalidateLocked(prev)
	m.invalidateLocked(id)
}

// Deactivate clears the highlight if id is the open entry.
func (m *Model) Deactivate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == id {
		m.active = ""
		m.invalidateLocked(id)
	}
}

// SetBadge attaches a badge to an entry cell.
func (m *Model) SetBadge(id string, badge composite.Badge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badges[id] = badge
	m.invalidateLocked(id)
}

// ClearBadge removes an entry's badge. No-op for unknown ids.
func (m *Model) ClearBadge(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.badges, id)
	m.invalidateLocked(id)
}

// EntryIDs returns all entry ids in display order.
func (m *Model) EntryIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.entries))
	for i, e := range m.entries {
		ids[i] = e.desc.ID
	}
	return ids
}

// LegacyStoredIDs returns the pre-versioned pinned-id list from config.
func (m *Model) LegacyStoredIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.legacyPinned))
	copy(out, m.legacyPinned)
	return out
}

// Teardown flushes the render cache and stops accepting input.
func (m *Model) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tornDown = true
	_ = m.cache.Flush(contextBG)
	log.Debug(log.CatUI, "bar torn down")
}

// ActiveID returns the currently highlighted entry id, if any.
func (m *Model) ActiveID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// Badge returns the badge attached to an entry, if any.
func (m *Model) Badge(id string) (composite.Badge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.badges[id]
	return b, ok
}

// SetSize updates the widget's layout bounds.
func (m *Model) SetSize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width != m.width {
		_ = m.cache.Flush(contextBG)
	}
	m.width = width
	m.height = height
}

// resortLocked restores display order: explicit order ascending, entries
// without one after, insertion sequence as the tiebreaker.
func (m *Model) resortLocked() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		switch {
		case a.desc.Order != nil && b.desc.Order != nil:
			if *a.desc.Order != *b.desc.Order {
				return *a.desc.Order < *b.desc.Order
			}
			return a.seq < b.seq
		case a.desc.Order != nil:
			return true
		case b.desc.Order != nil:
			return false
		default:
			return a.seq < b.seq
		}
	})
}

// Update handles key and mouse input. Activation and pin toggling are not
// applied directly; they are emitted as messages the app routes through the
// coordinator's controls.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tornDown {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyLocked(msg)
	case tea.MouseMsg:
		return m.handleMouseLocked(msg)
	}
	return nil
}

func (m *Model) handleKeyLocked(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if id, ok := m.cursorIDLocked(); ok {
			return func() tea.Msg { return EntryActivatedMsg{ID: id} }
		}
	case key.Matches(msg, m.keys.TogglePin):
		if id, ok := m.cursorIDLocked(); ok {
			return func() tea.Msg { return PinToggledMsg{ID: id} }
		}
	}
	return nil
}

func (m *Model) handleMouseLocked(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	for i, e := range m.entries {
		id := e.desc.ID
		if z := zone.Get(EntryZoneID(id)); z != nil && z.InBounds(msg) {
			m.cursor = i
			return func() tea.Msg { return EntryActivatedMsg{ID: id} }
		}
	}
	return nil
}

func (m *Model) cursorIDLocked() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return "", false
	}
	return m.entries[m.cursor].desc.ID, true
}
