package bar

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/log"
)

// liveQuerier answers whether a composite id currently has a live control
// pair. Satisfied by *Coordinator.
type liveQuerier interface {
	IsLive(id string) bool
}

var _ liveQuerier = (*Coordinator)(nil)

// ReleaseHandle clears the badge it was issued for. Release is idempotent:
// the first call clears, every later call is a no-op.
type ReleaseHandle struct {
	once sync.Once
	fn   func()
}

// Release clears the badge. Safe to call more than once.
func (h *ReleaseHandle) Release() {
	h.once.Do(h.fn)
}

// GlobalActivityControl holds the badge state of one fixed, non-composite bar
// entry. The set of controls is built once at construction and never changes.
type GlobalActivityControl struct {
	mu    sync.Mutex
	id    string
	name  string
	icon  composite.IconRef
	badge *composite.Badge
}

// ID returns the global activity id.
func (g *GlobalActivityControl) ID() string { return g.id }

// Name returns the display name.
func (g *GlobalActivityControl) Name() string { return g.name }

// Icon returns the icon reference.
func (g *GlobalActivityControl) Icon() composite.IconRef { return g.icon }

// Badge returns the current badge, if set.
func (g *GlobalActivityControl) Badge() (composite.Badge, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.badge == nil {
		return composite.Badge{}, false
	}
	return *g.badge, true
}

func (g *GlobalActivityControl) setBadge(b composite.Badge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.badge = &b
}

func (g *GlobalActivityControl) clearBadge() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.badge = nil
}

// Overlay routes badge requests either to a live composite entry, via the
// host's per-entry badge primitive, or to one of the fixed global activities.
// The global set is a snapshot taken at construction; runtime registration
// never adds to it.
type Overlay struct {
	host    Host
	live    liveQuerier
	globals map[string]*GlobalActivityControl
}

// NewOverlay builds the overlay with the given global activity registry
// snapshot. Pass composite.DefaultGlobalActivities() for the stock set.
func NewOverlay(host Host, live liveQuerier, globals []composite.GlobalActivityDescriptor) *Overlay {
	o := &Overlay{
		host:    host,
		live:    live,
		globals: make(map[string]*GlobalActivityControl, len(globals)),
	}
	for _, g := range globals {
		o.globals[g.ID] = &GlobalActivityControl{id: g.ID, name: g.Name, icon: g.Icon}
	}
	return o
}

// ShowActivity sets a badge on targetID and returns a handle that clears it.
//
// A currently live composite id is delegated to the host, which owns that
// badge's lifetime. Any other id must name a global activity: a nil badge is
// ErrMissingBadge, an id outside the construction-time registry is
// ErrUnknownActivityID. Setting replaces any prior badge for the target.
func (o *Overlay) ShowActivity(targetID string, badge *composite.Badge, className string, priority int) (*ReleaseHandle, error) {
	if o.live.IsLive(targetID) {
		var b composite.Badge
		if badge != nil {
			b = *badge
		}
		applyOverrides(&b, className, priority)
		o.host.SetBadge(targetID, b)
		log.Debug(log.CatBadge, "composite badge set", "id", targetID, "content", b.Content)
		return &ReleaseHandle{fn: func() {
			o.host.ClearBadge(targetID)
			log.Debug(log.CatBadge, "composite badge cleared", "id", targetID)
		}}, nil
	}

	if badge == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBadge, targetID)
	}

	control, ok := o.globals[targetID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActivityID, targetID)
	}

	b := *badge
	applyOverrides(&b, className, priority)
	control.setBadge(b)
	log.Debug(log.CatBadge, "global badge set", "id", targetID, "content", b.Content)

	return &ReleaseHandle{fn: func() {
		control.clearBadge()
		log.Debug(log.CatBadge, "global badge cleared", "id", targetID)
	}}, nil
}

func applyOverrides(b *composite.Badge, className string, priority int) {
	if className != "" {
		b.ClassName = className
	}
	if priority != 0 {
		b.Priority = priority
	}
}

// GlobalBadge returns the current badge for a global activity id, if any.
func (o *Overlay) GlobalBadge(id string) (composite.Badge, bool) {
	control, ok := o.globals[id]
	if !ok {
		return composite.Badge{}, false
	}
	return control.Badge()
}

// GlobalActivityIDs returns the ids of the fixed global activity set, sorted
// for stable rendering.
func (o *Overlay) GlobalActivityIDs() []string {
	ids := make([]string, 0, len(o.globals))
	for id := range o.globals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
