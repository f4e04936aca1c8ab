package bar

import (
	"sync"

	"github.com/rcalder/wharf/internal/composite"
)

// PairKind tags a ControlPair as built from a live registration or from a
// persisted placeholder.
type PairKind int

const (
	// PairPlaceholder marks a pair built from a remembered composite that
	// has not (re-)registered this session.
	PairPlaceholder PairKind = iota
	// PairLive marks a pair built from a real registration descriptor.
	PairLive
)

func (k PairKind) String() string {
	switch k {
	case PairPlaceholder:
		return "placeholder"
	case PairLive:
		return "live"
	default:
		return "unknown"
	}
}

// ActivityControl is the click-to-activate control of one bar entry.
type ActivityControl struct {
	mu       sync.Mutex
	id       string
	host     Host
	released bool
}

// Invoke activates the composite in the host. No-op after release.
func (c *ActivityControl) Invoke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.host.Activate(c.id)
}

// Release detaches the control from the host. Owned by the ControlPair and
// invoked exactly once at teardown.
func (c *ActivityControl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
}

// Released reports whether the control has been released.
func (c *ActivityControl) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// PinControl is the pin-toggle control of one bar entry.
type PinControl struct {
	mu       sync.Mutex
	id       string
	host     Host
	released bool
}

// Toggle flips the entry's pinned state in the host. No-op after release.
func (c *PinControl) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	if c.host.IsPinned(c.id) {
		c.host.Unpin(c.id)
	} else {
		c.host.Pin(c.id)
	}
}

// Release detaches the control from the host.
func (c *PinControl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
}

// Released reports whether the control has been released.
func (c *PinControl) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// ControlPair is the pair of interactive controls for one composite id.
// Exactly one pair exists per known id; it is created lazily on first access
// and never recreated while live. The pair is an explicit tagged variant: a
// late-arriving registration upgrades a placeholder pair in place instead of
// rebuilding it, so handed-out control references stay valid.
type ControlPair struct {
	id         string
	kind       PairKind
	descriptor composite.Descriptor // zero value unless kind == PairLive
	icon       composite.IconRef
	activity   *ActivityControl
	pin        *PinControl
}

func newLivePair(host Host, d composite.Descriptor) *ControlPair {
	return &ControlPair{
		id:         d.ID,
		kind:       PairLive,
		descriptor: d,
		icon:       d.Icon,
		activity:   &ActivityControl{id: d.ID, host: host},
		pin:        &PinControl{id: d.ID, host: host},
	}
}

func newPlaceholderPair(host Host, id string, icon composite.IconRef) *ControlPair {
	return &ControlPair{
		id:       id,
		kind:     PairPlaceholder,
		icon:     icon,
		activity: &ActivityControl{id: id, host: host},
		pin:      &PinControl{id: id, host: host},
	}
}

// ID returns the composite id the pair belongs to.
func (p *ControlPair) ID() string { return p.id }

// Kind returns the pair's variant tag.
func (p *ControlPair) Kind() PairKind { return p.kind }

// Icon returns the icon reference currently associated with the pair.
func (p *ControlPair) Icon() composite.IconRef { return p.icon }

// Descriptor returns the live registration descriptor. ok is false for
// placeholder pairs.
func (p *ControlPair) Descriptor() (composite.Descriptor, bool) {
	return p.descriptor, p.kind == PairLive
}

// Activity returns the click-to-activate control.
func (p *ControlPair) Activity() *ActivityControl { return p.activity }

// Pin returns the pin-toggle control.
func (p *ControlPair) Pin() *PinControl { return p.pin }

// upgrade applies a registration descriptor to the pair. A placeholder pair
// becomes live; a live pair refreshes its descriptor. A pair never downgrades
// back to placeholder.
func (p *ControlPair) upgrade(d composite.Descriptor) {
	p.kind = PairLive
	p.descriptor = d
	p.icon = d.Icon
}

// release releases both controls. Called exactly once, when the pair is
// removed from the coordinator's map.
func (p *ControlPair) release() {
	p.activity.Release()
	p.pin.Release()
}
