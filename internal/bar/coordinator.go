// Package bar implements the composite lifecycle coordinator and the activity
// badge overlay for the workbench activity bar.
//
// The coordinator reconciles three partially-overlapping sources of truth:
// live registrations arriving from the extension subsystem, placeholders
// persisted from the previous session, and the pin/order state the host
// widget already tracks. It owns the map from composite id to control pair
// and is the only writer of host state.
package bar

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/log"
	"github.com/rcalder/wharf/internal/store"
	"github.com/rcalder/wharf/internal/tracing"
)

// Coordinator owns the composite id -> control pair mapping and drives the
// host. All methods run to completion synchronously; events must be delivered
// one at a time, in order (see internal/extensions). The mutex preserves that
// discipline if the coordinator is ever driven from more than one goroutine.
type Coordinator struct {
	mu sync.Mutex

	host   Host
	source composite.Source
	store  store.Store
	tracer trace.Tracer

	pairs map[string]*ControlPair

	// placeholders is the list recorded at construction. It never changes
	// during a session: it drives the default-pin policy and defines the
	// ghost set cleaned up after extensions finish loading.
	placeholders map[string]composite.Placeholder

	closed bool
}

// NewCoordinator loads the placeholder record (falling back to the host's
// legacy storage when no modern record exists), seeds the host with
// placeholder entries so the bar renders immediately, and returns the
// coordinator ready to receive registration events.
//
// A failed placeholder load is treated as "no prior placeholders", never as a
// fatal error. tracer may be nil.
func NewCoordinator(host Host, source composite.Source, st store.Store, tracer trace.Tracer) *Coordinator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("bar")
	}

	c := &Coordinator{
		host:         host,
		source:       source,
		store:        st,
		tracer:       tracer,
		pairs:        make(map[string]*ControlPair),
		placeholders: make(map[string]composite.Placeholder),
	}

	c.loadPlaceholders()
	c.SeedPlaceholders()

	return c
}

// loadPlaceholders reads the persisted record once, at construction.
func (c *Coordinator) loadPlaceholders() {
	_, span := c.tracer.Start(context.Background(), tracing.SpanStoreLoad)
	defer span.End()

	placeholders, ok, err := c.store.Load(context.Background())
	if err != nil {
		// Unreadable record: start from an empty list rather than fail.
		log.ErrorErr(log.CatStore, "placeholder load failed, starting empty", err)
		return
	}
	if !ok {
		// No modern record: migrate from the host's legacy storage, with
		// no cached icons.
		for _, id := range c.host.LegacyStoredIDs() {
			c.placeholders[id] = composite.Placeholder{ID: id}
		}
		log.Info(log.CatStore, "seeded placeholders from legacy storage", "count", len(c.placeholders))
		return
	}

	for _, p := range placeholders {
		c.placeholders[p.ID] = p
	}
	log.Info(log.CatStore, "loaded placeholders", "count", len(c.placeholders))
}

// SeedPlaceholders adds a host entry for every recorded placeholder that has
// no live descriptor yet, using the cached icon and the id as the display
// name, so the bar renders its last-known layout before extensions load.
// Called once, from the constructor.
func (c *Coordinator) SeedPlaceholders() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(context.Background(), tracing.SpanSeed,
		trace.WithAttributes(attribute.Int(tracing.AttrSeedCount, len(c.placeholders))))
	defer span.End()

	live := make(map[string]struct{})
	for _, d := range c.source.ListComposites() {
		live[d.ID] = struct{}{}
	}

	for id, p := range c.placeholders {
		if _, ok := live[id]; ok {
			continue
		}
		if _, ok := c.pairs[id]; !ok {
			c.pairs[id] = newPlaceholderPair(c.host, id, p.Icon)
		}
		c.host.AddEntry(composite.Descriptor{
			ID:      id,
			Name:    id,
			Icon:    p.Icon,
			Enabled: true,
		})
		log.Debug(log.CatBar, "seeded placeholder entry", "id", id)
	}
}

// AddOrUpdateComposite is an idempotent upsert into the host. A first-ever
// composite (no placeholder recorded for its id) is pinned by default; a
// composite matching a recorded placeholder inherits whatever pin state the
// host already tracks. The currently active composite is pinned and activated
// regardless of prior state.
func (c *Coordinator) AddOrUpdateComposite(d composite.Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		log.Warn(log.CatBar, "registration after shutdown dropped", "id", d.ID)
		return
	}

	_, span := c.tracer.Start(context.Background(), tracing.SpanAddOrUpdate,
		trace.WithAttributes(attribute.String(tracing.AttrCompositeID, d.ID)))
	defer span.End()

	if pair, ok := c.pairs[d.ID]; ok {
		span.SetAttributes(attribute.String(tracing.AttrPairKind, pair.Kind().String()))
		pair.upgrade(d)
	} else {
		span.SetAttributes(attribute.String(tracing.AttrPairKind, PairLive.String()))
		c.pairs[d.ID] = newLivePair(c.host, d)
	}

	c.host.AddEntry(d)

	if _, hadPlaceholder := c.placeholders[d.ID]; !hadPlaceholder {
		// First time this composite has ever been seen: pin by default.
		// A placeholder lost to a storage failure makes a manually
		// unpinned composite look first-seen again; see DESIGN.md.
		c.host.Pin(d.ID)
	}

	if activeID, ok := c.source.ActiveCompositeID(); ok && activeID == d.ID {
		// The active composite is always visible.
		c.host.Pin(d.ID)
		c.host.Activate(d.ID)
	}

	log.Debug(log.CatBar, "composite upserted", "id", d.ID, "name", d.Name)
}

// ControlPair returns the pair for id, creating it lazily: from the live
// descriptor when one is registered, else from the recorded placeholder.
// An id with neither is a programming error (ErrUnknownCompositeID) — the
// host is never asked to render an id without one of the two.
func (c *Coordinator) ControlPair(id string) (*ControlPair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pair, ok := c.pairs[id]; ok {
		return pair, nil
	}

	for _, d := range c.source.ListComposites() {
		if d.ID == id {
			pair := newLivePair(c.host, d)
			c.pairs[id] = pair
			return pair, nil
		}
	}

	if p, ok := c.placeholders[id]; ok {
		pair := newPlaceholderPair(c.host, id, p.Icon)
		c.pairs[id] = pair
		return pair, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownCompositeID, id)
}

// ReconcileAfterExtensionsReady removes every ghost: a recorded placeholder
// whose id gained no live registration. This is the only point a ghost is
// declared gone — extension load order is not deterministic, so absence
// cannot be concluded before the extensions-ready signal.
func (c *Coordinator) ReconcileAfterExtensionsReady() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ghosts []string
	for id := range c.placeholders {
		pair, ok := c.pairs[id]
		if !ok || pair.Kind() == PairPlaceholder {
			ghosts = append(ghosts, id)
		}
	}

	_, span := c.tracer.Start(context.Background(), tracing.SpanReconcile,
		trace.WithAttributes(attribute.Int(tracing.AttrGhostCount, len(ghosts))))
	defer span.End()

	for _, id := range ghosts {
		c.removeLocked(id)
		log.Info(log.CatBar, "ghost removed", "id", id)
	}
}

// RemoveComposite removes the host entry, releases the pair's controls, and
// deletes the map entry. Safe to call for ids with no pair.
func (c *Coordinator) RemoveComposite(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, span := c.tracer.Start(context.Background(), tracing.SpanRemove,
		trace.WithAttributes(attribute.String(tracing.AttrCompositeID, id)))
	defer span.End()

	c.removeLocked(id)
}

func (c *Coordinator) removeLocked(id string) {
	c.host.RemoveEntry(id)
	if pair, ok := c.pairs[id]; ok {
		pair.release()
		delete(c.pairs, id)
	}
}

// EnableComposite handles an enablement-change event turning a composite on.
func (c *Coordinator) EnableComposite(d composite.Descriptor) {
	c.AddOrUpdateComposite(d)
}

// DisableComposite handles an enablement-change event turning a composite off.
func (c *Coordinator) DisableComposite(id string) {
	c.RemoveComposite(id)
}

// IsLive reports whether id has a live control pair.
func (c *Coordinator) IsLive(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pair, ok := c.pairs[id]
	return ok && pair.Kind() == PairLive
}

// PinnedIDs returns the live composite ids, in host-defined order, filtered
// to those currently marked pinned. Read-only.
func (c *Coordinator) PinnedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var pinned []string
	for _, id := range c.host.EntryIDs() {
		pair, ok := c.pairs[id]
		if !ok || pair.Kind() != PairLive {
			continue
		}
		if c.host.IsPinned(id) {
			pinned = append(pinned, id)
		}
	}
	return pinned
}

// SnapshotForPersistence maps every currently live composite to its
// placeholder form, in host order. Called only at shutdown: the snapshot is
// next session's placeholder list.
func (c *Coordinator) SnapshotForPersistence() []composite.Placeholder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() []composite.Placeholder {
	var snapshot []composite.Placeholder
	for _, id := range c.host.EntryIDs() {
		pair, ok := c.pairs[id]
		if !ok || pair.Kind() != PairLive {
			continue
		}
		snapshot = append(snapshot, composite.Placeholder{ID: id, Icon: pair.Icon()})
	}
	return snapshot
}

// Shutdown serializes the current composite set as next session's
// placeholders, releases every control pair, and delegates host teardown.
// No events are accepted afterwards. Idempotent.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	snapshot := c.snapshotLocked()

	_, span := c.tracer.Start(ctx, tracing.SpanShutdown,
		trace.WithAttributes(attribute.Int(tracing.AttrSnapshotSize, len(snapshot))))
	defer span.End()

	saveCtx, saveSpan := c.tracer.Start(ctx, tracing.SpanStoreSave)
	saveErr := c.store.Save(saveCtx, snapshot)
	if saveErr != nil {
		saveSpan.SetAttributes(attribute.String(tracing.AttrErrorMessage, saveErr.Error()))
		log.ErrorErr(log.CatStore, "placeholder snapshot save failed", saveErr)
	}
	saveSpan.End()

	for id, pair := range c.pairs {
		pair.release()
		delete(c.pairs, id)
	}

	c.host.Teardown()

	log.Info(log.CatBar, "coordinator shut down", "snapshot", len(snapshot))
	return saveErr
}

// Handler bridge: the coordinator consumes registration source events.
var _ composite.Handler = (*Coordinator)(nil)

// HandleRegister processes a composite-registered event.
func (c *Coordinator) HandleRegister(d composite.Descriptor) {
	c.AddOrUpdateComposite(d)
}

// HandleOpen processes a composite-opened event.
func (c *Coordinator) HandleOpen(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.host.Activate(id)
}

// HandleClose processes a composite-closed event.
func (c *Coordinator) HandleClose(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.host.Deactivate(id)
}

// HandleEnablement processes an enablement-change event. Enabling requires a
// live descriptor from the source; an enable for an unknown id is dropped
// with a warning.
func (c *Coordinator) HandleEnablement(id string, enabled bool) {
	if !enabled {
		c.DisableComposite(id)
		return
	}
	for _, d := range c.source.ListComposites() {
		if d.ID == id {
			c.EnableComposite(d)
			return
		}
	}
	log.Warn(log.CatBar, "enablement for unregistered composite dropped", "id", id)
}

// HandleExtensionsReady processes the extension-set-loaded signal.
func (c *Coordinator) HandleExtensionsReady() {
	c.ReconcileAfterExtensionsReady()
}
