package bar

import "github.com/rcalder/wharf/internal/composite"

// Host is the bar widget the coordinator drives. It owns entry geometry,
// pin/order state, and per-entry badge rendering; the coordinator is its only
// writer. Implementations are keyed by composite id and must treat AddEntry
// as an idempotent upsert and RemoveEntry/ClearBadge as no-ops for unknown ids.
type Host interface {
	AddEntry(d composite.Descriptor)
	RemoveEntry(id string)

	Pin(id string)
	Unpin(id string)
	IsPinned(id string) bool

	Activate(id string)
	Deactivate(id string)

	SetBadge(id string, badge composite.Badge)
	ClearBadge(id string)

	// EntryIDs returns all entry ids in the host-defined display order.
	EntryIDs() []string

	// LegacyStoredIDs returns the ids the host's pre-versioned storage
	// remembers. Used to seed placeholders when no modern record exists.
	LegacyStoredIDs() []string

	// Teardown releases host resources. Called once, from Shutdown.
	Teardown()
}
