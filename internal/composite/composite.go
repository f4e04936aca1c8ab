// Package composite defines the value types and contracts shared between the
// registration source, the lifecycle coordinator, and the activity bar host.
package composite

// IconRef is an opaque reference to an entry's icon. For the terminal host this
// is a glyph or short string, but the coordinator never inspects it.
type IconRef string

// Descriptor is an immutable snapshot of a registered composite, produced by
// the registration source once per registration event.
type Descriptor struct {
	ID      string
	Name    string
	Order   *int
	Icon    IconRef
	Enabled bool
}

// Placeholder is a composite remembered from a previous session that has not
// (re-)registered yet. Only the identity and last-known icon survive restarts.
type Placeholder struct {
	ID   string
	Icon IconRef
}

// Badge is a transient decoration overlaid on a bar entry: an unread count, a
// progress dot, etc. Content is opaque to the coordinator.
type Badge struct {
	Content   string
	ClassName string
	Priority  int
}

// Handler receives registration source events. Handlers are invoked
// synchronously, in delivery order, and run to completion before the next
// event is dispatched. No re-entrancy: a handler must not emit events.
type Handler interface {
	HandleRegister(d Descriptor)
	HandleOpen(id string)
	HandleClose(id string)
	HandleEnablement(id string, enabled bool)
	HandleExtensionsReady()
}

// Source is the pull side of the registration source, consumed by the
// coordinator to answer "what is live right now" questions.
type Source interface {
	// ListComposites returns a snapshot of all currently registered
	// composites in registration order.
	ListComposites() []Descriptor

	// ActiveCompositeID returns the id of the currently open composite,
	// or ok=false when none is open.
	ActiveCompositeID() (string, bool)
}

// GlobalActivityDescriptor describes a fixed, non-composite bar entry (e.g.
// accounts, notifications). The set is discovered once at construction and
// never changes at runtime.
type GlobalActivityDescriptor struct {
	ID   string
	Name string
	Icon IconRef
}

// DefaultGlobalActivities is the static registry snapshot for the built-in
// global activities rendered at the bottom of the bar.
func DefaultGlobalActivities() []GlobalActivityDescriptor {
	return []GlobalActivityDescriptor{
		{ID: "accounts", Name: "Accounts", Icon: "@"},
		{ID: "notifications", Name: "Notifications", Icon: "!"},
		{ID: "settings", Name: "Settings", Icon: "*"},
	}
}
