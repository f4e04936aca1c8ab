// Package extensions implements the registration source: the subsystem that
// discovers composites (from a built-in set and from YAML manifests dropped
// into a directory) and delivers lifecycle events to registered handlers.
//
// Delivery contract: events are dispatched synchronously, in order, one at a
// time; every handler runs to completion before the next event is accepted.
// Handlers must not emit events back into the service, but they may use the
// pull queries (ListComposites, ActiveCompositeID) during dispatch.
package extensions

import (
	"sync"

	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/log"
)

// Service is the registration source. It owns the registered-composite list
// and the active-composite id. dispatchMu serializes events end to end so no
// two dispatches interleave; stateMu guards the data and is released before
// handlers run, so handlers can issue pull queries mid-dispatch.
type Service struct {
	dispatchMu sync.Mutex
	stateMu    sync.Mutex

	handlers   []composite.Handler
	registered []composite.Descriptor
	index      map[string]int
	activeID   string
	ready      bool
}

// NewService creates an empty registration source.
func NewService() *Service {
	return &Service{index: make(map[string]int)}
}

// AddHandler subscribes a handler to all subsequent events. Handlers added
// after registrations have been delivered do not receive a replay; wire
// handlers before the first scan.
func (s *Service) AddHandler(h composite.Handler) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.handlers = append(s.handlers, h)
}

func (s *Service) snapshotHandlers() []composite.Handler {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	out := make([]composite.Handler, len(s.handlers))
	copy(out, s.handlers)
	return out
}

// Register records a composite and dispatches a register event. Re-registering
// an id replaces its descriptor and keeps its original position.
func (s *Service) Register(d composite.Descriptor) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	if i, ok := s.index[d.ID]; ok {
		s.registered[i] = d
	} else {
		s.index[d.ID] = len(s.registered)
		s.registered = append(s.registered, d)
	}
	s.stateMu.Unlock()

	log.Debug(log.CatExt, "composite registered", "id", d.ID, "name", d.Name)
	for _, h := range s.snapshotHandlers() {
		h.HandleRegister(d)
	}
}

// Open marks the composite as the active one and dispatches an open event.
func (s *Service) Open(id string) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	s.activeID = id
	s.stateMu.Unlock()

	for _, h := range s.snapshotHandlers() {
		h.HandleOpen(id)
	}
}

// Close clears the active composite if it matches and dispatches a close event.
func (s *Service) Close(id string) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	if s.activeID == id {
		s.activeID = ""
	}
	s.stateMu.Unlock()

	for _, h := range s.snapshotHandlers() {
		h.HandleClose(id)
	}
}

// SetEnablement flips a registered composite's enabled flag and dispatches an
// enablement-change event. Unknown ids still dispatch; the consumer decides
// whether to drop them.
func (s *Service) SetEnablement(id string, enabled bool) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	if i, ok := s.index[id]; ok {
		s.registered[i].Enabled = enabled
	}
	s.stateMu.Unlock()

	for _, h := range s.snapshotHandlers() {
		h.HandleEnablement(id, enabled)
	}
}

// FinishLoading signals that the initial extension scan is complete. The
// signal is delivered at most once; registrations arriving afterwards are
// still dispatched normally.
func (s *Service) FinishLoading() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	if s.ready {
		s.stateMu.Unlock()
		return
	}
	s.ready = true
	count := len(s.registered)
	s.stateMu.Unlock()

	log.Info(log.CatExt, "extension scan complete", "registered", count)
	for _, h := range s.snapshotHandlers() {
		h.HandleExtensionsReady()
	}
}

// Ready reports whether the initial scan has completed.
func (s *Service) Ready() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.ready
}

// ListComposites returns a snapshot of all registered composites in
// registration order.
func (s *Service) ListComposites() []composite.Descriptor {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	out := make([]composite.Descriptor, len(s.registered))
	copy(out, s.registered)
	return out
}

// ActiveCompositeID returns the currently open composite id, if any.
func (s *Service) ActiveCompositeID() (string, bool) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.activeID, s.activeID != ""
}

var _ composite.Source = (*Service)(nil)
