package bar

import "errors"

// Coordinator and overlay errors. All three are programming-error conditions
// surfaced fail-fast; swallowing them would corrupt the one-pair-per-id
// invariant.
var (
	// ErrMissingBadge is returned when a global activity badge call carries
	// no badge payload.
	ErrMissingBadge = errors.New("missing badge payload")

	// ErrUnknownActivityID is returned when a badge call targets a global
	// activity id that was not in the static registry at construction.
	ErrUnknownActivityID = errors.New("unknown global activity id")

	// ErrUnknownCompositeID is returned when a control pair is requested
	// for an id with neither a live descriptor nor a recorded placeholder.
	ErrUnknownCompositeID = errors.New("unknown composite id")
)
