package extensions

import "github.com/rcalder/wharf/internal/composite"

func intPtr(v int) *int { return &v }

// BuiltinComposites is the static contribution set registered before any
// manifest scan. These mirror the workbench's own panels.
func BuiltinComposites() []composite.Descriptor {
	return []composite.Descriptor{
		{ID: "explorer", Name: "Explorer", Order: intPtr(0), Icon: "≡", Enabled: true},
		{ID: "search", Name: "Search", Order: intPtr(1), Icon: "?", Enabled: true},
		{ID: "scm", Name: "Source Control", Order: intPtr(2), Icon: "±", Enabled: true},
		{ID: "extensions", Name: "Extensions", Order: intPtr(3), Icon: "◧", Enabled: true},
	}
}
