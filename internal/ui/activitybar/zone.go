package activitybar

// Zone ID constants for mouse click detection on bar entries.
// Uses bubblezone; zone.Scan() must be called at the app level.
const zoneEntryPrefix = "activitybar-entry:"

// EntryZoneID returns the zone ID for a composite entry.
func EntryZoneID(id string) string {
	return zoneEntryPrefix + id
}
