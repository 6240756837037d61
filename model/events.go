package model

// EventKind discriminates the four event kinds named in spec.md §6.
type EventKind string

const (
	EventStatusChanged   EventKind = "statusChanged"
	EventBatteryChanged  EventKind = "batteryChanged"
	EventMapUpdated      EventKind = "mapUpdated"
	EventSettingsChanged EventKind = "settingsChanged"
)

// Event is a tagged union of the four upward event kinds. Exactly the
// field matching Kind is populated.
type Event struct {
	Kind     EventKind
	Status   *DerivedStatus
	Battery  *int
	Map      *Map
	Settings *Settings
}

// Settings is the subset of cleaning settings the settings poller tracks
// (spec.md §4.11's Settings loop: "Fetch global fan and water").
type Settings struct {
	Fan   FanMode
	Water WaterLevel
}
