package model

import "time"

// Config enumerates every key from spec.md §6's configuration table. The
// external orchestration layer owns loading it (config loading is an
// out-of-scope concern per spec.md §1); this repo only defines its shape
// and, for local/demo use, a convenience loader (see package config).
type Config struct {
	// ROS transport
	ROSMasterURI       string
	ROSCallerID        string
	ROSConnectTimeout  time.Duration
	ROSCallTimeout     time.Duration
	ROSDebug           bool

	// mdsctl local control socket
	MdsctlSocketPath string
	MdsctlTimeout    time.Duration

	// manual control
	ManualControlSessionCode string

	// map builder
	DetailedMapRotationDegrees RotationDegrees
	DetailedMapWorldMmPerPixel float64
	DetailedMapMaxLayerPixels  int
	DetailedMapMinFloorPixels  int
	DetailedMapRefreshInterval time.Duration

	// poll cadences
	LivePositionPollInterval     time.Duration
	PowerStatePollInterval       time.Duration
	CleaningSettingsPollInterval time.Duration

	// staleness windows
	PowerStateStaleAfter time.Duration
	WorkStateStaleAfter  time.Duration

	// trace path
	TracePathEnabled  bool
	TracePointUnitMm  int
	TracePathMaxPoints int
	TraceTailEntries  int

	// runtime cache persistence
	RuntimeStateCachePath            string
	RuntimeStateCacheWriteMinInterval time.Duration
}

// Defaults returns the documented default configuration (spec.md §6 and
// §4.1-§4.11's stated defaults/cadences).
func Defaults() Config {
	return Config{
		ROSMasterURI:      "http://127.0.0.1:11311",
		ROSCallerID:       "/valetudo_ecovacs",
		ROSConnectTimeout: 5 * time.Second,
		ROSCallTimeout:    10 * time.Second,
		ROSDebug:          false,

		MdsctlSocketPath: "/tmp/mds_cmd.sock",
		MdsctlTimeout:    3 * time.Second,

		ManualControlSessionCode: "",

		DetailedMapRotationDegrees: Rotation270,
		DetailedMapWorldMmPerPixel: 50,
		DetailedMapMaxLayerPixels:  2_000_000,
		DetailedMapMinFloorPixels:  100,
		DetailedMapRefreshInterval: 15 * time.Second,

		LivePositionPollInterval:     1 * time.Second,
		PowerStatePollInterval:       5 * time.Second,
		CleaningSettingsPollInterval: 30 * time.Second,

		PowerStateStaleAfter: 10 * time.Second,
		WorkStateStaleAfter:  10 * time.Second,

		TracePathEnabled:   true,
		TracePointUnitMm:   10,
		TracePathMaxPoints: 5000,
		TraceTailEntries:   5,

		RuntimeStateCachePath:             "/tmp/valetudo_ecovacs_runtime_state.json",
		RuntimeStateCacheWriteMinInterval: 2 * time.Second,
	}
}
