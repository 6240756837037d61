package model

// PresetLevel is the closed enumeration from spec.md §6:
// {OFF,LOW,MEDIUM,HIGH,MAX,CUSTOM(n)}.
type PresetLevel string

const (
	PresetOff    PresetLevel = "OFF"
	PresetLow    PresetLevel = "LOW"
	PresetMedium PresetLevel = "MEDIUM"
	PresetHigh   PresetLevel = "HIGH"
	PresetMax    PresetLevel = "MAX"
	PresetCustom PresetLevel = "CUSTOM"
)

// FanMode is the suction power preset.
type FanMode struct {
	Level  PresetLevel
	Custom int // meaningful only when Level == PresetCustom
}

// WaterLevel is the water-flow preset, using the same closed set.
type WaterLevel struct {
	Level  PresetLevel
	Custom int
}

// fanModeByFirmwareValue maps the firmware's raw fan_mode byte to a preset.
// Values outside the known range are reported as PresetCustom so callers
// never lose information round-tripping an unrecognized firmware value.
var fanModeByFirmwareValue = map[uint8]PresetLevel{
	0: PresetOff,
	1: PresetLow,
	2: PresetMedium,
	3: PresetHigh,
	4: PresetMax,
}

// FanModeFromFirmwareValue decodes the raw setting-service byte.
func FanModeFromFirmwareValue(v uint8) FanMode {
	if level, ok := fanModeByFirmwareValue[v]; ok {
		return FanMode{Level: level}
	}
	return FanMode{Level: PresetCustom, Custom: int(v)}
}

// FirmwareValue encodes a FanMode back to the raw setting-service byte.
func (f FanMode) FirmwareValue() uint8 {
	for v, level := range fanModeByFirmwareValue {
		if level == f.Level {
			return v
		}
	}
	return uint8(f.Custom)
}

var waterLevelByFirmwareValue = map[uint8]PresetLevel{
	1: PresetLow,
	2: PresetMedium,
	3: PresetHigh,
	4: PresetMax,
}

// WaterLevelFromFirmwareValue decodes the raw setting-service byte.
func WaterLevelFromFirmwareValue(v uint8) WaterLevel {
	if level, ok := waterLevelByFirmwareValue[v]; ok {
		return WaterLevel{Level: level}
	}
	if v == 0 {
		return WaterLevel{Level: PresetOff}
	}
	return WaterLevel{Level: PresetCustom, Custom: int(v)}
}

// FirmwareValue encodes a WaterLevel back to the raw setting-service byte.
func (w WaterLevel) FirmwareValue() uint8 {
	if w.Level == PresetOff {
		return 0
	}
	for v, level := range waterLevelByFirmwareValue {
		if level == w.Level {
			return v
		}
	}
	return uint8(w.Custom)
}

// ConsumablePart names one of the consumable parts tracked by the
// lifespan service (spec.md §4.6).
type ConsumablePart string

const (
	ConsumableMainBrush ConsumablePart = "mainBrush"
	ConsumableSideBrush ConsumablePart = "sideBrush"
	ConsumableHepa      ConsumablePart = "hepa"
	ConsumableAll       ConsumablePart = "all"
)

// ConsumableState is the per-part remaining-life snapshot exposed upward.
type ConsumableState struct {
	Part             ConsumablePart
	PercentRemaining float64
}

// DeriveConsumableState converts a raw Lifespan reading into the
// upward-facing percent-remaining view.
func DeriveConsumableState(l Lifespan) ConsumableState {
	percent := 0.0
	if l.Total > 0 {
		percent = float64(l.Life) / float64(l.Total) * 100
	}
	return ConsumableState{Part: l.Part, PercentRemaining: percent}
}

// Statistics is the shape shared by getTotalStatistics and
// getLastCleanStatistics (spec.md §4.6).
type Statistics struct {
	AreaSqMeters float64
	TimeSeconds  int
	Count        int
}

// CleaningPass captures the cleaning-times/passes toggle named in spec.md
// §4.6's setting service.
type CleaningPass struct {
	Times uint8
}

// CleaningStatistics is the raw decode of a statistics-service response,
// used for both getTotalStatistics and getLastCleanStatistics (spec.md
// §4.6). It carries the firmware's clean-type byte, which Statistics
// intentionally drops for the upward-facing API.
type CleaningStatistics struct {
	AreaSquareMeters float64
	DurationSeconds  uint32
	CleanType        uint8
}
