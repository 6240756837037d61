// Package model holds the normalized data model shared between roscore and
// the external orchestration layer (spec.md §3). It is deliberately free
// of any ROS/TCPROS/LZMA implementation detail so it can be imported by
// capability adapters without pulling in the transport stack.
package model

// EndpointDescriptor names a ROS service or topic and the message type
// expected on it. Resolution iterates CandidateNames in order; the first
// name that resolves is remembered until the next (re)connect.
type EndpointDescriptor struct {
	Path           string
	TypeName       string
	MD5Sum         string
	CandidateNames []string
}

// AreaID is the firmware-assigned room identifier (spec.md GLOSSARY). It
// may be reassigned by the firmware after a merge/split, but is unique
// within any single map poll response.
type AreaID uint32

// Point is a world-space coordinate in millimeters, or a grid-space pixel
// coordinate, depending on context; each function documents which.
type Point struct {
	X int
	Y int
}

// CleaningPreferences is the per-room {suction,water,times,sequence} tuple
// from spec.md §3.
type CleaningPreferences struct {
	Suction  uint8
	Water    uint8
	Times    uint8
	Sequence uint8
}

// Room is one firmware-reported segment.
type Room struct {
	AreaID          AreaID
	LabelID         uint8
	LabelName       *string
	Polygon         []Point
	Connections     []uint8
	Preferences     CleaningPreferences
	Material        *string
}

// VirtualWallType discriminates a regular no-go wall from a no-mop zone.
type VirtualWallType uint8

const (
	VirtualWallRegular VirtualWallType = 0
	VirtualWallNoMop   VirtualWallType = 1
)

// VirtualWall is a firmware-reported restriction. Two dots form a line
// wall; three or more form a rectangular zone (spec.md §3).
type VirtualWall struct {
	VWID uint32
	Type VirtualWallType
	Dots []Point
}

// IsLine reports whether this restriction should be rendered as a line
// segment (exactly two dots) rather than a rectangle.
func (v VirtualWall) IsLine() bool { return len(v.Dots) == 2 }

// CompressedMap is the raw raster-space reconstruction described in
// spec.md §3/§4.7, before any rotation.
type CompressedMap struct {
	Width          int
	Height         int
	Columns        int
	Rows           int
	SubmapWidth    int
	SubmapHeight   int
	ResolutionCm   int
	FloorPixels    []Point
	WallPixels     []Point
}

// CompressedMapResult pairs a decoded CompressedMap with the map id it was
// fetched for, so callers can detect a concurrent active-map change.
type CompressedMapResult struct {
	MapID         uint32
	CompressedMap CompressedMap
}

// RotationDegrees is one of {0,90,180,270}.
type RotationDegrees int

const (
	Rotation0   RotationDegrees = 0
	Rotation90  RotationDegrees = 90
	Rotation180 RotationDegrees = 180
	Rotation270 RotationDegrees = 270
)

// MapTransform describes the world<->grid projection used by the map
// builder (spec.md §3/§4.8).
type MapTransform struct {
	MapWidthPx      int
	MapHeightPx     int
	MMPerPixel      float64
	RotationDegrees RotationDegrees
}

// LayerType discriminates the kinds of Map.Layers entries.
type LayerType string

const (
	LayerFloor   LayerType = "floor"
	LayerWall    LayerType = "wall"
	LayerSegment LayerType = "segment"
)

// SegmentMeta is the metadata attached to a LayerSegment layer.
type SegmentMeta struct {
	SegmentID                AreaID
	Name                     string
	RoomCleaningPreferences  CleaningPreferences
}

// Layer is one entry in Map.Layers.
type Layer struct {
	Type     LayerType
	Pixels   []Point
	MetaData *SegmentMeta
}

// EntityType discriminates the kinds of Map.Entities entries.
type EntityType string

const (
	EntityRobot       EntityType = "robot"
	EntityCharger     EntityType = "charger"
	EntityPath        EntityType = "path"
	EntityNoGo        EntityType = "no-go"
	EntityNoMop       EntityType = "no-mop"
	EntityVirtualWall EntityType = "virtual-wall"
)

// RobotEntityMeta carries the robot's facing angle in degrees.
type RobotEntityMeta struct {
	AngleDegrees float64
}

// Entity is one entry in Map.Entities.
type Entity struct {
	Type     EntityType
	Points   []Point
	MetaData *RobotEntityMeta
}

// SizeCm is the map's physical size along each axis, in centimeters.
type SizeCm struct {
	X int
	Y int
}

// Map is the normalized, fully composed map published upward (spec.md §3).
type Map struct {
	SizeCm      SizeCm
	PixelSizeCm int
	Layers      []Layer
	Entities    []Entity
	Transform   MapTransform
}

// WorkType is the firmware's work-type enum (auto/spot/custom/etc); its
// concrete values are firmware-specific and carried opaquely except for
// the three named in spec.md §4.10's status derivation.
type WorkType uint8

const (
	WorkTypeAuto           WorkType = 0
	WorkTypeReturn         WorkType = 1
	WorkTypeRemoteControl  WorkType = 2
	WorkTypeGoTo           WorkType = 3
)

// WorkLifecycleState is the firmware's running/paused/idle state.
type WorkLifecycleState uint8

const (
	WorkIdle    WorkLifecycleState = 0
	WorkRunning WorkLifecycleState = 1
	WorkPaused  WorkLifecycleState = 2
)

// WorkState is the decoded work_state topic value (spec.md §3).
type WorkState struct {
	WorkType  WorkType
	State     WorkLifecycleState
	WorkCause uint8
}

// ChargeStateValue is the firmware's 0..2 charge sub-state.
type ChargeStateValue uint8

// ChargeState is the decoded charge_state topic value (spec.md §3).
type ChargeState struct {
	IsOnCharger uint8
	ChargeState ChargeStateValue
}

// AlertState discriminates an inactive vs. triggered alert.
type AlertState uint8

const (
	AlertInactive  AlertState = 0
	AlertTriggered AlertState = 1
)

// Alert is one decoded alert topic entry (spec.md §3).
type Alert struct {
	Type  uint16
	State AlertState
}

// Pose is a 2D robot pose in world millimeters plus heading in degrees.
type Pose struct {
	X, Y         int
	AngleDegrees float64
}

// RuntimeCache is the persisted subset of runtime state (spec.md §3/§6).
type RuntimeCache struct {
	RobotPose   *Pose
	Battery     *int
	ChargeState *ChargeState
}

// TracePoint is one decoded trace-path record (spec.md §4.9).
type TracePoint struct {
	X, Y int
	Flag uint8
}

// Lifespan is one consumable part's raw remaining/total life as read
// from the lifespan service, in the firmware's native unit. ConsumableState
// is the percent-remaining view derived from it for the upward API.
type Lifespan struct {
	Part  ConsumablePart
	Life  uint32
	Total uint32
}
