package model

// Status is the derived robot status state machine value (spec.md §4.10).
type Status string

const (
	StatusIdle           Status = "IDLE"
	StatusCleaning       Status = "CLEANING"
	StatusPaused         Status = "PAUSED"
	StatusReturning      Status = "RETURNING"
	StatusManualControl  Status = "MANUAL_CONTROL"
	StatusMoving         Status = "MOVING"
	StatusDocked         Status = "DOCKED"
	StatusError          Status = "ERROR"
)

// DockStatus mirrors Status per spec.md §4.10's dock-status attribute.
type DockStatus string

const (
	DockStatusIdle     DockStatus = "IDLE"
	DockStatusCleaning DockStatus = "CLEANING"
	DockStatusPaused   DockStatus = "PAUSED"
)

// BatteryFlag qualifies a DOCKED status with charging progress.
type BatteryFlag string

const (
	BatteryCharging BatteryFlag = "CHARGING"
	BatteryCharged  BatteryFlag = "CHARGED"
)

// Subsystem labels which part of the robot an ERROR status implicates.
type Subsystem string

const (
	SubsystemMotors     Subsystem = "motors"
	SubsystemSensors    Subsystem = "sensors"
	SubsystemNavigation Subsystem = "navigation"
	SubsystemAttachments Subsystem = "attachments"
	SubsystemUnknown    Subsystem = "unknown"
)

// StatusError carries the optional error payload on a StatusChanged event.
type StatusError struct {
	Subsystem      Subsystem
	Message        string
	VendorErrorCode string
}

// DerivedStatus is the full output of the status state machine for one
// evaluation.
type DerivedStatus struct {
	Status      Status
	DockStatus  DockStatus
	Battery     *BatteryFlag
	Error       *StatusError
}
