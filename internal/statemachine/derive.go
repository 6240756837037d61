// Package statemachine implements the pure status-derivation function from
// spec.md §4.10: status(workState, chargeState, alerts) is evaluated fresh
// on every runtime-state poll tick with no hidden state, grounded on the
// teacher's internal/status DAG-status reduction (conditions folded, in
// priority order, into one enum).
package statemachine

import (
	"strconv"

	"github.com/valetudo-ecovacs/roscore/model"
)

// errorAlertSubsystem is the fixed allowlist of alert types that escalate
// status to ERROR, each mapped to the subsystem it implicates (spec.md
// §4.10). Alert types outside this map never force an ERROR status.
var errorAlertSubsystem = map[uint16]model.Subsystem{
	11: model.SubsystemMotors,     // MAIN_BRUSH_STUCK
	12: model.SubsystemNavigation, // BUMPER_STUCK
	13: model.SubsystemMotors,     // WHEEL_STUCK
	15: model.SubsystemSensors,    // LDS_ERROR
	16: model.SubsystemAttachments, // DUSTBIN_MISSING
}

// Derive computes the status state machine's output for one poll tick. It
// is a pure function: identical inputs always produce an identical
// DerivedStatus (spec.md §8). batteryLevel is the latest polled battery
// percentage; a robot reporting 100 while docked is considered CHARGED
// even if charge.ChargeState hasn't caught up to 2 yet (spec.md §4.10).
func Derive(work model.WorkState, charge model.ChargeState, alerts []model.Alert, batteryLevel int) model.DerivedStatus {
	if err, ok := firstErrorAlert(alerts); ok {
		return model.DerivedStatus{
			Status:     model.StatusError,
			DockStatus: model.DockStatusIdle,
			Error:      err,
		}
	}

	if charge.IsOnCharger > 0 {
		flag := model.BatteryCharging
		if charge.ChargeState == 2 || batteryLevel >= 100 {
			flag = model.BatteryCharged
		}
		return model.DerivedStatus{
			Status:     model.StatusDocked,
			DockStatus: model.DockStatusIdle,
			Battery:    &flag,
		}
	}

	if work.State == model.WorkPaused {
		return model.DerivedStatus{Status: model.StatusPaused, DockStatus: model.DockStatusPaused}
	}

	if work.State == model.WorkRunning {
		switch work.WorkType {
		case model.WorkTypeReturn:
			return model.DerivedStatus{Status: model.StatusReturning, DockStatus: model.DockStatusIdle}
		case model.WorkTypeRemoteControl:
			return model.DerivedStatus{Status: model.StatusManualControl, DockStatus: model.DockStatusIdle}
		case model.WorkTypeGoTo:
			return model.DerivedStatus{Status: model.StatusMoving, DockStatus: model.DockStatusIdle}
		default:
			return model.DerivedStatus{Status: model.StatusCleaning, DockStatus: model.DockStatusCleaning}
		}
	}

	return model.DerivedStatus{Status: model.StatusIdle, DockStatus: model.DockStatusIdle}
}

func firstErrorAlert(alerts []model.Alert) (*model.StatusError, bool) {
	for _, a := range alerts {
		if a.State != model.AlertTriggered {
			continue
		}
		subsystem, ok := errorAlertSubsystem[a.Type]
		if !ok {
			continue
		}
		return &model.StatusError{
			Subsystem:       subsystem,
			Message:         "alert " + strconv.Itoa(int(a.Type)) + " triggered",
			VendorErrorCode: strconv.Itoa(int(a.Type)),
		}, true
	}
	return nil, false
}

// Changed reports whether two DerivedStatus values differ in any
// externally visible field, used by the orchestrator to deduplicate
// statusChanged events (spec.md §4.10: "State changes emit an event only
// when the computed value differs from the previous one").
func Changed(prev, next model.DerivedStatus) bool {
	if prev.Status != next.Status || prev.DockStatus != next.DockStatus {
		return true
	}
	if (prev.Battery == nil) != (next.Battery == nil) {
		return true
	}
	if prev.Battery != nil && next.Battery != nil && *prev.Battery != *next.Battery {
		return true
	}
	if (prev.Error == nil) != (next.Error == nil) {
		return true
	}
	if prev.Error != nil && next.Error != nil && *prev.Error != *next.Error {
		return true
	}
	return false
}
