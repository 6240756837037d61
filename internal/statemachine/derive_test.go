package statemachine

import (
	"testing"

	"github.com/valetudo-ecovacs/roscore/model"
)

func TestDeriveChargerTransitionSequence(t *testing.T) {
	cleaning := Derive(
		model.WorkState{WorkType: model.WorkTypeAuto, State: model.WorkRunning},
		model.ChargeState{IsOnCharger: 0},
		nil,
		50,
	)
	if cleaning.Status != model.StatusCleaning {
		t.Fatalf("expected CLEANING, got %s", cleaning.Status)
	}

	returning := Derive(
		model.WorkState{WorkType: model.WorkTypeReturn, State: model.WorkRunning},
		model.ChargeState{IsOnCharger: 0},
		nil,
		50,
	)
	if returning.Status != model.StatusReturning {
		t.Fatalf("expected RETURNING, got %s", returning.Status)
	}
	if !Changed(cleaning, returning) {
		t.Fatalf("expected CLEANING->RETURNING to be a change")
	}

	dockedCharging := Derive(
		model.WorkState{State: model.WorkIdle},
		model.ChargeState{IsOnCharger: 1, ChargeState: 1},
		nil,
		80,
	)
	if dockedCharging.Status != model.StatusDocked || dockedCharging.Battery == nil || *dockedCharging.Battery != model.BatteryCharging {
		t.Fatalf("expected DOCKED/CHARGING, got %+v", dockedCharging)
	}

	dockedCharged := Derive(
		model.WorkState{State: model.WorkIdle},
		model.ChargeState{IsOnCharger: 1, ChargeState: 2},
		nil,
		80,
	)
	if dockedCharged.Status != model.StatusDocked || dockedCharged.Battery == nil || *dockedCharged.Battery != model.BatteryCharged {
		t.Fatalf("expected DOCKED/CHARGED, got %+v", dockedCharged)
	}
	if !Changed(dockedCharging, dockedCharged) {
		t.Fatalf("expected battery flag change CHARGING->CHARGED to be a change")
	}

	errored := Derive(
		model.WorkState{State: model.WorkIdle},
		model.ChargeState{IsOnCharger: 1, ChargeState: 2},
		[]model.Alert{{Type: 15, State: model.AlertTriggered}},
		80,
	)
	if errored.Status != model.StatusError {
		t.Fatalf("expected ERROR, got %s", errored.Status)
	}
	if errored.Error == nil || errored.Error.Subsystem != model.SubsystemSensors {
		t.Fatalf("expected SENSORS subsystem, got %+v", errored.Error)
	}
	if errored.Error.VendorErrorCode != "15" {
		t.Fatalf("expected vendorErrorCode '15', got %q", errored.Error.VendorErrorCode)
	}
}

// TestDeriveBatteryFullTriggersChargedBeforeChargeStateCatchesUp covers
// spec.md §4.10's alternative CHARGED trigger: a docked robot reporting
// battery level 100 is CHARGED even while chargeState still reads
// "trickle charging" (1) rather than 2.
func TestDeriveBatteryFullTriggersChargedBeforeChargeStateCatchesUp(t *testing.T) {
	got := Derive(
		model.WorkState{State: model.WorkIdle},
		model.ChargeState{IsOnCharger: 1, ChargeState: 1},
		nil,
		100,
	)
	if got.Status != model.StatusDocked || got.Battery == nil || *got.Battery != model.BatteryCharged {
		t.Fatalf("expected DOCKED/CHARGED at battery level 100, got %+v", got)
	}
}

func TestDeriveIsPure(t *testing.T) {
	work := model.WorkState{WorkType: model.WorkTypeAuto, State: model.WorkRunning}
	charge := model.ChargeState{IsOnCharger: 0}
	first := Derive(work, charge, nil, 50)
	second := Derive(work, charge, nil, 50)
	if first != second {
		t.Fatalf("expected identical inputs to produce identical outputs: %+v vs %+v", first, second)
	}
}

func TestDeriveUnknownAlertTypeDoesNotForceError(t *testing.T) {
	got := Derive(
		model.WorkState{WorkType: model.WorkTypeAuto, State: model.WorkRunning},
		model.ChargeState{IsOnCharger: 0},
		[]model.Alert{{Type: 9999, State: model.AlertTriggered}},
		50,
	)
	if got.Status != model.StatusCleaning {
		t.Fatalf("expected an alert type outside the allowlist to leave status unaffected, got %s", got.Status)
	}
}

func TestDerivePausedMapsToDockStatusPaused(t *testing.T) {
	got := Derive(model.WorkState{State: model.WorkPaused}, model.ChargeState{}, nil, 50)
	if got.Status != model.StatusPaused || got.DockStatus != model.DockStatusPaused {
		t.Fatalf("expected PAUSED/PAUSED, got %+v", got)
	}
}

func TestDeriveIdleDefault(t *testing.T) {
	got := Derive(model.WorkState{State: model.WorkIdle}, model.ChargeState{}, nil, 50)
	if got.Status != model.StatusIdle || got.DockStatus != model.DockStatusIdle {
		t.Fatalf("expected IDLE/IDLE, got %+v", got)
	}
}
