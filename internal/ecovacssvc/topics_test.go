package ecovacssvc

import (
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/model"
)

func TestDecodeWorkStateDecodesAllFields(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU8(uint8(model.WorkTypeAuto))
	w.WriteU8(uint8(model.WorkRunning))
	w.WriteU8(7)

	ws, err := DecodeWorkState(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeWorkState: %v", err)
	}
	if ws.WorkType != model.WorkTypeAuto || ws.State != model.WorkRunning || ws.WorkCause != 7 {
		t.Fatalf("unexpected work state: %+v", ws)
	}
}

func TestDecodeChargeStateDecodesBothFields(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU8(1)
	w.WriteU8(2)

	cs, err := DecodeChargeState(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeChargeState: %v", err)
	}
	if cs.IsOnCharger != 1 || cs.ChargeState != 2 {
		t.Fatalf("unexpected charge state: %+v", cs)
	}
}

func TestDecodeBatteryReadsSingleByte(t *testing.T) {
	v, err := DecodeBattery([]byte{85})
	if err != nil {
		t.Fatalf("DecodeBattery: %v", err)
	}
	if v != 85 {
		t.Fatalf("expected 85, got %d", v)
	}
}

func TestDecodeAlertsDecodesCountPrefixedList(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU16(2)
	w.WriteU16(15) // LDS_ERROR-style type
	w.WriteU8(uint8(model.AlertTriggered))
	w.WriteU16(3)
	w.WriteU8(uint8(model.AlertInactive))

	alerts, err := DecodeAlerts(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeAlerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Type != 15 || alerts[0].State != model.AlertTriggered {
		t.Fatalf("unexpected first alert: %+v", alerts[0])
	}
	if alerts[1].Type != 3 || alerts[1].State != model.AlertInactive {
		t.Fatalf("unexpected second alert: %+v", alerts[1])
	}
}

func TestDecodeAlertsEmptyList(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU16(0)

	alerts, err := DecodeAlerts(w.Bytes())
	if err != nil {
		t.Fatalf("DecodeAlerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}

func TestDecodePoseConvertsAngleTenthsToDegrees(t *testing.T) {
	w := binary.NewWriter()
	w.WriteI16(1200)
	w.WriteI16(-800)
	w.WriteI16(1800) // 180.0 degrees

	pose, err := DecodePose(w.Bytes())
	if err != nil {
		t.Fatalf("DecodePose: %v", err)
	}
	if pose.X != 1200 || pose.Y != -800 {
		t.Fatalf("unexpected pose coordinates: %+v", pose)
	}
	if pose.AngleDegrees != 180 {
		t.Fatalf("expected 180 degrees, got %v", pose.AngleDegrees)
	}
}
