package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
)

func TestGetPositionsDecodesRobotAndCharger(t *testing.T) {
	w := binary.NewWriter()
	w.WriteI16(1500)
	w.WriteI16(-2500)
	w.WriteI16(900) // 90.0 degrees
	w.WriteU8(1)
	w.WriteI16(0)
	w.WriteI16(0)
	client := &fakeClient{response: w.Bytes()}
	svc := NewPositionService(client)

	pos, err := svc.GetPositions(context.Background())
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if pos.Robot.X != 1500 || pos.Robot.Y != -2500 {
		t.Fatalf("unexpected robot pose: %+v", pos.Robot)
	}
	if pos.Robot.AngleDegrees != 90 {
		t.Fatalf("expected 90 degrees, got %v", pos.Robot.AngleDegrees)
	}
	if !pos.ChargerFound {
		t.Fatalf("expected charger found")
	}
}

func TestGetPositionsReportsChargerNotFound(t *testing.T) {
	w := binary.NewWriter()
	w.WriteI16(0)
	w.WriteI16(0)
	w.WriteI16(0)
	w.WriteU8(0)
	w.WriteI16(0)
	w.WriteI16(0)
	client := &fakeClient{response: w.Bytes()}
	svc := NewPositionService(client)

	pos, err := svc.GetPositions(context.Background())
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if pos.ChargerFound {
		t.Fatalf("expected charger not found")
	}
}
