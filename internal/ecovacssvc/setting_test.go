package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/model"
)

func TestGetFanModeDecodesUnrecognizedValueAsCustom(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU8(67)
	client := &fakeClient{response: w.Bytes()}
	svc := NewSettingService(client)

	mode, err := svc.GetFanMode(context.Background())
	if err != nil {
		t.Fatalf("GetFanMode: %v", err)
	}
	if mode.Level != model.PresetCustom || mode.Custom != 67 {
		t.Fatalf("unexpected mode: %+v", mode)
	}
}

func TestSetFanModeAppendsTrailingPad(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewSettingService(client)

	if err := svc.SetFanMode(context.Background(), model.FanMode{Level: model.PresetHigh}); err != nil {
		t.Fatalf("SetFanMode: %v", err)
	}
	if len(client.lastReq) != 3 {
		t.Fatalf("expected 3-byte request (1 value + 2 pad), got %d", len(client.lastReq))
	}
	if client.lastReq[1] != 0 || client.lastReq[2] != 0 {
		t.Fatalf("expected trailing pad bytes to be zero, got %v", client.lastReq[1:])
	}
}

func TestGetSuctionBoostOnCarpetDecodesBool(t *testing.T) {
	client := &fakeClient{response: []byte{1}}
	svc := NewSettingService(client)

	v, err := svc.GetSuctionBoostOnCarpet(context.Background())
	if err != nil {
		t.Fatalf("GetSuctionBoostOnCarpet: %v", err)
	}
	if !v {
		t.Fatalf("expected true")
	}
}

func TestSetAutoCollectEnabledEncodesBoolPlusPad(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewSettingService(client)

	if err := svc.SetAutoCollectEnabled(context.Background(), true); err != nil {
		t.Fatalf("SetAutoCollectEnabled: %v", err)
	}
	if len(client.lastReq) != 3 || client.lastReq[0] != 1 {
		t.Fatalf("unexpected request bytes: %v", client.lastReq)
	}
}
