package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/model"
)

func TestGetLifespanDecodesLifeAndTotal(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU32(4500)
	w.WriteU32(9000)
	client := &fakeClient{response: w.Bytes()}
	svc := NewLifespanService(client)

	life, err := svc.GetLifespan(context.Background(), model.ConsumableMainBrush)
	if err != nil {
		t.Fatalf("GetLifespan: %v", err)
	}
	if life.Life != 4500 || life.Total != 9000 {
		t.Fatalf("unexpected lifespan: %+v", life)
	}

	r := binary.NewReader(client.lastReq)
	code, _ := r.ReadU8()
	if code != partCode(model.ConsumableMainBrush) {
		t.Fatalf("expected part code %d, got %d", partCode(model.ConsumableMainBrush), code)
	}
}

func TestResetLifespanSendsPartCode(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewLifespanService(client)

	if err := svc.ResetLifespan(context.Background(), model.ConsumableHepa); err != nil {
		t.Fatalf("ResetLifespan: %v", err)
	}
	if client.lastReq[0] != partCode(model.ConsumableHepa) {
		t.Fatalf("expected hepa part code, got %d", client.lastReq[0])
	}
}
