package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/model"
)

func encodeVirtualWall(w *binary.Writer, vwid uint32, wallType model.VirtualWallType, dots []model.Point) {
	w.WriteU32(vwid)
	w.WriteU8(uint8(wallType))
	encodeDots(w, dots)
}

func TestGetVirtualWallsRoundTripsLineAndRectangle(t *testing.T) {
	resp := binary.NewWriter()
	resp.WriteU32(2)
	encodeVirtualWall(resp, 1, model.VirtualWallRegular, []model.Point{{X: 0, Y: 0}, {X: 100, Y: 0}})
	encodeVirtualWall(resp, 2, model.VirtualWallNoMop, []model.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}})

	client := &fakeClient{response: resp.Bytes()}
	svc := NewVirtualWallService(client, client)

	walls, err := svc.GetVirtualWalls(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetVirtualWalls: %v", err)
	}
	if len(walls) != 2 {
		t.Fatalf("expected 2 walls, got %d", len(walls))
	}
	if !walls[0].IsLine() {
		t.Fatalf("expected first wall to be a line")
	}
	if walls[1].IsLine() {
		t.Fatalf("expected second wall to be a rectangle")
	}
	if walls[1].Type != model.VirtualWallNoMop {
		t.Fatalf("expected no-mop type, got %v", walls[1].Type)
	}
}

func TestAddVirtualWallRectEncodesFourDots(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewVirtualWallService(client, client)

	if err := svc.AddVirtualWallRect(context.Background(), 1, model.Point{X: 0, Y: 0}, model.Point{X: 100, Y: 200}); err != nil {
		t.Fatalf("AddVirtualWallRect: %v", err)
	}

	r := binary.NewReader(client.lastReq)
	_, _ = r.ReadU32() // mapid
	wallType, _ := r.ReadU8()
	if model.VirtualWallType(wallType) != model.VirtualWallRegular {
		t.Fatalf("expected regular type, got %d", wallType)
	}
	dotCount, _ := r.ReadU8()
	if dotCount != 4 {
		t.Fatalf("expected 4 dots, got %d", dotCount)
	}
}

func TestAddVirtualWallRejectedSurfacesResultCode(t *testing.T) {
	client := &fakeClient{response: []byte{5}}
	svc := NewVirtualWallService(client, client)

	err := svc.AddVirtualWallRect(context.Background(), 1, model.Point{}, model.Point{X: 1, Y: 1})
	result, ok := roserr.AsCommandRejected(err)
	if !ok || result != 5 {
		t.Fatalf("expected CommandRejected{5}, got %v", err)
	}
}

func TestDeleteVirtualWallSendsVWID(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewVirtualWallService(client, client)

	if err := svc.DeleteVirtualWall(context.Background(), 1, 42); err != nil {
		t.Fatalf("DeleteVirtualWall: %v", err)
	}
	r := binary.NewReader(client.lastReq)
	_, _ = r.ReadU32()
	vwid, _ := r.ReadU32()
	if vwid != 42 {
		t.Fatalf("expected vwid 42, got %d", vwid)
	}
}
