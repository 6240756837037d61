package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
)

type fakeClient struct {
	response []byte
	err      error
	lastReq  []byte
}

func (f *fakeClient) Call(ctx context.Context, payload []byte) ([]byte, error) {
	f.lastReq = payload
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestGetActiveMapID(t *testing.T) {
	w := binary.NewWriter()
	w.WriteU32(12345)
	client := &fakeClient{response: w.Bytes()}

	svc := NewMapService(client, client)
	id, err := svc.GetActiveMapID(context.Background())
	if err != nil {
		t.Fatalf("GetActiveMapID: %v", err)
	}
	if id != 12345 {
		t.Fatalf("expected 12345, got %d", id)
	}
}

func buildCompressedMapResponse(mapID uint32, submaps [][]byte) []byte {
	w := binary.NewWriter()
	w.WriteU32(mapID)
	w.WriteU32(20) // mapWidth
	w.WriteU32(20) // mapHeight
	w.WriteU32(2)  // columns
	w.WriteU32(2)  // rows
	w.WriteU32(10) // submapWidth
	w.WriteU32(10) // submapHeight
	w.WriteU32(50) // resolution (mm)
	w.WriteU32(uint32(len(submaps)))
	for _, s := range submaps {
		w.WriteLengthPrefixed(s)
	}
	return w.Bytes()
}

func TestGetCompressedMapRejectsMapIDMismatch(t *testing.T) {
	resp := buildCompressedMapResponse(999, nil)
	client := &fakeClient{response: resp}
	svc := NewMapService(client, client)

	if _, err := svc.GetCompressedMap(context.Background(), 1); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestGetCompressedMapSendsRequestedMapID(t *testing.T) {
	resp := buildCompressedMapResponse(1, [][]byte{})
	client := &fakeClient{response: resp}
	svc := NewMapService(client, client)

	// assembling with zero submaps against a 2x2 grid must fail, but we
	// only care here that the request payload carried the map id.
	_, _ = svc.GetCompressedMap(context.Background(), 1)

	r := binary.NewReader(client.lastReq)
	gotID, err := r.ReadU32()
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if gotID != 1 {
		t.Fatalf("expected request to carry mapid 1, got %d", gotID)
	}
}
