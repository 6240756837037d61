package ecovacssvc

import (
	"context"
	"testing"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/model"
)

func encodeRoomBlock(areaID, nameLen uint32, polygon []model.Point, connections []uint8, prefs model.CleaningPreferences) []byte {
	w := binary.NewWriter()
	w.WriteU32(areaID)
	w.WriteU32(nameLen)
	w.WriteU8(0) // reserved
	w.WriteU32(uint32(len(polygon)))
	for _, p := range polygon {
		w.WriteU32(uint32(int32(p.X)))
		w.WriteU32(uint32(int32(p.Y)))
	}
	w.WriteU8(uint8(len(connections)))
	for _, c := range connections {
		w.WriteU8(c)
	}
	w.WriteU8(prefs.Suction)
	w.WriteU8(prefs.Water)
	w.WriteU8(prefs.Times)
	w.WriteU8(prefs.Sequence)
	return w.Bytes()
}

// TestGetRoomsExtractsAreaIDAtFixedOffset matches the spec's areaid
// fixed-offset extraction scenario: a room block carrying areaid=42, a
// zero name_len, and a four-point polygon decodes with AreaID==42.
func TestGetRoomsExtractsAreaIDAtFixedOffset(t *testing.T) {
	polygon := []model.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	prefs := model.CleaningPreferences{Suction: 1, Water: 2, Times: 1, Sequence: 0}
	block := encodeRoomBlock(42, 0, polygon, []uint8{1, 2}, prefs)

	resp := binary.NewWriter()
	resp.WriteU32(7) // mapid
	resp.WriteU32(1) // room count
	resp.WriteBytes(block)

	client := &fakeClient{response: resp.Bytes()}
	svc := NewSpotAreaService(client, client)

	rooms, err := svc.GetRooms(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetRooms: %v", err)
	}
	if rooms.MapID != 7 {
		t.Fatalf("expected mapid 7, got %d", rooms.MapID)
	}
	if len(rooms.Rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms.Rooms))
	}
	room := rooms.Rooms[0]
	if room.AreaID != 42 {
		t.Fatalf("expected areaid 42, got %d", room.AreaID)
	}
	if len(room.Polygon) != 4 {
		t.Fatalf("expected 4 polygon points, got %d", len(room.Polygon))
	}
	if room.Preferences != prefs {
		t.Fatalf("expected preferences %+v, got %+v", prefs, room.Preferences)
	}
	if len(room.Connections) != 2 || room.Connections[0] != 1 || room.Connections[1] != 2 {
		t.Fatalf("unexpected connections: %+v", room.Connections)
	}
}

func TestGetRoomsRejectsNonZeroNameLen(t *testing.T) {
	polygon := []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	block := encodeRoomBlock(1, 5, polygon, nil, model.CleaningPreferences{})

	resp := binary.NewWriter()
	resp.WriteU32(1)
	resp.WriteU32(1)
	resp.WriteBytes(block)

	client := &fakeClient{response: resp.Bytes()}
	svc := NewSpotAreaService(client, client)

	_, err := svc.GetRooms(context.Background(), 1)
	if !roserr.Is(err, roserr.KindProtocolError) {
		t.Fatalf("expected ProtocolError for non-zero name_len, got %v", err)
	}
}

func TestGetRoomsDecodesMultipleRooms(t *testing.T) {
	a := encodeRoomBlock(1, 0, []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, nil, model.CleaningPreferences{Suction: 1})
	b := encodeRoomBlock(2, 0, []model.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}, []uint8{1}, model.CleaningPreferences{Water: 2})

	resp := binary.NewWriter()
	resp.WriteU32(3)
	resp.WriteU32(2)
	resp.WriteBytes(a)
	resp.WriteBytes(b)

	client := &fakeClient{response: resp.Bytes()}
	svc := NewSpotAreaService(client, client)

	rooms, err := svc.GetRooms(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetRooms: %v", err)
	}
	if len(rooms.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms.Rooms))
	}
	if rooms.Rooms[0].AreaID != 1 || rooms.Rooms[1].AreaID != 2 {
		t.Fatalf("unexpected area ids: %d, %d", rooms.Rooms[0].AreaID, rooms.Rooms[1].AreaID)
	}
}

func TestSetRoomLabelSendsFixedSizeBlock(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewSpotAreaService(client, client)

	if err := svc.SetRoomLabel(context.Background(), 3, model.AreaID(9), 2); err != nil {
		t.Fatalf("SetRoomLabel: %v", err)
	}
	if len(client.lastReq) != roomConfigHeaderSize+roomConfigBlockSize {
		t.Fatalf("expected request of %d bytes, got %d", roomConfigHeaderSize+roomConfigBlockSize, len(client.lastReq))
	}
	r := binary.NewReader(client.lastReq)
	reqType, _ := r.ReadU8()
	if reqType != 4 {
		t.Fatalf("expected type=4, got %d", reqType)
	}
}

func TestSetRoomSequenceWritesPositionAtByte29(t *testing.T) {
	client := &fakeClient{response: []byte{0}}
	svc := NewSpotAreaService(client, client)

	if err := svc.SetRoomSequence(context.Background(), 3, model.AreaID(9), 6); err != nil {
		t.Fatalf("SetRoomSequence: %v", err)
	}
	blockStart := roomConfigHeaderSize
	got := client.lastReq[blockStart+roomSequencePositionOffset]
	if got != 6 {
		t.Fatalf("expected sequence_position 6 at byte %d, got %d", roomSequencePositionOffset, got)
	}
}

func TestWriteRoomConfigSurfacesCommandRejected(t *testing.T) {
	client := &fakeClient{response: []byte{3}}
	svc := NewSpotAreaService(client, client)

	err := svc.SetRoomLabel(context.Background(), 1, model.AreaID(1), 1)
	result, ok := roserr.AsCommandRejected(err)
	if !ok || result != 3 {
		t.Fatalf("expected CommandRejected{3}, got %v", err)
	}
}
