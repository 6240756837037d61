package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// SpotAreaService exposes room discovery and per-room configuration
// (spec.md §4.6).
type SpotAreaService struct {
	client       rosnet.ServiceClient
	writerClient rosnet.ServiceClient
}

// NewSpotAreaService builds a SpotAreaService. readClient serves getRooms;
// writeClient serves the type=4/type=5 room-configuration writes (the
// firmware exposes them as separate endpoints).
func NewSpotAreaService(readClient, writeClient rosnet.ServiceClient) *SpotAreaService {
	return &SpotAreaService{client: readClient, writerClient: writeClient}
}

// Rooms is the decoded getRooms response: a map id plus its ordered room
// list (spec.md §4.6: "getRooms(mapId) returns { header:{mapid}, rooms }").
type Rooms struct {
	MapID uint32
	Rooms []model.Room
}

// GetRooms fetches and decodes every room in mapId's map.
//
// Each room block is laid out as: areaid(u32) name_len(u32) reserved(u8)
// point_count(u32) [point_count * (i32 x, i32 y)] connections_count(u8)
// [connections_count * u8] preferences{suction,water,times,sequence}(4 *
// u8). areaid sits a fixed 9 bytes before point_count (4+4+1); name_len is
// observed as always zero on this firmware, so a non-zero value fails the
// parse outright rather than silently skipping a name payload whose
// encoding is unknown (spec.md §4.6 step 2, §9 open question).
func (s *SpotAreaService) GetRooms(ctx context.Context, mapID uint32) (Rooms, error) {
	req := binary.NewWriter()
	req.WriteU32(mapID)
	resp, err := s.client.Call(ctx, req.Bytes())
	if err != nil {
		return Rooms{}, err
	}

	r := binary.NewReader(resp)
	respMapID, err := r.ReadU32()
	if err != nil {
		return Rooms{}, err
	}
	roomCount, err := r.ReadU32()
	if err != nil {
		return Rooms{}, err
	}

	rooms := make([]model.Room, 0, roomCount)
	for i := uint32(0); i < roomCount; i++ {
		room, err := decodeRoomBlock(r)
		if err != nil {
			return Rooms{}, roserr.Wrap(roserr.KindProtocolError, err, "decode room %d", i)
		}
		rooms = append(rooms, room)
	}
	return Rooms{MapID: respMapID, Rooms: rooms}, nil
}

func decodeRoomBlock(r *binary.Reader) (model.Room, error) {
	areaID, err := r.ReadU32()
	if err != nil {
		return model.Room{}, err
	}
	nameLen, err := r.ReadU32()
	if err != nil {
		return model.Room{}, err
	}
	if nameLen != 0 {
		return model.Room{}, roserr.New(roserr.KindProtocolError, "room %d has non-zero name_len %d, parser does not know how to skip a name payload on this firmware", areaID, nameLen)
	}
	if _, err := r.ReadU8(); err != nil { // reserved byte between name_len and point_count
		return model.Room{}, err
	}
	pointCount, err := r.ReadU32()
	if err != nil {
		return model.Room{}, err
	}

	polygon := make([]model.Point, 0, pointCount)
	for i := uint32(0); i < pointCount; i++ {
		x, err := r.ReadU32()
		if err != nil {
			return model.Room{}, err
		}
		y, err := r.ReadU32()
		if err != nil {
			return model.Room{}, err
		}
		polygon = append(polygon, model.Point{X: int(int32(x)), Y: int(int32(y))})
	}

	connCount, err := r.ReadU8()
	if err != nil {
		return model.Room{}, err
	}
	connections := make([]uint8, 0, connCount)
	for i := uint8(0); i < connCount; i++ {
		c, err := r.ReadU8()
		if err != nil {
			return model.Room{}, err
		}
		connections = append(connections, c)
	}

	suction, err := r.ReadU8()
	if err != nil {
		return model.Room{}, err
	}
	water, err := r.ReadU8()
	if err != nil {
		return model.Room{}, err
	}
	times, err := r.ReadU8()
	if err != nil {
		return model.Room{}, err
	}
	sequence, err := r.ReadU8()
	if err != nil {
		return model.Room{}, err
	}

	return model.Room{
		AreaID:      model.AreaID(areaID),
		Polygon:     polygon,
		Connections: connections,
		Preferences: model.CleaningPreferences{Suction: suction, Water: water, Times: times, Sequence: sequence},
	}, nil
}

// roomConfigHeaderSize is the type=4/type=5 request's fixed 17-byte header
// (spec.md §4.6).
const roomConfigHeaderSize = 17

// roomConfigBlockSize is the fixed 30-byte per-room block following the
// header in a type=4/type=5 request.
const roomConfigBlockSize = 30

// roomSequencePositionOffset is the byte offset of sequence_position
// within a type=5 request's per-room block.
const roomSequencePositionOffset = 29

func newRoomConfigRequest(reqType uint8, mapID uint32) *binary.Writer {
	w := binary.NewWriter()
	w.WriteU8(reqType)
	w.WriteU32(mapID)
	for w.Len() < roomConfigHeaderSize {
		w.WriteU8(0)
	}
	return w
}

func padRoomBlock(w *binary.Writer, blockStart int) {
	for w.Len()-blockStart < roomConfigBlockSize {
		w.WriteU8(0)
	}
}

// SetRoomLabel renames a room's label (spec.md §4.6: type=4 request).
func (s *SpotAreaService) SetRoomLabel(ctx context.Context, mapID uint32, areaID model.AreaID, labelID uint8) error {
	w := newRoomConfigRequest(4, mapID)
	blockStart := w.Len()
	w.WriteU32(uint32(areaID))
	w.WriteU8(labelID)
	padRoomBlock(w, blockStart)
	return s.writeRoomConfig(ctx, w)
}

// SetRoomCleaningPreferences writes one room's cleaning preferences
// (spec.md §4.6: type=4 request).
func (s *SpotAreaService) SetRoomCleaningPreferences(ctx context.Context, mapID uint32, areaID model.AreaID, times, water, suction uint8) error {
	w := newRoomConfigRequest(4, mapID)
	blockStart := w.Len()
	w.WriteU32(uint32(areaID))
	w.WriteU8(0) // labelId unchanged
	w.WriteU8(suction)
	w.WriteU8(water)
	w.WriteU8(times)
	padRoomBlock(w, blockStart)
	return s.writeRoomConfig(ctx, w)
}

// SetRoomSequence writes a room's cleaning order position (spec.md §4.6:
// type=5 request, sequence_position at byte 29 of the block).
func (s *SpotAreaService) SetRoomSequence(ctx context.Context, mapID uint32, areaID model.AreaID, position uint8) error {
	w := newRoomConfigRequest(5, mapID)
	blockStart := w.Len()
	w.WriteU32(uint32(areaID))
	for w.Len()-blockStart < roomSequencePositionOffset {
		w.WriteU8(0)
	}
	w.WriteU8(position)
	padRoomBlock(w, blockStart)
	return s.writeRoomConfig(ctx, w)
}

func (s *SpotAreaService) writeRoomConfig(ctx context.Context, w *binary.Writer) error {
	resp, err := s.writerClient.Call(ctx, w.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

// decodeStatusResult reads a single trailing u8 status code: 0 is success,
// any other value is CommandRejected (spec.md §4.6 virtual-wall service,
// reused for every write-style command response).
func decodeStatusResult(resp []byte) error {
	r := binary.NewReader(resp)
	status, err := r.ReadU8()
	if err != nil {
		return err
	}
	if status != 0 {
		return roserr.CommandRejected(int(status))
	}
	return nil
}
