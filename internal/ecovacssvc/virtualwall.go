package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// VirtualWallService exposes the no-go/no-mop restriction CRUD operations
// from spec.md §4.6: getVirtualWalls is read-only against one endpoint,
// while addVirtualWallRect/addNoMopZone/deleteVirtualWall all write through
// a second, distinct endpoint (mirroring the split readClient/writeClient
// shape of SpotAreaService).
type VirtualWallService struct {
	readClient  rosnet.ServiceClient
	writeClient rosnet.ServiceClient
}

// NewVirtualWallService builds a VirtualWallService over its read and
// write clients.
func NewVirtualWallService(readClient, writeClient rosnet.ServiceClient) *VirtualWallService {
	return &VirtualWallService{readClient: readClient, writeClient: writeClient}
}

// GetVirtualWalls returns every restriction currently stored on the
// active map.
func (s *VirtualWallService) GetVirtualWalls(ctx context.Context, mapID uint32) ([]model.VirtualWall, error) {
	req := binary.NewWriter()
	req.WriteU32(mapID)
	resp, err := s.readClient.Call(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}

	r := binary.NewReader(resp)
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	walls := make([]model.VirtualWall, 0, count)
	for i := uint32(0); i < count; i++ {
		wall, err := decodeVirtualWall(r)
		if err != nil {
			return nil, err
		}
		walls = append(walls, wall)
	}
	return walls, nil
}

func decodeVirtualWall(r *binary.Reader) (model.VirtualWall, error) {
	vwid, err := r.ReadU32()
	if err != nil {
		return model.VirtualWall{}, err
	}
	wallType, err := r.ReadU8()
	if err != nil {
		return model.VirtualWall{}, err
	}
	dotCount, err := r.ReadU8()
	if err != nil {
		return model.VirtualWall{}, err
	}
	dots := make([]model.Point, 0, dotCount)
	for i := uint8(0); i < dotCount; i++ {
		x, err := r.ReadI16()
		if err != nil {
			return model.VirtualWall{}, err
		}
		y, err := r.ReadI16()
		if err != nil {
			return model.VirtualWall{}, err
		}
		dots = append(dots, model.Point{X: int(x), Y: int(y)})
	}
	return model.VirtualWall{VWID: vwid, Type: model.VirtualWallType(wallType), Dots: dots}, nil
}

func encodeDots(w *binary.Writer, dots []model.Point) {
	w.WriteU8(uint8(len(dots)))
	for _, d := range dots {
		w.WriteI16(int16(d.X))
		w.WriteI16(int16(d.Y))
	}
}

// AddVirtualWallRect creates a no-go rectangle from two opposite corners
// plus the two derived corners (spec.md §4.6: a rectangle is encoded as
// four dots).
func (s *VirtualWallService) AddVirtualWallRect(ctx context.Context, mapID uint32, corner1, corner2 model.Point) error {
	dots := []model.Point{
		corner1,
		{X: corner2.X, Y: corner1.Y},
		corner2,
		{X: corner1.X, Y: corner2.Y},
	}
	return s.addWall(ctx, mapID, model.VirtualWallRegular, dots)
}

// AddNoMopZone creates a no-mop rectangle the same way AddVirtualWallRect
// creates a no-go rectangle.
func (s *VirtualWallService) AddNoMopZone(ctx context.Context, mapID uint32, corner1, corner2 model.Point) error {
	dots := []model.Point{
		corner1,
		{X: corner2.X, Y: corner1.Y},
		corner2,
		{X: corner1.X, Y: corner2.Y},
	}
	return s.addWall(ctx, mapID, model.VirtualWallNoMop, dots)
}

// AddVirtualWallLine creates a line restriction from exactly two dots.
func (s *VirtualWallService) AddVirtualWallLine(ctx context.Context, mapID uint32, a, b model.Point) error {
	return s.addWall(ctx, mapID, model.VirtualWallRegular, []model.Point{a, b})
}

func (s *VirtualWallService) addWall(ctx context.Context, mapID uint32, wallType model.VirtualWallType, dots []model.Point) error {
	req := binary.NewWriter()
	req.WriteU32(mapID)
	req.WriteU8(uint8(wallType))
	encodeDots(req, dots)

	resp, err := s.writeClient.Call(ctx, req.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

// DeleteVirtualWall removes a restriction by id.
func (s *VirtualWallService) DeleteVirtualWall(ctx context.Context, mapID uint32, vwid uint32) error {
	req := binary.NewWriter()
	req.WriteU32(mapID)
	req.WriteU32(vwid)

	resp, err := s.writeClient.Call(ctx, req.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}
