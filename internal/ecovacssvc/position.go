package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// PositionService reads the robot's and charger's current world-space
// positions in one call, used by both the map-full and live-entity
// polling loops (spec.md §4.11).
type PositionService struct {
	client rosnet.ServiceClient
}

// NewPositionService builds a PositionService over client.
func NewPositionService(client rosnet.ServiceClient) *PositionService {
	return &PositionService{client: client}
}

// Positions is the decoded getPositions response.
type Positions struct {
	Robot        model.Pose
	Charger      model.Point
	ChargerFound bool
}

// angleScale converts the firmware's tenth-of-a-degree heading into
// degrees.
const angleScale = 10.0

// GetPositions fetches the robot pose and, if known, the charger's
// location.
func (s *PositionService) GetPositions(ctx context.Context) (Positions, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return Positions{}, err
	}
	r := binary.NewReader(resp)

	robotX, err := r.ReadI16()
	if err != nil {
		return Positions{}, err
	}
	robotY, err := r.ReadI16()
	if err != nil {
		return Positions{}, err
	}
	angleTenths, err := r.ReadI16()
	if err != nil {
		return Positions{}, err
	}
	chargerFound, err := r.ReadU8()
	if err != nil {
		return Positions{}, err
	}
	chargerX, err := r.ReadI16()
	if err != nil {
		return Positions{}, err
	}
	chargerY, err := r.ReadI16()
	if err != nil {
		return Positions{}, err
	}

	return Positions{
		Robot: model.Pose{
			X:            int(robotX),
			Y:            int(robotY),
			AngleDegrees: float64(angleTenths) / angleScale,
		},
		Charger:      model.Point{X: int(chargerX), Y: int(chargerY)},
		ChargerFound: chargerFound != 0,
	}, nil
}
