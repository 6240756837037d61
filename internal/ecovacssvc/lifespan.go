package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// LifespanService exposes consumable wear reads and resets (spec.md
// §4.6).
type LifespanService struct {
	client rosnet.ServiceClient
}

// NewLifespanService builds a LifespanService over client.
func NewLifespanService(client rosnet.ServiceClient) *LifespanService {
	return &LifespanService{client: client}
}

// GetLifespan reads life/total for one consumable part.
func (s *LifespanService) GetLifespan(ctx context.Context, part model.ConsumablePart) (model.Lifespan, error) {
	req := binary.NewWriter()
	req.WriteU8(partCode(part))
	resp, err := s.client.Call(ctx, req.Bytes())
	if err != nil {
		return model.Lifespan{}, err
	}
	r := binary.NewReader(resp)
	life, err := r.ReadU32()
	if err != nil {
		return model.Lifespan{}, err
	}
	total, err := r.ReadU32()
	if err != nil {
		return model.Lifespan{}, err
	}
	return model.Lifespan{Part: part, Life: life, Total: total}, nil
}

// ResetLifespan resets one consumable part's wear counter.
func (s *LifespanService) ResetLifespan(ctx context.Context, part model.ConsumablePart) error {
	req := binary.NewWriter()
	req.WriteU8(partCode(part))
	resp, err := s.client.Call(ctx, req.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

func partCode(part model.ConsumablePart) uint8 {
	switch part {
	case model.ConsumableMainBrush:
		return 0
	case model.ConsumableSideBrush:
		return 1
	case model.ConsumableHepa:
		return 2
	case model.ConsumableAll:
		return 3
	default:
		return 0xFF
	}
}
