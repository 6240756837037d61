package ecovacssvc

import (
	"context"
	"math"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// StatisticsService exposes the cumulative and last-clean counters
// (spec.md §4.6). Live updates arrive separately via a safe-resolve topic
// subscriber rather than through this client.
type StatisticsService struct {
	client rosnet.ServiceClient
}

// NewStatisticsService builds a StatisticsService over client.
func NewStatisticsService(client rosnet.ServiceClient) *StatisticsService {
	return &StatisticsService{client: client}
}

// statsAreaScaleCm2 converts the firmware's raw area unit (square
// centimeters) into square meters.
const statsAreaScaleCm2 = 10000.0

func decodeStatistics(resp []byte) (model.CleaningStatistics, error) {
	r := binary.NewReader(resp)
	areaCm2, err := r.ReadU32()
	if err != nil {
		return model.CleaningStatistics{}, err
	}
	duration, err := r.ReadU32()
	if err != nil {
		return model.CleaningStatistics{}, err
	}
	cleanType, err := r.ReadU8()
	if err != nil {
		return model.CleaningStatistics{}, err
	}
	return model.CleaningStatistics{
		AreaSquareMeters: math.Round(float64(areaCm2)/statsAreaScaleCm2*100) / 100,
		DurationSeconds:  duration,
		CleanType:        cleanType,
	}, nil
}

// GetTotalStatistics reads the lifetime cleaning counters.
func (s *StatisticsService) GetTotalStatistics(ctx context.Context) (model.CleaningStatistics, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return model.CleaningStatistics{}, err
	}
	return decodeStatistics(resp)
}

// GetLastCleanStatistics reads the most recently completed clean's
// counters.
func (s *StatisticsService) GetLastCleanStatistics(ctx context.Context) (model.CleaningStatistics, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return model.CleaningStatistics{}, err
	}
	return decodeStatistics(resp)
}
