package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// SettingService exposes global cleaning-setting reads and writes
// (spec.md §4.6). Every request ends with a 2-byte trailing pad to match
// the firmware's fixed framing.
type SettingService struct {
	client rosnet.ServiceClient
}

// NewSettingService builds a SettingService over client.
func NewSettingService(client rosnet.ServiceClient) *SettingService {
	return &SettingService{client: client}
}

func padTrailing(w *binary.Writer) {
	w.WriteU8(0)
	w.WriteU8(0)
}

// GetFanMode reads the current fan preset.
func (s *SettingService) GetFanMode(ctx context.Context) (model.FanMode, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return model.FanMode{}, err
	}
	v, err := binary.NewReader(resp).ReadU8()
	if err != nil {
		return model.FanMode{}, err
	}
	return model.FanModeFromFirmwareValue(v), nil
}

// SetFanMode writes the fan preset.
func (s *SettingService) SetFanMode(ctx context.Context, mode model.FanMode) error {
	w := binary.NewWriter()
	w.WriteU8(mode.FirmwareValue())
	padTrailing(w)
	resp, err := s.client.Call(ctx, w.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

// GetWaterLevel reads the current water preset.
func (s *SettingService) GetWaterLevel(ctx context.Context) (model.WaterLevel, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return model.WaterLevel{}, err
	}
	v, err := binary.NewReader(resp).ReadU8()
	if err != nil {
		return model.WaterLevel{}, err
	}
	return model.WaterLevelFromFirmwareValue(v), nil
}

// SetWaterLevel writes the water preset.
func (s *SettingService) SetWaterLevel(ctx context.Context, level model.WaterLevel) error {
	w := binary.NewWriter()
	w.WriteU8(level.FirmwareValue())
	padTrailing(w)
	resp, err := s.client.Call(ctx, w.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

func (s *SettingService) getBool(ctx context.Context) (bool, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return false, err
	}
	v, err := binary.NewReader(resp).ReadU8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (s *SettingService) setBool(ctx context.Context, enabled bool) error {
	w := binary.NewWriter()
	v := uint8(0)
	if enabled {
		v = 1
	}
	w.WriteU8(v)
	padTrailing(w)
	resp, err := s.client.Call(ctx, w.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

// GetSuctionBoostOnCarpet reads the carpet-boost toggle.
func (s *SettingService) GetSuctionBoostOnCarpet(ctx context.Context) (bool, error) {
	return s.getBool(ctx)
}

// SetSuctionBoostOnCarpet writes the carpet-boost toggle.
func (s *SettingService) SetSuctionBoostOnCarpet(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, enabled)
}

// GetRoomPreferencesEnabled reads whether per-room preferences override
// the global fan/water preset.
func (s *SettingService) GetRoomPreferencesEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx)
}

// SetRoomPreferencesEnabled writes the per-room-preferences toggle.
func (s *SettingService) SetRoomPreferencesEnabled(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, enabled)
}

// GetAutoCollectEnabled reads the dock auto-empty toggle.
func (s *SettingService) GetAutoCollectEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx)
}

// SetAutoCollectEnabled writes the dock auto-empty toggle.
func (s *SettingService) SetAutoCollectEnabled(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, enabled)
}

// GetCleaningTimesPasses reads the configured pass count (1 or 2).
func (s *SettingService) GetCleaningTimesPasses(ctx context.Context) (uint8, error) {
	resp, err := s.client.Call(ctx, []byte{})
	if err != nil {
		return 0, err
	}
	return binary.NewReader(resp).ReadU8()
}

// SetCleaningTimesPasses writes the configured pass count.
func (s *SettingService) SetCleaningTimesPasses(ctx context.Context, passes uint8) error {
	w := binary.NewWriter()
	w.WriteU8(passes)
	padTrailing(w)
	resp, err := s.client.Call(ctx, w.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}
