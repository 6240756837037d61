package roscore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/valetudo-ecovacs/roscore/internal/ecovacssvc"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/model"
)

// call wraps one vendor service invocation with the standard
// observe-duration-and-error-kind bookkeeping every upward method needs,
// grounded on the teacher's translator-call timing pattern in
// internal/contour.
func (c *Core) call(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.metrics.ObserveServiceCall(name, time.Since(start), errKind(err))
	return err
}

func (c *Core) requireActiveMapID() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.haveActiveMapID {
		return 0, roserr.New(roserr.KindNotInitialized, "no active map id learned yet")
	}
	return c.activeMapID, nil
}

// GetMap returns the most recently published map snapshot.
func (c *Core) GetMap() (*model.Map, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastMap == nil {
		return nil, roserr.New(roserr.KindNotInitialized, "no map published yet")
	}
	return c.lastMap, nil
}

// GetVirtualRestrictions returns the active map's virtual walls and no-mop
// zones.
func (c *Core) GetVirtualRestrictions(ctx context.Context) ([]model.VirtualWall, error) {
	mapID, err := c.requireActiveMapID()
	if err != nil {
		return nil, err
	}
	var walls []model.VirtualWall
	err = c.call("getVirtualWall", func() error {
		var callErr error
		walls, callErr = c.virtualWallSvc.GetVirtualWalls(ctx, mapID)
		return callErr
	})
	return walls, err
}

// SetVirtualRestrictions replaces the active map's full set of virtual
// walls and no-mop zones with walls: every existing restriction is
// deleted, then each entry in walls is added. VirtualWallService exposes
// only additive/delete primitives (spec.md §4.6), so "set" semantics are
// built on top of those rather than a native bulk-replace endpoint.
func (c *Core) SetVirtualRestrictions(ctx context.Context, walls []model.VirtualWall) error {
	mapID, err := c.requireActiveMapID()
	if err != nil {
		return err
	}

	existing, err := c.virtualWallSvc.GetVirtualWalls(ctx, mapID)
	if err != nil {
		return err
	}
	for _, w := range existing {
		if err := c.call("deleteVirtualWall", func() error {
			return c.virtualWallSvc.DeleteVirtualWall(ctx, mapID, w.VWID)
		}); err != nil {
			return err
		}
	}

	for _, w := range walls {
		w := w
		if err := c.addRestriction(ctx, mapID, w); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) addRestriction(ctx context.Context, mapID uint32, w model.VirtualWall) error {
	if w.IsLine() {
		return c.call("addVirtualWallLine", func() error {
			return c.virtualWallSvc.AddVirtualWallLine(ctx, mapID, w.Dots[0], w.Dots[1])
		})
	}
	if len(w.Dots) < 2 {
		return roserr.New(roserr.KindInvalidArgument, "virtual wall needs at least 2 dots, got %d", len(w.Dots))
	}
	corner1, corner2 := w.Dots[0], w.Dots[1]
	if w.Type == model.VirtualWallNoMop {
		return c.call("addNoMopZone", func() error {
			return c.virtualWallSvc.AddNoMopZone(ctx, mapID, corner1, corner2)
		})
	}
	return c.call("addVirtualWallRect", func() error {
		return c.virtualWallSvc.AddVirtualWallRect(ctx, mapID, corner1, corner2)
	})
}

// ExecuteSegmentAction starts a room-targeted clean over areaIDs.
func (c *Core) ExecuteSegmentAction(ctx context.Context, areaIDs []model.AreaID) error {
	return c.call("startRoomClean", func() error {
		return c.workManageSvc.StartRoomClean(ctx, areaIDs)
	})
}

// RenameSegment assigns labelID to areaID on the active map.
func (c *Core) RenameSegment(ctx context.Context, areaID model.AreaID, labelID uint8) error {
	mapID, err := c.requireActiveMapID()
	if err != nil {
		return err
	}
	return c.call("setRoomLabel", func() error {
		return c.spotAreaSvc.SetRoomLabel(ctx, mapID, areaID, labelID)
	})
}

// SetRoomCleaningPreferences updates areaID's per-room suction/water/times
// tuple.
func (c *Core) SetRoomCleaningPreferences(ctx context.Context, areaID model.AreaID, prefs model.CleaningPreferences) error {
	mapID, err := c.requireActiveMapID()
	if err != nil {
		return err
	}
	return c.call("setRoomCleaningPreferences", func() error {
		return c.spotAreaSvc.SetRoomCleaningPreferences(ctx, mapID, areaID, prefs.Times, prefs.Water, prefs.Suction)
	})
}

// Start begins a full automatic clean.
func (c *Core) Start(ctx context.Context) error {
	return c.call("startAuto", func() error { return c.workManageSvc.StartAuto(ctx) })
}

// StartCustomClean begins cleaning the given world-space rectangles.
func (c *Core) StartCustomClean(ctx context.Context, rects []ecovacssvc.CleanRect) error {
	return c.call("startCustomClean", func() error {
		return c.workManageSvc.StartCustomClean(ctx, rects)
	})
}

// Stop halts cleaning entirely.
func (c *Core) Stop(ctx context.Context) error {
	return c.call("stop", func() error { return c.workManageSvc.Stop(ctx) })
}

// Pause suspends the in-progress work item, preserving its work type so
// Resume can hand it back to the firmware unchanged.
func (c *Core) Pause(ctx context.Context) error {
	workType := c.currentWorkType()
	return c.call("pause", func() error { return c.workManageSvc.Pause(ctx, workType) })
}

// Resume continues a previously paused work item.
func (c *Core) Resume(ctx context.Context) error {
	workType := c.currentWorkType()
	return c.call("resume", func() error { return c.workManageSvc.Resume(ctx, workType) })
}

func (c *Core) currentWorkType() model.WorkType {
	if ws, ok := c.workStateTopic.Latest(0); ok {
		return ws.WorkType
	}
	return model.WorkTypeAuto
}

// Home sends the robot back to its dock.
func (c *Core) Home(ctx context.Context) error {
	return c.call("returnToDock", func() error { return c.workManageSvc.ReturnToDock(ctx) })
}

// EmptyDustbin triggers the auto-empty dock's collection cycle.
func (c *Core) EmptyDustbin(ctx context.Context) error {
	return c.call("autoCollectDirt", func() error { return c.workManageSvc.AutoCollectDirt(ctx) })
}

// OpenManualControlSession validates code against the configured
// manualControlSessionCode and opens the local live-view/remote-control
// gate over mdsctl (spec.md §6: "Required secret for remote-session
// open").
func (c *Core) OpenManualControlSession(code string) error {
	if c.cfg.ManualControlSessionCode == "" || code != c.cfg.ManualControlSessionCode {
		return roserr.New(roserr.KindInvalidArgument, "manual control session code mismatch")
	}
	if _, err := c.mdsctlClient.OnLiveLaunchPwdState(1, code); err != nil {
		return err
	}
	if _, err := c.mdsctlClient.StartPushStream(0); err != nil {
		return err
	}
	sessionID := uuid.NewString()
	c.mu.Lock()
	c.manualControlSessionID = sessionID
	c.mu.Unlock()
	c.log.WithField("session", sessionID).Infof("manual control session opened")
	return nil
}

// CloseManualControlSession ends the live-view/remote-control gate.
func (c *Core) CloseManualControlSession() error {
	if _, err := c.mdsctlClient.StopPushStream(); err != nil {
		return err
	}
	if _, err := c.mdsctlClient.SetPwdState(0); err != nil {
		return err
	}
	c.mu.Lock()
	sessionID := c.manualControlSessionID
	c.manualControlSessionID = ""
	c.mu.Unlock()
	c.log.WithField("session", sessionID).Infof("manual control session closed")
	return nil
}

// Move issues one manual-control movement command. angularVelocity is only
// meaningful for moveType values that rotate the robot; pass nil
// otherwise (spec.md §6 manual control "move verbs").
func (c *Core) Move(ctx context.Context, moveType uint8, angularVelocity *int16) error {
	return c.call("remoteMove", func() error {
		return c.workManageSvc.RemoteMove(ctx, moveType, angularVelocity)
	})
}

// GetFanMode returns the currently selected suction power preset.
func (c *Core) GetFanMode(ctx context.Context) (model.FanMode, error) {
	var mode model.FanMode
	err := c.call("getFanMode", func() error {
		var callErr error
		mode, callErr = c.settingSvc.GetFanMode(ctx)
		return callErr
	})
	return mode, err
}

// SetFanMode selects a suction power preset.
func (c *Core) SetFanMode(ctx context.Context, mode model.FanMode) error {
	return c.call("setFanMode", func() error { return c.settingSvc.SetFanMode(ctx, mode) })
}

// GetWaterLevel returns the currently selected water-flow preset.
func (c *Core) GetWaterLevel(ctx context.Context) (model.WaterLevel, error) {
	var level model.WaterLevel
	err := c.call("getWaterLevel", func() error {
		var callErr error
		level, callErr = c.settingSvc.GetWaterLevel(ctx)
		return callErr
	})
	return level, err
}

// SetWaterLevel selects a water-flow preset.
func (c *Core) SetWaterLevel(ctx context.Context, level model.WaterLevel) error {
	return c.call("setWaterLevel", func() error { return c.settingSvc.SetWaterLevel(ctx, level) })
}

// GetConsumableState returns part's remaining-life percentage.
func (c *Core) GetConsumableState(ctx context.Context, part model.ConsumablePart) (model.ConsumableState, error) {
	var lifespan model.Lifespan
	err := c.call("getLifespan", func() error {
		var callErr error
		lifespan, callErr = c.lifespanSvc.GetLifespan(ctx, part)
		return callErr
	})
	if err != nil {
		return model.ConsumableState{}, err
	}
	return model.DeriveConsumableState(lifespan), nil
}

// ResetConsumable resets part's tracked remaining life to full.
func (c *Core) ResetConsumable(ctx context.Context, part model.ConsumablePart) error {
	return c.call("resetLifespan", func() error { return c.lifespanSvc.ResetLifespan(ctx, part) })
}

// GetCurrentStatistics returns the most recently completed clean's area
// and duration.
func (c *Core) GetCurrentStatistics(ctx context.Context) (model.CleaningStatistics, error) {
	var stats model.CleaningStatistics
	err := c.call("getLastCleanStatistics", func() error {
		var callErr error
		stats, callErr = c.statisticsSvc.GetLastCleanStatistics(ctx)
		return callErr
	})
	return stats, err
}

// GetTotalStatistics returns the robot's lifetime cleaned area and
// duration.
func (c *Core) GetTotalStatistics(ctx context.Context) (model.CleaningStatistics, error) {
	var stats model.CleaningStatistics
	err := c.call("getTotalStatistics", func() error {
		var callErr error
		stats, callErr = c.statisticsSvc.GetTotalStatistics(ctx)
		return callErr
	})
	return stats, err
}

// GetSuctionBoostOnCarpet reports whether suction boosts automatically on
// carpet.
func (c *Core) GetSuctionBoostOnCarpet(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.call("getSuctionBoostOnCarpet", func() error {
		var callErr error
		enabled, callErr = c.settingSvc.GetSuctionBoostOnCarpet(ctx)
		return callErr
	})
	return enabled, err
}

// SetSuctionBoostOnCarpet toggles automatic suction boost on carpet.
func (c *Core) SetSuctionBoostOnCarpet(ctx context.Context, enabled bool) error {
	return c.call("setSuctionBoostOnCarpet", func() error {
		return c.settingSvc.SetSuctionBoostOnCarpet(ctx, enabled)
	})
}

// GetRoomPreferencesEnabled reports whether per-room cleaning preferences
// are honored.
func (c *Core) GetRoomPreferencesEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.call("getRoomPreferencesEnabled", func() error {
		var callErr error
		enabled, callErr = c.settingSvc.GetRoomPreferencesEnabled(ctx)
		return callErr
	})
	return enabled, err
}

// SetRoomPreferencesEnabled toggles whether per-room cleaning preferences
// are honored.
func (c *Core) SetRoomPreferencesEnabled(ctx context.Context, enabled bool) error {
	return c.call("setRoomPreferencesEnabled", func() error {
		return c.settingSvc.SetRoomPreferencesEnabled(ctx, enabled)
	})
}

// GetAutoCollectEnabled reports whether the auto-empty dock is enabled.
func (c *Core) GetAutoCollectEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.call("getAutoCollectEnabled", func() error {
		var callErr error
		enabled, callErr = c.settingSvc.GetAutoCollectEnabled(ctx)
		return callErr
	})
	return enabled, err
}

// SetAutoCollectEnabled toggles the auto-empty dock.
func (c *Core) SetAutoCollectEnabled(ctx context.Context, enabled bool) error {
	return c.call("setAutoCollectEnabled", func() error {
		return c.settingSvc.SetAutoCollectEnabled(ctx, enabled)
	})
}

// GetCleaningTimesPasses returns the configured pass count per clean.
func (c *Core) GetCleaningTimesPasses(ctx context.Context) (model.CleaningPass, error) {
	var passes uint8
	err := c.call("getCleaningTimesPasses", func() error {
		var callErr error
		passes, callErr = c.settingSvc.GetCleaningTimesPasses(ctx)
		return callErr
	})
	return model.CleaningPass{Times: passes}, err
}

// SetCleaningTimesPasses configures the pass count per clean.
func (c *Core) SetCleaningTimesPasses(ctx context.Context, pass model.CleaningPass) error {
	return c.call("setCleaningTimesPasses", func() error {
		return c.settingSvc.SetCleaningTimesPasses(ctx, pass.Times)
	})
}
