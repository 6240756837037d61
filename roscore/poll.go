package roscore

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/mapbuilder"
	"github.com/valetudo-ecovacs/roscore/internal/statemachine"
	"github.com/valetudo-ecovacs/roscore/model"
)

// runRuntimeStateLoop implements spec.md §4.11's runtime-state loop: read
// the latest topic values within their staleness windows, derive status,
// and update the runtime cache.
func (c *Core) runRuntimeStateLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.PowerStatePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.tickRuntimeState()
		}
	}
}

func (c *Core) tickRuntimeState() {
	work, workOK := c.workStateTopic.Latest(c.cfg.WorkStateStaleAfter)
	charge, chargeOK := c.chargeStateTopic.Latest(c.cfg.PowerStateStaleAfter)
	alerts, _ := c.alertsTopic.Latest(0)
	battery, batteryOK := c.batteryTopic.Latest(c.cfg.PowerStateStaleAfter)
	pose, poseOK := c.poseTopic.Latest(0)

	c.metrics.SetTopicStale(descWorkState.Path, !workOK)
	c.metrics.SetTopicStale(descChargeState.Path, !chargeOK)
	c.metrics.SetTopicStale(descBattery.Path, !batteryOK)

	if !workOK || !chargeOK {
		return
	}

	battLevel := 0
	if batteryOK {
		battLevel = battery
	}
	next := statemachine.Derive(work, charge, alerts, battLevel)
	c.metrics.SetRuntimeStatus(string(next.Status), allStatuses)

	c.mu.Lock()
	changed := !c.haveLastDerived || statemachine.Changed(c.lastDerived, next)
	c.lastDerived = next
	c.haveLastDerived = true
	c.mu.Unlock()

	wrote := false
	if poseOK {
		wrote = c.cache.UpdatePose(pose) || wrote
	}
	if batteryOK {
		wrote = c.cache.UpdateBattery(battery) || wrote
	}
	wrote = c.cache.UpdateChargeState(charge) || wrote

	// MaybeFlush is debounced internally; the cache write count tracked
	// here approximates "ticks with a pending change" rather than actual
	// disk writes, since MaybeFlush does not report whether it wrote.
	if wrote {
		c.metrics.RuntimeCacheWrites.Inc()
		if err := c.cache.MaybeFlush(); err != nil {
			c.log.Errorf("flush runtime cache: %v", err)
		}
	}

	if changed {
		status := next
		c.emit(model.Event{Kind: model.EventStatusChanged, Status: &status})
	}
	if batteryOK {
		b := battery
		c.emit(model.Event{Kind: model.EventBatteryChanged, Battery: &b})
	}
}

// runSettingsLoop implements spec.md §4.11's settings loop: poll the
// global fan and water presets, emitting settingsChanged only when either
// differs from the previously observed value.
func (c *Core) runSettingsLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.CleaningSettingsPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.tickSettings(ctx)
		}
	}
}

func (c *Core) tickSettings(ctx context.Context) {
	start := time.Now()
	fan, err := c.settingSvc.GetFanMode(ctx)
	c.metrics.ObserveServiceCall("getFanMode", time.Since(start), errKind(err))
	if err != nil {
		c.log.Errorf("poll fan mode: %v", err)
		return
	}

	start = time.Now()
	water, err := c.settingSvc.GetWaterLevel(ctx)
	c.metrics.ObserveServiceCall("getWaterLevel", time.Since(start), errKind(err))
	if err != nil {
		c.log.Errorf("poll water level: %v", err)
		return
	}

	next := model.Settings{Fan: fan, Water: water}

	c.mu.Lock()
	changed := !c.haveLastSettings || c.lastSettings != next
	c.lastSettings = next
	c.haveLastSettings = true
	c.mu.Unlock()

	if changed {
		settings := next
		c.emit(model.Event{Kind: model.EventSettingsChanged, Settings: &settings})
	}
}

// runLiveEntityLoop implements spec.md §4.11's live-entities loop: fetch
// positions and trace points, rebuild only the dynamic entities, and
// publish only if they differ from the last publication. A tick is
// dropped outright if the previous one is still in flight.
func (c *Core) runLiveEntityLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.LivePositionPollInterval)
	defer ticker.Stop()
	var busy int32
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !atomic.CompareAndSwapInt32(&busy, 0, 1) {
				continue
			}
			go func() {
				defer atomic.StoreInt32(&busy, 0)
				c.tickLiveEntities(ctx)
			}()
		}
	}
}

func (c *Core) tickLiveEntities(ctx context.Context) {
	start := time.Now()
	positions, err := c.positionSvc.GetPositions(ctx)
	c.metrics.ObserveServiceCall("getPositions", time.Since(start), errKind(err))
	if err != nil {
		c.log.Errorf("poll live positions: %v", err)
		return
	}

	var traceWorld []model.Point
	if c.cfg.TracePathEnabled {
		start = time.Now()
		points, err := c.traceSvc.GetTrace(ctx)
		c.metrics.ObserveServiceCall("getTrace", time.Since(start), errKind(err))
		if err != nil {
			c.log.Errorf("poll trace: %v", err)
		} else {
			fresh := make([]model.Point, 0, len(points))
			for _, p := range points {
				fresh = append(fresh, model.Point{X: p.X, Y: p.Y})
			}
			traceWorld = c.traceBuf.Append(fresh)
		}
	}

	c.mu.Lock()
	base := c.lastMap
	c.mu.Unlock()
	if base == nil {
		// No full map poll has published a transform yet; the live loop
		// has nothing to project entities onto.
		return
	}

	var chargerWorld *model.Point
	if positions.ChargerFound {
		chargerWorld = &positions.Charger
	}
	dynamic := mapbuilder.DynamicEntities(base.Transform, &positions.Robot, chargerWorld, traceWorld)
	entities := append(dynamic, staticEntities(base.Entities)...)

	next := cloneMapWithEntities(base, entities)

	c.mu.Lock()
	changed := !mapEqual(c.lastMap, next)
	c.lastMap = next
	c.mu.Unlock()

	if changed {
		c.metrics.SetMapPixels(layerPixelCount(next, model.LayerFloor), layerPixelCount(next, model.LayerWall))
		m := next
		c.emit(model.Event{Kind: model.EventMapUpdated, Map: m})
	}
}

// runMapLoop implements spec.md §4.11's map-full loop: a single-shot
// triggered fetch of rooms, positions, virtual walls, and the compressed
// raster, gated by the detailedMapRefreshInterval cache TTL. It never
// overlaps with itself.
func (c *Core) runMapLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.DetailedMapRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.tickFullMap(ctx)
		}
	}
}

func (c *Core) tickFullMap(ctx context.Context) {
	start := time.Now()
	defer func() { c.metrics.MapPollDuration.Observe(time.Since(start).Seconds()) }()

	mapID, err := c.mapSvc.GetActiveMapID(ctx)
	if err != nil {
		c.log.Errorf("poll active map id: %v", err)
		return
	}
	c.mu.Lock()
	c.activeMapID = mapID
	c.haveActiveMapID = true
	c.mu.Unlock()

	compressed, err := c.mapSvc.GetCompressedMap(ctx, mapID)
	if err != nil {
		c.log.Errorf("poll compressed map: %v", err)
		return
	}

	rooms, err := c.spotAreaSvc.GetRooms(ctx, mapID)
	if err != nil {
		c.log.Errorf("poll rooms: %v", err)
		return
	}

	walls, err := c.virtualWallSvc.GetVirtualWalls(ctx, mapID)
	if err != nil {
		c.log.Errorf("poll virtual walls: %v", err)
		return
	}

	positions, err := c.positionSvc.GetPositions(ctx)
	if err != nil {
		c.log.Errorf("poll positions: %v", err)
		return
	}

	in := c.mapBuilderInput()
	in.CompressedMap = compressed.CompressedMap
	in.Rooms = rooms.Rooms
	in.VirtualWalls = walls
	in.RobotPose = &positions.Robot
	if positions.ChargerFound {
		in.ChargerWorld = &positions.Charger
	}

	built, ok := mapbuilder.Build(in)
	if !ok {
		c.metrics.MapSkippedTotal.WithLabelValues("guardrail").Inc()
		return
	}

	c.mu.Lock()
	c.lastMap = built
	c.mu.Unlock()

	c.metrics.MapPublishTotal.Inc()
	c.metrics.SetMapPixels(layerPixelCount(built, model.LayerFloor), layerPixelCount(built, model.LayerWall))
	c.emit(model.Event{Kind: model.EventMapUpdated, Map: built})
}

func (c *Core) mapBuilderInput() mapbuilder.Input {
	return mapbuilder.Input{
		MMPerPixel:     c.cfg.DetailedMapWorldMmPerPixel,
		Rotation:       c.cfg.DetailedMapRotationDegrees,
		MaxLayerPixels: c.cfg.DetailedMapMaxLayerPixels,
		MinFloorPixels: c.cfg.DetailedMapMinFloorPixels,
		LabelName:      c.labelName,
	}
}

func layerPixelCount(m *model.Map, kind model.LayerType) int {
	total := 0
	for _, l := range m.Layers {
		if l.Type == kind {
			total += len(l.Pixels)
		}
	}
	return total
}

// staticEntities returns the subset of entities a full map poll produces
// that the live-entity loop never recomputes (virtual walls/no-mop
// zones), so a live tick can carry them forward unchanged.
func staticEntities(entities []model.Entity) []model.Entity {
	var out []model.Entity
	for _, e := range entities {
		switch e.Type {
		case model.EntityRobot, model.EntityCharger, model.EntityPath:
			continue
		default:
			out = append(out, e)
		}
	}
	return out
}

// cloneMapWithEntities copies base with its Entities replaced, leaving
// Layers/SizeCm/Transform untouched.
func cloneMapWithEntities(base *model.Map, entities []model.Entity) *model.Map {
	next := *base
	next.Entities = entities
	return &next
}

// mapEqual compares only the fields the live-entity loop can change
// (robot/charger/path entities); it is not a full structural comparison,
// since the floor/wall/segment layers never move between full-map polls.
func mapEqual(a, b *model.Map) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Entities) != len(b.Entities) {
		return false
	}
	for i := range a.Entities {
		ea, eb := a.Entities[i], b.Entities[i]
		if ea.Type != eb.Type || len(ea.Points) != len(eb.Points) {
			return false
		}
		for j := range ea.Points {
			if ea.Points[j] != eb.Points[j] {
				return false
			}
		}
	}
	return true
}
