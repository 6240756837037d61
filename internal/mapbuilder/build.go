package mapbuilder

import "github.com/valetudo-ecovacs/roscore/model"

// Input bundles everything one map-build pass composes into a Map (spec.md
// §4.8). All world coordinates are millimeters; RobotPose, ChargerWorld and
// TraceWorld are optional.
type Input struct {
	CompressedMap  model.CompressedMap
	Rooms          []model.Room
	VirtualWalls   []model.VirtualWall
	RobotPose      *model.Pose
	ChargerWorld   *model.Point
	TraceWorld     []model.Point
	MMPerPixel     float64
	Rotation       model.RotationDegrees
	MaxLayerPixels int
	MinFloorPixels int
	LabelName      func(labelID uint8) string
}

// Build composes Input into a normalized Map. The second return value is
// false when a guardrail (spec.md §4.8 "Guardrails") trips: the poll should
// then skip publishing rather than error.
func Build(in Input) (*model.Map, bool) {
	cm := in.CompressedMap
	rotatedFloor, rw, rh := Rotate(cm.FloorPixels, cm.Width, cm.Height, in.Rotation)
	rotatedWall, _, _ := Rotate(cm.WallPixels, cm.Width, cm.Height, in.Rotation)

	if len(rotatedFloor)+len(rotatedWall) > in.MaxLayerPixels {
		return nil, false
	}
	if len(rotatedFloor) < in.MinFloorPixels {
		return nil, false
	}

	transform := model.MapTransform{
		MapWidthPx:      rw,
		MapHeightPx:     rh,
		MMPerPixel:      in.MMPerPixel,
		RotationDegrees: in.Rotation,
	}

	layers := make([]model.Layer, 0, 2+len(in.Rooms))
	layers = append(layers, model.Layer{Type: model.LayerFloor, Pixels: SortPixels(rotatedFloor)})
	layers = append(layers, model.Layer{Type: model.LayerWall, Pixels: SortPixels(rotatedWall)})

	for _, room := range in.Rooms {
		gridPoly := make([]model.Point, len(room.Polygon))
		for i, p := range room.Polygon {
			gridPoly[i] = WorldToGrid(p.X, p.Y, transform)
		}
		pixels := SortPixels(RasterizePolygon(gridPoly, rw, rh))
		name := ""
		if in.LabelName != nil {
			name = in.LabelName(room.LabelID)
		}
		meta := model.SegmentMeta{
			SegmentID:               room.AreaID,
			Name:                    name,
			RoomCleaningPreferences: room.Preferences,
		}
		layers = append(layers, model.Layer{Type: model.LayerSegment, Pixels: pixels, MetaData: &meta})
	}

	entities := DynamicEntities(transform, in.RobotPose, in.ChargerWorld, in.TraceWorld)
	for _, wall := range in.VirtualWalls {
		entities = append(entities, buildRestrictionEntity(wall, transform))
	}

	return &model.Map{
		SizeCm:      model.SizeCm{X: rw * cm.ResolutionCm, Y: rh * cm.ResolutionCm},
		PixelSizeCm: cm.ResolutionCm,
		Layers:      layers,
		Entities:    entities,
		Transform:   transform,
	}, true
}

// DynamicEntities builds the subset of Map.Entities that changes on every
// live-position poll tick (spec.md §4.11's live-entities loop: "rebuild
// only dynamic entities"), reusing a transform computed by an earlier full
// Build call rather than redecoding the floor/wall raster.
func DynamicEntities(transform model.MapTransform, robotPose *model.Pose, chargerWorld *model.Point, traceWorld []model.Point) []model.Entity {
	var entities []model.Entity
	if robotPose != nil {
		p := WorldToGrid(robotPose.X, robotPose.Y, transform)
		meta := model.RobotEntityMeta{AngleDegrees: robotPose.AngleDegrees}
		entities = append(entities, model.Entity{Type: model.EntityRobot, Points: []model.Point{p}, MetaData: &meta})
	}
	if chargerWorld != nil {
		p := WorldToGrid(chargerWorld.X, chargerWorld.Y, transform)
		entities = append(entities, model.Entity{Type: model.EntityCharger, Points: []model.Point{p}})
	}
	if len(traceWorld) > 0 {
		points := make([]model.Point, len(traceWorld))
		for i, p := range traceWorld {
			points[i] = WorldToGrid(p.X, p.Y, transform)
		}
		entities = append(entities, model.Entity{Type: model.EntityPath, Points: points})
	}
	return entities
}

// buildRestrictionEntity renders a virtual wall as a line (exactly two
// dots) or a rectangle normalized to the axis-aligned bounding box of its
// corners, per spec.md §4.8 step 4.
func buildRestrictionEntity(wall model.VirtualWall, transform model.MapTransform) model.Entity {
	gridDots := make([]model.Point, len(wall.Dots))
	for i, d := range wall.Dots {
		gridDots[i] = WorldToGrid(d.X, d.Y, transform)
	}

	if wall.IsLine() {
		return model.Entity{Type: model.EntityVirtualWall, Points: gridDots}
	}

	minX, minY := gridDots[0].X, gridDots[0].Y
	maxX, maxY := gridDots[0].X, gridDots[0].Y
	for _, p := range gridDots[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	entityType := model.EntityNoGo
	if wall.Type == model.VirtualWallNoMop {
		entityType = model.EntityNoMop
	}
	return model.Entity{
		Type:   entityType,
		Points: []model.Point{{X: minX, Y: minY}, {X: maxX, Y: maxY}},
	}
}
