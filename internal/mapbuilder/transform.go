// Package mapbuilder composes rooms, the compressed raster, robot pose, and
// virtual walls into the normalized layered Map (spec.md §4.8): rotation,
// polygon rasterization, the center-origin world<->grid projection, and
// layer/entity assembly with deterministic pixel ordering. Grounded on the
// teacher's internal/dag graph-building passes (many independent transforms
// folded into one composed output) and internal/envoy resource builders
// (deterministic, sorted output for test stability).
package mapbuilder

import (
	"math"

	"github.com/valetudo-ecovacs/roscore/model"
)

// WorldToGrid projects a world-space millimeter coordinate to a pixel-space
// grid coordinate under t, per spec.md §4.8 step 3: the world origin maps
// to the raster center, Y is flipped (world Y increases away from the
// robot's "up", grid Y increases downward), and the result is clamped to
// the map's pixel bounds.
func WorldToGrid(worldXmm, worldYmm int, t model.MapTransform) model.Point {
	gx := int(math.Round(float64(t.MapWidthPx)/2 + float64(worldXmm)/t.MMPerPixel))
	gy := int(math.Round(float64(t.MapHeightPx)/2 - float64(worldYmm)/t.MMPerPixel))
	return model.Point{X: clamp(gx, 0, t.MapWidthPx-1), Y: clamp(gy, 0, t.MapHeightPx-1)}
}

// GridToWorld is WorldToGrid's inverse, used by the round-trip property
// test (spec.md §8): worldToGrid(gridToWorld(p)) ~= p within mmPerPixel/2.
func GridToWorld(p model.Point, t model.MapTransform) (worldXmm, worldYmm int) {
	x := (float64(p.X) - float64(t.MapWidthPx)/2) * t.MMPerPixel
	y := (float64(t.MapHeightPx)/2 - float64(p.Y)) * t.MMPerPixel
	return int(math.Round(x)), int(math.Round(y))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
