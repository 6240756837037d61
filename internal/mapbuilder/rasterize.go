package mapbuilder

import (
	"sort"

	"github.com/valetudo-ecovacs/roscore/model"
)

// RasterizePolygon rasterizes polygon (vertices in grid-pixel space, in
// order) into the set of pixels it covers within a width x height raster,
// using the half-pixel even-odd rule from spec.md §4.8 step 2: scan each
// integer row, find edge crossings at the row's pixel-center y-coordinate,
// and include a pixel when its center lies between an odd-even pair of
// crossings.
func RasterizePolygon(polygon []model.Point, width, height int) []model.Point {
	if len(polygon) < 3 {
		return nil
	}

	minY, maxY := polygon[0].Y, polygon[0].Y
	for _, p := range polygon[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	minY = clamp(minY, 0, height-1)
	maxY = clamp(maxY, 0, height-1)

	var out []model.Point
	for y := minY; y <= maxY; y++ {
		scanY := float64(y) + 0.5
		xs := edgeCrossings(polygon, scanY)
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xStart, xEnd := xs[i], xs[i+1]
			loX := clamp(int(xStart), 0, width-1)
			hiX := clamp(int(xEnd), 0, width-1)
			for x := loX; x <= hiX; x++ {
				cx := float64(x) + 0.5
				if cx >= xStart && cx < xEnd {
					out = append(out, model.Point{X: x, Y: y})
				}
			}
		}
	}
	return out
}

// edgeCrossings returns the x-coordinate where each polygon edge crosses
// the horizontal line y=scanY, using a half-open [y1,y2) test on each edge
// so that shared vertices are not double-counted.
func edgeCrossings(polygon []model.Point, scanY float64) []float64 {
	var xs []float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		p1 := polygon[i]
		p2 := polygon[(i+1)%n]
		y1, y2 := float64(p1.Y), float64(p2.Y)
		if (y1 <= scanY && y2 > scanY) || (y2 <= scanY && y1 > scanY) {
			t := (scanY - y1) / (y2 - y1)
			x := float64(p1.X) + t*float64(p2.X-p1.X)
			xs = append(xs, x)
		}
	}
	return xs
}

// SortPixels orders pixels in the (y,x) order required for deterministic
// layer emission (spec.md §3 invariants, §4.8 step 5).
func SortPixels(pixels []model.Point) []model.Point {
	out := append([]model.Point(nil), pixels...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
