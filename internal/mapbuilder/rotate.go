package mapbuilder

import "github.com/valetudo-ecovacs/roscore/model"

// Rotate applies a clockwise rotation by degrees to pixels drawn from a
// width x height raster, returning the rotated pixels and the new raster
// dimensions. 90 and 270 swap width and height (spec.md §4.8 step 1).
func Rotate(pixels []model.Point, width, height int, degrees model.RotationDegrees) (rotated []model.Point, newWidth, newHeight int) {
	steps := (int(degrees) / 90) % 4
	if steps < 0 {
		steps += 4
	}

	w, h := width, height
	out := pixels
	for i := 0; i < steps; i++ {
		next := make([]model.Point, len(out))
		for j, p := range out {
			next[j] = model.Point{X: h - 1 - p.Y, Y: p.X}
		}
		out = next
		w, h = h, w
	}
	return out, w, h
}

// RotateBack is the inverse rotation, used by the round-trip invariant test
// (spec.md §8): rotating a pixel set by r and then by 360-r must restore
// the original set.
func RotateBack(pixels []model.Point, width, height int, degrees model.RotationDegrees) (restored []model.Point, origWidth, origHeight int) {
	inverse := model.RotationDegrees((360 - int(degrees)) % 360)
	return Rotate(pixels, width, height, inverse)
}
