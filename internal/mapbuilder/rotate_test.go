package mapbuilder

import (
	"reflect"
	"sort"
	"testing"

	"github.com/valetudo-ecovacs/roscore/model"
)

func sortedCopy(pts []model.Point) []model.Point {
	out := append([]model.Point(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func TestRotate90SwapsDimensions(t *testing.T) {
	pixels := []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	rotated, w, h := Rotate(pixels, 2, 3, model.Rotation90)
	if w != 3 || h != 2 {
		t.Fatalf("expected swapped dims 3x2, got %dx%d", w, h)
	}
	if len(rotated) != len(pixels) {
		t.Fatalf("pixel count changed: %d -> %d", len(pixels), len(rotated))
	}
}

func TestRotateRoundTripRestoresOriginalSet(t *testing.T) {
	for _, r := range []model.RotationDegrees{model.Rotation0, model.Rotation90, model.Rotation180, model.Rotation270} {
		pixels := []model.Point{{X: 0, Y: 0}, {X: 4, Y: 1}, {X: 2, Y: 3}, {X: 1, Y: 1}}
		rotated, w, h := Rotate(pixels, 5, 4, r)
		restored, ow, oh := RotateBack(rotated, w, h, r)
		if ow != 5 || oh != 4 {
			t.Fatalf("rotation %d: expected original dims 5x4, got %dx%d", r, ow, oh)
		}
		if !reflect.DeepEqual(sortedCopy(restored), sortedCopy(pixels)) {
			t.Fatalf("rotation %d: round trip mismatch: got %+v, want %+v", r, restored, pixels)
		}
	}
}

func TestRotate180IsSelfInverse(t *testing.T) {
	pixels := []model.Point{{X: 0, Y: 0}, {X: 3, Y: 2}}
	once, w, h := Rotate(pixels, 4, 3, model.Rotation180)
	twice, w2, h2 := Rotate(once, w, h, model.Rotation180)
	if w2 != 4 || h2 != 3 {
		t.Fatalf("expected dims restored to 4x3, got %dx%d", w2, h2)
	}
	if !reflect.DeepEqual(sortedCopy(twice), sortedCopy(pixels)) {
		t.Fatalf("double 180 rotation did not restore original set")
	}
}
