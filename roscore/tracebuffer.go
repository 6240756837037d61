package roscore

import (
	"sync"

	"github.com/valetudo-ecovacs/roscore/model"
)

// traceBuffer accumulates decoded trace points into a FIFO capped at
// maxPoints (spec.md §6 tracePathMaxPoints). TraceService.GetTrace only
// ever returns the robot's current tail window of recent chunks, so the
// live-entity loop's repeated fetches overlap from tick to tick; Append
// keeps only the portion of each fetch not already recorded and drops
// the oldest points once the cap is exceeded.
type traceBuffer struct {
	maxPoints int

	mu     sync.Mutex
	points []model.Point
}

func newTraceBuffer(maxPoints int) *traceBuffer {
	return &traceBuffer{maxPoints: maxPoints}
}

// Append merges fresh into the buffer and returns a snapshot of the
// resulting FIFO.
func (b *traceBuffer) Append(fresh []model.Point) []model.Point {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.points = append(b.points, novelSuffix(b.points, fresh)...)
	if b.maxPoints > 0 && len(b.points) > b.maxPoints {
		b.points = b.points[len(b.points)-b.maxPoints:]
	}

	out := make([]model.Point, len(b.points))
	copy(out, b.points)
	return out
}

// novelSuffix returns the portion of fresh beyond its overlap with the
// tail of existing, i.e. the longest prefix of fresh that duplicates the
// end of existing is dropped.
func novelSuffix(existing, fresh []model.Point) []model.Point {
	if len(existing) == 0 || len(fresh) == 0 {
		return fresh
	}
	maxOverlap := len(fresh)
	if maxOverlap > len(existing) {
		maxOverlap = len(existing)
	}
	for k := maxOverlap; k > 0; k-- {
		if pointsEqual(existing[len(existing)-k:], fresh[:k]) {
			return fresh[k:]
		}
	}
	return fresh
}

func pointsEqual(a, b []model.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
