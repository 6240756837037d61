package statecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valetudo-ecovacs/roscore/model"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing.json"), time.Second)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := c.Snapshot()
	if snap.RobotPose != nil || snap.Battery != nil || snap.ChargeState != nil {
		t.Fatalf("expected empty cache, got %+v", snap)
	}
}

func TestUpdateAndFlushRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	c := New(path, time.Second)

	changed := c.UpdateBattery(80)
	if !changed {
		t.Fatalf("expected first battery update to report changed")
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var persisted model.RuntimeCache
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if persisted.Battery == nil || *persisted.Battery != 80 {
		t.Fatalf("unexpected persisted battery: %+v", persisted.Battery)
	}

	c2 := New(path, time.Second)
	if err := c2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := c2.Snapshot()
	if snap.Battery == nil || *snap.Battery != 80 {
		t.Fatalf("reloaded cache missing battery: %+v", snap)
	}
}

func TestUpdateReportsNoChangeForIdenticalValue(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "state.json"), time.Second)
	if !c.UpdateBattery(50) {
		t.Fatalf("expected first update to change")
	}
	if c.UpdateBattery(50) {
		t.Fatalf("expected identical update to report no change")
	}
}

func TestMaybeFlushDebouncesWithinMinInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	c := New(path, time.Hour)
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.UpdateBattery(10)
	if err := c.MaybeFlush(); err != nil {
		t.Fatalf("MaybeFlush: %v", err)
	}
	firstWrite, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	clock = clock.Add(time.Minute) // well within the 1h debounce window
	c.UpdateBattery(20)
	if err := c.MaybeFlush(); err != nil {
		t.Fatalf("MaybeFlush: %v", err)
	}
	secondWrite, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !firstWrite.ModTime().Equal(secondWrite.ModTime()) {
		t.Fatalf("expected debounced write to be skipped within the interval")
	}

	// The in-memory value did change even though the write was skipped.
	snap := c.Snapshot()
	if snap.Battery == nil || *snap.Battery != 20 {
		t.Fatalf("expected in-memory battery to update even when the flush is debounced")
	}

	clock = clock.Add(2 * time.Hour) // past the debounce window
	if err := c.MaybeFlush(); err != nil {
		t.Fatalf("MaybeFlush after window: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var persisted model.RuntimeCache
	_ = json.Unmarshal(data, &persisted)
	if persisted.Battery == nil || *persisted.Battery != 20 {
		t.Fatalf("expected debounced write to eventually flush the latest value, got %+v", persisted.Battery)
	}
}
