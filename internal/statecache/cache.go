// Package statecache persists the runtime cache named in spec.md §3/§6:
// robot pose, battery level, and charge state, loaded once at startup and
// flushed to disk with a debounced write-minimum interval on every change,
// plus an unconditional flush at shutdown. Grounded on the teacher's
// internal/xdscache snapshot-on-change pattern (in-memory state mutated by
// one owner, serialized out only when it actually changed).
package statecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/valetudo-ecovacs/roscore/model"
)

// Cache holds the in-memory runtime cache and debounces writes to path.
// Only the owning goroutine is expected to call Update; Snapshot is safe
// to call concurrently from any goroutine.
type Cache struct {
	path         string
	minInterval  time.Duration
	now          func() time.Time

	mu         sync.Mutex
	state      model.RuntimeCache
	lastWrite  time.Time
	everWrote  bool
	dirty      bool
}

// New returns a cache that persists to path, writing no more than once per
// minInterval. Load should be called once before use to pick up any
// previously persisted state.
func New(path string, minInterval time.Duration) *Cache {
	return &Cache{path: path, minInterval: minInterval, now: time.Now}
}

// Load reads the persisted state from disk, if present. A missing file is
// not an error: the cache simply starts empty.
func (c *Cache) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var state model.RuntimeCache
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current cached state.
func (c *Cache) Snapshot() model.RuntimeCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdatePose records a new robot pose if it differs from the cached value,
// and reports whether anything changed.
func (c *Cache) UpdatePose(p model.Pose) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.RobotPose != nil && *c.state.RobotPose == p {
		return false
	}
	c.state.RobotPose = &p
	c.dirty = true
	return true
}

// UpdateBattery records a new battery percentage if it differs.
func (c *Cache) UpdateBattery(level int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Battery != nil && *c.state.Battery == level {
		return false
	}
	c.state.Battery = &level
	c.dirty = true
	return true
}

// UpdateChargeState records a new charge state if it differs.
func (c *Cache) UpdateChargeState(cs model.ChargeState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ChargeState != nil && *c.state.ChargeState == cs {
		return false
	}
	c.state.ChargeState = &cs
	c.dirty = true
	return true
}

// MaybeFlush writes the cache to disk if it is dirty and at least
// minInterval has passed since the last write; it is a no-op otherwise.
// Call this after each Update* call that returned true.
func (c *Cache) MaybeFlush() error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	now := c.now()
	if c.everWrote && now.Sub(c.lastWrite) < c.minInterval {
		c.mu.Unlock()
		return nil
	}
	state := c.state
	c.mu.Unlock()
	return c.write(state, now)
}

// Flush writes the cache to disk unconditionally, ignoring the debounce
// window. Call this at shutdown (spec.md §4.10: "final flush on shutdown").
func (c *Cache) Flush() error {
	c.mu.Lock()
	state := c.state
	now := c.now()
	c.mu.Unlock()
	return c.write(state, now)
}

func (c *Cache) write(state model.RuntimeCache, now time.Time) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return err
	}
	c.mu.Lock()
	c.lastWrite = now
	c.everWrote = true
	c.dirty = false
	c.mu.Unlock()
	return nil
}
