package shadow

import (
	"time"

	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// DefaultResetInterval is how often a Driver clears the film size cache.
const DefaultResetInterval = 5 * time.Second

// Driver applies the per-frame policy around a Rig: updates can be frozen,
// and the film size cache is cleared once ResetInterval of frame time has
// elapsed since the last reset.
type Driver struct {
	rig *Rig

	// ResetInterval is the frame time between cache resets. Zero disables
	// periodic resets.
	ResetInterval time.Duration
	// Frozen skips rig updates; the published arrays keep their values.
	Frozen bool

	lastReset time.Duration
}

// NewDriver creates a driver whose reset timer starts at frame time start.
func NewDriver(rig *Rig, resetInterval time.Duration, start time.Duration) *Driver {
	return &Driver{
		rig:           rig,
		ResetInterval: resetInterval,
		lastReset:     start,
	}
}

// Rig returns the driven rig.
func (d *Driver) Rig() *Rig {
	return d.rig
}

// ToggleFreeze flips Frozen and returns the new state.
func (d *Driver) ToggleFreeze() bool {
	d.Frozen = !d.Frozen
	return d.Frozen
}

// SinceReset returns the frame time elapsed since the last cache reset.
func (d *Driver) SinceReset(now time.Duration) time.Duration {
	return now - d.lastReset
}

// Frame runs one frame at frame time now. It reports whether the film size
// cache was reset after the update.
func (d *Driver) Frame(now time.Duration, view camera.View, lightDir math.Vec3) bool {
	if !d.Frozen {
		d.rig.Update(view, lightDir)
	}
	if d.ResetInterval > 0 && d.SinceReset(now) > d.ResetInterval {
		d.lastReset = now
		d.rig.ResetFilmSizeCache()
		return true
	}
	return false
}
