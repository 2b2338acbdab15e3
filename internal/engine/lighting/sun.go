// Package lighting provides the directional sun light.
package lighting

import (
	gomath "math"
	"time"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// SunDirection converts azimuth/elevation angles in degrees to a light
// direction vector. Azimuth is the rotation around Y measured from +Z,
// elevation the angle above the horizon.
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(math.Radians(azimuth))
	el := float64(math.Radians(elevation))

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// RotateDirection rotates dir around axis by angle degrees.
func RotateDirection(dir, axis math.Vec3, angle float32) math.Vec3 {
	q := math.QuatFromAxisAngle(axis.Normalize(), math.Radians(angle)).Normalize()
	return q.Rotate(dir)
}

// Sun is a directional light that can sweep around the vertical axis.
type Sun struct {
	// Direction points towards the sun.
	Direction math.Vec3
	// SweepRate is the azimuth change in degrees per second.
	SweepRate float32
}

// NewSun creates a sun at the given azimuth and elevation.
func NewSun(azimuth, elevation float32) *Sun {
	return &Sun{Direction: SunDirection(azimuth, elevation)}
}

// Advance moves the sun along its sweep by dt.
func (s *Sun) Advance(dt time.Duration) {
	if s.SweepRate == 0 {
		return
	}
	angle := s.SweepRate * float32(dt.Seconds())
	s.Direction = RotateDirection(s.Direction, worldUp, angle).Normalize()
}

// Elevation returns the sun's angle above the horizon in degrees.
func (s *Sun) Elevation() float32 {
	d := s.Direction.Normalize()
	return float32(gomath.Asin(float64(math.Clamp(d.Y, -1, 1))) * 180 / gomath.Pi)
}
