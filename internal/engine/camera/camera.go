// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// View is the read-only per-frame state other systems need from an observing
// camera: where it is and what its lens looks like.
type View interface {
	// WorldTransform returns the camera-to-world transform. The camera looks
	// down its local -Z axis.
	WorldTransform() math.Mat4
	// Lens returns the perspective projection parameters.
	Lens() Lens
}

// Lens holds perspective projection parameters.
type Lens struct {
	FovY   float32 // Vertical field of view (radians)
	Aspect float32 // Width / height
	Near   float32
	Far    float32
}

// NewLens creates a lens from a vertical field of view in degrees.
func NewLens(fovYDegrees, aspect, near, far float32) Lens {
	return Lens{
		FovY:   math.Radians(fovYDegrees),
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// Projection returns the perspective projection matrix for this lens.
func (l Lens) Projection() math.Mat4 {
	return math.Perspective(l.FovY, l.Aspect, l.Near, l.Far)
}

// HalfExtents returns the half width and half height of the view plane at
// the given distance along the view axis.
func (l Lens) HalfExtents(distance float32) (halfW, halfH float32) {
	halfH = distance * float32(gomath.Tan(float64(l.FovY)/2))
	return halfH * l.Aspect, halfH
}

// PerspectiveCamera is a free camera looking from Position towards Target.
type PerspectiveCamera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	lens Lens
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(lens Lens) *PerspectiveCamera {
	return &PerspectiveCamera{
		Target: math.Vec3{X: 0, Y: 0, Z: -1},
		Up:     math.Vec3{X: 0, Y: 1, Z: 0},
		lens:   lens,
	}
}

// Lens returns the camera's projection parameters.
func (c *PerspectiveCamera) Lens() Lens {
	return c.lens
}

// SetLens replaces the camera's projection parameters.
func (c *PerspectiveCamera) SetLens(l Lens) {
	c.lens = l
}

// Forward returns the normalized viewing direction.
func (c *PerspectiveCamera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Move translates both the position and the target.
func (c *PerspectiveCamera) Move(delta math.Vec3) {
	c.Position = c.Position.Add(delta)
	c.Target = c.Target.Add(delta)
}

// WorldTransform returns the camera-to-world transform.
func (c *PerspectiveCamera) WorldTransform() math.Mat4 {
	return lookAtTransform(c.Position, c.Target, c.Up)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *PerspectiveCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, safeUp(c.Target.Sub(c.Position).Normalize(), c.Up))
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	lens Lens
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(lens Lens) *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     50.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		lens:            lens,
	}
}

// Lens returns the camera's projection parameters.
func (c *OrbitCamera) Lens() Lens {
	return c.lens
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// Center returns the orbit center.
func (c *OrbitCamera) Center() math.Vec3 {
	return math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

// WorldTransform returns the camera-to-world transform.
func (c *OrbitCamera) WorldTransform() math.Mat4 {
	return lookAtTransform(c.Position(), c.Center(), math.Vec3{X: 0, Y: 1, Z: 0})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center(), math.Vec3{X: 0, Y: 1, Z: 0})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// lookAtTransform builds the camera-to-world transform of an eye looking at
// target.
func lookAtTransform(eye, target, up math.Vec3) math.Mat4 {
	forward := target.Sub(eye).Normalize()
	up = safeUp(forward, up)
	right := forward.Cross(up).Normalize()
	return math.FromBasis(right, right.Cross(forward), forward, eye)
}

// safeUp swaps in +Z when the requested up vector is (nearly) parallel to the
// viewing direction.
func safeUp(forward, up math.Vec3) math.Vec3 {
	if math.Abs(forward.Dot(up.Normalize())) > 0.99 {
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return up
}
