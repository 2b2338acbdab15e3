package shadow

import (
	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// MinExtent is the smallest width, height or depth a fitted frustum may
// have, in world units.
const MinExtent float32 = 1e-3

// poleThreshold is the |forward.Y| above which the world-up reference is
// swapped for +Z when building the light basis.
const poleThreshold = 0.99

// LightBasis is an orthonormal frame aligned to a directional light.
// Forward points from the light into the scene; Right and Up span the
// shadow map plane.
type LightBasis struct {
	Right   math.Vec3
	Up      math.Vec3
	Forward math.Vec3
}

// NewLightBasis builds the frame for a light whose direction points toward
// the light (sun direction).
//
// Right is Gram-Schmidt orthogonalized against world +Y. When the light is
// within acos(0.99) of vertical, +Z is used instead. A zero direction is
// treated as a sun straight overhead.
func NewLightBasis(lightDir math.Vec3) LightBasis {
	forward := lightDir.Normalize().Negate()
	if forward.IsZero() {
		forward = math.Vec3{X: 0, Y: -1, Z: 0}
	}

	up := math.Vec3{X: 0, Y: 1, Z: 0}
	if math.Abs(forward.Y) > poleThreshold {
		up = math.Vec3{X: 0, Y: 0, Z: 1}
	}

	right := forward.Cross(up).Normalize()
	return LightBasis{
		Right:   right,
		Up:      right.Cross(forward),
		Forward: forward,
	}
}

// ToLight expresses a world-space point in light coordinates
// (x along Right, y along Up, z along Forward).
func (b LightBasis) ToLight(p math.Vec3) math.Vec3 {
	return math.Vec3{X: p.Dot(b.Right), Y: p.Dot(b.Up), Z: p.Dot(b.Forward)}
}

// ToWorld converts light coordinates back to world space.
func (b LightBasis) ToWorld(l math.Vec3) math.Vec3 {
	return b.Right.Scale(l.X).Add(b.Up.Scale(l.Y)).Add(b.Forward.Scale(l.Z))
}

// Bounds is an axis-aligned box in light coordinates.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// ShadowFrustum is the orthographic frustum of one cascade.
type ShadowFrustum struct {
	Basis LightBasis
	// Center is the frustum origin in light coordinates.
	Center math.Vec3
	// Width and Height are the film size in world units.
	Width, Height float32
	// Near and Far are signed distances along Basis.Forward relative to
	// Center. Near is negative: it reaches back toward the sun.
	Near, Far float32
	// Transform is the light-camera-to-world transform.
	Transform math.Mat4
}

// Origin returns the frustum origin in world space.
func (f ShadowFrustum) Origin() math.Vec3 {
	return f.Basis.ToWorld(f.Center)
}

// Projection returns the orthographic projection matrix.
func (f ShadowFrustum) Projection() math.Mat4 {
	hw, hh := f.Width/2, f.Height/2
	return math.Ortho(-hw, hw, -hh, hh, f.Near, f.Far)
}

// View returns the world-to-light-camera matrix.
func (f ShadowFrustum) View() math.Mat4 {
	return math.ViewFromBasis(f.Basis.Right, f.Basis.Up, f.Basis.Forward, f.Origin())
}

// ViewProjection returns projection * view.
func (f ShadowFrustum) ViewProjection() math.Mat4 {
	return f.Projection().Mul(f.View())
}

// rebuild recomputes Transform from Basis and Center.
func (f *ShadowFrustum) rebuild() {
	f.Transform = math.FromBasis(f.Basis.Right, f.Basis.Up, f.Basis.Forward, f.Origin())
}

// SliceCorners returns the 8 world-space corners of the part of a
// perspective frustum between the view depths near and far. The first four
// lie on the near plane.
func SliceCorners(world math.Mat4, lens camera.Lens, near, far float32) [8]math.Vec3 {
	var corners [8]math.Vec3
	for plane, d := range [2]float32{near, far} {
		hw, hh := lens.HalfExtents(d)
		base := plane * 4
		corners[base+0] = world.TransformVec3(math.Vec3{X: -hw, Y: -hh, Z: -d})
		corners[base+1] = world.TransformVec3(math.Vec3{X: hw, Y: -hh, Z: -d})
		corners[base+2] = world.TransformVec3(math.Vec3{X: hw, Y: hh, Z: -d})
		corners[base+3] = world.TransformVec3(math.Vec3{X: -hw, Y: hh, Z: -d})
	}
	return corners
}

// FitCorners fits an orthographic frustum around the given world-space
// points as seen by the light. The near plane is pulled back by sunDistance
// and the film is shrunk by (1 - borderBias). It also returns the tight
// light-space bounds of the points.
func FitCorners(corners [8]math.Vec3, basis LightBasis, sunDistance, borderBias float32) (ShadowFrustum, Bounds) {
	first := basis.ToLight(corners[0])
	bounds := Bounds{Min: first, Max: first}
	for _, c := range corners[1:] {
		l := basis.ToLight(c)
		bounds.Min = bounds.Min.Min(l)
		bounds.Max = bounds.Max.Max(l)
	}
	bounds = clampBounds(bounds)

	size := bounds.Size()
	keep := 1 - clampBorderBias(borderBias)
	halfDepth := size.Z / 2

	f := ShadowFrustum{
		Basis:  basis,
		Center: bounds.Center(),
		Width:  max(size.X*keep, MinExtent),
		Height: max(size.Y*keep, MinExtent),
		Near:   -(halfDepth + max(sunDistance, 0)),
		Far:    halfDepth,
	}
	f.rebuild()
	return f, bounds
}

// Fit fits the shadow frustum of the view slice [splitNear, splitFar].
func Fit(view camera.View, splitNear, splitFar float32, lightDir math.Vec3, sunDistance, borderBias float32) ShadowFrustum {
	corners := SliceCorners(view.WorldTransform(), view.Lens(), splitNear, splitFar)
	f, _ := FitCorners(corners, NewLightBasis(lightDir), sunDistance, borderBias)
	return f
}

// clampBounds grows any axis thinner than MinExtent around its center.
func clampBounds(b Bounds) Bounds {
	c := b.Center()
	grow := func(lo, hi, mid float32) (float32, float32) {
		if hi-lo >= MinExtent {
			return lo, hi
		}
		return mid - MinExtent/2, mid + MinExtent/2
	}
	b.Min.X, b.Max.X = grow(b.Min.X, b.Max.X, c.X)
	b.Min.Y, b.Max.Y = grow(b.Min.Y, b.Max.Y, c.Y)
	b.Min.Z, b.Max.Z = grow(b.Min.Z, b.Max.Z, c.Z)
	return b
}
