package scene

import (
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// Camera is a scene node carrying a projection. Its view is the inverse of
// its world transform.
type Camera struct {
	*Node
	projection math.Mat4
}

// AttachCamera creates a camera node under n.
func (n *Node) AttachCamera(name string) *Camera {
	return &Camera{
		Node:       n.AttachNewNode(name),
		projection: math.Identity(),
	}
}

// SetTransform places the camera in world space.
func (c *Camera) SetTransform(world math.Mat4) {
	c.SetWorldTransform(world)
}

// SetProjection sets the projection matrix.
func (c *Camera) SetProjection(proj math.Mat4) {
	c.projection = proj
}

// Projection returns the projection matrix.
func (c *Camera) Projection() math.Mat4 {
	return c.projection
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	return c.WorldTransform().Inverse()
}

// ViewProjection returns projection * view, the matrix used to rasterize
// through this camera.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.ViewMatrix())
}
