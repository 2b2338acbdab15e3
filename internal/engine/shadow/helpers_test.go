package shadow

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/internal/engine/scene"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

func approx(a, b, tol float32) bool {
	return math.Abs(a-b) <= tol
}

// approxMatRel compares entries with a tolerance relative to their size.
func approxMatRel(a, b math.Mat4, rel float32) bool {
	for i := range a {
		if !approx(a[i], b[i], rel*max(1, math.Abs(b[i]))) {
			return false
		}
	}
	return true
}

func hasNaN(m math.Mat4) bool {
	for _, v := range m {
		if gomath.IsNaN(float64(v)) || gomath.IsInf(float64(v), 0) {
			return true
		}
	}
	return false
}

// testCamera returns a camera standing above the terrain looking slightly
// down along -Z.
func testCamera() *camera.PerspectiveCamera {
	cam := camera.NewPerspectiveCamera(camera.NewLens(60, 16.0/9.0, 0.1, 50000))
	cam.Position = math.Vec3{X: 12, Y: 40, Z: 30}
	cam.Target = math.Vec3{X: 12, Y: 30, Z: -70}
	return cam
}

// newTestRig creates a rig whose cameras live in a fresh scene graph.
func newTestRig(t *testing.T, splits int) (*Rig, *scene.Node) {
	t.Helper()
	root := scene.NewRoot("render")
	rig, err := NewRig(splits, ParentFunc(func(name string) CameraHandle {
		return root.AttachCamera(name)
	}))
	if err != nil {
		t.Fatalf("NewRig(%d): %v", splits, err)
	}
	return rig, root
}
