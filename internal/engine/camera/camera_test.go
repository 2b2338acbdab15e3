package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

func approx(a, b float32) bool {
	return math.Abs(a-b) < 1e-4
}

func TestLensHalfExtents(t *testing.T) {
	l := NewLens(90, 2, 0.1, 100)

	hw, hh := l.HalfExtents(10)
	if !approx(hh, 10) {
		t.Errorf("half height at 10 = %v, want 10 (tan 45 = 1)", hh)
	}
	if !approx(hw, 20) {
		t.Errorf("half width at 10 = %v, want 20", hw)
	}
}

func TestPerspectiveCameraTransform(t *testing.T) {
	cam := NewPerspectiveCamera(NewLens(60, 1, 0.1, 100))
	cam.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	cam.Target = math.Vec3{X: 1, Y: 2, Z: -7}

	w := cam.WorldTransform()
	if w.Translation() != cam.Position {
		t.Errorf("translation = %v, want %v", w.Translation(), cam.Position)
	}

	// A point ahead of the camera on local -Z lands on the target line.
	p := w.TransformVec3(math.Vec3{X: 0, Y: 0, Z: -10})
	if p.Distance(cam.Target) > 1e-4 {
		t.Errorf("local (0,0,-10) = %v, want %v", p, cam.Target)
	}

	// WorldTransform and ViewMatrix are inverses.
	prod := cam.ViewMatrix().Mul(w)
	id := math.Identity()
	for i := range prod {
		if !approx(prod[i], id[i]) {
			t.Fatalf("view * world != identity: %v", prod)
		}
	}
}

func TestPerspectiveCameraLookingStraightDown(t *testing.T) {
	cam := NewPerspectiveCamera(NewLens(60, 1, 0.1, 100))
	cam.Position = math.Vec3{X: 0, Y: 50, Z: 0}
	cam.Target = math.Vec3{}

	w := cam.WorldTransform()
	for i, v := range w {
		if gomath.IsNaN(float64(v)) {
			t.Fatalf("NaN at %d in %v", i, w)
		}
	}
	if fwd := w.Col(2).Negate(); fwd.Distance(math.Vec3{X: 0, Y: -1, Z: 0}) > 1e-5 {
		t.Errorf("forward = %v, want (0,-1,0)", fwd)
	}
}

func TestPerspectiveCameraMove(t *testing.T) {
	cam := NewPerspectiveCamera(NewLens(60, 1, 0.1, 100))
	before := cam.Forward()
	cam.Move(math.Vec3{X: 5})
	if cam.Position.X != 5 || cam.Target.X != 5 {
		t.Errorf("Move did not translate both points: %v %v", cam.Position, cam.Target)
	}
	if cam.Forward() != before {
		t.Error("Move should not change the viewing direction")
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	cam := NewOrbitCamera(NewLens(60, 1, 0.1, 100))

	cam.HandleDrag(0, 10000)
	if cam.RotationX != cam.MaxPitch {
		t.Errorf("pitch = %v, want clamped to %v", cam.RotationX, cam.MaxPitch)
	}

	cam.HandleZoom(100)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %v, want clamped to %v", cam.Distance, cam.MinDistance)
	}
}

func TestOrbitCameraLooksAtCenter(t *testing.T) {
	cam := NewOrbitCamera(NewLens(60, 1, 0.1, 1000))
	cam.SetCenter(10, 0, -10)

	w := cam.WorldTransform()
	fwd := w.Col(2).Negate()
	toCenter := cam.Center().Sub(cam.Position()).Normalize()
	if fwd.Distance(toCenter) > 1e-4 {
		t.Errorf("forward = %v, want %v", fwd, toCenter)
	}
}
