package atlas_test

import (
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-pssm/internal/engine/atlas"
	"github.com/Faultbox/midgard-pssm/internal/engine/camera"
	"github.com/Faultbox/midgard-pssm/internal/engine/lighting"
	"github.com/Faultbox/midgard-pssm/internal/engine/scene"
	"github.com/Faultbox/midgard-pssm/internal/engine/shader"
	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// One frame of the shadow pass followed by the lighting uniforms. It needs a
// current OpenGL 4.1 context, so it is compiled but not run.
func Example() {
	root := scene.NewRoot("render")
	rig, err := shadow.NewRig(4, shadow.ParentFunc(func(name string) shadow.CameraHandle {
		return root.AttachCamera(name)
	}))
	if err != nil {
		log.Fatal(err)
	}
	rig.Configure(shadow.DefaultOptions())

	depthAtlas, err := atlas.NewDepthAtlas(int32(rig.Options().Resolution), rig.NumSplits())
	if err != nil {
		log.Fatal(err)
	}
	defer depthAtlas.Destroy()

	depth, err := shader.NewDepthProgram()
	if err != nil {
		log.Fatal(err)
	}
	defer depth.Destroy()

	view := camera.NewPerspectiveCamera(camera.NewLens(60, 16.0/9.0, 0.1, 5000))
	view.Position = math.Vec3{X: 0, Y: 40, Z: 30}
	sun := lighting.NewSun(135, 40)

	rig.Update(view, sun.Direction)
	depthAtlas.RenderSplits(rig, depth, func(split int) {
		// Shadow casters visible to rig.Camera(split) are drawn here.
		depth.SetModel(math.Identity())
	})

	// lit is the renderer's lighting program.
	var lit uint32
	gl.UseProgram(lit)
	depthAtlas.BindTexture(gl.TEXTURE1)
	atlas.SetUniforms(lit, rig.Uniforms(0.5))
}
