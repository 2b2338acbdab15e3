// Package atlas provides the OpenGL depth atlas the shadow splits render
// into.
package atlas

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-pssm/internal/engine/shader"
	"github.com/Faultbox/midgard-pssm/internal/engine/shadow"
)

// Uniform names read by the lighting shader.
const (
	UniformMVPs       = "pssm_mvps"
	UniformNearFar    = "pssm_nearfar"
	UniformBorderBias = "border_bias"
	UniformFixedBias  = "fixed_bias"
)

// DepthAtlas is a depth-only framebuffer holding every split side by side.
// Split i owns the region shadow.SplitRegion(i, Splits).
type DepthAtlas struct {
	FBO          uint32
	DepthTexture uint32
	Resolution   int32 // per-split size in texels
	Splits       int

	prevViewport [4]int32
}

// NewDepthAtlas creates an atlas of splits*resolution x resolution texels.
func NewDepthAtlas(resolution int32, splits int) (*DepthAtlas, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("invalid atlas resolution %d", resolution)
	}
	if splits < shadow.MinSplits || splits > shadow.MaxSplits {
		return nil, fmt.Errorf("%w: %d", shadow.ErrInvalidSplitCount, splits)
	}

	a := &DepthAtlas{Resolution: resolution, Splits: splits}
	width, height := a.Size()

	gl.GenFramebuffers(1, &a.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, a.FBO)

	gl.GenTextures(1, &a.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D, a.DepthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Outside the atlas everything is lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	// Hardware PCF through sampler2DShadow.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, a.DepthTexture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		a.Destroy()
		return nil, fmt.Errorf("depth atlas framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return a, nil
}

// Size returns the atlas dimensions in texels.
func (a *DepthAtlas) Size() (width, height int32) {
	return a.Resolution * int32(a.Splits), a.Resolution
}

// Bind binds the atlas for the depth pass and clears every split.
func (a *DepthAtlas) Bind() {
	gl.GetIntegerv(gl.VIEWPORT, &a.prevViewport[0])

	width, height := a.Size()
	gl.BindFramebuffer(gl.FRAMEBUFFER, a.FBO)
	gl.Viewport(0, 0, width, height)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// Front-face culling reduces shadow acne.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// BindSplit restricts rendering to split i's region of the atlas.
// It panics when i is out of range.
func (a *DepthAtlas) BindSplit(i int) {
	if i < 0 || i >= a.Splits {
		panic(fmt.Sprintf("atlas: split index %d out of range [0, %d)", i, a.Splits))
	}
	width, height := a.Size()
	x, y, w, h := shadow.SplitRegion(i, a.Splits).Viewport(width, height)
	gl.Viewport(x, y, w, h)
}

// RenderSplits binds the atlas and runs draw once per split with the depth
// program set up for that split's camera.
func (a *DepthAtlas) RenderSplits(rig *shadow.Rig, program *shader.DepthProgram, draw func(split int)) {
	a.Bind()
	defer a.Unbind()

	mvps := rig.MVPArray()
	for i := 0; i < a.Splits && i < len(mvps); i++ {
		a.BindSplit(i)
		program.Use(mvps[i])
		draw(i)
	}
}

// Unbind restores the default framebuffer, viewport and back-face culling.
func (a *DepthAtlas) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(a.prevViewport[0], a.prevViewport[1], a.prevViewport[2], a.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth texture to the given texture unit for the
// lighting pass.
func (a *DepthAtlas) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, a.DepthTexture)
}

// SetUniforms uploads the rig's shader inputs to program, which must be in
// use. Missing uniforms are skipped.
func SetUniforms(program uint32, u shadow.Uniforms) {
	if n := int32(len(u.MVPs)); n > 0 {
		if loc := shader.GetUniform(program, UniformMVPs); loc >= 0 {
			gl.UniformMatrix4fv(loc, n, false, u.MVPs[0].Ptr())
		}
	}
	if n := int32(len(u.NearFar)); n > 0 {
		if loc := shader.GetUniform(program, UniformNearFar); loc >= 0 {
			gl.Uniform2fv(loc, n, &u.NearFar[0].X)
		}
	}
	if loc := shader.GetUniform(program, UniformBorderBias); loc >= 0 {
		gl.Uniform1f(loc, u.BorderBias)
	}
	if loc := shader.GetUniform(program, UniformFixedBias); loc >= 0 {
		gl.Uniform1f(loc, u.FixedBias)
	}
}

// Destroy releases the GPU resources.
func (a *DepthAtlas) Destroy() {
	if a.FBO != 0 {
		gl.DeleteFramebuffers(1, &a.FBO)
		a.FBO = 0
	}
	if a.DepthTexture != 0 {
		gl.DeleteTextures(1, &a.DepthTexture)
		a.DepthTexture = 0
	}
}

// IsValid reports whether the atlas was created successfully.
func (a *DepthAtlas) IsValid() bool {
	return a != nil && a.FBO != 0 && a.DepthTexture != 0
}
