// Package shader provides OpenGL shader compilation utilities and the depth
// pass program used to render shadow splits.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// depthVertexShader transforms geometry by the view-projection of the split
// currently being rendered.
const depthVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 uModel;
uniform mat4 uLightViewProj;

void main() {
    gl_Position = uLightViewProj * uModel * vec4(aPosition, 1.0);
}
`

const depthFragmentShader = `#version 410 core
void main() {
}
`

// DepthProgram is the depth-only program used to rasterize occluders into
// one split of the shadow atlas.
type DepthProgram struct {
	ID uint32

	locModel    int32
	locViewProj int32
}

// NewDepthProgram compiles the depth pass program.
func NewDepthProgram() (*DepthProgram, error) {
	id, err := CompileProgram(depthVertexShader, depthFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("depth program: %w", err)
	}
	return &DepthProgram{
		ID:          id,
		locModel:    GetUniform(id, "uModel"),
		locViewProj: GetUniform(id, "uLightViewProj"),
	}, nil
}

// Use activates the program with the split's view-projection.
func (p *DepthProgram) Use(lightViewProj math.Mat4) {
	gl.UseProgram(p.ID)
	gl.UniformMatrix4fv(p.locViewProj, 1, false, lightViewProj.Ptr())
}

// SetModel sets the model matrix of the next draw.
func (p *DepthProgram) SetModel(model math.Mat4) {
	gl.UniformMatrix4fv(p.locModel, 1, false, model.Ptr())
}

// Destroy deletes the program.
func (p *DepthProgram) Destroy() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
