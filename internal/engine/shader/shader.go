// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/logger"
	"github.com/Faultbox/stlview/pkg/math"
)

// Program is a linked shader program with its uniform locations cached.
type Program struct {
	ID       uint32
	name     string
	uniforms map[string]int32
}

// NewProgram compiles and links a program and looks up the named uniforms.
// Uniforms the linker optimized away resolve to -1, which GL ignores on upload.
func NewProgram(name, vertexSrc, fragmentSrc string, uniforms ...string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}

	p := &Program{ID: id, name: name, uniforms: make(map[string]int32, len(uniforms))}
	for _, u := range uniforms {
		loc := GetUniform(id, u)
		if loc < 0 {
			logger.Debug("uniform inactive", zap.String("program", name), zap.String("uniform", u))
		}
		p.uniforms[u] = loc
	}

	logger.Debug("shader program created", zap.String("name", name), zap.Uint32("program", id))
	return p, nil
}

// Use binds the program.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Loc returns the cached location of a uniform, looking it up on first use.
func (p *Program) Loc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := GetUniform(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a column-major 4x4 matrix.
func (p *Program) SetMat4(name string, m *math.Mat4) {
	gl.UniformMatrix4fv(p.Loc(name), 1, false, m.Ptr())
}

// SetVec3 uploads a 3-component vector.
func (p *Program) SetVec3(name string, v [3]float32) {
	gl.Uniform3f(p.Loc(name), v[0], v[1], v[2])
}

// SetVec4 uploads a 4-component vector.
func (p *Program) SetVec4(name string, v [4]float32) {
	gl.Uniform4f(p.Loc(name), v[0], v[1], v[2], v[3])
}

// SetFloat uploads a scalar.
func (p *Program) SetFloat(name string, f float32) {
	gl.Uniform1f(p.Loc(name), f)
}

// SetBool uploads a boolean as 0 or 1.
func (p *Program) SetBool(name string, b bool) {
	var v int32
	if b {
		v = 1
	}
	gl.Uniform1i(p.Loc(name), v)
}

// SetInt uploads an integer, e.g. a sampler unit.
func (p *Program) SetInt(name string, i int32) {
	gl.Uniform1i(p.Loc(name), i)
}

// Delete frees the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

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
		msg := programLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", msg)
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
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
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, gl.GoStr(&log[0]))
	}

	return shader, nil
}

func programLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	log := make([]byte, logLen+1)
	gl.GetProgramInfoLog(program, logLen, nil, &log[0])
	return gl.GoStr(&log[0])
}

// GetUniform returns the uniform location for the given name,
// or -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
