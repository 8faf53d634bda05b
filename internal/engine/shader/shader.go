// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program wraps a linked GL program with uniform lookup.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// Compile compiles vertex and fragment sources and links them.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fragShader)

	id := gl.CreateProgram()
	gl.AttachShader(id, vertShader)
	gl.AttachShader(id, fragShader)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", string(log))
	}

	return &Program{ID: id, uniforms: make(map[string]int32)}, nil
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// uniform caches uniform locations by name.
func (p *Program) uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a column-major float32 matrix.
func (p *Program) SetMat4(name string, m [16]float32) {
	gl.UniformMatrix4fv(p.uniform(name), 1, false, &m[0])
}

// SetVec4 uploads a vec4 uniform.
func (p *Program) SetVec4(name string, x, y, z, w float32) {
	gl.Uniform4f(p.uniform(name), x, y, z, w)
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
		log := make([]byte, logLen)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
