// Package shader wraps linked GPU programs and their uniforms.
package shader

import (
	"errors"
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/pkg/math"
)

// ErrUnsupportedType is returned by SetUniform for values with no GLSL mapping.
var ErrUnsupportedType = errors.New("unsupported uniform type")

// Program is a linked vertex+fragment program. Uniforms set while the
// program is not in use are queued and uploaded on the next Use.
type Program struct {
	dev       gpu.Device
	id        uint32
	locations map[string]int32
	pending   map[string]any
	order     []string
}

// New compiles and links a program.
func New(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling program: %w", err)
	}
	return &Program{
		dev:       dev,
		id:        id,
		locations: make(map[string]int32),
		pending:   make(map[string]any),
	}, nil
}

// ID returns the device program name.
func (p *Program) ID() uint32 { return p.id }

// InUse reports whether the program is the current one.
func (p *Program) InUse() bool {
	return p.id != 0 && p.dev.CurrentProgram() == p.id
}

// Use makes the program current and flushes queued uniforms.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
	for _, name := range p.order {
		// Validated when queued.
		_ = p.upload(name, p.pending[name])
	}
	clear(p.pending)
	p.order = p.order[:0]
}

// Unuse clears the current program.
func (p *Program) Unuse() {
	p.dev.UseProgram(0)
}

// Location returns the cached location of a uniform, -1 when inactive.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// MustUniform returns the location of a required uniform.
// Panics if the uniform is not found or inactive.
func (p *Program) MustUniform(name string) int32 {
	loc := p.Location(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, p.id))
	}
	return loc
}

// SetUniform uploads value now when the program is in use, otherwise on the
// next Use. Supported: bool, int, int32, float32, float64, [2]/[3]/[4]float32,
// math.Vec3, math.Vec4, math.Mat4 and [16]float32. Inactive names are ignored.
func (p *Program) SetUniform(name string, value any) error {
	if !supported(value) {
		return fmt.Errorf("%w: %s is %T", ErrUnsupportedType, name, value)
	}
	if p.InUse() {
		return p.upload(name, value)
	}
	if _, queued := p.pending[name]; !queued {
		p.order = append(p.order, name)
	}
	p.pending[name] = value
	return nil
}

func supported(value any) bool {
	switch value.(type) {
	case bool, int, int32, float32, float64,
		[2]float32, [3]float32, [4]float32,
		math.Vec3, math.Vec4, math.Mat4, [16]float32:
		return true
	}
	return false
}

func (p *Program) upload(name string, value any) error {
	loc := p.Location(name)
	if loc < 0 {
		return nil
	}

	switch v := value.(type) {
	case bool:
		var i int32
		if v {
			i = 1
		}
		p.dev.Uniform1i(loc, i)
	case int:
		p.dev.Uniform1i(loc, int32(v))
	case int32:
		p.dev.Uniform1i(loc, v)
	case float32:
		p.dev.Uniform1f(loc, v)
	case float64:
		p.dev.Uniform1f(loc, float32(v))
	case [2]float32:
		p.dev.Uniform2f(loc, v[0], v[1])
	case [3]float32:
		p.dev.Uniform3f(loc, v[0], v[1], v[2])
	case math.Vec3:
		p.dev.Uniform3f(loc, v.X, v.Y, v.Z)
	case [4]float32:
		p.dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case math.Vec4:
		p.dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case math.Mat4:
		p.dev.UniformMatrix4(loc, v)
	case [16]float32:
		p.dev.UniformMatrix4(loc, v)
	default:
		return fmt.Errorf("%w: %s is %T", ErrUnsupportedType, name, value)
	}
	return nil
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}
