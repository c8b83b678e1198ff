// Package gpu defines the graphics device contract used by the viewport.
//
// The renderer, buffers, framebuffers and picking code talk to a Device
// instead of calling OpenGL directly. glgpu implements it on top of an
// OpenGL 4.1 core context; softgpu implements it in memory for headless use.
package gpu

import "errors"

var (
	// ErrCompile is returned when a shader fails to compile or link.
	ErrCompile = errors.New("shader compile failed")

	// ErrFramebuffer is returned when a framebuffer cannot be created or is incomplete.
	ErrFramebuffer = errors.New("framebuffer incomplete")
)

// Capability is a toggleable pipeline state.
type Capability int

const (
	DepthTest Capability = iota
	Blend
	CullFace
	StencilTest
	ScissorTest
	Multisample
	LineSmooth
	ProgramPointSize
	PolygonOffsetFill
)

// Capabilities lists every capability, in declaration order.
var Capabilities = []Capability{
	DepthTest, Blend, CullFace, StencilTest, ScissorTest,
	Multisample, LineSmooth, ProgramPointSize, PolygonOffsetFill,
}

func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "depth_test"
	case Blend:
		return "blend"
	case CullFace:
		return "cull_face"
	case StencilTest:
		return "stencil_test"
	case ScissorTest:
		return "scissor_test"
	case Multisample:
		return "multisample"
	case LineSmooth:
		return "line_smooth"
	case ProgramPointSize:
		return "program_point_size"
	case PolygonOffsetFill:
		return "polygon_offset_fill"
	}
	return "unknown"
}

// BufferTarget selects a buffer binding point.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
	CopyReadBuffer
	CopyWriteBuffer
)

// Usage is a buffer usage hint.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// DataType is a scalar element type for attributes and indices.
type DataType int

const (
	Float32 DataType = iota
	Int32
	Uint32
	Uint16
	Uint8
)

// Size returns the byte size of one element.
func (t DataType) Size() int {
	switch t {
	case Uint16:
		return 2
	case Uint8:
		return 1
	}
	return 4
}

// Primitive is a draw topology.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

// BlendFactor is a source or destination blend factor.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcAlpha
	OneMinusSrcAlpha
)

// Face selects polygon faces for culling.
type Face int

const (
	Back Face = iota
	Front
	FrontAndBack
)

// CompareFunc is a stencil/depth comparison.
type CompareFunc int

const (
	Never CompareFunc = iota
	Less
	LessEqual
	Equal
	NotEqual
	Always
)

// StencilOp is a stencil buffer update action.
type StencilOp int

const (
	Keep StencilOp = iota
	Replace
	ZeroOp
)

// ClearMask selects which buffers Clear touches.
type ClearMask uint32

const (
	ColorBit ClearMask = 1 << iota
	DepthBit
	StencilBit
)

// Format is a framebuffer color attachment format.
type Format int

const (
	RGBA8 Format = iota
	R32F
)

// Rect is a pixel rectangle with a bottom-left origin.
type Rect struct {
	X, Y, W, H int32
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o (possibly empty).
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Device is the graphics API surface the viewport depends on.
// All methods must be called from the render thread.
type Device interface {
	// Buffers
	CreateBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	BufferData(target BufferTarget, size int, data []byte, usage Usage)
	BufferSubData(target BufferTarget, offset int, data []byte)
	CopyBufferSubData(read, write BufferTarget, readOffset, writeOffset, size int)
	GetBufferSubData(target BufferTarget, offset int, out []byte)

	// Vertex arrays
	CreateVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	VertexAttribPointer(index uint32, size int32, typ DataType, stride int32, offset int)
	EnableVertexAttrib(index uint32)
	VertexAttribDivisor(index, divisor uint32)

	// Programs
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)
	CurrentProgram() uint32
	UniformLocation(program uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix4(loc int32, m [16]float32)

	// Pipeline state
	Enable(c Capability)
	Disable(c Capability)
	IsEnabled(c Capability) bool
	DepthMask(write bool)
	BlendFunc(src, dst BlendFactor)
	CullFace(face Face)
	StencilFunc(fn CompareFunc, ref int32, mask uint32)
	StencilOp(sfail, dpfail, dppass StencilOp)
	StencilMask(mask uint32)
	LineWidth(w float32)

	ClearColor(r, g, b, a float32)
	GetClearColor() [4]float32
	Clear(mask ClearMask)
	Viewport(r Rect)
	GetViewport() Rect
	Scissor(r Rect)
	GetScissor() Rect

	// Framebuffers. Id 0 is the default (window) framebuffer.
	CreateFramebuffer(width, height int32, format Format) (uint32, error)
	ResizeFramebuffer(id uint32, width, height int32) error
	DeleteFramebuffer(id uint32)
	BindFramebuffer(id uint32)
	CurrentFramebuffer() uint32
	ReadPixelsRed(r Rect) []float32
	// ReadPixelsRGBA reads 8-bit RGBA pixels, rows bottom to top.
	ReadPixelsRGBA(r Rect) []byte

	// Draw calls
	DrawArrays(mode Primitive, first, count int32)
	DrawArraysInstanced(mode Primitive, first, count, instances int32)
	DrawElements(mode Primitive, count int32, typ DataType, offset int)
}
