// Package glgpu implements gpu.Device on an OpenGL 4.1 core context.
package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/logger"
)

// Device is the OpenGL-backed gpu.Device.
type Device struct {
	framebuffers map[uint32]*framebuffer
}

// New initializes the OpenGL function pointers for the current context.
// A context must be current on the calling thread.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	return &Device{framebuffers: make(map[uint32]*framebuffer)}, nil
}

var _ gpu.Device = (*Device)(nil)

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// CreateBuffer generates a buffer object name.
func (d *Device) CreateBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

// DeleteBuffer deletes a buffer. Zero is ignored.
func (d *Device) DeleteBuffer(id uint32) {
	if id != 0 {
		gl.DeleteBuffers(1, &id)
	}
}

// BindBuffer binds id to target.
func (d *Device) BindBuffer(target gpu.BufferTarget, id uint32) {
	gl.BindBuffer(bufferTarget(target), id)
}

// BufferData allocates size bytes on target, uploading data when it covers the
// whole allocation.
func (d *Device) BufferData(target gpu.BufferTarget, size int, data []byte, usage gpu.Usage) {
	var p unsafe.Pointer
	if len(data) >= size {
		p = ptr(data)
	}
	gl.BufferData(bufferTarget(target), size, p, bufferUsage(usage))
}

// BufferSubData writes data at offset.
func (d *Device) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(bufferTarget(target), offset, len(data), gl.Ptr(data))
}

// CopyBufferSubData copies size bytes between the buffers bound to read and write.
func (d *Device) CopyBufferSubData(read, write gpu.BufferTarget, readOffset, writeOffset, size int) {
	gl.CopyBufferSubData(bufferTarget(read), bufferTarget(write), readOffset, writeOffset, size)
}

// GetBufferSubData reads len(out) bytes from offset.
func (d *Device) GetBufferSubData(target gpu.BufferTarget, offset int, out []byte) {
	if len(out) == 0 {
		return
	}
	gl.GetBufferSubData(bufferTarget(target), offset, len(out), gl.Ptr(out))
}

// CreateVertexArray generates a vertex array object name.
func (d *Device) CreateVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

// DeleteVertexArray deletes a vertex array. Zero is ignored.
func (d *Device) DeleteVertexArray(id uint32) {
	if id != 0 {
		gl.DeleteVertexArrays(1, &id)
	}
}

// BindVertexArray binds a vertex array; zero unbinds.
func (d *Device) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

// VertexAttribPointer describes attribute index within the bound array buffer.
func (d *Device) VertexAttribPointer(index uint32, size int32, typ gpu.DataType, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, dataType(typ), false, stride, uintptr(offset))
}

// EnableVertexAttrib enables attribute index.
func (d *Device) EnableVertexAttrib(index uint32) {
	gl.EnableVertexAttribArray(index)
}

// VertexAttribDivisor sets how many instances share one attribute value.
func (d *Device) VertexAttribDivisor(index, divisor uint32) {
	gl.VertexAttribDivisor(index, divisor)
}

// DeleteProgram deletes a linked program. Zero is ignored.
func (d *Device) DeleteProgram(id uint32) {
	if id != 0 {
		gl.DeleteProgram(id)
	}
}

// UseProgram makes id the current program.
func (d *Device) UseProgram(id uint32) {
	gl.UseProgram(id)
}

// CurrentProgram returns the program in use.
func (d *Device) CurrentProgram() uint32 {
	var id int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &id)
	return uint32(id)
}

// UniformLocation returns the location of name, -1 when the program lacks it.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Uniform setters write to the current program.
func (d *Device) Uniform1i(loc int32, v int32)            { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)          { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)       { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform3f(loc int32, x, y, z float32)    { gl.Uniform3f(loc, x, y, z) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }
func (d *Device) UniformMatrix4(loc int32, m [16]float32) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) }

// Fixed-function state.
func (d *Device) Enable(c gpu.Capability)         { gl.Enable(capability(c)) }
func (d *Device) Disable(c gpu.Capability)        { gl.Disable(capability(c)) }
func (d *Device) IsEnabled(c gpu.Capability) bool { return gl.IsEnabled(capability(c)) }
func (d *Device) DepthMask(write bool)            { gl.DepthMask(write) }
func (d *Device) LineWidth(w float32)             { gl.LineWidth(w) }
func (d *Device) StencilMask(mask uint32)         { gl.StencilMask(mask) }

// BlendFunc sets the blend factors.
func (d *Device) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

// CullFace selects the culled face.
func (d *Device) CullFace(face gpu.Face) {
	gl.CullFace(cullFace(face))
}

// StencilFunc sets the stencil test.
func (d *Device) StencilFunc(fn gpu.CompareFunc, ref int32, mask uint32) {
	gl.StencilFunc(compareFunc(fn), ref, mask)
}

// StencilOp sets the stencil actions.
func (d *Device) StencilOp(sfail, dpfail, dppass gpu.StencilOp) {
	gl.StencilOp(stencilOp(sfail), stencilOp(dpfail), stencilOp(dppass))
}

// ClearColor sets the colour used by Clear.
func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// GetClearColor returns the colour used by Clear.
func (d *Device) GetClearColor() [4]float32 {
	var c [4]float32
	gl.GetFloatv(gl.COLOR_CLEAR_VALUE, &c[0])
	return c
}

// Clear clears the selected buffers of the bound framebuffer.
func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ColorBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.DepthBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&gpu.StencilBit != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

// Viewport sets the viewport rectangle, bottom-left origin.
func (d *Device) Viewport(r gpu.Rect) {
	gl.Viewport(r.X, r.Y, r.W, r.H)
}

// GetViewport returns the viewport rectangle.
func (d *Device) GetViewport() gpu.Rect {
	var v [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &v[0])
	return gpu.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
}

// Scissor sets the scissor box, bottom-left origin.
func (d *Device) Scissor(r gpu.Rect) {
	gl.Scissor(r.X, r.Y, r.W, r.H)
}

// GetScissor returns the scissor box.
func (d *Device) GetScissor() gpu.Rect {
	var v [4]int32
	gl.GetIntegerv(gl.SCISSOR_BOX, &v[0])
	return gpu.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
}

// ReadPixelsRed reads the red channel of the bound framebuffer as floats,
// rows bottom to top.
func (d *Device) ReadPixelsRed(r gpu.Rect) []float32 {
	if r.Empty() {
		return nil
	}
	out := make([]float32, int(r.W)*int(r.H))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(r.X, r.Y, r.W, r.H, gl.RED, gl.FLOAT, gl.Ptr(out))
	return out
}

// ReadPixelsRGBA reads the bound framebuffer as 8-bit RGBA, rows bottom to
// top.
func (d *Device) ReadPixelsRGBA(r gpu.Rect) []byte {
	if r.Empty() {
		return nil
	}
	out := make([]byte, 4*int(r.W)*int(r.H))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.ReadPixels(r.X, r.Y, r.W, r.H, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(out))
	return out
}

// DrawArrays draws count vertices starting at first.
func (d *Device) DrawArrays(mode gpu.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

// DrawArraysInstanced draws instances copies of the vertex range.
func (d *Device) DrawArraysInstanced(mode gpu.Primitive, first, count, instances int32) {
	gl.DrawArraysInstanced(primitive(mode), first, count, instances)
}

// DrawElements draws count indices of the bound element buffer starting at
// byte offset.
func (d *Device) DrawElements(mode gpu.Primitive, count int32, typ gpu.DataType, offset int) {
	gl.DrawElementsWithOffset(primitive(mode), count, dataType(typ), uintptr(offset))
}
