// Package softgpu is an in-memory gpu.Device.
//
// It stores buffer contents and framebuffer pixels on the CPU, tracks the
// pipeline state a real context would, and records draw calls instead of
// rasterizing. Tests use FillRect to stand in for a fragment shader writing a
// constant value over a screen rectangle.
package softgpu

import (
	"fmt"
	"strings"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Mode        gpu.Primitive
	First       int32
	Count       int32
	Instances   int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
	Framebuffer uint32
	Enabled     map[gpu.Capability]bool
	DepthWrite  bool
	StencilFunc gpu.CompareFunc
}

// Attrib is a recorded vertex attribute pointer.
type Attrib struct {
	Buffer  uint32
	Size    int32
	Type    gpu.DataType
	Stride  int32
	Offset  int
	Divisor uint32
	Enabled bool
}

type surface struct {
	width, height int32
	format        gpu.Format
	pixels        [][4]float32
}

func newSurface(width, height int32, format gpu.Format) *surface {
	return &surface{
		width:  width,
		height: height,
		format: format,
		pixels: make([][4]float32, int(width)*int(height)),
	}
}

type program struct {
	locations map[string]int32
	uniforms  map[int32]any
}

// Device is a CPU implementation of gpu.Device.
type Device struct {
	nextID uint32

	buffers  map[uint32][]byte
	bindings map[gpu.BufferTarget]uint32

	vertexArrays map[uint32]map[uint32]*Attrib
	elementArray map[uint32]uint32
	boundVAO     uint32

	programs       map[uint32]*program
	currentProgram uint32

	enabled     map[gpu.Capability]bool
	depthWrite  bool
	blend       [2]gpu.BlendFactor
	cullFace    gpu.Face
	stencilFunc gpu.CompareFunc
	stencilRef  int32
	stencilMask uint32
	lineWidth   float32

	clearColor [4]float32
	viewport   gpu.Rect
	scissor    gpu.Rect

	surfaces    map[uint32]*surface
	framebuffer uint32

	// CompileErr, when set, makes every CompileProgram call fail with it.
	CompileErr error

	// Draws lists every draw call in submission order.
	Draws []DrawCall

	errors []error
}

var _ gpu.Device = (*Device)(nil)

// New returns a device whose default framebuffer has the given size.
func New(width, height int32) *Device {
	d := &Device{
		buffers:      make(map[uint32][]byte),
		bindings:     make(map[gpu.BufferTarget]uint32),
		vertexArrays: make(map[uint32]map[uint32]*Attrib),
		elementArray: make(map[uint32]uint32),
		programs:     make(map[uint32]*program),
		enabled:      map[gpu.Capability]bool{gpu.Multisample: true},
		depthWrite:   true,
		blend:        [2]gpu.BlendFactor{gpu.One, gpu.Zero},
		stencilFunc:  gpu.Always,
		stencilMask:  0xFF,
		lineWidth:    1,
		surfaces:     make(map[uint32]*surface),
		viewport:     gpu.Rect{W: width, H: height},
		scissor:      gpu.Rect{W: width, H: height},
	}
	d.surfaces[0] = newSurface(width, height, gpu.RGBA8)
	return d
}

func (d *Device) newID() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) fail(format string, args ...any) {
	d.errors = append(d.errors, fmt.Errorf(format, args...))
}

// Errors returns the invalid operations recorded so far.
func (d *Device) Errors() []error {
	return d.errors
}

// Buffers

func (d *Device) CreateBuffer() uint32 {
	id := d.newID()
	d.buffers[id] = nil
	return id
}

func (d *Device) DeleteBuffer(id uint32) {
	delete(d.buffers, id)
	for t, b := range d.bindings {
		if b == id {
			d.bindings[t] = 0
		}
	}
}

// BufferCount returns the number of live buffers.
func (d *Device) BufferCount() int {
	return len(d.buffers)
}

// BufferContents returns a copy of a buffer's storage.
func (d *Device) BufferContents(id uint32) []byte {
	return append([]byte(nil), d.buffers[id]...)
}

func (d *Device) BindBuffer(target gpu.BufferTarget, id uint32) {
	d.bindings[target] = id
	if target == gpu.ElementArrayBuffer && d.boundVAO != 0 {
		d.elementArray[d.boundVAO] = id
	}
}

func (d *Device) bound(target gpu.BufferTarget) (uint32, bool) {
	id := d.bindings[target]
	if _, ok := d.buffers[id]; !ok || id == 0 {
		d.fail("no buffer bound to target %d", target)
		return 0, false
	}
	return id, true
}

func (d *Device) BufferData(target gpu.BufferTarget, size int, data []byte, _ gpu.Usage) {
	id, ok := d.bound(target)
	if !ok {
		return
	}
	store := make([]byte, size)
	copy(store, data)
	d.buffers[id] = store
}

func (d *Device) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	id, ok := d.bound(target)
	if !ok {
		return
	}
	store := d.buffers[id]
	if offset < 0 || offset+len(data) > len(store) {
		d.fail("BufferSubData out of range: offset=%d len=%d size=%d", offset, len(data), len(store))
		return
	}
	copy(store[offset:], data)
}

func (d *Device) CopyBufferSubData(read, write gpu.BufferTarget, readOffset, writeOffset, size int) {
	src, ok := d.bound(read)
	if !ok {
		return
	}
	dst, ok := d.bound(write)
	if !ok {
		return
	}
	from, to := d.buffers[src], d.buffers[dst]
	if readOffset < 0 || readOffset+size > len(from) || writeOffset < 0 || writeOffset+size > len(to) {
		d.fail("CopyBufferSubData out of range: read=%d write=%d size=%d (src %d, dst %d)",
			readOffset, writeOffset, size, len(from), len(to))
		return
	}
	copy(to[writeOffset:writeOffset+size], from[readOffset:readOffset+size])
}

func (d *Device) GetBufferSubData(target gpu.BufferTarget, offset int, out []byte) {
	id, ok := d.bound(target)
	if !ok {
		return
	}
	store := d.buffers[id]
	if offset < 0 || offset+len(out) > len(store) {
		d.fail("GetBufferSubData out of range: offset=%d len=%d size=%d", offset, len(out), len(store))
		return
	}
	copy(out, store[offset:])
}

// Vertex arrays

func (d *Device) CreateVertexArray() uint32 {
	id := d.newID()
	d.vertexArrays[id] = make(map[uint32]*Attrib)
	return id
}

func (d *Device) DeleteVertexArray(id uint32) {
	delete(d.vertexArrays, id)
	delete(d.elementArray, id)
	if d.boundVAO == id {
		d.boundVAO = 0
	}
}

// VertexArrayCount returns the number of live vertex arrays.
func (d *Device) VertexArrayCount() int {
	return len(d.vertexArrays)
}

func (d *Device) BindVertexArray(id uint32) {
	d.boundVAO = id
}

func (d *Device) attrib(index uint32) *Attrib {
	attrs, ok := d.vertexArrays[d.boundVAO]
	if !ok {
		d.fail("no vertex array bound")
		return &Attrib{}
	}
	a, ok := attrs[index]
	if !ok {
		a = &Attrib{}
		attrs[index] = a
	}
	return a
}

// Attribs returns the attribute table of a vertex array.
func (d *Device) Attribs(vao uint32) map[uint32]Attrib {
	out := make(map[uint32]Attrib)
	for i, a := range d.vertexArrays[vao] {
		out[i] = *a
	}
	return out
}

func (d *Device) VertexAttribPointer(index uint32, size int32, typ gpu.DataType, stride int32, offset int) {
	a := d.attrib(index)
	a.Buffer = d.bindings[gpu.ArrayBuffer]
	a.Size, a.Type, a.Stride, a.Offset = size, typ, stride, offset
}

func (d *Device) EnableVertexAttrib(index uint32) {
	d.attrib(index).Enabled = true
}

func (d *Device) VertexAttribDivisor(index, divisor uint32) {
	d.attrib(index).Divisor = divisor
}

// Programs

// CompileProgram accepts any non-empty pair of sources. Uniform names are
// discovered from "uniform <type> <name>;" declarations.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.CompileErr != nil {
		return 0, fmt.Errorf("%w: %w", gpu.ErrCompile, d.CompileErr)
	}
	if strings.TrimSpace(vertexSrc) == "" || strings.TrimSpace(fragmentSrc) == "" {
		return 0, fmt.Errorf("%w: empty source", gpu.ErrCompile)
	}
	id := d.newID()
	p := &program{locations: make(map[string]int32), uniforms: make(map[int32]any)}
	for _, name := range uniformNames(vertexSrc + "\n" + fragmentSrc) {
		if _, ok := p.locations[name]; !ok {
			p.locations[name] = int32(len(p.locations))
		}
	}
	d.programs[id] = p
	return id, nil
}

func uniformNames(src string) []string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 3 || fields[0] != "uniform" {
			continue
		}
		name := strings.TrimSuffix(fields[2], ";")
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

func (d *Device) DeleteProgram(id uint32) {
	delete(d.programs, id)
	if d.currentProgram == id {
		d.currentProgram = 0
	}
}

// ProgramCount returns the number of live programs.
func (d *Device) ProgramCount() int {
	return len(d.programs)
}

func (d *Device) UseProgram(id uint32) {
	d.currentProgram = id
}

func (d *Device) CurrentProgram() uint32 {
	return d.currentProgram
}

// UniformLocation resolves a uniform. Declared struct/array uniforms accept
// any member access by registering it lazily, which mirrors GL where
// lights[0].position is a distinct active location.
func (d *Device) UniformLocation(id uint32, name string) int32 {
	p, ok := d.programs[id]
	if !ok {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	base := name
	if i := strings.IndexAny(base, "[."); i >= 0 {
		base = base[:i]
	}
	if _, ok := p.locations[base]; !ok || base == name {
		return -1
	}
	loc := int32(len(p.locations))
	p.locations[name] = loc
	return loc
}

func (d *Device) setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	p, ok := d.programs[d.currentProgram]
	if !ok {
		d.fail("uniform set with no program in use")
		return
	}
	p.uniforms[loc] = v
}

// Uniform returns the last value uploaded to a named uniform.
func (d *Device) Uniform(programID uint32, name string) (any, bool) {
	p, ok := d.programs[programID]
	if !ok {
		return nil, false
	}
	loc, ok := p.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.uniforms[loc]
	return v, ok
}

func (d *Device) Uniform1i(loc int32, v int32)            { d.setUniform(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)          { d.setUniform(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)       { d.setUniform(loc, [2]float32{x, y}) }
func (d *Device) Uniform3f(loc int32, x, y, z float32)    { d.setUniform(loc, [3]float32{x, y, z}) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { d.setUniform(loc, [4]float32{x, y, z, w}) }
func (d *Device) UniformMatrix4(loc int32, m [16]float32) { d.setUniform(loc, m) }

// Pipeline state

func (d *Device) Enable(c gpu.Capability)         { d.enabled[c] = true }
func (d *Device) Disable(c gpu.Capability)        { d.enabled[c] = false }
func (d *Device) IsEnabled(c gpu.Capability) bool { return d.enabled[c] }
func (d *Device) DepthMask(write bool)            { d.depthWrite = write }
func (d *Device) CullFace(face gpu.Face)          { d.cullFace = face }
func (d *Device) StencilMask(mask uint32)         { d.stencilMask = mask }
func (d *Device) LineWidth(w float32)             { d.lineWidth = w }

func (d *Device) BlendFunc(src, dst gpu.BlendFactor) {
	d.blend = [2]gpu.BlendFactor{src, dst}
}

func (d *Device) StencilFunc(fn gpu.CompareFunc, ref int32, _ uint32) {
	d.stencilFunc, d.stencilRef = fn, ref
}

func (d *Device) StencilOp(_, _, _ gpu.StencilOp) {}

// DepthWrite reports the depth mask.
func (d *Device) DepthWrite() bool { return d.depthWrite }

// BlendFactors reports the blend function.
func (d *Device) BlendFactors() (src, dst gpu.BlendFactor) { return d.blend[0], d.blend[1] }

// CulledFace reports the cull face.
func (d *Device) CulledFace() gpu.Face { return d.cullFace }

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *Device) GetClearColor() [4]float32 {
	return d.clearColor
}

// Clear honors the scissor test, as GL does.
func (d *Device) Clear(mask gpu.ClearMask) {
	if mask&gpu.ColorBit == 0 {
		return
	}
	s := d.surfaces[d.framebuffer]
	area := gpu.Rect{W: s.width, H: s.height}
	if d.enabled[gpu.ScissorTest] {
		area = area.Intersect(d.scissor)
	}
	d.fill(s, area, d.clearColor)
}

func (d *Device) Viewport(r gpu.Rect) { d.viewport = r }
func (d *Device) GetViewport() gpu.Rect {
	return d.viewport
}

func (d *Device) Scissor(r gpu.Rect) { d.scissor = r }
func (d *Device) GetScissor() gpu.Rect {
	return d.scissor
}

// Framebuffers

func (d *Device) CreateFramebuffer(width, height int32, format gpu.Format) (uint32, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	id := d.newID()
	d.surfaces[id] = newSurface(width, height, format)
	return id, nil
}

func (d *Device) ResizeFramebuffer(id uint32, width, height int32) error {
	s, ok := d.surfaces[id]
	if !ok || id == 0 {
		return fmt.Errorf("%w: unknown framebuffer %d", gpu.ErrFramebuffer, id)
	}
	*s = *newSurface(max(width, 1), max(height, 1), s.format)
	return nil
}

func (d *Device) DeleteFramebuffer(id uint32) {
	if id == 0 {
		return
	}
	delete(d.surfaces, id)
	if d.framebuffer == id {
		d.framebuffer = 0
	}
}

// FramebufferSize returns the dimensions of a framebuffer.
func (d *Device) FramebufferSize(id uint32) (int32, int32, bool) {
	s, ok := d.surfaces[id]
	if !ok {
		return 0, 0, false
	}
	return s.width, s.height, true
}

// ResizeDefault changes the size of the window framebuffer.
func (d *Device) ResizeDefault(width, height int32) {
	d.surfaces[0] = newSurface(width, height, gpu.RGBA8)
}

func (d *Device) BindFramebuffer(id uint32) {
	if _, ok := d.surfaces[id]; !ok {
		d.fail("bind of unknown framebuffer %d", id)
		return
	}
	d.framebuffer = id
}

func (d *Device) CurrentFramebuffer() uint32 {
	return d.framebuffer
}

func (d *Device) ReadPixelsRed(r gpu.Rect) []float32 {
	if r.Empty() {
		return nil
	}
	s := d.surfaces[d.framebuffer]
	out := make([]float32, int(r.W)*int(r.H))
	for row := int32(0); row < r.H; row++ {
		for col := int32(0); col < r.W; col++ {
			x, y := r.X+col, r.Y+row
			if x < 0 || y < 0 || x >= s.width || y >= s.height {
				continue
			}
			out[row*r.W+col] = s.pixels[y*s.width+x][0]
		}
	}
	return out
}

func (d *Device) ReadPixelsRGBA(r gpu.Rect) []byte {
	if r.Empty() {
		return nil
	}
	s := d.surfaces[d.framebuffer]
	out := make([]byte, 4*int(r.W)*int(r.H))
	for row := int32(0); row < r.H; row++ {
		for col := int32(0); col < r.W; col++ {
			x, y := r.X+col, r.Y+row
			if x < 0 || y < 0 || x >= s.width || y >= s.height {
				continue
			}
			px := s.pixels[y*s.width+x]
			i := 4 * (row*r.W + col)
			for c := range px {
				out[int(i)+c] = byte(min(max(px[c], 0), 1)*255 + 0.5)
			}
		}
	}
	return out
}

// FillRect writes value into the red channel of the bound framebuffer over
// r, given in viewport coordinates. The viewport bounds and, when enabled,
// the scissor box clip the write.
func (d *Device) FillRect(r gpu.Rect, value float32) {
	s := d.surfaces[d.framebuffer]
	area := gpu.Rect{X: d.viewport.X + r.X, Y: d.viewport.Y + r.Y, W: r.W, H: r.H}
	area = area.Intersect(d.viewport).Intersect(gpu.Rect{W: s.width, H: s.height})
	if d.enabled[gpu.ScissorTest] {
		area = area.Intersect(d.scissor)
	}
	d.fill(s, area, [4]float32{value, 0, 0, 1})
}

// Pixel returns the red channel of a pixel in framebuffer id.
func (d *Device) Pixel(id uint32, x, y int32) float32 {
	s := d.surfaces[id]
	return s.pixels[y*s.width+x][0]
}

func (d *Device) fill(s *surface, area gpu.Rect, c [4]float32) {
	if area.Empty() {
		return
	}
	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			s.pixels[y*s.width+x] = c
		}
	}
}

// Draw calls

func (d *Device) record(call DrawCall) {
	call.Program = d.currentProgram
	call.VertexArray = d.boundVAO
	call.Framebuffer = d.framebuffer
	call.DepthWrite = d.depthWrite
	call.StencilFunc = d.stencilFunc
	call.Enabled = make(map[gpu.Capability]bool, len(d.enabled))
	for c, on := range d.enabled {
		call.Enabled[c] = on
	}
	if call.Program == 0 {
		d.fail("draw with no program in use")
	}
	d.Draws = append(d.Draws, call)
}

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int32) {
	d.record(DrawCall{Mode: mode, First: first, Count: count, Instances: 1})
}

func (d *Device) DrawArraysInstanced(mode gpu.Primitive, first, count, instances int32) {
	d.record(DrawCall{Mode: mode, First: first, Count: count, Instances: instances})
}

func (d *Device) DrawElements(mode gpu.Primitive, count int32, _ gpu.DataType, offset int) {
	if d.elementArray[d.boundVAO] == 0 {
		d.fail("DrawElements with no element buffer")
	}
	d.record(DrawCall{Mode: mode, First: int32(offset), Count: count, Instances: 1, Indexed: true})
}

// ResetDraws clears the recorded draw list.
func (d *Device) ResetDraws() {
	d.Draws = nil
}
