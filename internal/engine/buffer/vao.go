package buffer

import "github.com/Beginsangod/Painter/internal/engine/gpu"

// VAO wraps a vertex array object.
type VAO struct {
	dev gpu.Device
	id  uint32
}

// NewVAO creates a vertex array.
func NewVAO(dev gpu.Device) *VAO {
	return &VAO{dev: dev, id: dev.CreateVertexArray()}
}

// ID returns the device name.
func (a *VAO) ID() uint32 { return a.id }

// Bind makes the vertex array current.
func (a *VAO) Bind() { a.dev.BindVertexArray(a.id) }

// Unbind clears the current vertex array.
func (a *VAO) Unbind() { a.dev.BindVertexArray(0) }

// Delete releases the vertex array.
func (a *VAO) Delete() {
	a.dev.DeleteVertexArray(a.id)
	a.id = 0
}

// EBO wraps an element (index) buffer.
type EBO struct {
	dev   gpu.Device
	id    uint32
	count int
}

// NewEBO creates an index buffer. Bind the owning VAO first so it records
// the element binding.
func NewEBO(dev gpu.Device, indices []uint32) *EBO {
	e := &EBO{dev: dev, id: dev.CreateBuffer()}
	e.UpdateData(indices)
	return e
}

// UpdateData replaces the indices.
func (e *EBO) UpdateData(indices []uint32) {
	e.dev.BindBuffer(gpu.ElementArrayBuffer, e.id)
	data := Uint32s(indices)
	e.dev.BufferData(gpu.ElementArrayBuffer, len(data), data, gpu.StaticDraw)
	e.count = len(indices)
}

// Size returns the number of indices.
func (e *EBO) Size() int { return e.count }

// Bind binds the element target.
func (e *EBO) Bind() { e.dev.BindBuffer(gpu.ElementArrayBuffer, e.id) }

// Delete releases the buffer.
func (e *EBO) Delete() {
	e.dev.DeleteBuffer(e.id)
	e.id = 0
	e.count = 0
}
