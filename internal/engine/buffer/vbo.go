package buffer

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

// VBO is a vertex buffer holding several attribute blocks back to back.
type VBO struct {
	dev       gpu.Device
	id        uint32
	usage     gpu.Usage
	mem       *MemoryBlock
	allocated int
	resizing  bool
}

// NewVBO creates a buffer with one block per layout entry. data may be nil
// or hold nil entries for blocks that start empty.
func NewVBO(dev gpu.Device, layout []Layout, data [][]byte, usage gpu.Usage) (*VBO, error) {
	if data == nil {
		data = make([][]byte, len(layout))
	}
	if len(data) != len(layout) {
		return nil, fmt.Errorf("%w: %d arrays, %d layouts", ErrLengthMismatch, len(data), len(layout))
	}

	lens := make([]int, len(data))
	for i, d := range data {
		lens[i] = len(d)
	}
	mem, err := NewMemoryBlock(lens, layout)
	if err != nil {
		return nil, err
	}

	v := &VBO{dev: dev, id: dev.CreateBuffer(), usage: usage, mem: mem}
	if mem.Total() == 0 {
		return v, nil
	}

	dev.BindBuffer(gpu.ArrayBuffer, v.id)
	dev.BufferData(gpu.ArrayBuffer, mem.Total(), nil, usage)
	for i, d := range data {
		dev.BufferSubData(gpu.ArrayBuffer, mem.Offset(i), d)
	}
	v.allocated = mem.Total()
	return v, nil
}

// ID returns the device buffer name.
func (v *VBO) ID() uint32 { return v.id }

// Size returns the allocated size in bytes.
func (v *VBO) Size() int { return v.allocated }

// Memory exposes the block planner.
func (v *VBO) Memory() *MemoryBlock { return v.mem }

// Count returns the number of vertices in block id (used bytes / vertex size).
func (v *VBO) Count(id int) int {
	b, err := v.mem.Block(id)
	if err != nil {
		return 0
	}
	var comps int32
	for _, s := range b.Slots {
		comps += s
	}
	if comps == 0 {
		return 0
	}
	return b.Used / (int(comps) * b.Type.Size())
}

// Bind binds the buffer to the array target.
func (v *VBO) Bind() {
	v.dev.BindBuffer(gpu.ArrayBuffer, v.id)
}

// Unbind clears the array target.
func (v *VBO) Unbind() {
	v.dev.BindBuffer(gpu.ArrayBuffer, 0)
}

// UpdateData replaces the contents of the given blocks. ids must be strictly
// ascending. When a block outgrows its allocation the buffer is reallocated
// and every untouched byte is carried over to its new position.
func (v *VBO) UpdateData(ids []int, arrays [][]byte) error {
	if v.resizing {
		return ErrResizeInProgress
	}
	if len(ids) != len(arrays) {
		return fmt.Errorf("%w: %d ids, %d arrays", ErrLengthMismatch, len(ids), len(arrays))
	}

	v.resizing = true
	defer func() { v.resizing = false }()

	lens := make([]int, len(arrays))
	for i, a := range arrays {
		lens[i] = len(a)
	}
	copies, keeps, extend, err := v.mem.SetBlock(ids, lens)
	if err != nil {
		return fmt.Errorf("planning update: %w", err)
	}
	if v.mem.Total() == 0 {
		return nil
	}

	if extend {
		v.reallocate(keeps)
	}

	v.dev.BindBuffer(gpu.ArrayBuffer, v.id)
	for i, c := range copies {
		v.dev.BufferSubData(gpu.ArrayBuffer, c.Offset, arrays[i][:c.Len])
	}
	return nil
}

func (v *VBO) reallocate(keeps []KeepRange) {
	dev := v.dev

	var scratch uint32
	if v.allocated > 0 && len(keeps) > 0 {
		scratch = dev.CreateBuffer()
		dev.BindBuffer(gpu.CopyWriteBuffer, scratch)
		dev.BufferData(gpu.CopyWriteBuffer, v.allocated, nil, gpu.StaticDraw)
		dev.BindBuffer(gpu.CopyReadBuffer, v.id)
		dev.CopyBufferSubData(gpu.CopyReadBuffer, gpu.CopyWriteBuffer, 0, 0, v.allocated)
	}

	dev.BindBuffer(gpu.ArrayBuffer, v.id)
	dev.BufferData(gpu.ArrayBuffer, v.mem.Total(), nil, v.usage)
	v.allocated = v.mem.Total()

	if scratch == 0 {
		return
	}
	dev.BindBuffer(gpu.CopyReadBuffer, scratch)
	dev.BindBuffer(gpu.CopyWriteBuffer, v.id)
	for _, k := range keeps {
		dev.CopyBufferSubData(gpu.CopyReadBuffer, gpu.CopyWriteBuffer, k.ReadOffset, k.WriteOffset, k.Len)
	}
	dev.BindBuffer(gpu.CopyReadBuffer, 0)
	dev.BindBuffer(gpu.CopyWriteBuffer, 0)
	dev.DeleteBuffer(scratch)
}

// ReadBlock reads back the used bytes of block id.
func (v *VBO) ReadBlock(id int) ([]byte, error) {
	b, err := v.mem.Block(id)
	if err != nil {
		return nil, err
	}
	out := make([]byte, b.Used)
	if b.Used == 0 {
		return out, nil
	}
	v.dev.BindBuffer(gpu.ArrayBuffer, v.id)
	v.dev.GetBufferSubData(gpu.ArrayBuffer, v.mem.Offset(id), out)
	return out, nil
}

// SetAttrPointer points each block's attribute slots at its data. A mat4
// block becomes four vec4 attributes with a 64-byte stride. A non-zero
// divisor makes the attributes per-instance. The target VAO must be bound.
func (v *VBO) SetAttrPointer(ids []int, divisor uint32) error {
	for _, id := range ids {
		b, err := v.mem.Block(id)
		if err != nil {
			return err
		}
		if err := v.SetAttrPointerAt(id, b.AttrIndex, divisor); err != nil {
			return err
		}
	}
	return nil
}

// SetAttrPointerAt binds block id starting at an explicit attribute slot.
func (v *VBO) SetAttrPointerAt(id int, attr uint32, divisor uint32) error {
	b, err := v.mem.Block(id)
	if err != nil {
		return err
	}

	v.dev.BindBuffer(gpu.ArrayBuffer, v.id)
	size := b.Type.Size()
	var stride int32
	if len(b.Slots) > 1 {
		var comps int32
		for _, s := range b.Slots {
			comps += s
		}
		stride = comps * int32(size)
	}

	offset := v.mem.Offset(id)
	for i, comps := range b.Slots {
		index := attr + uint32(i)
		v.dev.VertexAttribPointer(index, comps, b.Type, stride, offset)
		v.dev.EnableVertexAttrib(index)
		if divisor > 0 {
			v.dev.VertexAttribDivisor(index, divisor)
		}
		offset += int(comps) * size
	}
	return nil
}

// Delete releases the buffer.
func (v *VBO) Delete() {
	v.dev.DeleteBuffer(v.id)
	v.id = 0
	v.allocated = 0
}
