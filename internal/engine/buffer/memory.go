// Package buffer manages GPU vertex storage: a block planner that tracks
// where each attribute array lives inside one buffer, and the VBO/VAO/EBO
// wrappers that apply its plans on a gpu.Device.
package buffer

import (
	"errors"
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

var (
	// ErrUnknownBlock is returned for a block id outside the layout.
	ErrUnknownBlock = errors.New("unknown block")

	// ErrLengthMismatch is returned when ids and lengths (or arrays) differ in count.
	ErrLengthMismatch = errors.New("ids and lengths differ in count")

	// ErrBlockOrder is returned when block ids are not strictly ascending.
	ErrBlockOrder = errors.New("block ids must be strictly ascending")

	// ErrResizeInProgress is returned by a nested UpdateData call.
	ErrResizeInProgress = errors.New("buffer resize in progress")
)

// Layout describes the attribute stored in one block.
type Layout struct {
	// Arity is the component count per vertex; 16 denotes a mat4.
	Arity int
	// Type is the component type, Float32 when zero.
	Type gpu.DataType
}

// Block is the planner's view of one attribute array.
type Block struct {
	Len       int // allocated bytes
	Used      int // bytes holding data
	Type      gpu.DataType
	Slots     []int32 // components per attribute slot
	AttrIndex uint32  // first attribute slot
}

// KeepRange is a span of existing bytes that must survive a reallocation.
type KeepRange struct {
	ReadOffset  int
	WriteOffset int
	Len         int
	// Before is the block the span precedes, or -1 for the trailing span.
	Before int
}

// CopyRange is where new data for a touched block is written.
type CopyRange struct {
	Offset int
	Len    int
}

// MemoryBlock lays out consecutive blocks in one buffer. Offsets are the
// prefix sum of block lengths and Total is their sum.
type MemoryBlock struct {
	blocks  []Block
	offsets []int
	total   int
}

// slots expands an arity into attribute slots; a mat4 takes four vec4 slots.
func slots(arity int) []int32 {
	if arity == 16 {
		return []int32{4, 4, 4, 4}
	}
	return []int32{int32(arity)}
}

// NewMemoryBlock creates a planner with initial byte lengths per block.
func NewMemoryBlock(lens []int, layout []Layout) (*MemoryBlock, error) {
	if len(lens) != len(layout) {
		return nil, fmt.Errorf("%w: %d lengths, %d layouts", ErrLengthMismatch, len(lens), len(layout))
	}

	m := &MemoryBlock{blocks: make([]Block, len(lens))}
	var attr uint32
	for i, l := range layout {
		s := slots(l.Arity)
		m.blocks[i] = Block{
			Len:       lens[i],
			Used:      lens[i],
			Type:      l.Type,
			Slots:     s,
			AttrIndex: attr,
		}
		attr += uint32(len(s))
	}
	m.relayout()
	return m, nil
}

func (m *MemoryBlock) relayout() {
	m.offsets = make([]int, len(m.blocks))
	m.total = 0
	for i, b := range m.blocks {
		m.offsets[i] = m.total
		m.total += b.Len
	}
}

// Len returns the number of blocks.
func (m *MemoryBlock) Len() int { return len(m.blocks) }

// Total returns the buffer size in bytes.
func (m *MemoryBlock) Total() int { return m.total }

// Offset returns the byte offset of block id.
func (m *MemoryBlock) Offset(id int) int { return m.offsets[id] }

// Block returns a copy of block id.
func (m *MemoryBlock) Block(id int) (Block, error) {
	if id < 0 || id >= len(m.blocks) {
		return Block{}, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	return m.blocks[id], nil
}

// SetBlock records new used lengths for the given blocks and plans the
// buffer update. It returns where each block's data goes, which existing
// spans must be preserved, and whether the buffer has to be reallocated.
// Blocks that fit in their allocation never move.
func (m *MemoryBlock) SetBlock(ids []int, lens []int) ([]CopyRange, []KeepRange, bool, error) {
	if len(ids) != len(lens) {
		return nil, nil, false, fmt.Errorf("%w: %d ids, %d lengths", ErrLengthMismatch, len(ids), len(lens))
	}
	for i, id := range ids {
		if id < 0 || id >= len(m.blocks) {
			return nil, nil, false, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
		}
		if i > 0 && id <= ids[i-1] {
			return nil, nil, false, fmt.Errorf("%w: %v", ErrBlockOrder, ids)
		}
	}

	var keeps []KeepRange
	ptr := 0
	extend := false
	for i, id := range ids {
		if ptr < m.offsets[id] {
			keeps = append(keeps, KeepRange{ReadOffset: ptr, Len: m.offsets[id] - ptr, Before: id})
		}
		b := &m.blocks[id]
		ptr = m.offsets[id] + b.Len
		b.Used = lens[i]
		if lens[i] > b.Len {
			extend = true
			b.Len = lens[i]
		}
	}
	if ptr < m.total {
		keeps = append(keeps, KeepRange{ReadOffset: ptr, Len: m.total - ptr, Before: -1})
	}

	if extend {
		m.relayout()
	}
	for i := range keeps {
		k := &keeps[i]
		if k.Before < 0 {
			k.WriteOffset = m.total - k.Len
		} else {
			k.WriteOffset = m.offsets[k.Before] - k.Len
		}
	}

	copies := make([]CopyRange, len(ids))
	for i, id := range ids {
		copies[i] = CopyRange{Offset: m.offsets[id], Len: m.blocks[id].Used}
	}
	return copies, keeps, extend, nil
}
