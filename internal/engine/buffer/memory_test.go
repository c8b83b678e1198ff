package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec3Layout(n int) []Layout {
	l := make([]Layout, n)
	for i := range l {
		l[i] = Layout{Arity: 3}
	}
	return l
}

func TestNewMemoryBlockLayout(t *testing.T) {
	m, err := NewMemoryBlock([]int{12, 128, 8}, []Layout{{Arity: 3}, {Arity: 16}, {Arity: 2}})
	require.NoError(t, err)

	assert.Equal(t, 148, m.Total())
	assert.Equal(t, 0, m.Offset(0))
	assert.Equal(t, 12, m.Offset(1))
	assert.Equal(t, 140, m.Offset(2))

	b, err := m.Block(1)
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 4, 4, 4}, b.Slots)
	assert.Equal(t, uint32(1), b.AttrIndex)

	b, err = m.Block(2)
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, b.Slots)
	assert.Equal(t, uint32(5), b.AttrIndex, "attribute index is the prefix sum of slot counts")
}

func TestSetBlockWithinAllocation(t *testing.T) {
	m, err := NewMemoryBlock([]int{12, 24, 8}, vec3Layout(3))
	require.NoError(t, err)

	copies, keeps, extend, err := m.SetBlock([]int{1}, []int{12})
	require.NoError(t, err)

	assert.False(t, extend)
	assert.Equal(t, []CopyRange{{Offset: 12, Len: 12}}, copies)
	assert.Equal(t, []KeepRange{
		{ReadOffset: 0, WriteOffset: 0, Len: 12, Before: 1},
		{ReadOffset: 36, WriteOffset: 36, Len: 8, Before: -1},
	}, keeps)

	// Allocation is kept, only the used length shrinks.
	b, _ := m.Block(1)
	assert.Equal(t, 24, b.Len)
	assert.Equal(t, 12, b.Used)
	assert.Equal(t, 44, m.Total())
}

func TestSetBlockExtendMiddle(t *testing.T) {
	m, err := NewMemoryBlock([]int{12, 24, 8}, vec3Layout(3))
	require.NoError(t, err)

	copies, keeps, extend, err := m.SetBlock([]int{1}, []int{48})
	require.NoError(t, err)

	assert.True(t, extend)
	assert.Equal(t, 68, m.Total())
	assert.Equal(t, 60, m.Offset(2))
	assert.Equal(t, []CopyRange{{Offset: 12, Len: 48}}, copies)
	assert.Equal(t, []KeepRange{
		{ReadOffset: 0, WriteOffset: 0, Len: 12, Before: 1},
		{ReadOffset: 36, WriteOffset: 60, Len: 8, Before: -1},
	}, keeps)
}

func TestSetBlockExtendSeveral(t *testing.T) {
	m, err := NewMemoryBlock([]int{12, 12, 12, 12}, vec3Layout(4))
	require.NoError(t, err)

	copies, keeps, extend, err := m.SetBlock([]int{0, 2}, []int{24, 36})
	require.NoError(t, err)

	assert.True(t, extend)
	assert.Equal(t, 84, m.Total())
	assert.Equal(t, []CopyRange{{Offset: 0, Len: 24}, {Offset: 36, Len: 36}}, copies)
	assert.Equal(t, []KeepRange{
		{ReadOffset: 12, WriteOffset: 24, Len: 12, Before: 2},
		{ReadOffset: 36, WriteOffset: 72, Len: 12, Before: -1},
	}, keeps)
}

func TestSetBlockOffsetsStayPrefixSums(t *testing.T) {
	m, err := NewMemoryBlock([]int{4, 8, 0, 16}, vec3Layout(4))
	require.NoError(t, err)

	_, _, _, err = m.SetBlock([]int{1, 2, 3}, []int{100, 3, 1})
	require.NoError(t, err)

	sum := 0
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, sum, m.Offset(i))
		b, _ := m.Block(i)
		sum += b.Len
	}
	assert.Equal(t, sum, m.Total())
}

func TestSetBlockErrors(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		lens    []int
		wantErr error
	}{
		{"unknown id", []int{3}, []int{4}, ErrUnknownBlock},
		{"negative id", []int{-1}, []int{4}, ErrUnknownBlock},
		{"count mismatch", []int{0, 1}, []int{4}, ErrLengthMismatch},
		{"descending", []int{1, 0}, []int{4, 4}, ErrBlockOrder},
		{"duplicate", []int{1, 1}, []int{4, 4}, ErrBlockOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMemoryBlock([]int{12, 12, 12}, vec3Layout(3))
			require.NoError(t, err)

			_, _, _, err = m.SetBlock(tt.ids, tt.lens)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 36, m.Total(), "failed plan must not change the layout")
		})
	}
}
