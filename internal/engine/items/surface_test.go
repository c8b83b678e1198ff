package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
)

func TestSurfaceGrid(t *testing.T) {
	zmap := [][]float32{
		{0, 1, 2},
		{3, 4, 5},
	}
	pos, indices, err := SurfaceGrid(zmap, 6)
	require.NoError(t, err)
	require.Len(t, pos, 6)

	// Spacing follows the columns: 6 wide over 3 columns gives a ratio of 2.
	assert.Equal(t, [3]float32{-3, -2, 0}, pos[0])
	assert.Equal(t, [3]float32{3, -2, 4}, pos[2])
	assert.Equal(t, [3]float32{0, 2, 8}, pos[4])
	assert.Equal(t, []uint32{0, 1, 4, 0, 4, 3, 1, 2, 5, 1, 5, 4}, indices)
}

func TestSurfaceGridRejectsBadMaps(t *testing.T) {
	tests := []struct {
		name string
		zmap [][]float32
	}{
		{"empty", nil},
		{"one row", [][]float32{{1, 2}}},
		{"one column", [][]float32{{1}, {2}}},
		{"ragged", [][]float32{{1, 2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SurfaceGrid(tt.zmap, 1)
			assert.ErrorIs(t, err, ErrBadData)
		})
	}
}

func TestSurfacePlotDraw(t *testing.T) {
	h := newHost()
	s, err := NewSurfacePlot(scene.NewRegistry(), [][]float32{{0, 0}, {0, 1}}, 2, [][3]float32{{0, 1, 0}})
	require.NoError(t, err)
	s.SetOpacity(0.5)
	assert.Equal(t, scene.MustPreset(scene.Translucent), s.GLOptions())

	h.draw(false, s.Item)
	require.Empty(t, h.dev.Errors())
	require.Len(t, h.dev.Draws, 1)
	d := h.dev.Draws[0]
	assert.Equal(t, gpu.Triangles, d.Mode)
	assert.True(t, d.Indexed)
	assert.EqualValues(t, 6, d.Count)
	assert.True(t, d.Enabled[gpu.Blend])
	assert.Equal(t, float32(0.5), h.uniform(s.progs.draw.ID(), "opacity"))
	assert.Len(t, s.colors, 4)

	s.SetSelectable(true, false)
	h.draw(true, s.Item)
	require.Len(t, h.dev.Draws, 2)
	assert.Equal(t, s.progs.pick.ID(), h.dev.Draws[1].Program)
	assert.False(t, h.dev.Draws[1].Enabled[gpu.Blend])
}

func TestSurfacePlotKeepsGridOnBadData(t *testing.T) {
	s, err := NewSurfacePlot(nil, [][]float32{{0, 0}, {0, 0}}, 1, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetData([][]float32{{0}}, 1, nil), ErrBadData)
	assert.Len(t, s.Indices(), 6)
	assert.Len(t, s.pos, 4)

	_, err = NewSurfacePlot(nil, [][]float32{{0, 1, 2}}, 1, nil)
	assert.ErrorIs(t, err, ErrBadData)
}

func TestSurfacePlotGrows(t *testing.T) {
	h := newHost()
	s, err := NewSurfacePlot(nil, [][]float32{{0, 0}, {0, 0}}, 1, nil)
	require.NoError(t, err)
	h.draw(false, s.Item)

	require.NoError(t, s.SetData([][]float32{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, 0, nil))
	h.draw(false, s.Item)
	assert.EqualValues(t, 6*4, h.dev.Draws[len(h.dev.Draws)-1].Count)
	assert.Equal(t, float32(1), s.xSize, "a non-positive width keeps the old one")
	assert.Empty(t, h.dev.Errors())
}
