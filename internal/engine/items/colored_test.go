package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
)

func TestFitColors(t *testing.T) {
	red := [3]float32{1, 0, 0}
	green := [3]float32{0, 1, 0}

	tests := []struct {
		name   string
		colors [][3]float32
		n      int
		want   [][3]float32
	}{
		{"none", nil, 2, [][3]float32{White, White}},
		{"broadcast", [][3]float32{red}, 3, [][3]float32{red, red, red}},
		{"pad", [][3]float32{red, green}, 3, [][3]float32{red, green, White}},
		{"truncate", [][3]float32{red, green, red}, 2, [][3]float32{red, green}},
		{"empty", [][3]float32{red}, 0, [][3]float32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitColors(tt.colors, tt.n))
		})
	}
}

func TestScatterUploadsOnce(t *testing.T) {
	h := newHost()
	pos := [][3]float32{{0, 0, 0}, {1, 1, 1}}
	s := NewScatter(nil, pos, [][3]float32{{1, 0, 0}}, 4)

	h.draw(false, s.Item)
	require.False(t, s.dirty)
	first := h.dev.BufferContents(s.vbo.ID())

	h.draw(false, s.Item)
	assert.Equal(t, first, h.dev.BufferContents(s.vbo.ID()))

	want := append(buffer.Vec3s(pos), buffer.Vec3s([][3]float32{{1, 0, 0}, {1, 0, 0}})...)
	assert.Equal(t, want, first)

	require.Len(t, h.dev.Draws, 2)
	for _, d := range h.dev.Draws {
		assert.Equal(t, gpu.Points, d.Mode)
		assert.EqualValues(t, 2, d.Count)
		assert.True(t, d.Enabled[gpu.ProgramPointSize])
	}
	assert.Equal(t, float32(4), h.uniform(s.progs.draw.ID(), "size"))
	assert.Empty(t, h.dev.Errors())
}

func TestScatterGrowsBuffer(t *testing.T) {
	h := newHost()
	s := NewScatter(nil, [][3]float32{{0, 0, 0}}, nil, 1)
	h.draw(false, s.Item)

	more := [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	s.SetData(more, nil, 0)
	assert.True(t, s.dirty)
	assert.Equal(t, float32(1), s.Size(), "non-positive size keeps the old one")
	h.draw(false, s.Item)

	assert.Equal(t, 3*12*2, s.vbo.Size())
	assert.Equal(t, 3, s.vbo.Count(0))
	assert.EqualValues(t, 3, h.dev.Draws[len(h.dev.Draws)-1].Count)
	assert.Empty(t, h.dev.Errors())
}

func TestScatterPickPass(t *testing.T) {
	h := newHost()
	reg := scene.NewRegistry()
	s := NewScatter(reg, triangle(), nil, 2)

	h.draw(true, s.Item)
	assert.Empty(t, h.dev.Draws, "non-selectable items leave the pick target alone")

	s.SetSelectable(true, false)
	h.draw(true, s.Item)
	require.Len(t, h.dev.Draws, 1)
	assert.Equal(t, s.progs.pick.ID(), h.dev.Draws[0].Program)
	assert.Equal(t, s.PickColor(), h.uniform(s.progs.pick.ID(), "pickColor"))

	require.NoError(t, s.SetGLPreset(scene.Additive))
	h.draw(true, s.Item)
	require.Len(t, h.dev.Draws, 2)
	assert.False(t, h.dev.Draws[1].Enabled[gpu.Blend])
}

func TestLinePlotModes(t *testing.T) {
	h := newHost()
	strip := NewLinePlot(nil, triangle(), nil, LineStrip)
	segs := NewLinePlot(nil, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, nil, LineSegments)
	single := NewLinePlot(nil, [][3]float32{{0, 0, 0}}, nil, LineStrip)
	strip.SetLineWidth(3)
	strip.SetLineWidth(-1)

	h.draw(false, strip.Item, segs.Item, single.Item)

	require.Len(t, h.dev.Draws, 2, "a single vertex draws nothing")
	assert.Equal(t, gpu.LineStrip, h.dev.Draws[0].Mode)
	assert.EqualValues(t, 3, h.dev.Draws[0].Count)
	assert.Equal(t, gpu.Lines, h.dev.Draws[1].Mode)
	assert.EqualValues(t, 4, h.dev.Draws[1].Count)
	assert.Equal(t, float32(3), strip.width)
}

func TestBoxEdges(t *testing.T) {
	lo, hi := vec(-1, -2, -3), vec(1, 2, 3)
	edges := BoxEdges(lo, hi)
	require.Len(t, edges, BoxEdgeVertexCount)
	assert.Equal(t, edges, BoxEdges(hi, lo), "corner order does not matter")

	for i := 0; i < len(edges); i += 2 {
		a, b := edges[i], edges[i+1]
		diff := 0
		for k := range 3 {
			if a[k] != b[k] {
				diff++
			}
		}
		assert.Equal(t, 1, diff, "edge %d is axis aligned", i/2)
	}
}

func TestBoxSetColor(t *testing.T) {
	b := NewBox(nil, vec(0, 0, 0), vec(1, 1, 1), [3]float32{1, 0, 0})
	b.SetColor([3]float32{0, 0, 1})
	require.Len(t, b.colors, BoxEdgeVertexCount)
	for _, c := range b.colors {
		assert.Equal(t, [3]float32{0, 0, 1}, c)
	}

	h := newHost()
	h.draw(false, b.Item)
	require.Len(t, h.dev.Draws, 1)
	assert.Equal(t, gpu.Lines, h.dev.Draws[0].Mode)
	assert.EqualValues(t, BoxEdgeVertexCount, h.dev.Draws[0].Count)
}

func TestGridLines(t *testing.T) {
	assert.Len(t, GridLines(2, 1), 5*4)
	assert.Len(t, GridLines(2.5, 1), 5*4)
	assert.Nil(t, GridLines(0, 1))
	assert.Nil(t, GridLines(1, 0))

	for _, p := range GridLines(3, 1) {
		assert.Zero(t, p[2], "grid lies on the XY plane")
	}
}

func TestGridNeverPicked(t *testing.T) {
	h := newHost()
	g := NewGrid(scene.NewRegistry(), 2, 1, White)
	g.SetSelectable(true, false)

	h.draw(true, g.Item)
	assert.Empty(t, h.dev.Draws)
	assert.Equal(t, -1, g.Depth())
	assert.Equal(t, scene.MustPreset(scene.Translucent), g.GLOptions())

	h.draw(false, g.Item)
	require.Len(t, h.dev.Draws, 1)
	assert.True(t, h.dev.Draws[0].Enabled[gpu.Blend])
}

func TestReleaseFreesResources(t *testing.T) {
	h := newHost()
	reg := scene.NewRegistry()
	s := NewScatter(reg, triangle(), nil, 1)
	m := NewMesh(reg, triangle(), nil, nil, []uint32{0, 1, 2})
	h.draw(false, s.Item, m.Item)
	require.NotZero(t, h.dev.ProgramCount())

	s.Destroy()
	m.Destroy()
	assert.Zero(t, h.dev.ProgramCount())
	assert.Zero(t, h.dev.BufferCount())
	assert.Zero(t, h.dev.VertexArrayCount())
	assert.Zero(t, reg.Len())
}
