package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

func TestSelectBoxDefaults(t *testing.T) {
	b := NewSelectBox()
	assert.False(t, b.Visible())
	assert.False(t, b.Selectable())
	assert.Zero(t, b.PickColor())
	assert.Equal(t, scene.MustPreset(scene.OnTop), b.GLOptions())

	b.SetStart(math.Vec2{X: 30, Y: 20})
	b.SetEnd(math.Vec2{X: 10, Y: 25})
	assert.Equal(t, gpu.Rect{X: 30, Y: 20, W: -20, H: 5}, b.Rect())
}

func TestSelectBoxPaint(t *testing.T) {
	h := newHost()
	b := NewSelectBox()
	b.SetStart(math.Vec2{X: 5, Y: 5})
	b.SetEnd(math.Vec2{X: 20, Y: 15})

	h.draw(false, b.Item)
	assert.Empty(t, h.dev.Draws, "hidden until a drag starts")

	b.SetVisible(true, false)
	h.draw(false, b.Item)

	require.Len(t, h.dev.Draws, 2)
	assert.Equal(t, gpu.Triangles, h.dev.Draws[0].Mode)
	assert.EqualValues(t, 6, h.dev.Draws[0].Count)
	assert.Equal(t, gpu.LineLoop, h.dev.Draws[1].Mode)
	assert.EqualValues(t, 6, h.dev.Draws[1].First)
	assert.EqualValues(t, 4, h.dev.Draws[1].Count)
	assert.False(t, h.dev.Draws[1].Enabled[gpu.DepthTest])
	assert.False(t, h.dev.DepthWrite())

	prog := b.prog.ID()
	assert.Equal(t, [16]float32(math.Ortho(0, 64, 48, 0, -1, 1)), h.uniform(prog, "projection"))
	assert.Equal(t, int32(0), h.uniform(prog, "is_surface"))
	assert.Equal(t, 10, b.vbo.Count(0))

	attrs := h.dev.Attribs(b.vao.ID())
	require.Contains(t, attrs, uint32(0))
	assert.EqualValues(t, 2, attrs[0].Size)

	h.draw(true, b.Item)
	assert.Len(t, h.dev.Draws, 2, "never drawn in the pick pass")
}
