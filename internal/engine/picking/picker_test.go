package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
)

// The viewport is 200x100 device pixels; at ratio 2 the pick target draws
// into 100x50. Quad areas are in that scaled space, bottom-left origin.

func TestPickSingleItem(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(1, 2)
	a := newQuad(reg, gpu.Rect{X: 10, Y: 10, W: 20, H: 20})
	p := NewPicker(dev, reg, 2)

	// Scaled x 10..30, y 10..30 is device x 20..60, y 40..80 from the top.
	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{X: 20, Y: 40, W: 40, H: 40})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, a.Item, got[0])
	assert.Empty(t, dev.Errors())
}

func TestPickDistinctItems(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(3, 4)
	a := newQuad(reg, gpu.Rect{X: 10, Y: 10, W: 20, H: 20})
	b := newQuad(reg, gpu.Rect{X: 60, Y: 10, W: 20, H: 20})
	p := NewPicker(dev, reg, 2)
	ctx := newContext(dev, 200, 100)
	items := []*scene.Item{a.Item, b.Item}

	got, err := p.Pick(ctx, items, gpu.Rect{W: 200, H: 100})
	require.NoError(t, err)
	assert.ElementsMatch(t, items, got)

	// Only b's footprint.
	got, err = p.Pick(ctx, items, gpu.Rect{X: 130, Y: 50, W: 20, H: 20})
	require.NoError(t, err)
	assert.Equal(t, []*scene.Item{b.Item}, got)

	// Empty space between them.
	got, err = p.Pick(ctx, items, gpu.Rect{X: 90, Y: 50, W: 10, H: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickOutsideViewport(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(5, 6)
	a := newQuad(reg, gpu.Rect{W: 100, H: 50})
	p := NewPicker(dev, reg, 2)

	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{X: 300, Y: 10, W: 10, H: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, p.Framebuffer(), "nothing rendered")
}

func TestPickRestoresState(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(7, 8)
	a := newQuad(reg, gpu.Rect{W: 100, H: 50})
	p := NewPicker(dev, reg, 2)

	dev.ClearColor(0.2, 0.3, 0.3, 1)
	dev.Enable(gpu.Multisample)
	dev.Viewport(gpu.Rect{W: 200, H: 100})

	_, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{X: 10, Y: 10, W: 10, H: 10})
	require.NoError(t, err)

	assert.Equal(t, uint32(0), dev.CurrentFramebuffer())
	assert.Equal(t, [4]float32{0.2, 0.3, 0.3, 1}, dev.GetClearColor())
	assert.True(t, dev.IsEnabled(gpu.Multisample))
	assert.False(t, dev.IsEnabled(gpu.ScissorTest))
	assert.Equal(t, gpu.Rect{W: 200, H: 100}, dev.GetViewport())

	// The target matches the unscaled viewport.
	w, h, ok := dev.FramebufferSize(p.Framebuffer().ID())
	require.True(t, ok)
	assert.Equal(t, [2]int32{200, 100}, [2]int32{w, h})
}

func TestPickRestoresStateAfterPanic(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(9, 10)
	broken := newQuad(reg, gpu.Rect{W: 100, H: 50})
	broken.panic = true
	ok := newQuad(reg, gpu.Rect{X: 50, W: 50, H: 50})
	p := NewPicker(dev, reg, 2)

	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{broken.Item, ok.Item}, gpu.Rect{W: 200, H: 100})
	require.NoError(t, err)
	assert.Equal(t, []*scene.Item{ok.Item}, got, "a failing item does not abort the pass")
	assert.Equal(t, uint32(0), dev.CurrentFramebuffer())
}

func TestPickDropsStaleColours(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(11, 12)
	a := newQuad(reg, gpu.Rect{W: 100, H: 50})
	require.NoError(t, reg.Release(a.OwnPickColor()))
	p := NewPicker(dev, reg, 2)

	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{W: 200, H: 100})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickSkipsNonSelectable(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(13, 14)
	a := newQuad(reg, gpu.Rect{W: 100, H: 50})
	a.SetSelectable(false, false)
	p := NewPicker(dev, reg, 2)

	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{W: 200, H: 100})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPickChildOfContainer(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(15, 16)

	// A is a non-selectable container covering the whole target; B is a
	// selectable child in the lower left.
	a := newQuad(reg, gpu.Rect{W: 100, H: 50})
	a.SetSelectable(false, false)
	b := newQuad(reg, gpu.Rect{X: 10, Y: 10, W: 20, H: 20})
	require.NoError(t, a.AddChild(b.Item))

	p := NewPicker(dev, reg, 2)
	ctx := newContext(dev, 200, 100)
	var sel Selection

	got, err := p.Pick(ctx, []*scene.Item{a.Item}, gpu.Rect{X: 20, Y: 40, W: 40, H: 40})
	require.NoError(t, err)
	require.Equal(t, []*scene.Item{b.Item}, got)

	sel.Apply(got, false)
	assert.True(t, b.Selected())

	got, err = p.Pick(ctx, []*scene.Item{a.Item}, gpu.Rect{X: 20, Y: 40, W: 40, H: 40})
	require.NoError(t, err)
	sel.Apply(got, false)
	assert.False(t, b.Selected())
	assert.False(t, a.Selected())
	assert.Zero(t, sel.Len())
}

func TestPickSelectableParentWins(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(17, 18)
	parent := newQuad(reg, gpu.Rect{})
	child := newQuad(reg, gpu.Rect{X: 10, Y: 10, W: 20, H: 20})
	require.NoError(t, parent.AddChild(child.Item))
	p := NewPicker(dev, reg, 2)

	got, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{parent.Item}, gpu.Rect{W: 200, H: 100})
	require.NoError(t, err)
	assert.Equal(t, []*scene.Item{parent.Item}, got)
}

func TestPickResizesTarget(t *testing.T) {
	dev := softgpu.New(200, 100)
	reg := scene.NewRegistryWithSeed(19, 20)
	a := newQuad(reg, gpu.Rect{W: 10, H: 10})
	p := NewPicker(dev, reg, 2)

	_, err := p.Pick(newContext(dev, 200, 100), []*scene.Item{a.Item}, gpu.Rect{W: 10, H: 10})
	require.NoError(t, err)
	id := p.Framebuffer().ID()

	dev.ResizeDefault(400, 300)
	_, err = p.Pick(newContext(dev, 400, 300), []*scene.Item{a.Item}, gpu.Rect{W: 10, H: 10})
	require.NoError(t, err)

	assert.Equal(t, id, p.Framebuffer().ID())
	w, h, _ := dev.FramebufferSize(id)
	assert.Equal(t, [2]int32{400, 300}, [2]int32{w, h})

	p.Destroy()
	_, _, ok := dev.FramebufferSize(id)
	assert.False(t, ok)
}
