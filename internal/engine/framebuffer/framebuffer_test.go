package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
)

func TestBindWithViewportRestores(t *testing.T) {
	dev := softgpu.New(640, 480)
	dev.Viewport(gpu.Rect{X: 10, Y: 20, W: 300, H: 200})

	fb, err := New(dev, 64, 32, gpu.R32F)
	require.NoError(t, err)

	restore := fb.BindWithViewport()
	assert.Equal(t, fb.ID(), dev.CurrentFramebuffer())
	assert.Equal(t, gpu.Rect{W: 64, H: 32}, dev.GetViewport())

	restore()
	assert.Equal(t, uint32(0), dev.CurrentFramebuffer())
	assert.Equal(t, gpu.Rect{X: 10, Y: 20, W: 300, H: 200}, dev.GetViewport())
}

func TestReadRed(t *testing.T) {
	dev := softgpu.New(640, 480)
	fb, err := New(dev, 16, 16, gpu.R32F)
	require.NoError(t, err)

	restore := fb.BindWithViewport()
	fb.Clear(0, 0, 0, 0)
	dev.FillRect(gpu.Rect{X: 2, Y: 3, W: 2, H: 1}, 0.25)
	restore()

	got := fb.ReadRed(gpu.Rect{X: 1, Y: 3, W: 4, H: 1})
	assert.Equal(t, []float32{0, 0.25, 0.25, 0}, got)
	assert.Equal(t, uint32(0), dev.CurrentFramebuffer(), "ReadRed restores the binding")
}

func TestResize(t *testing.T) {
	dev := softgpu.New(640, 480)
	fb, err := New(dev, 0, -5, gpu.RGBA8)
	require.NoError(t, err)

	w, h := fb.Size()
	assert.Equal(t, int32(1), w)
	assert.Equal(t, int32(1), h)

	require.NoError(t, fb.Resize(320, 240))
	w, h, ok := dev.FramebufferSize(fb.ID())
	require.True(t, ok)
	assert.Equal(t, int32(320), w)
	assert.Equal(t, int32(240), h)

	id := fb.ID()
	fb.Destroy()
	_, _, ok = dev.FramebufferSize(id)
	assert.False(t, ok)
}
