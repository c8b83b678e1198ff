package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Beginsangod/Painter/internal/engine/camera"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/logger"
	"github.com/Beginsangod/Painter/pkg/math"
)

// twoQuads adds quad a at device x 20..60 and quad b at device x 120..160,
// both spanning y 40..80 from the top.
func twoQuads(t *testing.T, v *Viewport) (a, b *quad) {
	t.Helper()
	a = newQuad(v.Registry(), gpu.Rect{X: 10, Y: 10, W: 20, H: 20})
	b = newQuad(v.Registry(), gpu.Rect{X: 60, Y: 10, W: 20, H: 20})
	require.NoError(t, v.AddItems(a.Item, b.Item))
	return a, b
}

func TestRubberBandSelection(t *testing.T) {
	v, _ := newViewport(t)
	a, b := twoQuads(t, v)

	drag(v, 20, 40, 60, 80, 0)
	assert.Equal(t, []*scene.Item{a.Item}, v.SelectedItems())
	assert.True(t, a.Selected())
	assert.False(t, v.SelectBox().Visible(), "hidden after release")

	drag(v, 160, 80, 120, 40, input.ModCtrl)
	assert.Equal(t, []*scene.Item{a.Item, b.Item}, v.SelectedItems(), "ctrl adds")

	drag(v, 20, 40, 60, 80, input.ModCtrl)
	assert.Equal(t, []*scene.Item{a.Item, b.Item}, v.SelectedItems(), "ctrl never toggles off")

	drag(v, 20, 40, 60, 80, 0)
	assert.Equal(t, []*scene.Item{b.Item}, v.SelectedItems(), "plain release toggles")
	assert.False(t, a.Selected())

	drag(v, 100, 5, 100, 5, input.ModCtrl)
	assert.Equal(t, []*scene.Item{b.Item}, v.SelectedItems(), "empty ctrl click keeps the selection")

	drag(v, 100, 5, 100, 5, 0)
	assert.Empty(t, v.SelectedItems(), "empty click clears")
	assert.False(t, b.Selected())
}

func TestRubberBandCoversBoth(t *testing.T) {
	v, _ := newViewport(t)
	a, b := twoQuads(t, v)

	drag(v, 0, 0, 200, 100, 0)
	assert.ElementsMatch(t, []*scene.Item{a.Item, b.Item}, v.SelectedItems())
}

func TestRubberBandTracksSelectBox(t *testing.T) {
	v, _ := newViewport(t)
	v.Resize(100, 50, 2)

	v.HandleEvent(input.Event{Type: input.EventMouseDown, X: 5, Y: 5, Button: input.ButtonLeft, Buttons: input.ButtonLeft})
	assert.False(t, v.SelectBox().Visible(), "shown on the first move")

	v.HandleEvent(input.Event{Type: input.EventMouseMove, X: 25, Y: 15, Buttons: input.ButtonLeft})
	assert.True(t, v.SelectBox().Visible())
	assert.Equal(t, gpu.Rect{X: 10, Y: 10, W: 40, H: 20}, v.SelectBox().Rect(), "device pixels")
}

func TestReleaseWithoutDragIsIgnored(t *testing.T) {
	v, _ := newViewport(t)
	a, _ := twoQuads(t, v)
	v.Select([]*scene.Item{a.Item}, false)

	v.HandleEvent(input.Event{Type: input.EventMouseUp, X: 30, Y: 50, Button: input.ButtonLeft})
	assert.Equal(t, []*scene.Item{a.Item}, v.SelectedItems())
}

func TestRightDragOrbits(t *testing.T) {
	tests := []struct {
		name   string
		mods   input.Modifier
		points [][2]float32
		want   func(c *camera.Camera)
	}{
		{
			name:   "yaw",
			points: [][2]float32{{10, 0}},
			want:   func(c *camera.Camera) { c.Orbit(10, 0, 0, nil) },
		},
		{
			name:   "incremental",
			points: [][2]float32{{10, 0}, {10, 5}},
			want: func(c *camera.Camera) {
				c.Orbit(10, 0, 0, nil)
				c.Orbit(0, 5, 0, nil)
			},
		},
		{
			name:   "shift locks to the dominant axis from the press",
			mods:   input.ModShift,
			points: [][2]float32{{10, 3}, {12, 20}},
			want:   func(c *camera.Camera) { c.Orbit(0, 20, 0, nil) },
		},
		{
			name:   "ctrl slows down",
			mods:   input.ModCtrl,
			points: [][2]float32{{10, 0}},
			want: func(c *camera.Camera) {
				var dx float32 = 10
				dx *= precisionFactor
				c.Orbit(dx, 0, 0, nil)
			},
		},
		{
			name:   "alt rolls",
			mods:   input.ModAlt,
			points: [][2]float32{{10, 0}},
			want:   func(c *camera.Camera) { c.Orbit(0, 0, 2, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newViewport(t)
			require.NoError(t, v.Paint())
			move(v, input.ButtonRight, tt.mods, 0, 0, tt.points...)

			want := camera.New(DefaultOptions().Camera)
			tt.want(want)
			assert.Equal(t, want.Quat, v.Camera().Quat)
			assert.Equal(t, want.Pos, v.Camera().Pos)
			assert.True(t, v.NeedsPaint())
		})
	}
}

func TestMiddleDragPans(t *testing.T) {
	v, _ := newViewport(t)
	move(v, input.ButtonMiddle, 0, 0, 0, [2]float32{10, 0}, [2]float32{10, 4})

	want := camera.New(DefaultOptions().Camera)
	want.Pan(10, 0, 0, 200, nil)
	want.Pan(0, -4, 0, 200, nil)
	assert.InDelta(t, want.Pos.X, v.Camera().Pos.X, 1e-6)
	assert.InDelta(t, want.Pos.Y, v.Camera().Pos.Y, 1e-6)
	assert.InDelta(t, float32(10), v.Camera().Pos.Z, 1e-6)
	assert.Less(t, v.Camera().Pos.X, float32(0), "dragging right moves the scene right")
	assert.Greater(t, v.Camera().Pos.Y, float32(0), "dragging down moves the scene down")
}

func TestWheelZooms(t *testing.T) {
	v, _ := newViewport(t)
	require.True(t, v.HandleEvent(input.Event{Type: input.EventWheel, WheelY: 120}))

	want := camera.New(DefaultOptions().Camera)
	want.Zoom(120)
	assert.Equal(t, want.Pos.Z, v.Camera().Pos.Z)
	assert.Less(t, v.Camera().Pos.Z, float32(10))

	v.HandleEvent(input.Event{Type: input.EventWheel, WheelY: -120, Mods: input.ModCtrl})
	want.ZoomFOV(-120)
	assert.Equal(t, want.FOV, v.Camera().FOV)
	assert.Equal(t, want.Pos.Z, v.Camera().Pos.Z, "ctrl leaves the distance alone")
}

func TestKeys(t *testing.T) {
	v, _ := newViewport(t)

	assert.True(t, v.HandleEvent(input.Event{Type: input.EventKeyDown, Key: '2'}))
	assert.Equal(t, math.Vec3{Z: 886.87}, v.Camera().Pos)

	assert.True(t, v.HandleEvent(input.Event{Type: input.EventKeyDown, Key: 'r'}))
	assert.Equal(t, math.Vec3{Z: 10}, v.Camera().Pos)
	assert.Equal(t, math.QuatIdentity(), v.Camera().Quat)

	assert.False(t, v.HandleEvent(input.Event{Type: input.EventKeyDown, Key: 'x'}))
}

func TestKeyLogsCamera(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Use(zap.New(core))
	t.Cleanup(logger.Nop)

	v, _ := newViewport(t)
	require.True(t, v.HandleEvent(input.Event{Type: input.EventKeyDown, Key: '1'}))

	entries := logs.FilterMessage("camera").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "viewport", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "(0.00, 0.00, 10.00)", fields["pos"])
	assert.Equal(t, float32(45), fields["fov"])
}

func TestResizeEvent(t *testing.T) {
	v, _ := newViewport(t)
	require.True(t, v.HandleEvent(input.Event{Type: input.EventWindowResize, Width: 300, Height: 150}))

	w, h := v.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)
	assert.False(t, v.HandleEvent(input.Event{Type: input.EventQuit}))
}

func TestClosedViewportIgnoresEvents(t *testing.T) {
	v, _ := newViewport(t)
	v.Close()
	assert.False(t, v.HandleEvent(input.Event{Type: input.EventWheel, WheelY: 1}))
	assert.Equal(t, float32(10), v.Camera().Pos.Z)
}
