package viewport

import (
	"testing"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// The viewport is 200x100 with a pick ratio of 2, so quad areas are given
// in the 100x50 pick target with a bottom-left origin.

// quad fills a fixed area of the pick target with its pick colour.
type quad struct {
	*scene.Item
	area gpu.Rect
}

func newQuad(reg *scene.Registry, area gpu.Rect) *quad {
	q := &quad{area: area}
	q.Item = scene.NewItem(reg, q)
	q.SetSelectable(true, false)
	return q
}

func (q *quad) InitializeGL(*scene.Context) error     { return nil }
func (q *quad) Paint(*scene.Context, math.Mat4) error { return nil }

func (q *quad) PaintPickMode(ctx *scene.Context, _ math.Mat4) error {
	ctx.Device.(*softgpu.Device).FillRect(q.area, q.PickColor())
	return nil
}

func newViewport(t *testing.T) (*Viewport, *softgpu.Device) {
	t.Helper()
	dev := softgpu.New(200, 100)
	opts := DefaultOptions()
	opts.Width, opts.Height = 200, 100
	opts.PickRatio = 2
	v := New(dev, opts)
	t.Cleanup(v.Close)
	return v, dev
}

// drag performs a full left-button rubber band from (x0, y0) to (x1, y1).
func drag(v *Viewport, x0, y0, x1, y1 float32, mods input.Modifier) {
	v.HandleEvent(input.Event{Type: input.EventMouseDown, X: x0, Y: y0, Button: input.ButtonLeft, Buttons: input.ButtonLeft, Mods: mods})
	v.HandleEvent(input.Event{Type: input.EventMouseMove, X: x1, Y: y1, Buttons: input.ButtonLeft, Mods: mods})
	v.HandleEvent(input.Event{Type: input.EventMouseUp, X: x1, Y: y1, Button: input.ButtonLeft, Mods: mods})
}

// move drags with buttons from (x0, y0) through each point.
func move(v *Viewport, buttons input.Button, mods input.Modifier, x0, y0 float32, points ...[2]float32) {
	v.HandleEvent(input.Event{Type: input.EventMouseDown, X: x0, Y: y0, Button: buttons, Buttons: buttons, Mods: mods})
	for _, p := range points {
		v.HandleEvent(input.Event{Type: input.EventMouseMove, X: p[0], Y: p[1], Buttons: buttons, Mods: mods})
	}
}
