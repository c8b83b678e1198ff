package picking

import (
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// quad fills a fixed rectangle of the pick target, given in viewport pixels.
type quad struct {
	*scene.Item
	area  gpu.Rect
	panic bool
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
	if q.panic {
		panic("broken pick shader")
	}
	ctx.Device.(*softgpu.Device).FillRect(q.area, q.PickColor())
	return nil
}

func newContext(dev *softgpu.Device, w, h int32) *scene.Context {
	return &scene.Context{
		Device:     dev,
		View:       math.Identity(),
		Projection: math.Identity(),
		Width:      w,
		Height:     h,
	}
}
