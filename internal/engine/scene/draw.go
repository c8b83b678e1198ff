package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/logger"
	"github.com/Beginsangod/Painter/pkg/math"
)

// Context carries per-frame state to Drawable methods.
type Context struct {
	Device     gpu.Device
	Host       Host
	View       math.Mat4
	Projection math.Mat4
	ViewPos    math.Vec3
	// Lights are the host's lights, uploaded by lit items.
	Lights *lighting.Set
	// Size is the device pixel size of the viewport.
	Width, Height int32
	PickMode      bool
}

// ViewProjection returns Projection * View.
func (c *Context) ViewProjection() math.Mat4 {
	return c.Projection.Mul(c.View)
}

// guard runs fn, turning a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// DrawTree draws the item and its descendants. Invisible items skip their
// whole subtree. Failures of one item are logged and do not stop the frame;
// an item whose initialization failed is skipped from then on, but its
// children are still drawn.
func (it *Item) DrawTree(ctx *Context, parentModel math.Mat4) {
	if !it.visible || it.destroyed {
		return
	}

	model := parentModel.Mul(it.transform)
	if !it.failed {
		if err := it.paintSelf(ctx, model); err != nil {
			logger.Named("scene").Warn("item paint failed",
				zap.Stringer("item", it),
				zap.Bool("pick", ctx.PickMode),
				zap.Error(err),
			)
		}
	}

	for _, c := range it.children {
		c.DrawTree(ctx, model)
	}
}

func (it *Item) paintSelf(ctx *Context, model math.Mat4) error {
	if err := it.initialize(ctx); err != nil {
		it.failed = true
		return fmt.Errorf("initializing: %w", err)
	}

	it.opts.Setup(ctx.Device)

	if ctx.PickMode {
		// Pick colours are ids; blending would mix them.
		ctx.Device.Disable(gpu.Blend)
		return guard(func() error { return it.drawable.PaintPickMode(ctx, model) })
	}
	if h, ok := it.drawable.(Highlighter); ok && it.Selected() {
		return guard(func() error { return h.PaintSelected(ctx, model) })
	}
	return guard(func() error { return it.drawable.Paint(ctx, model) })
}

// DrawItems draws each root item in order.
func DrawItems(ctx *Context, items []*Item) {
	for _, it := range items {
		it.DrawTree(ctx, math.Identity())
	}
}
