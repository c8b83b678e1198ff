// Package picking resolves screen rectangles to scene items.
//
// Every selectable item is drawn with its registered pick colour into a
// single-channel float framebuffer; the pixels under the rectangle are read
// back and looked up in the registry.
package picking

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/framebuffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/logger"
)

// DefaultRatio is the pick target downscale ratio.
const DefaultRatio = 2

// Picker owns the off-screen pick target.
type Picker struct {
	dev      gpu.Device
	registry *scene.Registry
	fb       *framebuffer.Framebuffer
	ratio    int
	log      *zap.Logger
}

// NewPicker returns a picker drawing at 1/ratio of the viewport size.
// The framebuffer is created on the first pick.
func NewPicker(dev gpu.Device, reg *scene.Registry, ratio int) *Picker {
	return &Picker{
		dev:      dev,
		registry: reg,
		ratio:    ClampRatio(ratio),
		log:      logger.Named("picking"),
	}
}

// Ratio returns the downscale ratio in use.
func (p *Picker) Ratio() int { return p.ratio }

// SetRatio changes the downscale ratio.
func (p *Picker) SetRatio(ratio int) { p.ratio = ClampRatio(ratio) }

// Framebuffer returns the pick target, nil before the first pick.
func (p *Picker) Framebuffer() *framebuffer.Framebuffer { return p.fb }

func (p *Picker) target(w, h int32) (*framebuffer.Framebuffer, error) {
	if p.fb == nil {
		fb, err := framebuffer.New(p.dev, w, h, gpu.R32F)
		if err != nil {
			return nil, err
		}
		p.fb = fb
		return fb, nil
	}
	if err := p.fb.Resize(w, h); err != nil {
		return nil, err
	}
	return p.fb, nil
}

// Pick draws the pick pass of items and returns the distinct items visible
// in r, a rectangle in device pixels with a top-left origin. ctx supplies the
// camera matrices and the viewport size. A rectangle outside the viewport
// yields no items. Colours missing from the registry are dropped.
func (p *Picker) Pick(ctx *scene.Context, items []*scene.Item, r gpu.Rect) ([]*scene.Item, error) {
	nr, ok := NormalizeRect(r, ctx.Width, ctx.Height, p.ratio)
	if !ok {
		return nil, nil
	}

	fb, err := p.target(ctx.Width, ctx.Height)
	if err != nil {
		return nil, fmt.Errorf("pick target: %w", err)
	}

	prevFBO := p.dev.CurrentFramebuffer()
	prevClear := p.dev.GetClearColor()
	prevMultisample := p.dev.IsEnabled(gpu.Multisample)
	defer func() {
		p.dev.Disable(gpu.ScissorTest)
		p.dev.BindFramebuffer(prevFBO)
		p.dev.ClearColor(prevClear[0], prevClear[1], prevClear[2], prevClear[3])
		if prevMultisample {
			p.dev.Enable(gpu.Multisample)
		} else {
			p.dev.Disable(gpu.Multisample)
		}
		p.dev.Viewport(gpu.Rect{W: ctx.Width, H: ctx.Height})
	}()

	k := int32(p.ratio)
	scaledH := ctx.Height / k

	p.dev.BindFramebuffer(fb.ID())
	p.dev.Viewport(gpu.Rect{W: ctx.Width / k, H: scaledH})
	p.dev.ClearColor(0, 0, 0, 0)
	p.dev.Disable(gpu.Multisample)
	p.dev.Clear(gpu.ColorBit | gpu.DepthBit | gpu.StencilBit)

	scissor := gpu.Rect{X: nr.X, Y: scaledH - nr.Y - nr.H, W: nr.W, H: nr.H}
	p.dev.Scissor(scissor)
	p.dev.Enable(gpu.ScissorTest)

	pickCtx := *ctx
	pickCtx.PickMode = true
	scene.DrawItems(&pickCtx, items)

	p.dev.Disable(gpu.ScissorTest)
	pixels := fb.ReadRed(scissor)

	return p.resolve(pixels), nil
}

func (p *Picker) resolve(pixels []float32) []*scene.Item {
	seen := make(map[float32]struct{})
	var out []*scene.Item
	for _, c := range pixels {
		if c == 0 {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		it, ok := p.registry.Lookup(c)
		if !ok {
			p.log.Debug("stale pick colour", zap.Float32("colour", c))
			continue
		}
		out = append(out, it)
	}
	return out
}

// Destroy releases the pick target.
func (p *Picker) Destroy() {
	if p.fb != nil {
		p.fb.Destroy()
		p.fb = nil
	}
}
