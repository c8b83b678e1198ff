// Package framebuffer provides offscreen render targets on a gpu.Device.
package framebuffer

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

// Framebuffer manages an offscreen render target with a color attachment and
// a depth-stencil attachment.
type Framebuffer struct {
	dev    gpu.Device
	id     uint32
	format gpu.Format
	width  int32
	height int32
}

// New creates a new framebuffer with the specified dimensions and color format.
func New(dev gpu.Device, width, height int32, format gpu.Format) (*Framebuffer, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	id, err := dev.CreateFramebuffer(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}

	return &Framebuffer{
		dev:    dev,
		id:     id,
		format: format,
		width:  width,
		height: height,
	}, nil
}

// Bind makes this framebuffer the current render target.
func (fb *Framebuffer) Bind() {
	fb.dev.BindFramebuffer(fb.id)
	fb.dev.Viewport(gpu.Rect{W: fb.width, H: fb.height})
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	fb.dev.BindFramebuffer(0)
}

// BindWithViewport binds and sets viewport, saving previous state.
// Returns a restore function to restore the previous framebuffer and viewport.
func (fb *Framebuffer) BindWithViewport() func() {
	prevFBO := fb.dev.CurrentFramebuffer()
	prevViewport := fb.dev.GetViewport()

	fb.Bind()

	return func() {
		fb.dev.BindFramebuffer(prevFBO)
		fb.dev.Viewport(prevViewport)
	}
}

// Clear clears color, depth and stencil with the specified color.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	fb.dev.ClearColor(r, g, b, a)
	fb.dev.Clear(gpu.ColorBit | gpu.DepthBit | gpu.StencilBit)
}

// ID returns the device framebuffer name.
func (fb *Framebuffer) ID() uint32 {
	return fb.id
}

// Format returns the color attachment format.
func (fb *Framebuffer) Format() gpu.Format {
	return fb.format
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize updates the framebuffer dimensions if they have changed.
func (fb *Framebuffer) Resize(width, height int32) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == fb.width && height == fb.height {
		return nil
	}

	if err := fb.dev.ResizeFramebuffer(fb.id, width, height); err != nil {
		return fmt.Errorf("resizing framebuffer: %w", err)
	}
	fb.width = width
	fb.height = height
	return nil
}

// ReadRed reads the red channel of r as float32, rows bottom to top.
// The previous framebuffer binding is restored.
func (fb *Framebuffer) ReadRed(r gpu.Rect) []float32 {
	prevFBO := fb.dev.CurrentFramebuffer()
	fb.dev.BindFramebuffer(fb.id)
	defer fb.dev.BindFramebuffer(prevFBO)

	return fb.dev.ReadPixelsRed(r)
}

// Destroy releases the device resources.
func (fb *Framebuffer) Destroy() {
	if fb.id != 0 {
		fb.dev.DeleteFramebuffer(fb.id)
		fb.id = 0
	}
}
