package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

type framebuffer struct {
	fbo          uint32
	colorTexture uint32
	depthRBO     uint32
	format       gpu.Format
}

func (fb *framebuffer) allocate(width, height int32) {
	internal, format, xtype := int32(gl.RGBA8), uint32(gl.RGBA), uint32(gl.UNSIGNED_BYTE)
	if fb.format == gpu.R32F {
		internal, format, xtype = gl.R32F, gl.RED, gl.FLOAT
	}

	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, format, xtype, nil)

	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
}

// CreateFramebuffer creates an offscreen target with a color texture and a
// depth-stencil renderbuffer. The previous binding is restored.
func (d *Device) CreateFramebuffer(width, height int32, format gpu.Format) (uint32, error) {
	width, height = max(width, 1), max(height, 1)
	prev := d.CurrentFramebuffer()
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, prev)

	fb := &framebuffer{format: format}
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(1, &fb.colorTexture)
	gl.GenRenderbuffers(1, &fb.depthRBO)
	fb.allocate(width, height)

	// Picking reads exact values back, so no filtering.
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.destroy()
		return 0, fmt.Errorf("%w: 0x%x", gpu.ErrFramebuffer, status)
	}

	d.framebuffers[fb.fbo] = fb
	return fb.fbo, nil
}

// ResizeFramebuffer reallocates the attachments of id.
func (d *Device) ResizeFramebuffer(id uint32, width, height int32) error {
	fb, ok := d.framebuffers[id]
	if !ok {
		return fmt.Errorf("%w: unknown framebuffer %d", gpu.ErrFramebuffer, id)
	}
	fb.allocate(max(width, 1), max(height, 1))
	return nil
}

// DeleteFramebuffer frees id and its attachments.
func (d *Device) DeleteFramebuffer(id uint32) {
	if fb, ok := d.framebuffers[id]; ok {
		fb.destroy()
		delete(d.framebuffers, id)
	}
}

// BindFramebuffer binds id; zero is the default framebuffer.
func (d *Device) BindFramebuffer(id uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}

// CurrentFramebuffer returns the bound framebuffer.
func (d *Device) CurrentFramebuffer() uint32 {
	var id int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &id)
	return uint32(id)
}

func (fb *framebuffer) destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
