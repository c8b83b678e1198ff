package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/engine/shader"
	"github.com/Beginsangod/Painter/pkg/math"
)

// SelectBoxBorderWidth is the outline width of the rubber band.
const SelectBoxBorderWidth = 0.6

const (
	selectBoxSurfaceVerts = 6
	selectBoxBorderVerts  = 4
)

// SelectBox is the rubber-band rectangle drawn over the scene while the user
// drags a selection. Coordinates are device pixels with a top-left origin.
// It starts hidden and never takes part in picking.
type SelectBox struct {
	*scene.Item

	start, end math.Vec2
	dirty      bool

	prog *shader.Program
	vao  *buffer.VAO
	vbo  *buffer.VBO
}

// NewSelectBox creates a hidden, non-selectable overlay.
func NewSelectBox() *SelectBox {
	b := &SelectBox{dirty: true}
	b.Item = scene.NewItem(nil, b)
	b.SetGLOptions(scene.MustPreset(scene.OnTop))
	b.SetVisible(false, false)
	return b
}

// SetStart sets the anchor corner.
func (b *SelectBox) SetStart(p math.Vec2) {
	b.start = p
	b.dirty = true
}

// SetEnd sets the moving corner.
func (b *SelectBox) SetEnd(p math.Vec2) {
	b.end = p
	b.dirty = true
}

// Start returns the anchor corner.
func (b *SelectBox) Start() math.Vec2 { return b.start }

// End returns the moving corner.
func (b *SelectBox) End() math.Vec2 { return b.end }

// Rect returns the box as a top-left origin rectangle. Width and height are
// negative when the drag went left or up.
func (b *SelectBox) Rect() gpu.Rect {
	size := b.end.Sub(b.start)
	return gpu.Rect{
		X: int32(b.start.X),
		Y: int32(b.start.Y),
		W: int32(size.X),
		H: int32(size.Y),
	}
}

// vertices returns two triangles for the surface followed by the four
// corners of the border loop.
func (b *SelectBox) vertices() []float32 {
	x0, y0 := b.start.X, b.start.Y
	x1, y1 := b.end.X, b.end.Y
	return []float32{
		x0, y0, x1, y0, x1, y1,
		x0, y0, x1, y1, x0, y1,

		x0, y0, x1, y0, x1, y1, x0, y1,
	}
}

func (b *SelectBox) InitializeGL(ctx *scene.Context) error {
	prog, err := shader.New(ctx.Device, shaders.SelectBoxVertexShader, shaders.SelectBoxFragmentShader)
	if err != nil {
		return err
	}
	vbo, err := buffer.NewVBO(ctx.Device, []buffer.Layout{{Arity: 2}}, nil, gpu.DynamicDraw)
	if err != nil {
		prog.Delete()
		return err
	}
	b.prog, b.vbo = prog, vbo
	b.vao = buffer.NewVAO(ctx.Device)
	b.dirty = true
	return nil
}

func (b *SelectBox) upload() error {
	if !b.dirty {
		return nil
	}
	if err := b.vbo.UpdateData([]int{0}, [][]byte{buffer.Float32s(b.vertices())}); err != nil {
		return fmt.Errorf("uploading select box: %w", err)
	}
	if err := b.vbo.SetAttrPointer([]int{0}, 0); err != nil {
		return err
	}
	b.dirty = false
	return nil
}

func (b *SelectBox) Paint(ctx *scene.Context, _ math.Mat4) error {
	dev := ctx.Device
	b.vao.Bind()
	defer b.vao.Unbind()
	if err := b.upload(); err != nil {
		return err
	}

	proj := math.Ortho(0, float32(ctx.Width), float32(ctx.Height), 0, -1, 1)
	if err := b.prog.SetUniform("projection", proj); err != nil {
		return err
	}
	b.prog.Use()

	if err := b.prog.SetUniform("is_surface", true); err != nil {
		return err
	}
	dev.DrawArrays(gpu.Triangles, 0, selectBoxSurfaceVerts)

	if err := b.prog.SetUniform("is_surface", false); err != nil {
		return err
	}
	dev.LineWidth(SelectBoxBorderWidth)
	dev.DrawArrays(gpu.LineLoop, selectBoxSurfaceVerts, selectBoxBorderVerts)
	return nil
}

// PaintPickMode draws nothing: the overlay is never picked.
func (b *SelectBox) PaintPickMode(*scene.Context, math.Mat4) error { return nil }

func (b *SelectBox) ReleaseGL(*scene.Context) error {
	if b.prog != nil {
		b.prog.Delete()
		b.prog = nil
	}
	if b.vao != nil {
		b.vao.Delete()
		b.vao = nil
	}
	if b.vbo != nil {
		b.vbo.Delete()
		b.vbo = nil
	}
	b.dirty = true
	return nil
}
