package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/engine/shader"
	"github.com/Beginsangod/Painter/pkg/math"
)

// BoxEdgeVertexCount is the number of vertices of a wireframe box (12 edges × 2).
const BoxEdgeVertexCount = 24

// BoxEdges returns the 12 edges of an axis-aligned box as line vertex pairs.
// The corners are sorted, so min and max may be given in any order.
func BoxEdges(lo, hi math.Vec3) [][3]float32 {
	lo, hi = lo.Min(hi), lo.Max(hi)
	x0, y0, z0 := lo.X, lo.Y, lo.Z
	x1, y1, z1 := hi.X, hi.Y, hi.Z

	return [][3]float32{
		// Bottom face
		{x0, y0, z0}, {x1, y0, z0},
		{x1, y0, z0}, {x1, y0, z1},
		{x1, y0, z1}, {x0, y0, z1},
		{x0, y0, z1}, {x0, y0, z0},
		// Top face
		{x0, y1, z0}, {x1, y1, z0},
		{x1, y1, z0}, {x1, y1, z1},
		{x1, y1, z1}, {x0, y1, z1},
		{x0, y1, z1}, {x0, y1, z0},
		// Vertical edges
		{x0, y0, z0}, {x0, y1, z0},
		{x1, y0, z0}, {x1, y1, z0},
		{x1, y0, z1}, {x1, y1, z1},
		{x0, y0, z1}, {x0, y1, z1},
	}
}

// Box is a wireframe axis-aligned box.
type Box struct {
	*scene.Item
	colored

	min, max math.Vec3
	color    [3]float32
	width    float32
	progs    programs
}

// NewBox creates a wireframe box spanning lo..hi.
func NewBox(reg *scene.Registry, lo, hi math.Vec3, color [3]float32) *Box {
	b := &Box{color: color, width: 1}
	b.Item = scene.NewItem(reg, b)
	b.SetBounds(lo, hi)
	return b
}

// SetBounds moves the box corners.
func (b *Box) SetBounds(lo, hi math.Vec3) {
	b.min, b.max = lo.Min(hi), lo.Max(hi)
	b.set(BoxEdges(b.min, b.max), [][3]float32{b.color})
}

// Bounds returns the sorted corners.
func (b *Box) Bounds() (lo, hi math.Vec3) { return b.min, b.max }

// SetColor recolours every edge.
func (b *Box) SetColor(c [3]float32) {
	b.color = c
	b.set(nil, [][3]float32{c})
}

// SetLineWidth sets the edge width.
func (b *Box) SetLineWidth(w float32) {
	if w > 0 {
		b.width = w
	}
}

func (b *Box) InitializeGL(ctx *scene.Context) error {
	progs, err := newPrograms(ctx, shaders.ColorVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	if err := b.init(ctx.Device); err != nil {
		progs.delete()
		return err
	}
	b.progs = progs
	return nil
}

func (b *Box) Paint(ctx *scene.Context, model math.Mat4) error {
	return b.paintWith(ctx, b.progs.draw, append(camera(ctx, model), uniform{"opacity", float32(1)}))
}

func (b *Box) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	color := b.PickColor()
	if color == 0 {
		return nil
	}
	return b.paintWith(ctx, b.progs.pick, append(camera(ctx, model), uniform{"pickColor", color}))
}

func (b *Box) paintWith(ctx *scene.Context, p *shader.Program, values []uniform) error {
	if err := b.upload(); err != nil {
		return fmt.Errorf("uploading box: %w", err)
	}
	if err := setUniforms(p, values...); err != nil {
		return err
	}
	ctx.Device.LineWidth(b.width)
	p.Use()
	b.draw(ctx.Device, gpu.Lines)
	return nil
}

func (b *Box) ReleaseGL(*scene.Context) error {
	b.progs.delete()
	b.release()
	return nil
}

func (b *Box) Kind() string { return KindBox }

func (b *Box) ExportData() (map[string]any, error) {
	return map[string]any{
		"min":   b.min.Array(),
		"max":   b.max.Array(),
		"color": b.color,
		"width": b.width,
	}, nil
}

func (b *Box) ImportData(data map[string]any) error {
	lo, hi := b.min.Array(), b.max.Array()
	decoders := []struct {
		key string
		fn  func(v any) error
	}{
		{"min", func(v any) (err error) { lo, err = vec3(v); return err }},
		{"max", func(v any) (err error) { hi, err = vec3(v); return err }},
		{"color", func(v any) (err error) { b.color, err = vec3(v); return err }},
		{"width", func(v any) (err error) { b.width, err = number(v); return err }},
	}
	for _, d := range decoders {
		if err := field(data, d.key, d.fn); err != nil {
			return err
		}
	}
	b.SetBounds(math.Vec3FromArray(lo), math.Vec3FromArray(hi))
	return nil
}
