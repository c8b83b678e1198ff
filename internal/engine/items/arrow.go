package items

import (
	"fmt"
	gomath "math"

	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// Arrow buffer blocks. The shaft blocks hold two vertices per arrow, the tip
// blocks one entry per arrow.
const (
	arrowShaftPos = iota
	arrowShaftColor
	arrowTipColor
	arrowTipTransform
)

// arrowConeAttr is the attribute slot of the cone geometry, after the four
// transform columns.
const arrowConeAttr = 7

// ConeSegments is the number of sides of an arrow tip.
const ConeSegments = 16

var arrowLayout = []buffer.Layout{{Arity: 3}, {Arity: 3}, {Arity: 3}, {Arity: 16}}

// ConeTriangles returns a cone as a triangle list with its apex at the
// origin and its base at z = -height.
func ConeTriangles(radius, height float32, segments int) [][3]float32 {
	segments = max(segments, 3)
	rim := make([][3]float32, segments+1)
	for i := range rim {
		a := 2 * gomath.Pi * float64(i) / float64(segments)
		rim[i] = [3]float32{radius * float32(gomath.Cos(a)), radius * float32(gomath.Sin(a)), -height}
	}
	base := [3]float32{0, 0, -height}

	out := make([][3]float32, 0, 6*segments)
	for i := range segments {
		out = append(out, [3]float32{}, rim[i], rim[i+1])
		out = append(out, base, rim[i+1], rim[i])
	}
	return out
}

// rotationFromZ returns the rotation taking +Z onto d.
func rotationFromZ(d math.Vec3) math.Quat {
	l := d.Length()
	if l == 0 {
		return math.QuatIdentity()
	}
	d = d.Scale(1 / l)
	axis := math.Vec3{Z: 1}.Cross(d)
	if s := axis.Length(); s > 1e-6 {
		angle := gomath.Acos(float64(min(max(d.Z, -1), 1)))
		return math.QuatFromAxisAngle(axis.Scale(1/s), float32(angle))
	}
	if d.Z < 0 {
		return math.QuatFromAxisAngle(math.Vec3{X: 1}, gomath.Pi)
	}
	return math.QuatIdentity()
}

// TipTransforms returns, per arrow, the matrix placing a cone built by
// ConeTriangles on the end point, pointing away from the start point.
func TipTransforms(start, end [][3]float32) [][16]float32 {
	n := min(len(start), len(end))
	out := make([][16]float32, n)
	for i := range n {
		s, e := math.Vec3FromArray(start[i]), math.Vec3FromArray(end[i])
		m := math.Translate(e.X, e.Y, e.Z).RotatedQuat(rotationFromZ(e.Sub(s)), true)
		out[i] = [16]float32(m)
	}
	return out
}

// ArrowPlot draws arrows between pairs of points: a line for each shaft and
// an instanced cone for each tip. Shaft vertices, tip colours and tip
// transforms share one buffer.
type ArrowPlot struct {
	*scene.Item

	start, end           [][3]float32
	colors               [][3]float32
	tipRadius, tipHeight float32
	width                float32
	dirty, coneDirty     bool

	shaft, tip       programs
	shaftVAO, tipVAO *buffer.VAO
	vbo              *buffer.VBO
	cone             *buffer.VBO
	coneVerts        int32
}

// NewArrowPlot creates arrows from start[i] to end[i]. colors may hold one
// colour for all arrows.
func NewArrowPlot(reg *scene.Registry, start, end, colors [][3]float32) (*ArrowPlot, error) {
	a := &ArrowPlot{tipRadius: 0.1, tipHeight: 0.2, width: 1, coneDirty: true}
	a.Item = scene.NewItem(reg, a)
	if err := a.SetData(start, end, colors); err != nil {
		return nil, err
	}
	return a, nil
}

// SetData replaces the arrows. nil slices keep the current values; start
// and end must end up the same length.
func (a *ArrowPlot) SetData(start, end, colors [][3]float32) error {
	s, e := a.start, a.end
	if start != nil {
		s = start
	}
	if end != nil {
		e = end
	}
	if len(s) != len(e) {
		return fmt.Errorf("%w: %d start points, %d end points", ErrBadData, len(s), len(e))
	}
	a.start, a.end = s, e
	if colors != nil {
		a.colors = colors
	}
	a.colors = fitColors(a.colors, len(a.start))
	a.dirty = true
	return nil
}

// Len returns the number of arrows.
func (a *ArrowPlot) Len() int { return len(a.start) }

// SetTipSize sets the cone radius and height before scaling by the width.
func (a *ArrowPlot) SetTipSize(radius, height float32) {
	if radius > 0 && height > 0 {
		a.tipRadius, a.tipHeight = radius, height
		a.coneDirty = true
	}
}

// SetWidth sets the shaft line width; tips scale with it.
func (a *ArrowPlot) SetWidth(w float32) {
	if w > 0 {
		a.width = w
		a.coneDirty = true
	}
}

func (a *ArrowPlot) coneGeometry() [][3]float32 {
	return ConeTriangles(a.tipRadius*a.width, a.tipHeight*a.width, ConeSegments)
}

func (a *ArrowPlot) InitializeGL(ctx *scene.Context) error {
	shaft, err := newPrograms(ctx, shaders.ColorVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	tip, err := newPrograms(ctx, shaders.ArrowTipVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		shaft.delete()
		return err
	}
	vbo, err := buffer.NewVBO(ctx.Device, arrowLayout, nil, gpu.DynamicDraw)
	if err != nil {
		shaft.delete()
		tip.delete()
		return err
	}
	cone, err := buffer.NewVBO(ctx.Device, []buffer.Layout{{Arity: 3}}, nil, gpu.StaticDraw)
	if err != nil {
		shaft.delete()
		tip.delete()
		vbo.Delete()
		return err
	}

	a.shaft, a.tip, a.vbo, a.cone = shaft, tip, vbo, cone
	a.shaftVAO = buffer.NewVAO(ctx.Device)
	a.tipVAO = buffer.NewVAO(ctx.Device)
	a.dirty, a.coneDirty = true, true
	return nil
}

func (a *ArrowPlot) upload() error {
	if a.coneDirty {
		verts := a.coneGeometry()
		if err := a.cone.UpdateData([]int{0}, [][]byte{buffer.Vec3s(verts)}); err != nil {
			return fmt.Errorf("uploading tips: %w", err)
		}
		a.coneVerts = int32(len(verts))
		a.coneDirty = false
		a.dirty = true
	}
	if !a.dirty {
		return nil
	}

	shaftPos := make([][3]float32, 0, 2*len(a.start))
	shaftColors := make([][3]float32, 0, 2*len(a.start))
	for i := range a.start {
		shaftPos = append(shaftPos, a.start[i], a.end[i])
		shaftColors = append(shaftColors, a.colors[i], a.colors[i])
	}
	err := a.vbo.UpdateData(
		[]int{arrowShaftPos, arrowShaftColor, arrowTipColor, arrowTipTransform},
		[][]byte{
			buffer.Vec3s(shaftPos),
			buffer.Vec3s(shaftColors),
			buffer.Vec3s(a.colors),
			buffer.Mat4s(TipTransforms(a.start, a.end)),
		},
	)
	if err != nil {
		return fmt.Errorf("uploading arrows: %w", err)
	}

	// Block offsets move when the buffer grows, so pointers are reset on
	// every upload.
	a.shaftVAO.Bind()
	if err := a.vbo.SetAttrPointer([]int{arrowShaftPos, arrowShaftColor}, 0); err != nil {
		return err
	}
	a.tipVAO.Bind()
	if err := a.vbo.SetAttrPointer([]int{arrowTipColor, arrowTipTransform}, 1); err != nil {
		return err
	}
	if err := a.cone.SetAttrPointerAt(0, arrowConeAttr, 0); err != nil {
		return err
	}
	a.tipVAO.Unbind()
	a.dirty = false
	return nil
}

func (a *ArrowPlot) drawShafts(dev gpu.Device) {
	a.shaftVAO.Bind()
	dev.DrawArrays(gpu.Lines, 0, int32(2*len(a.start)))
	a.shaftVAO.Unbind()
}

func (a *ArrowPlot) drawTips(dev gpu.Device) {
	a.tipVAO.Bind()
	dev.DrawArraysInstanced(gpu.Triangles, 0, a.coneVerts, int32(len(a.start)))
	a.tipVAO.Unbind()
}

func (a *ArrowPlot) Paint(ctx *scene.Context, model math.Mat4) error {
	if len(a.start) == 0 {
		return nil
	}
	if err := a.upload(); err != nil {
		return err
	}

	ctx.Device.LineWidth(a.width)
	u := append(camera(ctx, model), uniform{"opacity", float32(1)})
	if err := setUniforms(a.shaft.draw, u...); err != nil {
		return err
	}
	a.shaft.draw.Use()
	a.drawShafts(ctx.Device)

	if err := setUniforms(a.tip.draw, u...); err != nil {
		return err
	}
	a.tip.draw.Use()
	a.drawTips(ctx.Device)
	return nil
}

func (a *ArrowPlot) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	color := a.PickColor()
	if len(a.start) == 0 || color == 0 {
		return nil
	}
	if err := a.upload(); err != nil {
		return err
	}

	ctx.Device.LineWidth(a.width)
	u := append(camera(ctx, model), uniform{"pickColor", color})
	for _, p := range []programs{a.shaft, a.tip} {
		if err := setUniforms(p.pick, u...); err != nil {
			return err
		}
	}
	a.shaft.pick.Use()
	a.drawShafts(ctx.Device)
	a.tip.pick.Use()
	a.drawTips(ctx.Device)
	return nil
}

func (a *ArrowPlot) ReleaseGL(*scene.Context) error {
	a.shaft.delete()
	a.tip.delete()
	for _, vao := range []*buffer.VAO{a.shaftVAO, a.tipVAO} {
		if vao != nil {
			vao.Delete()
		}
	}
	for _, vbo := range []*buffer.VBO{a.vbo, a.cone} {
		if vbo != nil {
			vbo.Delete()
		}
	}
	a.shaftVAO, a.tipVAO, a.vbo, a.cone = nil, nil, nil, nil
	a.dirty, a.coneDirty = true, true
	return nil
}

func (a *ArrowPlot) Kind() string { return KindArrowPlot }

func (a *ArrowPlot) ExportData() (map[string]any, error) {
	return map[string]any{
		"start":    a.start,
		"end":      a.end,
		"color":    a.colors,
		"tip_size": []float32{a.tipRadius, a.tipHeight},
		"width":    a.width,
	}, nil
}

func (a *ArrowPlot) ImportData(data map[string]any) error {
	var start, end, colors [][3]float32
	var tip [2]float32
	var width float32
	decoders := []struct {
		key string
		fn  func(v any) error
	}{
		{"start", func(v any) (err error) { start, err = vec3s(v); return err }},
		{"end", func(v any) (err error) { end, err = vec3s(v); return err }},
		{"color", func(v any) (err error) { colors, err = vec3s(v); return err }},
		{"tip_size", func(v any) error { return vecN(v, tip[:]) }},
		{"width", func(v any) (err error) { width, err = number(v); return err }},
	}
	for _, d := range decoders {
		if err := field(data, d.key, d.fn); err != nil {
			return err
		}
	}
	if err := a.SetData(start, end, colors); err != nil {
		return err
	}
	a.SetTipSize(tip[0], tip[1])
	a.SetWidth(width)
	return nil
}
