package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/engine/shader"
	"github.com/Beginsangod/Painter/pkg/math"
)

// OutlineScale enlarges the outline pass of a selected mesh.
const OutlineScale = 1.01

var meshLayout = []buffer.Layout{{Arity: 3}, {Arity: 3}, {Arity: 3}}

// ComputeNormals returns smooth per-vertex normals: each vertex gets the
// normalized sum of the face normals around it. Without indices every three
// consecutive vertices form a triangle.
func ComputeNormals(pos [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]math.Vec3, len(pos))
	face := func(a, b, c uint32) {
		if int(a) >= len(pos) || int(b) >= len(pos) || int(c) >= len(pos) {
			return
		}
		pa, pb, pc := math.Vec3FromArray(pos[a]), math.Vec3FromArray(pos[b]), math.Vec3FromArray(pos[c])
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a], acc[b], acc[c] = acc[a].Add(n), acc[b].Add(n), acc[c].Add(n)
	}
	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			face(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(pos); i += 3 {
			face(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	out := make([][3]float32, len(pos))
	for i, n := range acc {
		out[i] = n.Normalize().Array()
	}
	return out
}

// Mesh is a lit triangle mesh. A selected mesh is drawn with a stencil
// outline in its select colour.
type Mesh struct {
	*scene.Item

	pos, normals, colors [][3]float32
	indices              []uint32
	lights               []*lighting.PointLight
	shininess, opacity   float32
	dirty                bool

	progs   programs
	outline *shader.Program
	vao     *buffer.VAO
	vbo     *buffer.VBO
	ebo     *buffer.EBO
}

// NewMesh creates a mesh. normals may be nil to derive them from the faces;
// indices may be nil for a plain triangle list. lights are registered with
// the viewport when the mesh is first drawn.
func NewMesh(reg *scene.Registry, pos, normals, colors [][3]float32, indices []uint32, lights ...*lighting.PointLight) *Mesh {
	m := &Mesh{shininess: 32, opacity: 1, lights: lights}
	m.Item = scene.NewItem(reg, m)
	m.SetGLOptions(scene.MustPreset(scene.Translucent))
	m.SetData(pos, normals, colors, indices)
	return m
}

// SetData replaces the geometry. nil slices keep the current values;
// normals are recomputed when they do not match the positions.
func (m *Mesh) SetData(pos, normals, colors [][3]float32, indices []uint32) {
	if pos != nil {
		m.pos = pos
	}
	if indices != nil {
		m.indices = indices
	}
	if normals != nil {
		m.normals = normals
	}
	if len(m.normals) != len(m.pos) || (pos != nil && normals == nil) {
		m.normals = ComputeNormals(m.pos, m.indices)
	}
	if colors != nil {
		m.colors = colors
	}
	m.colors = fitColors(m.colors, len(m.pos))
	m.dirty = true
}

// Normals returns the per-vertex normals.
func (m *Mesh) Normals() [][3]float32 { return m.normals }

// AddLights attaches lights to the mesh.
func (m *Mesh) AddLights(lights ...*lighting.PointLight) {
	m.lights = append(m.lights, lights...)
}

// Lights returns the lights attached to the mesh.
func (m *Mesh) Lights() []*lighting.PointLight { return m.lights }

// SetShininess sets the specular exponent.
func (m *Mesh) SetShininess(s float32) { m.shininess = max(s, 1) }

// SetOpacity sets the surface alpha.
func (m *Mesh) SetOpacity(a float32) { m.opacity = min(max(a, 0), 1) }

func (m *Mesh) InitializeGL(ctx *scene.Context) error {
	progs, err := newPrograms(ctx, shaders.MeshVertexShader, shaders.MeshFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	outline, err := shader.New(ctx.Device, shaders.MeshVertexShader, shaders.OutlineFragmentShader)
	if err != nil {
		progs.delete()
		return err
	}
	vbo, err := buffer.NewVBO(ctx.Device, meshLayout, nil, gpu.StaticDraw)
	if err != nil {
		progs.delete()
		outline.Delete()
		return err
	}

	m.progs, m.outline, m.vbo = progs, outline, vbo
	m.vao = buffer.NewVAO(ctx.Device)
	m.vao.Bind()
	m.ebo = buffer.NewEBO(ctx.Device, nil)
	m.vao.Unbind()
	m.dirty = true
	return nil
}

func (m *Mesh) upload() error {
	if !m.dirty {
		return nil
	}
	m.vao.Bind()
	defer m.vao.Unbind()

	err := m.vbo.UpdateData([]int{0, 1, 2}, [][]byte{
		buffer.Vec3s(m.pos),
		buffer.Vec3s(m.normals),
		buffer.Vec3s(m.colors),
	})
	if err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}
	if err := m.vbo.SetAttrPointer([]int{0, 1, 2}, 0); err != nil {
		return err
	}
	m.ebo.UpdateData(m.indices)
	m.dirty = false
	return nil
}

func (m *Mesh) drawGeometry(dev gpu.Device) {
	m.vao.Bind()
	if m.ebo.Size() > 0 {
		dev.DrawElements(gpu.Triangles, int32(m.ebo.Size()), gpu.Uint32, 0)
	} else {
		dev.DrawArrays(gpu.Triangles, 0, int32(len(m.pos)))
	}
	m.vao.Unbind()
}

func (m *Mesh) lightSet(ctx *scene.Context) *lighting.Set {
	if ctx.Lights != nil {
		return ctx.Lights
	}
	set := lighting.NewSet()
	set.Add(m.lights...)
	return set
}

func (m *Mesh) Paint(ctx *scene.Context, model math.Mat4) error {
	if len(m.pos) == 0 {
		return nil
	}
	if err := m.upload(); err != nil {
		return err
	}

	p := m.progs.draw
	u := append(camera(ctx, model),
		uniform{"ViewPos", ctx.ViewPos},
		uniform{"shininess", m.shininess},
		uniform{"opacity", m.opacity},
	)
	if err := setUniforms(p, u...); err != nil {
		return err
	}
	if err := m.lightSet(ctx).Upload(p); err != nil {
		return err
	}
	p.Use()
	m.drawGeometry(ctx.Device)
	return nil
}

// PaintSelected draws the mesh while writing 1 to the stencil buffer, then
// a slightly enlarged copy in the select colour where the stencil is not 1.
func (m *Mesh) PaintSelected(ctx *scene.Context, model math.Mat4) error {
	if len(m.pos) == 0 {
		return nil
	}
	dev := ctx.Device

	dev.Enable(gpu.StencilTest)
	dev.StencilFunc(gpu.Always, 1, 0xFF)
	dev.StencilOp(gpu.Keep, gpu.Keep, gpu.Replace)
	dev.StencilMask(0xFF)
	defer func() {
		dev.StencilMask(0xFF)
		dev.Clear(gpu.StencilBit)
		dev.Enable(gpu.DepthTest)
		dev.Disable(gpu.StencilTest)
	}()

	if err := m.Paint(ctx, model); err != nil {
		return err
	}

	dev.StencilFunc(gpu.NotEqual, 1, 0xFF)
	dev.StencilMask(0x00)
	dev.Disable(gpu.DepthTest)

	scaled := model.Scaled(OutlineScale, OutlineScale, OutlineScale, true)
	u := append(camera(ctx, scaled), uniform{"selectedColor", m.SelectColor()})
	if err := setUniforms(m.outline, u...); err != nil {
		return err
	}
	m.outline.Use()
	m.drawGeometry(dev)
	return nil
}

// PaintPickMode fills the mesh with its pick colour. Non-selectable meshes
// still draw the background value so they hide what is behind them.
func (m *Mesh) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	if len(m.pos) == 0 {
		return nil
	}
	if err := m.upload(); err != nil {
		return err
	}
	u := append(camera(ctx, model), uniform{"pickColor", m.PickColor()})
	if err := setUniforms(m.progs.pick, u...); err != nil {
		return err
	}
	m.progs.pick.Use()
	m.drawGeometry(ctx.Device)
	return nil
}

func (m *Mesh) ReleaseGL(*scene.Context) error {
	m.progs.delete()
	if m.outline != nil {
		m.outline.Delete()
		m.outline = nil
	}
	if m.vao != nil {
		m.vao.Delete()
		m.vao = nil
	}
	if m.vbo != nil {
		m.vbo.Delete()
		m.vbo = nil
	}
	if m.ebo != nil {
		m.ebo.Delete()
		m.ebo = nil
	}
	m.dirty = true
	return nil
}

func (m *Mesh) Kind() string { return KindMesh }

func (m *Mesh) ExportData() (map[string]any, error) {
	return map[string]any{
		"pos":          m.pos,
		"normal":       m.normals,
		"color":        m.colors,
		"indices":      m.indices,
		"shininess":    m.shininess,
		"opacity":      m.opacity,
		"select_color": m.SelectColor(),
	}, nil
}

func (m *Mesh) ImportData(data map[string]any) error {
	var pos, normals, colors [][3]float32
	var indices []uint32
	decoders := []struct {
		key string
		fn  func(v any) error
	}{
		{"pos", func(v any) (err error) { pos, err = vec3s(v); return err }},
		{"normal", func(v any) (err error) { normals, err = vec3s(v); return err }},
		{"color", func(v any) (err error) { colors, err = vec3s(v); return err }},
		{"indices", func(v any) (err error) { indices, err = uint32s(v); return err }},
		{"shininess", func(v any) (err error) { m.shininess, err = number(v); return err }},
		{"opacity", func(v any) (err error) { m.opacity, err = number(v); return err }},
		{"select_color", func(v any) error {
			c, err := vec4(v)
			if err == nil {
				m.SetSelectColor(c)
			}
			return err
		}},
	}
	for _, d := range decoders {
		if err := field(data, d.key, d.fn); err != nil {
			return err
		}
	}
	if pos != nil && indices == nil {
		indices = []uint32{}
	}
	n := len(m.pos)
	if pos != nil {
		n = len(pos)
	}
	for _, i := range indices {
		if int(i) >= n {
			return fmt.Errorf("%w: index %d out of range", ErrBadData, i)
		}
	}
	m.SetData(pos, normals, colors, indices)
	return nil
}
