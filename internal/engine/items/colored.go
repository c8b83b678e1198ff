package items

import (
	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
)

// White is the default vertex colour.
var White = [3]float32{1, 1, 1}

// fitColors matches a colour list to n vertices: a single colour is
// repeated, missing entries are white and extras are dropped.
func fitColors(colors [][3]float32, n int) [][3]float32 {
	if len(colors) == n {
		return colors
	}
	fill := White
	if len(colors) == 1 {
		fill = colors[0]
		colors = nil
	}
	out := make([][3]float32, n)
	copied := copy(out, colors)
	for i := copied; i < n; i++ {
		out[i] = fill
	}
	return out
}

// colored is a position+colour vertex store shared by the unlit items.
// Blocks 0 and 1 feed attribute locations 0 and 1.
type colored struct {
	pos    [][3]float32
	colors [][3]float32
	dirty  bool

	vao *buffer.VAO
	vbo *buffer.VBO
}

var coloredLayout = []buffer.Layout{{Arity: 3}, {Arity: 3}}

func (c *colored) set(pos, colors [][3]float32) {
	if pos != nil {
		c.pos = pos
	}
	if colors != nil {
		c.colors = colors
	}
	c.colors = fitColors(c.colors, len(c.pos))
	c.dirty = true
}

func (c *colored) count() int32 { return int32(len(c.pos)) }

func (c *colored) init(dev gpu.Device) error {
	vbo, err := buffer.NewVBO(dev, coloredLayout, nil, gpu.DynamicDraw)
	if err != nil {
		return err
	}
	c.vao = buffer.NewVAO(dev)
	c.vbo = vbo
	c.dirty = true
	return nil
}

// upload pushes pending data. It is a no-op when nothing changed.
func (c *colored) upload() error {
	if !c.dirty {
		return nil
	}
	c.vao.Bind()
	err := c.vbo.UpdateData([]int{0, 1}, [][]byte{buffer.Vec3s(c.pos), buffer.Vec3s(c.colors)})
	if err != nil {
		return err
	}
	if err := c.vbo.SetAttrPointer([]int{0, 1}, 0); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *colored) draw(dev gpu.Device, mode gpu.Primitive) {
	c.vao.Bind()
	dev.DrawArrays(mode, 0, c.count())
	c.vao.Unbind()
}

func (c *colored) release() {
	if c.vao != nil {
		c.vao.Delete()
		c.vao = nil
	}
	if c.vbo != nil {
		c.vbo.Delete()
		c.vbo = nil
	}
	c.dirty = true
}

func (c *colored) export(data map[string]any) {
	data["pos"] = c.pos
	data["color"] = c.colors
}

func (c *colored) importData(data map[string]any) error {
	var pos, colors [][3]float32
	err := field(data, "pos", func(v any) (err error) {
		pos, err = vec3s(v)
		return err
	})
	if err != nil {
		return err
	}
	err = field(data, "color", func(v any) (err error) {
		colors, err = vec3s(v)
		return err
	})
	if err != nil {
		return err
	}
	c.set(pos, colors)
	return nil
}
