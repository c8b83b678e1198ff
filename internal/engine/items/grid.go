package items

import (
	"fmt"
	gomath "math"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/engine/shader"
	"github.com/Beginsangod/Painter/pkg/math"
)

// GridLines returns the vertex pairs of a square grid on the XY plane,
// centred on the origin, extending halfSize in each direction with a line
// every spacing units.
func GridLines(halfSize, spacing float32) [][3]float32 {
	if halfSize <= 0 || spacing <= 0 {
		return nil
	}
	n := int(gomath.Floor(float64(halfSize / spacing)))
	out := make([][3]float32, 0, (2*n+1)*4)
	for i := -n; i <= n; i++ {
		c := float32(i) * spacing
		out = append(out,
			[3]float32{c, -halfSize, 0}, [3]float32{c, halfSize, 0},
			[3]float32{-halfSize, c, 0}, [3]float32{halfSize, c, 0},
		)
	}
	return out
}

// Grid is a reference grid on the XY plane. It is not selectable.
type Grid struct {
	*scene.Item
	colored

	halfSize, spacing float32
	color             [3]float32
	opacity           float32
	progs             programs
}

// NewGrid creates a translucent grid.
func NewGrid(reg *scene.Registry, halfSize, spacing float32, color [3]float32) *Grid {
	g := &Grid{color: color, opacity: 0.5}
	g.Item = scene.NewItem(reg, g)
	g.SetGLOptions(scene.MustPreset(scene.Translucent))
	g.SetDepth(-1)
	g.SetSize(halfSize, spacing)
	return g
}

// SetSize regenerates the lines.
func (g *Grid) SetSize(halfSize, spacing float32) {
	g.halfSize, g.spacing = halfSize, spacing
	lines := GridLines(halfSize, spacing)
	if lines == nil {
		lines = [][3]float32{}
	}
	g.set(lines, [][3]float32{g.color})
}

// SetOpacity sets the line alpha.
func (g *Grid) SetOpacity(a float32) { g.opacity = min(max(a, 0), 1) }

func (g *Grid) InitializeGL(ctx *scene.Context) error {
	prog, err := shader.New(ctx.Device, shaders.ColorVertexShader, shaders.ColorFragmentShader)
	if err != nil {
		return err
	}
	if err := g.init(ctx.Device); err != nil {
		prog.Delete()
		return err
	}
	g.progs = programs{draw: prog}
	return nil
}

func (g *Grid) Paint(ctx *scene.Context, model math.Mat4) error {
	if g.count() == 0 {
		return nil
	}
	if err := g.upload(); err != nil {
		return fmt.Errorf("uploading grid: %w", err)
	}
	u := append(camera(ctx, model), uniform{"opacity", g.opacity})
	if err := setUniforms(g.progs.draw, u...); err != nil {
		return err
	}
	ctx.Device.LineWidth(1)
	g.progs.draw.Use()
	g.draw(ctx.Device, gpu.Lines)
	return nil
}

// PaintPickMode draws nothing: the grid never occludes pick targets.
func (g *Grid) PaintPickMode(*scene.Context, math.Mat4) error { return nil }

func (g *Grid) ReleaseGL(*scene.Context) error {
	g.progs.delete()
	g.release()
	return nil
}

func (g *Grid) Kind() string { return KindGrid }

func (g *Grid) ExportData() (map[string]any, error) {
	return map[string]any{
		"half_size": g.halfSize,
		"spacing":   g.spacing,
		"color":     g.color,
		"opacity":   g.opacity,
	}, nil
}

func (g *Grid) ImportData(data map[string]any) error {
	half, spacing := g.halfSize, g.spacing
	decoders := []struct {
		key string
		fn  func(v any) error
	}{
		{"half_size", func(v any) (err error) { half, err = number(v); return err }},
		{"spacing", func(v any) (err error) { spacing, err = number(v); return err }},
		{"color", func(v any) (err error) { g.color, err = vec3(v); return err }},
		{"opacity", func(v any) (err error) { g.opacity, err = number(v); return err }},
	}
	for _, d := range decoders {
		if err := field(data, d.key, d.fn); err != nil {
			return err
		}
	}
	g.SetSize(half, spacing)
	return nil
}
