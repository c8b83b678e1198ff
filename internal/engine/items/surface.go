package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/buffer"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// SurfaceGrid turns a height map into a triangle mesh centred on the
// origin. Columns span xSize along X, rows keep the same spacing along Y,
// and heights are scaled by the same factor. Each cell gives two triangles.
func SurfaceGrid(zmap [][]float32, xSize float32) ([][3]float32, []uint32, error) {
	rows := len(zmap)
	if rows < 2 {
		return nil, nil, fmt.Errorf("%w: height map needs at least 2 rows, got %d", ErrBadData, rows)
	}
	cols := len(zmap[0])
	if cols < 2 {
		return nil, nil, fmt.Errorf("%w: height map needs at least 2 columns, got %d", ErrBadData, cols)
	}
	for i, row := range zmap {
		if len(row) != cols {
			return nil, nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadData, i, len(row), cols)
		}
	}

	ratio := xSize / float32(cols)
	ySize := ratio * float32(rows)
	pos := make([][3]float32, 0, rows*cols)
	for i, row := range zmap {
		y := (float32(i)/float32(rows-1) - 0.5) * ySize
		for j, z := range row {
			x := (float32(j)/float32(cols-1) - 0.5) * xSize
			pos = append(pos, [3]float32{x, y, z * ratio})
		}
	}

	indices := make([]uint32, 0, 6*(rows-1)*(cols-1))
	for i := range rows - 1 {
		for j := range cols - 1 {
			a := uint32(i*cols + j)
			b, c, d := a+1, a+uint32(cols), a+uint32(cols)+1
			indices = append(indices, a, b, d, a, d, c)
		}
	}
	return pos, indices, nil
}

// SurfacePlot is an unlit height field drawn with per-vertex colours.
type SurfacePlot struct {
	*scene.Item
	colored

	zmap    [][]float32
	xSize   float32
	indices []uint32
	opacity float32

	progs programs
	ebo   *buffer.EBO
}

// NewSurfacePlot creates a surface over zmap. colors may hold one colour
// for the whole surface.
func NewSurfacePlot(reg *scene.Registry, zmap [][]float32, xSize float32, colors [][3]float32) (*SurfacePlot, error) {
	s := &SurfacePlot{xSize: 1, opacity: 1}
	s.Item = scene.NewItem(reg, s)
	s.SetGLOptions(scene.MustPreset(scene.Translucent))
	if zmap == nil {
		s.set(nil, colors)
		return s, nil
	}
	if err := s.SetData(zmap, xSize, colors); err != nil {
		return nil, err
	}
	return s, nil
}

// SetData rebuilds the surface. A non-positive xSize keeps the current
// width; nil colors keep the current colours.
func (s *SurfacePlot) SetData(zmap [][]float32, xSize float32, colors [][3]float32) error {
	if xSize <= 0 {
		xSize = s.xSize
	}
	pos, indices, err := SurfaceGrid(zmap, xSize)
	if err != nil {
		return err
	}
	s.zmap, s.xSize, s.indices = zmap, xSize, indices
	s.set(pos, colors)
	return nil
}

// Indices returns the triangle indices of the current grid.
func (s *SurfacePlot) Indices() []uint32 { return s.indices }

// SetOpacity sets the surface alpha.
func (s *SurfacePlot) SetOpacity(a float32) { s.opacity = min(max(a, 0), 1) }

func (s *SurfacePlot) InitializeGL(ctx *scene.Context) error {
	progs, err := newPrograms(ctx, shaders.ColorVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	if err := s.init(ctx.Device); err != nil {
		progs.delete()
		return err
	}
	s.progs = progs
	s.vao.Bind()
	s.ebo = buffer.NewEBO(ctx.Device, nil)
	s.vao.Unbind()
	return nil
}

func (s *SurfacePlot) upload() error {
	if !s.dirty {
		return nil
	}
	if err := s.colored.upload(); err != nil {
		return fmt.Errorf("uploading surface: %w", err)
	}
	// colored.upload leaves the vertex array bound.
	s.ebo.UpdateData(s.indices)
	s.vao.Unbind()
	return nil
}

func (s *SurfacePlot) drawGeometry(dev gpu.Device) {
	s.vao.Bind()
	dev.DrawElements(gpu.Triangles, int32(s.ebo.Size()), gpu.Uint32, 0)
	s.vao.Unbind()
}

func (s *SurfacePlot) Paint(ctx *scene.Context, model math.Mat4) error {
	if len(s.indices) == 0 {
		return nil
	}
	if err := s.upload(); err != nil {
		return err
	}
	u := append(camera(ctx, model), uniform{"opacity", s.opacity})
	if err := setUniforms(s.progs.draw, u...); err != nil {
		return err
	}
	s.progs.draw.Use()
	s.drawGeometry(ctx.Device)
	return nil
}

func (s *SurfacePlot) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	color := s.PickColor()
	if len(s.indices) == 0 || color == 0 {
		return nil
	}
	if err := s.upload(); err != nil {
		return err
	}
	u := append(camera(ctx, model), uniform{"pickColor", color})
	if err := setUniforms(s.progs.pick, u...); err != nil {
		return err
	}
	s.progs.pick.Use()
	s.drawGeometry(ctx.Device)
	return nil
}

func (s *SurfacePlot) ReleaseGL(*scene.Context) error {
	s.progs.delete()
	s.release()
	if s.ebo != nil {
		s.ebo.Delete()
		s.ebo = nil
	}
	return nil
}

func (s *SurfacePlot) Kind() string { return KindSurface }

func (s *SurfacePlot) ExportData() (map[string]any, error) {
	return map[string]any{
		"zmap":    s.zmap,
		"x_size":  s.xSize,
		"color":   s.colors,
		"opacity": s.opacity,
	}, nil
}

func (s *SurfacePlot) ImportData(data map[string]any) error {
	var zmap [][]float32
	var xSize float32
	var colors [][3]float32
	err := field(data, "zmap", func(v any) (err error) {
		zmap, err = float32Rows(v)
		return err
	})
	if err != nil {
		return err
	}
	err = field(data, "x_size", func(v any) (err error) {
		xSize, err = number(v)
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
	err = field(data, "opacity", func(v any) error {
		a, err := number(v)
		s.SetOpacity(a)
		return err
	})
	if err != nil {
		return err
	}
	if zmap == nil {
		s.set(nil, colors)
		return nil
	}
	return s.SetData(zmap, xSize, colors)
}

func float32Rows(v any) ([][]float32, error) {
	if a, ok := v.([][]float32); ok {
		return a, nil
	}
	l, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(l))
	for i, e := range l {
		row, err := list(e)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = make([]float32, len(row))
		for j, c := range row {
			if out[i][j], err = number(c); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
	}
	return out, nil
}
