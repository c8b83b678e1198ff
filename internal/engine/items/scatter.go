package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// Scatter is a point cloud. Point size shrinks with distance to the camera.
type Scatter struct {
	*scene.Item
	colored

	size      float32
	antialias bool
	progs     programs
}

// NewScatter creates a point cloud. colors may hold one colour for all
// points; size is the nominal point size.
func NewScatter(reg *scene.Registry, pos, colors [][3]float32, size float32) *Scatter {
	s := &Scatter{size: 1, antialias: true}
	s.Item = scene.NewItem(reg, s)
	s.SetData(pos, colors, size)
	return s
}

// SetData replaces the points. nil slices and a non-positive size keep the
// current values.
func (s *Scatter) SetData(pos, colors [][3]float32, size float32) {
	if size > 0 {
		s.size = size
	}
	s.set(pos, colors)
}

// Size returns the nominal point size.
func (s *Scatter) Size() float32 { return s.size }

// Points returns the point positions.
func (s *Scatter) Points() [][3]float32 { return s.pos }

// SetAntialias toggles smooth points.
func (s *Scatter) SetAntialias(on bool) { s.antialias = on }

func (s *Scatter) InitializeGL(ctx *scene.Context) error {
	progs, err := newPrograms(ctx, shaders.PointsVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	if err := s.init(ctx.Device); err != nil {
		progs.delete()
		return err
	}
	s.progs = progs
	return nil
}

func (s *Scatter) Paint(ctx *scene.Context, model math.Mat4) error {
	if s.count() == 0 {
		return nil
	}
	if err := s.upload(); err != nil {
		return fmt.Errorf("uploading points: %w", err)
	}

	ctx.Device.Enable(gpu.ProgramPointSize)
	if s.antialias {
		ctx.Device.Enable(gpu.LineSmooth)
	}
	u := append(camera(ctx, model), uniform{"size", s.size}, uniform{"opacity", float32(1)})
	if err := setUniforms(s.progs.draw, u...); err != nil {
		return err
	}
	s.progs.draw.Use()
	s.draw(ctx.Device, gpu.Points)
	return nil
}

func (s *Scatter) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	color := s.PickColor()
	if s.count() == 0 || color == 0 {
		return nil
	}
	if err := s.upload(); err != nil {
		return fmt.Errorf("uploading points: %w", err)
	}

	ctx.Device.Enable(gpu.ProgramPointSize)
	u := append(camera(ctx, model), uniform{"size", s.size}, uniform{"pickColor", color})
	if err := setUniforms(s.progs.pick, u...); err != nil {
		return err
	}
	s.progs.pick.Use()
	s.draw(ctx.Device, gpu.Points)
	return nil
}

func (s *Scatter) ReleaseGL(*scene.Context) error {
	s.progs.delete()
	s.release()
	return nil
}

func (s *Scatter) Kind() string { return KindScatter }

func (s *Scatter) ExportData() (map[string]any, error) {
	data := map[string]any{"size": s.size, "antialias": s.antialias}
	s.export(data)
	return data, nil
}

func (s *Scatter) ImportData(data map[string]any) error {
	err := field(data, "size", func(v any) (err error) {
		s.size, err = number(v)
		return err
	})
	if err != nil {
		return err
	}
	if a, ok := data["antialias"].(bool); ok {
		s.antialias = a
	}
	return s.importData(data)
}
