package items

import (
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/items/shaders"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// LineMode selects how consecutive vertices are joined.
type LineMode int

const (
	// LineStrip joins every vertex to the next.
	LineStrip LineMode = iota
	// LineSegments draws independent pairs.
	LineSegments
)

func (m LineMode) primitive() gpu.Primitive {
	if m == LineSegments {
		return gpu.Lines
	}
	return gpu.LineStrip
}

// LinePlot draws a polyline or a set of segments.
type LinePlot struct {
	*scene.Item
	colored

	mode    LineMode
	width   float32
	opacity float32
	progs   programs
}

// NewLinePlot creates a line plot.
func NewLinePlot(reg *scene.Registry, pos, colors [][3]float32, mode LineMode) *LinePlot {
	l := &LinePlot{mode: mode, width: 1, opacity: 1}
	l.Item = scene.NewItem(reg, l)
	l.set(pos, colors)
	return l
}

// SetData replaces the vertices; nil keeps the current slice.
func (l *LinePlot) SetData(pos, colors [][3]float32) { l.set(pos, colors) }

// SetLineWidth sets the rasterized line width.
func (l *LinePlot) SetLineWidth(w float32) {
	if w > 0 {
		l.width = w
	}
}

// SetOpacity sets the line alpha; it needs a translucent preset to show.
func (l *LinePlot) SetOpacity(a float32) { l.opacity = min(max(a, 0), 1) }

// Mode returns the join mode.
func (l *LinePlot) Mode() LineMode { return l.mode }

func (l *LinePlot) InitializeGL(ctx *scene.Context) error {
	progs, err := newPrograms(ctx, shaders.ColorVertexShader, shaders.ColorFragmentShader, shaders.PickFragmentShader)
	if err != nil {
		return err
	}
	if err := l.init(ctx.Device); err != nil {
		progs.delete()
		return err
	}
	l.progs = progs
	return nil
}

func (l *LinePlot) Paint(ctx *scene.Context, model math.Mat4) error {
	if l.count() < 2 {
		return nil
	}
	if err := l.upload(); err != nil {
		return fmt.Errorf("uploading lines: %w", err)
	}
	ctx.Device.LineWidth(l.width)
	u := append(camera(ctx, model), uniform{"opacity", l.opacity})
	if err := setUniforms(l.progs.draw, u...); err != nil {
		return err
	}
	l.progs.draw.Use()
	l.draw(ctx.Device, l.mode.primitive())
	return nil
}

func (l *LinePlot) PaintPickMode(ctx *scene.Context, model math.Mat4) error {
	color := l.PickColor()
	if l.count() < 2 || color == 0 {
		return nil
	}
	if err := l.upload(); err != nil {
		return fmt.Errorf("uploading lines: %w", err)
	}
	ctx.Device.LineWidth(l.width)
	u := append(camera(ctx, model), uniform{"pickColor", color})
	if err := setUniforms(l.progs.pick, u...); err != nil {
		return err
	}
	l.progs.pick.Use()
	l.draw(ctx.Device, l.mode.primitive())
	return nil
}

func (l *LinePlot) ReleaseGL(*scene.Context) error {
	l.progs.delete()
	l.release()
	return nil
}

func (l *LinePlot) Kind() string { return KindLinePlot }

func (l *LinePlot) ExportData() (map[string]any, error) {
	data := map[string]any{
		"mode":    int(l.mode),
		"width":   l.width,
		"opacity": l.opacity,
	}
	l.export(data)
	return data, nil
}

func (l *LinePlot) ImportData(data map[string]any) error {
	err := field(data, "mode", func(v any) error {
		m, err := number(v)
		if err != nil {
			return err
		}
		if m != float32(LineStrip) && m != float32(LineSegments) {
			return fmt.Errorf("%w: line mode %v", ErrBadData, m)
		}
		l.mode = LineMode(m)
		return nil
	})
	if err != nil {
		return err
	}
	err = field(data, "width", func(v any) (err error) {
		l.width, err = number(v)
		return err
	})
	if err != nil {
		return err
	}
	err = field(data, "opacity", func(v any) (err error) {
		l.opacity, err = number(v)
		return err
	})
	if err != nil {
		return err
	}
	return l.importData(data)
}
