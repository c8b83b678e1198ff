// Package items implements the drawable scene items: point clouds, line
// plots, arrows, height-field surfaces, wireframe boxes, lit meshes, a
// reference grid and the rubber-band selection overlay.
//
// Each item embeds *scene.Item and implements scene.Drawable. GPU resources
// are created in InitializeGL on the first paint and freed in ReleaseGL.
// Data set before initialization is uploaded on the next paint.
package items

import (
	"errors"

	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/engine/shader"
	"github.com/Beginsangod/Painter/pkg/math"
)

// ErrBadData is returned by ImportData for a malformed payload.
var ErrBadData = errors.New("malformed item data")

// Kinds used by project snapshots.
const (
	KindScatter   = "scatter"
	KindLinePlot  = "lineplot"
	KindBox       = "box"
	KindMesh      = "mesh"
	KindGrid      = "grid"
	KindArrowPlot = "arrowplot"
	KindSurface   = "surface"
)

type uniform struct {
	name  string
	value any
}

func setUniforms(p *shader.Program, values ...uniform) error {
	for _, u := range values {
		if err := p.SetUniform(u.name, u.value); err != nil {
			return err
		}
	}
	return nil
}

// camera returns the model/view/proj uniforms shared by every program.
func camera(ctx *scene.Context, model math.Mat4) []uniform {
	return []uniform{
		{"model", model},
		{"view", ctx.View},
		{"proj", ctx.Projection},
	}
}

// programs is a normal/pick program pair.
type programs struct {
	draw *shader.Program
	pick *shader.Program
}

func newPrograms(ctx *scene.Context, vs, fs, pickFS string) (programs, error) {
	draw, err := shader.New(ctx.Device, vs, fs)
	if err != nil {
		return programs{}, err
	}
	pick, err := shader.New(ctx.Device, vs, pickFS)
	if err != nil {
		draw.Delete()
		return programs{}, err
	}
	return programs{draw: draw, pick: pick}, nil
}

func (p *programs) delete() {
	if p.draw != nil {
		p.draw.Delete()
	}
	if p.pick != nil {
		p.pick.Delete()
	}
	*p = programs{}
}
