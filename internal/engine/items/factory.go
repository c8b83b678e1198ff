package items

import (
	"errors"
	"fmt"

	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

// ErrUnknownKind is returned by New for a kind no item implements.
var ErrUnknownKind = errors.New("unknown item kind")

// Node is a concrete item: drawable, exportable and backed by a tree node.
type Node interface {
	scene.Drawable
	scene.Exporter
	SceneItem() *scene.Item
}

// New creates an empty item of the given kind, ready for ImportData.
func New(reg *scene.Registry, kind string) (Node, error) {
	switch kind {
	case KindScatter:
		return NewScatter(reg, nil, nil, 1), nil
	case KindLinePlot:
		return NewLinePlot(reg, nil, nil, LineStrip), nil
	case KindBox:
		return NewBox(reg, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}, White), nil
	case KindMesh:
		return NewMesh(reg, nil, nil, nil, nil), nil
	case KindGrid:
		return NewGrid(reg, 1, 1, White), nil
	case KindArrowPlot:
		return NewArrowPlot(reg, nil, nil, nil)
	case KindSurface:
		return NewSurfacePlot(reg, nil, 1, nil)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
