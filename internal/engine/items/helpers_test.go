package items

import (
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/pkg/math"
)

type host struct {
	dev    *softgpu.Device
	lights *lighting.Set
}

func newHost() *host {
	return &host{dev: softgpu.New(64, 48), lights: lighting.NewSet()}
}

func (h *host) Device() gpu.Device { return h.dev }

func (h *host) AddLights(lights ...*lighting.PointLight) { h.lights.Add(lights...) }

func (h *host) context(pick bool) *scene.Context {
	return &scene.Context{
		Device:     h.dev,
		Host:       h,
		View:       math.Translate(0, 0, -5),
		Projection: math.Identity(),
		ViewPos:    math.Vec3{Z: 5},
		Width:      64,
		Height:     48,
		PickMode:   pick,
	}
}

func (h *host) draw(pick bool, items ...*scene.Item) {
	scene.DrawItems(h.context(pick), items)
}

func (h *host) uniform(program uint32, name string) any {
	v, _ := h.dev.Uniform(program, name)
	return v
}

func triangle() [][3]float32 {
	return [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
}

func vec(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }
