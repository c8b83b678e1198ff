package scene

import (
	"errors"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/gpu/softgpu"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/pkg/math"
)

type testHost struct {
	dev    *softgpu.Device
	lights *lighting.Set
}

func newTestHost() *testHost {
	return &testHost{dev: softgpu.New(64, 64), lights: lighting.NewSet()}
}

func (h *testHost) Device() gpu.Device { return h.dev }

func (h *testHost) AddLights(lights ...*lighting.PointLight) { h.lights.Add(lights...) }

func (h *testHost) context(pick bool) *Context {
	return &Context{Device: h.dev, Host: h, View: math.Identity(), Projection: math.Identity(), PickMode: pick}
}

// testItem records every callback into a shared journal.
type testItem struct {
	*Item
	journal *[]string
	models  []math.Mat4

	initErr    error
	paintPanic bool
	releases   int
	lights     []*lighting.PointLight
}

func newTestItem(reg *Registry, name string, journal *[]string) *testItem {
	t := &testItem{journal: journal}
	t.Item = NewItem(reg, t)
	t.SetName(name)
	return t
}

func (t *testItem) log(event string) {
	*t.journal = append(*t.journal, t.Name()+":"+event)
}

func (t *testItem) InitializeGL(*Context) error {
	t.log("init")
	return t.initErr
}

func (t *testItem) Paint(_ *Context, model math.Mat4) error {
	t.log("paint")
	t.models = append(t.models, model)
	if t.paintPanic {
		panic("boom")
	}
	return nil
}

func (t *testItem) PaintPickMode(*Context, math.Mat4) error {
	t.log("pick")
	return nil
}

func (t *testItem) ReleaseGL(*Context) error {
	t.releases++
	return nil
}

// highlightItem adds a selected pass.
type highlightItem struct {
	*testItem
}

func newHighlightItem(reg *Registry, name string, journal *[]string) *highlightItem {
	h := &highlightItem{testItem: &testItem{journal: journal}}
	h.Item = NewItem(reg, h)
	h.SetName(name)
	return h
}

func (h *highlightItem) PaintSelected(*Context, math.Mat4) error {
	h.log("selected")
	return nil
}

// litItem carries lights.
type litItem struct {
	*testItem
}

func (l *litItem) Lights() []*lighting.PointLight { return l.lights }

var errInit = errors.New("no GPU memory")
