// Package scene implements the item hierarchy drawn by the viewport:
// parent/child transforms, selection state, pick colours and GL options.
//
// Concrete items embed *Item and pass themselves to NewItem as the Drawable,
// so the tree can call back into their rendering code.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/logger"
	"github.com/Beginsangod/Painter/pkg/math"
)

var (
	// ErrCycle is returned when reparenting would make an item its own ancestor.
	ErrCycle = errors.New("item hierarchy cycle")

	// ErrDestroyed is returned for operations on a destroyed item.
	ErrDestroyed = errors.New("item destroyed")
)

// DefaultSelectColor is the highlight colour of selected items.
var DefaultSelectColor = [4]float32{0.6, 0.6, 1.0, 1.0}

// Drawable is implemented by every concrete item.
type Drawable interface {
	// InitializeGL creates GPU resources. Called once, on the first paint.
	InitializeGL(ctx *Context) error
	// Paint draws the item normally.
	Paint(ctx *Context, model math.Mat4) error
	// PaintPickMode draws the item filled with its pick colour.
	PaintPickMode(ctx *Context, model math.Mat4) error
}

// Highlighter draws a selected item, typically with a stencil outline.
type Highlighter interface {
	PaintSelected(ctx *Context, model math.Mat4) error
}

// Releaser frees GPU resources when the item is destroyed.
type Releaser interface {
	ReleaseGL(ctx *Context) error
}

// LightReceiver exposes lights the host should know about.
type LightReceiver interface {
	Lights() []*lighting.PointLight
}

// Exporter serializes item-specific data for project snapshots.
type Exporter interface {
	Kind() string
	ExportData() (map[string]any, error)
	ImportData(data map[string]any) error
}

// Host is the viewport an item is drawn into.
type Host interface {
	Device() gpu.Device
	AddLights(lights ...*lighting.PointLight)
}

// Item is a node in the scene tree.
type Item struct {
	id       uuid.UUID
	name     string
	drawable Drawable
	registry *Registry

	parent   *Item
	children []*Item
	host     Host

	transform   math.Mat4
	opts        GLOptions
	depth       int
	pickColor   float32
	selectColor [4]float32

	visible     bool
	selectable  bool
	selected    bool
	initialized bool
	failed      bool
	destroyed   bool
}

// NewItem creates a detached item. When reg is non-nil a pick colour is
// registered immediately and released by Destroy.
func NewItem(reg *Registry, d Drawable) *Item {
	it := &Item{
		id:          uuid.New(),
		drawable:    d,
		registry:    reg,
		transform:   math.Identity(),
		opts:        MustPreset(Opaque),
		selectColor: DefaultSelectColor,
		visible:     true,
	}
	if reg != nil {
		it.pickColor = reg.Register(it)
	}
	return it
}

// ID returns the stable identity used by project snapshots.
func (it *Item) ID() uuid.UUID { return it.id }

// SetID replaces the identity, used when importing a snapshot.
func (it *Item) SetID(id uuid.UUID) { it.id = id }

// Name returns the display name.
func (it *Item) Name() string { return it.name }

// SetName sets the display name.
func (it *Item) SetName(name string) { it.name = name }

// String returns the name, or the id when unnamed.
func (it *Item) String() string {
	if it.name != "" {
		return it.name
	}
	return it.id.String()
}

// SceneItem returns the item itself. Concrete items embedding *Item get it
// promoted, so code holding an interface can reach the tree node.
func (it *Item) SceneItem() *Item { return it }

// Drawable returns the concrete item.
func (it *Item) Drawable() Drawable { return it.drawable }

// Host returns the viewport the item draws into, nil before initialization.
func (it *Item) Host() Host { return it.host }

// SetHost attaches a root item to a viewport.
func (it *Item) SetHost(h Host) { it.host = h }

// Hierarchy

// Parent returns the parent item or nil.
func (it *Item) Parent() *Item { return it.parent }

// Children returns the direct children sorted by depth.
func (it *Item) Children() []*Item { return slices.Clone(it.children) }

// AddChild reparents child under it, removing it from its previous parent.
func (it *Item) AddChild(child *Item) error {
	if child == nil {
		return nil
	}
	if it.destroyed || child.destroyed {
		return ErrDestroyed
	}
	for p := it; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %s under %s", ErrCycle, child, it)
		}
	}

	if child.parent != it {
		child.Detach()
		it.children = append(it.children, child)
		child.parent = it
	}
	it.sortChildren()
	return nil
}

// SetParent is AddChild seen from the child. A nil parent detaches.
func (it *Item) SetParent(parent *Item) error {
	if parent == nil {
		it.Detach()
		return nil
	}
	return parent.AddChild(it)
}

// Detach removes the item from its parent.
func (it *Item) Detach() {
	if it.parent == nil {
		return
	}
	p := it.parent
	if i := slices.Index(p.children, it); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	it.parent = nil
}

func (it *Item) sortChildren() {
	slices.SortStableFunc(it.children, func(a, b *Item) int {
		return a.depth - b.depth
	})
}

// RecursiveChildItems returns every descendant once, in pre-order with
// siblings in depth order.
func (it *Item) RecursiveChildItems() []*Item {
	var out []*Item
	for _, c := range it.children {
		out = append(out, c)
		out = append(out, c.RecursiveChildItems()...)
	}
	return out
}

// Depth returns the sort key among siblings.
func (it *Item) Depth() int { return it.depth }

// SetDepth changes the sort key and re-sorts the siblings.
func (it *Item) SetDepth(d int) {
	it.depth = d
	if it.parent != nil {
		it.parent.sortChildren()
	}
}

// Transform

// Transform returns the local transform relative to the parent.
func (it *Item) Transform() math.Mat4 { return it.transform }

// SetTransform replaces the local transform.
func (it *Item) SetTransform(m math.Mat4) { it.transform = m }

// MoveTo sets the position in the parent frame, keeping rotation and scale.
func (it *Item) MoveTo(x, y, z float32) *Item {
	it.transform.MoveTo(x, y, z)
	return it
}

// Translate moves the item; local applies it in the item's own frame.
func (it *Item) Translate(dx, dy, dz float32, local bool) *Item {
	it.transform.Translate(dx, dy, dz, local)
	return it
}

// Rotate rotates by angleDeg degrees around (x, y, z).
func (it *Item) Rotate(angleDeg, x, y, z float32, local bool) *Item {
	it.transform.Rotate(angleDeg, x, y, z, local)
	return it
}

// Scale scales the item.
func (it *Item) Scale(x, y, z float32, local bool) *Item {
	it.transform.Scale(x, y, z, local)
	return it
}

// WorldTransform composes the transforms from the root down to the item.
func (it *Item) WorldTransform() math.Mat4 {
	if it.parent == nil {
		return it.transform
	}
	return it.parent.WorldTransform().Mul(it.transform)
}

// Visibility

// Visible reports the item's own visibility flag.
func (it *Item) Visible() bool { return it.visible }

// SetVisible shows or hides the item, optionally every descendant too.
func (it *Item) SetVisible(v, recursive bool) {
	it.visible = v
	if recursive {
		for _, c := range it.RecursiveChildItems() {
			c.visible = v
		}
	}
}

// Selection

// Selectable reports whether the item takes part in picking.
func (it *Item) Selectable() bool { return it.selectable }

// SetSelectable toggles picking. A change clears the selected flag.
func (it *Item) SetSelectable(s, recursive bool) {
	if it.selectable == s {
		return
	}
	it.selectable = s
	it.selected = false
	if recursive {
		for _, c := range it.children {
			c.SetSelectable(s, true)
		}
	}
}

// Selected reports the effective selection: the item's own flag when
// selectable, otherwise that of the nearest selectable ancestor.
func (it *Item) Selected() bool {
	if it.selectable {
		return it.selected
	}
	return it.parent != nil && it.parent.Selected()
}

// SetSelected sets the flag and, when children is set, propagates it to
// selectable children.
func (it *Item) SetSelected(s, children bool) {
	it.selected = s
	if children {
		for _, c := range it.children {
			if c.selectable {
				c.SetSelected(s, true)
			}
		}
	}
}

// PickColor returns the value written during the pick pass: 0 when the item
// is not selectable, the parent's colour when the parent is selectable, the
// item's own colour otherwise.
func (it *Item) PickColor() float32 {
	if !it.selectable {
		return 0
	}
	if it.parent != nil && it.parent.selectable {
		return it.parent.PickColor()
	}
	return it.pickColor
}

// OwnPickColor returns the colour registered for this item.
func (it *Item) OwnPickColor() float32 { return it.pickColor }

// SelectColor returns the highlight colour.
func (it *Item) SelectColor() [4]float32 { return it.selectColor }

// SetSelectColor sets the highlight colour.
func (it *Item) SetSelectColor(c [4]float32) { it.selectColor = c }

// GL options

// GLOptions returns the item's option set.
func (it *Item) GLOptions() GLOptions { return it.opts }

// SetGLOptions replaces the option set.
func (it *Item) SetGLOptions(o GLOptions) { it.opts = o.Clone() }

// SetGLPreset replaces the option set with a named preset.
func (it *Item) SetGLPreset(name string) error {
	o, err := Preset(name)
	if err != nil {
		return err
	}
	it.opts = o
	return nil
}

// UpdateGLOptions merges o into the current option set.
func (it *Item) UpdateGLOptions(o GLOptions) { it.opts.Merge(o) }

// SetupGLState applies the option set to dev.
func (it *Item) SetupGLState(dev gpu.Device) { it.opts.Setup(dev) }

// Lifecycle

// Initialized reports whether InitializeGL has run.
func (it *Item) Initialized() bool { return it.initialized }

// Destroyed reports whether Destroy has run.
func (it *Item) Destroyed() bool { return it.destroyed }

// initialize runs InitializeGL once, inheriting the host from the parent.
func (it *Item) initialize(ctx *Context) error {
	if it.initialized {
		return nil
	}
	if it.host == nil {
		if it.parent != nil && it.parent.host != nil {
			it.host = it.parent.host
		} else {
			it.host = ctx.Host
		}
	}
	if lr, ok := it.drawable.(LightReceiver); ok && it.host != nil {
		it.host.AddLights(lr.Lights()...)
	}
	if err := guard(func() error { return it.drawable.InitializeGL(ctx) }); err != nil {
		return err
	}
	it.initialized = true
	return nil
}

// Destroy releases GPU resources and the pick colour, detaches the item from
// its parent and orphans its children. Children are not destroyed.
func (it *Item) Destroy() {
	if it.destroyed {
		return
	}

	if r, ok := it.drawable.(Releaser); ok && it.initialized && it.host != nil {
		ctx := &Context{Device: it.host.Device(), Host: it.host}
		if err := guard(func() error { return r.ReleaseGL(ctx) }); err != nil {
			logger.Named("scene").Warn("release failed", zap.Stringer("item", it), zap.Error(err))
		}
	}
	if it.registry != nil && it.pickColor != 0 {
		if err := it.registry.Release(it.pickColor); err != nil {
			logger.Named("scene").Warn("pick colour release failed", zap.Stringer("item", it), zap.Error(err))
		}
	}

	it.Detach()
	for _, c := range it.children {
		c.parent = nil
	}
	it.children = nil
	it.destroyed = true
}
