// Package viewport hosts a 3D scene: it owns the camera, the root items,
// the pick pipeline and the selection, and turns input events into camera
// moves and rubber-band selections.
//
// A Viewport is driven from the render thread. The embedding window calls
// HandleEvent for each input event, Paint once per frame and Close before
// the GL context goes away.
package viewport

import (
	"errors"
	"fmt"
	"image"
	gomath "math"
	"slices"

	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/camera"
	"github.com/Beginsangod/Painter/internal/engine/gpu"
	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/internal/engine/items"
	"github.com/Beginsangod/Painter/internal/engine/lighting"
	"github.com/Beginsangod/Painter/internal/engine/picking"
	"github.com/Beginsangod/Painter/internal/engine/scene"
	"github.com/Beginsangod/Painter/internal/logger"
	"github.com/Beginsangod/Painter/pkg/math"
)

var (
	// ErrNotInScene is returned when removing an item that is not a root item.
	ErrNotInScene = errors.New("item not in scene")

	// ErrClosed is returned by operations on a closed viewport.
	ErrClosed = errors.New("viewport closed")
)

// Options configures a viewport.
type Options struct {
	// Width and Height are the logical size in pixels.
	Width, Height int
	// PixelRatio is device pixels per logical pixel.
	PixelRatio float32
	Background [4]float32
	PickRatio  int

	Camera camera.Params
	// PresetView is applied by the 2 key.
	PresetView camera.Params

	OrbitSpeed float32 // degrees per pixel
	PanSpeed   float32
	ZoomSpeed  float32
	// AddModifier makes a rubber-band release add to the selection instead
	// of toggling it.
	AddModifier input.Modifier
}

// DefaultOptions returns an 800x600 viewport with the camera ten units back.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		PixelRatio: 1,
		Background: [4]float32{0.2, 0.3, 0.3, 1},
		PickRatio:  picking.DefaultRatio,
		Camera:     camera.Params{Position: math.Vec3{Z: 10}, FOV: camera.DefaultFOV},
		PresetView: camera.Params{
			Position: math.Vec3{Z: 886.87},
			Pitch:    -31.90,
			Roll:     -90,
		},
		OrbitSpeed:  1,
		PanSpeed:    1,
		ZoomSpeed:   1,
		AddModifier: input.ModCtrl,
	}
}

// Viewport is a scene host bound to one GPU device.
type Viewport struct {
	dev      gpu.Device
	opts     Options
	cam      *camera.Camera
	registry *scene.Registry
	picker   *picking.Picker
	lights   *lighting.Set

	items     []*scene.Item
	selection picking.Selection
	selectBox *items.SelectBox
	drag      picking.Drag

	width, height int
	ratio         float32

	pressPos, lastPos math.Vec2
	pressQuat         math.Quat
	pressCam          math.Vec3

	redraw bool
	closed bool
	log    *zap.Logger
}

var _ scene.Host = (*Viewport)(nil)

// New creates a viewport drawing with dev.
func New(dev gpu.Device, opts Options) *Viewport {
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	reg := scene.NewRegistry()
	v := &Viewport{
		dev:       dev,
		opts:      opts,
		cam:       camera.New(opts.Camera),
		registry:  reg,
		picker:    picking.NewPicker(dev, reg, opts.PickRatio),
		lights:    lighting.NewSet(),
		selectBox: items.NewSelectBox(),
		width:     opts.Width,
		height:    opts.Height,
		ratio:     opts.PixelRatio,
		redraw:    true,
		log:       logger.Named("viewport"),
	}
	v.selectBox.SetHost(v)
	return v
}

// Device returns the GPU device.
func (v *Viewport) Device() gpu.Device { return v.dev }

// AddLights registers lights uploaded to every lit item.
func (v *Viewport) AddLights(lights ...*lighting.PointLight) {
	v.lights.Add(lights...)
}

// Lights returns the viewport's light set.
func (v *Viewport) Lights() *lighting.Set { return v.lights }

// Registry returns the pick colour registry items must be created with.
func (v *Viewport) Registry() *scene.Registry { return v.registry }

// Camera returns the camera.
func (v *Viewport) Camera() *camera.Camera { return v.cam }

// SelectBox returns the rubber-band overlay.
func (v *Viewport) SelectBox() *items.SelectBox { return v.selectBox }

// SetBackgroundColor sets the clear colour.
func (v *Viewport) SetBackgroundColor(c [4]float32) {
	v.opts.Background = c
	v.redraw = true
}

// Size returns the logical size.
func (v *Viewport) Size() (width, height int) { return v.width, v.height }

// DeviceSize returns the size in device pixels.
func (v *Viewport) DeviceSize() (width, height int) {
	return int(float32(v.width) * v.ratio), int(float32(v.height) * v.ratio)
}

// Resize records a new logical size and pixel ratio. A non-positive ratio
// keeps the current one.
func (v *Viewport) Resize(width, height int, ratio float32) {
	v.width, v.height = max(width, 0), max(height, 0)
	if ratio > 0 {
		v.ratio = ratio
	}
	v.redraw = true
}

// NeedsPaint reports whether something changed since the last Paint.
func (v *Viewport) NeedsPaint() bool { return v.redraw }

// Update asks for a repaint.
func (v *Viewport) Update() { v.redraw = true }

// Items

// Items returns the root items in draw order.
func (v *Viewport) Items() []*scene.Item { return slices.Clone(v.items) }

// AddItem adds a root item, registers the lights it carries and keeps the
// roots sorted by depth. Adding an item twice is a no-op.
func (v *Viewport) AddItem(it *scene.Item) error {
	if v.closed {
		return ErrClosed
	}
	if it.Destroyed() {
		return scene.ErrDestroyed
	}
	if slices.Contains(v.items, it) {
		return nil
	}
	v.items = append(v.items, it)
	it.SetHost(v)
	if lr, ok := it.Drawable().(scene.LightReceiver); ok {
		v.lights.Add(lr.Lights()...)
	}
	slices.SortStableFunc(v.items, func(a, b *scene.Item) int {
		return a.Depth() - b.Depth()
	})
	v.redraw = true
	return nil
}

// AddItems adds several root items.
func (v *Viewport) AddItems(its ...*scene.Item) error {
	for _, it := range its {
		if err := v.AddItem(it); err != nil {
			return err
		}
	}
	return nil
}

// RemoveItem takes a root item out of the scene and the selection. Its GPU
// resources stay allocated until the caller destroys it.
func (v *Viewport) RemoveItem(it *scene.Item) error {
	i := slices.Index(v.items, it)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotInScene, it)
	}
	v.items = slices.Delete(v.items, i, i+1)
	v.unselect(it)
	v.redraw = true
	return nil
}

// Clear removes every root item.
func (v *Viewport) Clear() {
	for _, it := range v.items {
		v.unselect(it)
	}
	v.items = nil
	v.redraw = true
}

// DestroyItem removes a root item and destroys it with its subtree. Lights
// the destroyed items carried are dropped from the viewport.
func (v *Viewport) DestroyItem(it *scene.Item) error {
	if err := v.RemoveItem(it); err != nil {
		return err
	}
	v.dropLights(it)
	destroyTree(it)
	return nil
}

// DestroyItems removes every root item and destroys it with its subtree.
func (v *Viewport) DestroyItems() {
	roots := v.items
	v.Clear()
	for _, root := range roots {
		v.dropLights(root)
		destroyTree(root)
	}
}

func (v *Viewport) dropLights(root *scene.Item) {
	for _, n := range append([]*scene.Item{root}, root.RecursiveChildItems()...) {
		if lr, ok := n.Drawable().(scene.LightReceiver); ok {
			for _, l := range lr.Lights() {
				v.lights.Remove(l)
			}
		}
	}
}

func (v *Viewport) unselect(it *scene.Item) {
	for _, n := range append([]*scene.Item{it}, it.RecursiveChildItems()...) {
		if v.selection.Contains(n) {
			n.SetSelected(false, true)
			v.selection.Remove(n)
		}
	}
}

// Rendering

func (v *Viewport) context(pick bool) (*scene.Context, error) {
	w, h := v.DeviceSize()
	proj, err := v.cam.ProjectionMatrix(w, h, 0)
	if err != nil {
		return nil, fmt.Errorf("camera projection: %w", err)
	}
	return &scene.Context{
		Device:     v.dev,
		Host:       v,
		View:       v.cam.ViewMatrix(),
		Projection: proj,
		ViewPos:    v.cam.ViewPos(),
		Lights:     v.lights,
		Width:      int32(w),
		Height:     int32(h),
		PickMode:   pick,
	}, nil
}

// Paint clears the default framebuffer and draws every root item, then the
// rubber band when a drag is in progress.
func (v *Viewport) Paint() error {
	if v.closed {
		return ErrClosed
	}
	ctx, err := v.context(false)
	if err != nil {
		return err
	}

	bg := v.opts.Background
	v.dev.BindFramebuffer(0)
	v.dev.Viewport(gpu.Rect{W: ctx.Width, H: ctx.Height})
	v.dev.ClearColor(bg[0], bg[1], bg[2], bg[3])
	v.dev.DepthMask(true)
	v.dev.Clear(gpu.ColorBit | gpu.DepthBit | gpu.StencilBit)

	scene.DrawItems(ctx, v.items)
	if v.selectBox.Visible() {
		v.selectBox.DrawTree(ctx, math.Identity())
	}
	v.redraw = false
	return nil
}

// ReadImage paints a frame and returns the default framebuffer at device
// resolution.
func (v *Viewport) ReadImage() (*image.RGBA, error) {
	if err := v.Paint(); err != nil {
		return nil, err
	}
	w, h := v.DeviceSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	pix := v.dev.ReadPixelsRGBA(gpu.Rect{W: int32(w), H: int32(h)})
	if len(pix) == 0 {
		return img, nil
	}
	// GL rows run bottom to top.
	stride := 4 * w
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], pix[(h-1-y)*stride:(h-y)*stride])
	}
	return img, nil
}

// PickItems returns the distinct selectable items drawn inside r, a
// rectangle in logical pixels with a top-left origin. Negative sizes are
// allowed.
func (v *Viewport) PickItems(r gpu.Rect) ([]*scene.Item, error) {
	if v.closed {
		return nil, ErrClosed
	}
	ctx, err := v.context(true)
	if err != nil {
		return nil, err
	}
	picked, err := v.picker.Pick(ctx, v.items, v.toDevice(r))
	v.redraw = true
	return picked, err
}

func (v *Viewport) toDevice(r gpu.Rect) gpu.Rect {
	s := func(x int32) int32 { return int32(gomath.Round(float64(float32(x) * v.ratio))) }
	return gpu.Rect{X: s(r.X), Y: s(r.Y), W: s(r.W), H: s(r.H)}
}

// SelectedItems returns the selection in the order items were selected.
func (v *Viewport) SelectedItems() []*scene.Item { return v.selection.Items() }

// Select applies pick candidates to the selection as a rubber-band release
// would; additive selects without toggling.
func (v *Viewport) Select(candidates []*scene.Item, additive bool) {
	v.selection.Apply(candidates, additive)
	v.redraw = true
}

// PixelSize returns the world size of one device pixel at pos, used to keep
// markers a constant size on screen. Points behind the camera give 0.
func (v *Viewport) PixelSize(pos math.Vec3) float32 {
	_, h := v.DeviceSize()
	if h <= 0 {
		return 0
	}
	p := v.cam.ViewMatrix().TransformPoint(pos.Array())
	half := gomath.Tan(0.5 * float64(math.Radians(v.cam.FOV)))
	return max(-p[2], 0) * 2 * float32(half) / float32(h)
}

// Reset restores the camera the viewport was created with.
func (v *Viewport) Reset() {
	v.cam.Reset()
	v.redraw = true
}

// Close destroys every item, the overlay and the pick target. The viewport
// cannot be used afterwards.
func (v *Viewport) Close() {
	if v.closed {
		return
	}
	v.DestroyItems()
	v.selectBox.Destroy()
	v.picker.Destroy()
	v.closed = true
	v.log.Debug("viewport closed")
}
