package viewport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Beginsangod/Painter/internal/engine/input"
	"github.com/Beginsangod/Painter/pkg/math"
)

const (
	// precisionFactor scales drags while ctrl is held.
	precisionFactor = 0.1
	// rollDivisor converts horizontal pixels to roll degrees while alt is held.
	rollDivisor = 5
)

// HandleEvent applies one input event. It reports whether the event was
// consumed.
func (v *Viewport) HandleEvent(e input.Event) bool {
	if v.closed {
		return false
	}
	switch e.Type {
	case input.EventMouseDown:
		v.mousePress(e)
	case input.EventMouseMove:
		v.mouseMove(e)
	case input.EventMouseUp:
		v.mouseRelease(e)
	case input.EventWheel:
		v.wheel(e)
	case input.EventKeyDown:
		return v.keyPress(e)
	case input.EventWindowResize:
		v.Resize(e.Width, e.Height, 0)
	default:
		return false
	}
	return true
}

func (v *Viewport) mousePress(e input.Event) {
	pos := math.Vec2{X: e.X, Y: e.Y}
	v.pressPos, v.lastPos = pos, pos
	v.pressQuat, v.pressCam = v.cam.QuatPos()

	if e.Buttons == input.ButtonLeft {
		v.drag.Begin(int32(e.X), int32(e.Y))
		v.selectBox.SetStart(pos.Scale(v.ratio))
		v.selectBox.SetEnd(pos.Scale(v.ratio))
	}
}

// mouseMove orbits with the right button, pans with the middle one and
// grows the rubber band with the left one. Shift locks the drag to its
// dominant axis relative to the press, ctrl slows it down and alt turns a
// right drag into a roll.
func (v *Viewport) mouseMove(e input.Event) {
	pos := math.Vec2{X: e.X, Y: e.Y}
	quat, camPos := v.cam.QuatPos()
	d := pos.Sub(v.lastPos)
	v.lastPos = pos

	shift, ctrl, alt := e.Mods.Has(input.ModShift), e.Mods.Has(input.ModCtrl), e.Mods.Has(input.ModAlt)
	if shift && !alt {
		quat, camPos = v.pressQuat, v.pressCam
		d = pos.Sub(v.pressPos).LockAxis()
	}
	if ctrl {
		d = d.Scale(precisionFactor)
	}
	dx, dy := d.X, d.Y

	switch e.Buttons {
	case input.ButtonRight:
		s := v.opts.OrbitSpeed
		if alt {
			v.cam.Orbit(0, 0, dx/rollDivisor*s, &quat)
		} else {
			v.cam.Orbit(dx*s, dy*s, 0, &quat)
		}
	case input.ButtonMiddle:
		s := v.opts.PanSpeed
		v.cam.Pan(dx*s, -dy*s, 0, float32(v.width), &camPos)
	case input.ButtonLeft:
		if v.drag.Move(int32(e.X), int32(e.Y)) {
			v.selectBox.SetVisible(true, false)
			v.selectBox.SetEnd(pos.Scale(v.ratio))
		}
	default:
		return
	}
	v.redraw = true
}

// mouseRelease finishes a rubber-band selection.
func (v *Viewport) mouseRelease(e input.Event) {
	if e.Button != input.ButtonLeft {
		return
	}
	v.selectBox.SetEnd(math.Vec2{X: e.X, Y: e.Y}.Scale(v.ratio))
	v.selectBox.SetVisible(false, false)
	v.redraw = true

	r, ok := v.drag.Release(int32(e.X), int32(e.Y))
	if !ok {
		return
	}
	defer v.drag.Done()

	picked, err := v.PickItems(r)
	if err != nil {
		v.log.Warn("pick failed", zap.Error(err))
		picked = nil
	}
	v.selection.Apply(picked, e.Mods.Has(v.opts.AddModifier))
	v.log.Debug("selection changed",
		zap.Int("picked", len(picked)),
		zap.Int("selected", v.selection.Len()),
	)
}

// wheel zooms, or narrows the field of view with ctrl held.
func (v *Viewport) wheel(e input.Event) {
	delta := e.WheelX
	if delta == 0 {
		delta = e.WheelY
	}
	delta *= v.opts.ZoomSpeed
	if e.Mods.Has(input.ModCtrl) {
		v.cam.ZoomFOV(delta)
	} else {
		v.cam.Zoom(delta)
	}
	v.redraw = true
}

func (v *Viewport) keyPress(e input.Event) bool {
	switch e.Key {
	case '1':
		p := v.cam.Params()
		v.log.Info("camera",
			zap.String("pos", formatVec(p.Position)),
			zap.Float32("pitch", p.Pitch),
			zap.Float32("yaw", p.Yaw),
			zap.Float32("roll", p.Roll),
			zap.Float32("fov", p.FOV),
		)
		return true
	case '2':
		v.cam.SetParams(v.opts.PresetView)
	case 'r':
		v.cam.Reset()
	default:
		return false
	}
	v.redraw = true
	return true
}

func formatVec(p math.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}
