// Package sdlinput translates SDL2 events into input events.
package sdlinput

import (
	"unicode"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Beginsangod/Painter/internal/engine/input"
)

// WheelStep is the delta of one wheel notch.
const WheelStep = 120

// Poll drains the SDL queue into in, replacing the previous frame's events.
// It returns true when the window should close.
func Poll(in *input.Input) bool {
	in.Reset()
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := Translate(event)
		if !ok {
			continue
		}
		in.Push(e)
		if e.Type == input.EventQuit {
			quit = true
		}
	}
	return quit
}

// Translate converts one SDL event. ok is false for events the viewport
// does not handle.
func Translate(event sdl.Event) (e input.Event, ok bool) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		if ev.Event == sdl.WINDOWEVENT_RESIZED || ev.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(ev.Data1),
				Height: int(ev.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		if ev.Repeat != 0 {
			return e, false
		}
		e = input.Event{
			Type: input.EventKeyUp,
			Key:  keyRune(ev.Keysym.Sym),
			Mods: modifiers(sdl.Keymod(ev.Keysym.Mod)),
		}
		if ev.Type == sdl.KEYDOWN {
			e.Type = input.EventKeyDown
		}
		return e, true

	case *sdl.MouseMotionEvent:
		return input.Event{
			Type:    input.EventMouseMove,
			X:       float32(ev.X),
			Y:       float32(ev.Y),
			Buttons: buttonMask(ev.State),
			Mods:    modifiers(sdl.GetModState()),
		}, true

	case *sdl.MouseButtonEvent:
		_, _, held := sdl.GetMouseState()
		e = input.Event{
			Type:    input.EventMouseUp,
			X:       float32(ev.X),
			Y:       float32(ev.Y),
			Button:  button(ev.Button),
			Buttons: buttonMask(held),
			Mods:    modifiers(sdl.GetModState()),
		}
		if ev.Type == sdl.MOUSEBUTTONDOWN {
			e.Type = input.EventMouseDown
		}
		return e, true

	case *sdl.MouseWheelEvent:
		x, y := float32(ev.X), float32(ev.Y)
		if ev.Direction == sdl.MOUSEWHEEL_FLIPPED {
			x, y = -x, -y
		}
		return input.Event{
			Type:   input.EventWheel,
			WheelX: x * WheelStep,
			WheelY: y * WheelStep,
			Mods:   modifiers(sdl.GetModState()),
		}, true
	}
	return e, false
}

func keyRune(sym sdl.Keycode) rune {
	if sym <= 0 || sym > unicode.MaxASCII {
		return 0
	}
	return unicode.ToLower(rune(sym))
}

func button(b uint8) input.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return input.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return input.ButtonRight
	}
	return 0
}

func buttonMask(state uint32) input.Button {
	var held input.Button
	if state&sdl.ButtonLMask() != 0 {
		held |= input.ButtonLeft
	}
	if state&sdl.ButtonMMask() != 0 {
		held |= input.ButtonMiddle
	}
	if state&sdl.ButtonRMask() != 0 {
		held |= input.ButtonRight
	}
	return held
}

func modifiers(mod sdl.Keymod) input.Modifier {
	var m input.Modifier
	if mod&sdl.KMOD_SHIFT != 0 {
		m |= input.ModShift
	}
	if mod&sdl.KMOD_CTRL != 0 {
		m |= input.ModCtrl
	}
	if mod&sdl.KMOD_ALT != 0 {
		m |= input.ModAlt
	}
	return m
}
