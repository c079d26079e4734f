// Package input turns SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/reconview/internal/engine/picking"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventWake
	EventExpose
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Mods   picking.Mods
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
	// Buttons is the SDL button mask held during a mouse move.
	Buttons uint32
}

// Waker recognizes wake events posted by the window.
type Waker interface {
	IsWake(ev sdl.Event) bool
}

// Input handles all input processing.
type Input struct {
	events []Event
	waker  Waker
}

// New creates a new input handler. waker may be nil.
func New(waker Waker) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		waker:  waker,
	}
}

// Wait blocks up to timeoutMs for the next event, then drains every event
// already queued. It returns true when the viewer should quit.
func (i *Input) Wait(timeoutMs int) bool {
	i.events = i.events[:0]

	event := sdl.WaitEventTimeout(timeoutMs)
	for ; event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			return true
		}
	}
	return false
}

// Update polls queued events without blocking. It returns true when the
// viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			return true
		}
	}
	return false
}

func (i *Input) translate(event sdl.Event) bool {
	if i.waker != nil && i.waker.IsWake(event) {
		i.events = append(i.events, Event{Type: EventWake})
		return false
	}

	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		case sdl.WINDOWEVENT_EXPOSED:
			i.events = append(i.events, Event{Type: EventExpose})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			i.events = append(i.events, Event{
				Type: EventKeyDown,
				Key:  e.Keysym.Sym,
				Mods: ModsFromKeymod(sdl.Keymod(e.Keysym.Mod)),
			})
		}

	case *sdl.MouseMotionEvent:
		i.events = append(i.events, Event{
			Type:    EventMouseMove,
			MouseX:  int(e.X),
			MouseY:  int(e.Y),
			DeltaX:  int(e.XRel),
			DeltaY:  int(e.YRel),
			Buttons: e.State,
			Mods:    ModsFromKeymod(sdl.GetModState()),
		})

	case *sdl.MouseButtonEvent:
		ev := Event{
			Type:   EventMouseUp,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
			Mods:   ModsFromKeymod(sdl.GetModState()),
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		wheel := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			wheel = -wheel
		}
		i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: wheel})
	}
	return false
}

// Events returns the events from the last Wait or Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed since the last Wait
// or Update.
func (i *Input) IsKeyPressed(key sdl.Keycode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// ModsFromKeymod converts SDL modifier flags.
func ModsFromKeymod(m sdl.Keymod) picking.Mods {
	return picking.Mods{
		Alt:   m&sdl.KMOD_ALT != 0,
		Ctrl:  m&sdl.KMOD_CTRL != 0,
		Shift: m&sdl.KMOD_SHIFT != 0,
	}
}

// ButtonHeld reports whether button is set in an SDL button mask.
func ButtonHeld(mask uint32, button uint8) bool {
	return mask&(1<<(button-1)) != 0
}
