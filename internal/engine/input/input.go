// Package input normalizes SDL2 events into the gesture vocabulary the
// camera layer consumes: wheel deltas with modifier flags, pinch scale
// deltas, pointer motion, and key chords.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Modifiers is the set of held modifier keys at the time of an event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Gui   bool // Cmd on macOS, Win/Super elsewhere
}

// ModifiersFromSDL converts an SDL modifier bitmask.
func ModifiersFromSDL(state sdl.Keymod) Modifiers {
	return Modifiers{
		Shift: state&sdl.KMOD_SHIFT != 0,
		Ctrl:  state&sdl.KMOD_CTRL != 0,
		Alt:   state&sdl.KMOD_ALT != 0,
		Gui:   state&sdl.KMOD_GUI != 0,
	}
}

// None reports whether no modifier is held.
func (m Modifiers) None() bool {
	return m == Modifiers{}
}

// EventType discriminates normalized events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventPointerMove
	EventPointerDown
	EventPointerUp
	EventWheel
	EventPinch
)

// Event is a processed input event. Fields are populated per type:
// resize carries Width/Height, pointer events X/Y and Button, wheel
// events X/Y (cursor) plus DX/DY in scroll steps, pinch events X/Y
// (gesture centroid) plus Scale as a signed pinch delta.
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Code   sdl.Scancode
	Mods   Modifiers
	Width  int
	Height int
	X, Y   float64
	DX, DY float64
	Scale  float64
	Button uint8
}

// Input polls and normalizes SDL events.
type Input struct {
	events []Event
	width  int
	height int
}

// New creates an input handler. The viewport size seeds pinch centroid
// conversion and is updated automatically on resize events.
func New(width, height int) *Input {
	return &Input{
		events: make([]Event, 0, 16),
		width:  width,
		height: height,
	}
}

// Update polls SDL events and converts them to normalized events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.width = int(e.Data1)
				i.height = int(e.Data2)
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  i.width,
					Height: i.height,
				})
			}

		case *sdl.KeyboardEvent:
			t := EventKeyDown
			if e.Type == sdl.KEYUP {
				t = EventKeyUp
			}
			i.events = append(i.events, Event{
				Type: t,
				Key:  e.Keysym.Sym,
				Code: e.Keysym.Scancode,
				Mods: ModifiersFromSDL(sdl.Keymod(e.Keysym.Mod)),
			})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type: EventPointerMove,
				X:    float64(e.X),
				Y:    float64(e.Y),
				DX:   float64(e.XRel),
				DY:   float64(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			t := EventPointerDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = EventPointerUp
			}
			i.events = append(i.events, Event{
				Type:   t,
				X:      float64(e.X),
				Y:      float64(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			dx := float64(e.PreciseX)
			dy := float64(e.PreciseY)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dx, dy = -dx, -dy
			}
			// Wheel events carry no cursor position; query it.
			mx, my, _ := sdl.GetMouseState()
			i.events = append(i.events, Event{
				Type: EventWheel,
				X:    float64(mx),
				Y:    float64(my),
				DX:   dx,
				DY:   dy,
				Mods: ModifiersFromSDL(sdl.GetModState()),
			})

		case *sdl.MultiGestureEvent:
			if e.NumFingers != 2 {
				break
			}
			// Gesture coordinates are normalized; convert to pixels.
			i.events = append(i.events, Event{
				Type:  EventPinch,
				X:     float64(e.X) * float64(i.width),
				Y:     float64(e.Y) * float64(i.height),
				Scale: float64(e.DDist),
				Mods:  ModifiersFromSDL(sdl.GetModState()),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
