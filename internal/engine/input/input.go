// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDrag
	EventClick
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	DeltaX int
	DeltaY int
	X      int
	Y      int
}

// Input collects events each frame and tracks held keys and mouse drag.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	dragging       bool
	dragDX, dragDY int
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dragDX, i.dragDY = 0, 0

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			code := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: code})
				}
				i.held[code] = true
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
				delete(i.held, code)
			}

		case *sdl.MouseButtonEvent:
			switch e.Button {
			case sdl.BUTTON_RIGHT:
				i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
			case sdl.BUTTON_LEFT:
				if e.Type == sdl.MOUSEBUTTONDOWN {
					i.events = append(i.events, Event{Type: EventClick, X: int(e.X), Y: int(e.Y)})
				}
			}

		case *sdl.MouseMotionEvent:
			if i.dragging {
				i.dragDX += int(e.XRel)
				i.dragDY += int(e.YRel)
			}
		}
	}

	if i.dragDX != 0 || i.dragDY != 0 {
		i.events = append(i.events, Event{Type: EventMouseDrag, DeltaX: i.dragDX, DeltaY: i.dragDY})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Axis returns +1 if pos is held, -1 if neg is held, 0 for both or neither.
func (i *Input) Axis(pos, neg sdl.Scancode) float32 {
	var v float32
	if i.held[pos] {
		v++
	}
	if i.held[neg] {
		v--
	}
	return v
}

// Drag returns the right-button mouse drag accumulated during the last Update.
func (i *Input) Drag() (int, int) {
	return i.dragDX, i.dragDY
}
