// Package input handles SDL2 input events and folds keyboard and game
// controller state into a controls.Controller snapshot.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/controls"
	"github.com/Faultbox/flexfov/internal/logger"
)

// Event types for host use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DX, DY int
	Wheel  int
	Button uint8
}

// KeyMap binds keyboard keys to controller buttons.
type KeyMap map[sdl.Scancode]controls.Button

// DefaultKeys returns Tab as the edit trigger, Z for zoom, G and P for the
// grid and projection toggles.
func DefaultKeys() KeyMap {
	return KeyMap{
		sdl.SCANCODE_TAB:    controls.ButtonR,
		sdl.SCANCODE_Z:      controls.ButtonZ,
		sdl.SCANCODE_G:      controls.ButtonA,
		sdl.SCANCODE_P:      controls.ButtonB,
		sdl.SCANCODE_RETURN: controls.ButtonStart,
	}
}

var padButtons = map[sdl.GameControllerButton]controls.Button{
	sdl.CONTROLLER_BUTTON_RIGHTSHOULDER: controls.ButtonR,
	sdl.CONTROLLER_BUTTON_LEFTSHOULDER:  controls.ButtonZ,
	sdl.CONTROLLER_BUTTON_A:             controls.ButtonA,
	sdl.CONTROLLER_BUTTON_B:             controls.ButtonB,
	sdl.CONTROLLER_BUTTON_START:         controls.ButtonStart,
}

// padState is one controller's buttons and left stick in SDL units.
type padState struct {
	buttons controls.Button
	x, y    int16
}

// Input handles all input processing.
type Input struct {
	events []Event
	keys   KeyMap
	pad    *sdl.GameController
	log    *zap.Logger

	prevDown controls.Button
}

// New creates a new input handler.
func New(keys KeyMap) *Input {
	if keys == nil {
		keys = DefaultKeys()
	}
	return &Input{
		events: make([]Event, 0, 16),
		keys:   keys,
		log:    logger.Named("input"),
	}
}

// Update polls SDL events and converts them to host events.
// Returns true if the host should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DX:     int(e.XRel),
				DY:     int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: int(e.Y)})

		case *sdl.ControllerDeviceEvent:
			i.handleDevice(e)
		}
	}

	return false
}

func (i *Input) handleDevice(e *sdl.ControllerDeviceEvent) {
	switch e.Type {
	case sdl.CONTROLLERDEVICEADDED:
		if i.pad != nil {
			return
		}
		i.pad = sdl.GameControllerOpen(int(e.Which))
		if i.pad != nil {
			i.log.Info("controller connected", zap.String("name", i.pad.Name()))
		}
	case sdl.CONTROLLERDEVICEREMOVED:
		if i.pad != nil {
			i.pad.Close()
			i.pad = nil
			i.log.Info("controller disconnected")
		}
	}
}

// Close releases the game controller.
func (i *Input) Close() {
	if i.pad != nil {
		i.pad.Close()
		i.pad = nil
	}
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

// Controller samples the keyboard and game controller once per frame.
func (i *Input) Controller() controls.Controller {
	state := sdl.GetKeyboardState()
	keyDown := func(sc sdl.Scancode) bool {
		return int(sc) < len(state) && state[sc] != 0
	}

	var pad padState
	if i.pad != nil {
		for b, mask := range padButtons {
			if i.pad.Button(b) != 0 {
				pad.buttons |= mask
			}
		}
		pad.x = i.pad.Axis(sdl.CONTROLLER_AXIS_LEFTX)
		pad.y = i.pad.Axis(sdl.CONTROLLER_AXIS_LEFTY)
	}

	c := fold(keyDown, i.keys, pad, i.prevDown)
	i.prevDown = c.ButtonDown
	return c
}

// deadZone is the stick magnitude, in SDL units, treated as centred.
const deadZone = 7849

// fold merges key and pad state. Arrow keys drive the stick at full
// deflection; stick up is positive Y.
func fold(keyDown func(sdl.Scancode) bool, keys KeyMap, pad padState, prev controls.Button) controls.Controller {
	var c controls.Controller

	for sc, b := range keys {
		if keyDown(sc) {
			c.ButtonDown |= b
		}
	}
	c.ButtonDown |= pad.buttons
	c.ButtonPressed = c.ButtonDown &^ prev

	c.StickX = axis(pad.x)
	c.StickY = -axis(pad.y)
	if keyDown(sdl.SCANCODE_LEFT) {
		c.StickX = -controls.StickRange
	}
	if keyDown(sdl.SCANCODE_RIGHT) {
		c.StickX = controls.StickRange
	}
	if keyDown(sdl.SCANCODE_UP) {
		c.StickY = controls.StickRange
	}
	if keyDown(sdl.SCANCODE_DOWN) {
		c.StickY = -controls.StickRange
	}

	c.StickMag = min(max(abs(c.StickX), abs(c.StickY)), controls.StickRange)
	return c
}

// axis scales an SDL axis value to the controller's stick range.
func axis(v int16) float32 {
	if v > -deadZone && v < deadZone {
		return 0
	}
	return float32(v) / 32767 * controls.StickRange
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
