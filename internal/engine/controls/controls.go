// Package controls turns raw controller state into the wide field-of-view
// parameters: FOV angle, Möbius zoom and the visualisation toggles.
package controls

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/activation"
	"github.com/Faultbox/flexfov/internal/logger"
)

// FOV bounds in degrees. Dropping below OffBound turns wide FOV off.
const (
	OffBound float32 = 90
	MaxFOV   float32 = 360
)

// Cue is an audio cue fired by control transitions.
type Cue int

const (
	// CuePinch plays when zoom is grabbed at its centre, or first deflected.
	CuePinch Cue = iota
	// CueRelease plays when zoom is grabbed away from its centre.
	CueRelease
	// CueDisable plays when the FOV drops below the off bound.
	CueDisable
	// CueEnable plays when the FOV rises back above the off bound.
	CueEnable
	// CueMove plays while the FOV scrolls inside its range.
	CueMove
)

// String returns the cue name used in config files.
func (c Cue) String() string {
	switch c {
	case CuePinch:
		return "pinch"
	case CueRelease:
		return "release"
	case CueDisable:
		return "disable"
	case CueEnable:
		return "enable"
	case CueMove:
		return "move"
	}
	return "unknown"
}

// Cues plays audio cues.
type Cues interface {
	Play(Cue)
}

// CameraModes is the host camera hook poked when edit mode starts.
type CameraModes interface {
	CycleMode()
}

// Toggle holds the persistent wide-FOV on/off switch.
type Toggle interface {
	Enabled() bool
	SetEnabled(bool)
}

// Config holds tuning for the state machine.
type Config struct {
	FOV        float32 // initial FOV, degrees
	HoldFrames int     // edit trigger must be held for more than this many frames
	ScrollRate float32 // degrees per second at full stick
	FrameRate  float32 // frames per second of the update loop
	Bindings   Bindings
}

// DefaultConfig returns 180° with a 5 frame hold, 90°/s at 30 fps.
func DefaultConfig() Config {
	return Config{
		FOV:        180,
		HoldFrames: 5,
		ScrollRate: 90,
		FrameRate:  30,
		Bindings:   DefaultBindings(),
	}
}

// State is the control state machine. It is updated once per frame.
type State struct {
	cfg     Config
	policy  *activation.Policy
	cues    Cues
	cameras CameraModes
	log     *zap.Logger

	fov        float32
	zoom       float32
	manualZoom bool

	useGrid bool
	useAlt  bool

	controlsOn bool
	zooming    bool
	editCount  int
	heldGrid   bool
	heldAlt    bool

	waitingForCenter   bool
	waitingForDecenter bool
}

// New creates the state machine. cues and cameras may be nil.
func New(cfg Config, policy *activation.Policy, cues Cues, cameras CameraModes) *State {
	s := &State{
		cfg:     cfg,
		policy:  policy,
		cues:    cues,
		cameras: cameras,
		log:     logger.Named("controls"),
		fov:     clamp(cfg.FOV, OffBound, MaxFOV),
		zoom:    -1,
	}
	if s.cfg.FrameRate <= 0 {
		s.cfg.FrameRate = 30
	}
	return s
}

// Update consumes one frame of controller input. primary drives the
// controls; mirror is a secondary slot that gets suppressed alongside it.
// Either may be nil.
func (s *State) Update(scene activation.Scene, primary, mirror *Controller) {
	if !s.policy.SceneAllows(scene) || primary == nil {
		return
	}

	b := s.cfg.Bindings
	edit := primary.Down(b.Edit)
	zoom := primary.Down(b.Zoom)
	grid := primary.Down(b.Grid)
	alt := primary.Down(b.Projection)

	if !zoom {
		s.zooming = false
	}
	if !edit && s.controlsOn {
		s.controlsOn = false
		s.log.Debug("edit mode off")
	}

	if !s.controlsOn {
		if edit {
			s.editCount++
		} else {
			s.editCount = 0
		}
		if s.editCount > s.cfg.HoldFrames {
			s.enterEditMode()
		}
		return
	}

	// Toggles fire on the rising edge.
	if grid && !s.heldGrid {
		s.useGrid = !s.useGrid
	}
	if alt && !s.heldAlt {
		s.useAlt = !s.useAlt
	}
	s.heldGrid = grid
	s.heldAlt = alt

	stickX := finite(primary.StickX) / StickRange
	stickY := finite(primary.StickY) / StickRange
	if stickX == 0 {
		s.waitingForCenter = false
	}

	if zoom {
		s.updateZoom(stickX)
	} else if !s.waitingForCenter {
		s.scrollFOV(stickY / s.cfg.FrameRate)
	}

	primary.Suppress()
	if mirror != nil {
		mirror.Suppress()
	}
}

func (s *State) enterEditMode() {
	s.controlsOn = true
	if s.cameras != nil {
		s.cameras.CycleMode()
	}

	// Sitting exactly on the bound would never cross it again.
	if s.fov == OffBound {
		s.fov += 0.1
	}
	s.log.Debug("edit mode on", zap.Float32("fov", s.fov))
}

func (s *State) updateZoom(stickX float32) {
	if !s.zooming {
		if s.Zoom() == 0 {
			s.play(CuePinch)
			s.waitingForDecenter = false
		} else {
			s.play(CueRelease)
			s.waitingForDecenter = true
		}
	}
	if s.waitingForDecenter && stickX != 0 {
		s.waitingForDecenter = false
		s.play(CuePinch)
	}

	s.zooming = true
	s.zoom = clamp(stickX, -1, 1)
	s.manualZoom = true
	s.waitingForCenter = true
}

// scrollFOV integrates a per-frame stick fraction into the FOV.
func (s *State) scrollFOV(perFrame float32) {
	s.fov += perFrame * s.cfg.ScrollRate

	if s.policy.Enabled() {
		if s.fov < OffBound {
			s.policy.SetEnabled(false)
			s.play(CueDisable)
			s.log.Info("wide fov off")
		}
	} else if s.fov > OffBound {
		s.policy.SetEnabled(true)
		s.play(CueEnable)
		s.log.Info("wide fov on", zap.Float32("fov", s.fov))
	}

	switch {
	case s.fov < OffBound:
		s.fov = OffBound
	case s.fov > MaxFOV:
		s.fov = MaxFOV
	default:
		if perFrame != 0 {
			s.play(CueMove)
			s.manualZoom = false
		}
	}
}

func (s *State) play(c Cue) {
	if s.cues != nil {
		s.cues.Play(c)
	}
}

// FOV returns the field of view in degrees, always within [90, 360].
func (s *State) FOV() float32 {
	return s.fov
}

// SetFOV sets the field of view, clamped to [90, 360].
func (s *State) SetFOV(deg float32) {
	s.fov = clamp(deg, OffBound, MaxFOV)
}

// Zoom returns the Möbius zoom. Unless set by hand it follows the FOV:
// -1 up to 180°, then rising linearly to 0 at 360°.
func (s *State) Zoom() float32 {
	if s.manualZoom {
		return s.zoom
	}
	if s.fov > 180 {
		t := (s.fov - 180) / 180
		return -(1 - t)
	}
	return -1
}

// ManualZoom reports whether the zoom was set by hand.
func (s *State) ManualZoom() bool { return s.manualZoom }

// UseFaceGrid reports whether the face grid ("rubix") overlay is on.
func (s *State) UseFaceGrid() bool { return s.useGrid }

// UseAltProjection reports whether the alternate cube projection is on.
func (s *State) UseAltProjection() bool { return s.useAlt }

// ControlsOn reports whether edit mode is active.
func (s *State) ControlsOn() bool { return s.controlsOn }

// Zooming reports whether the zoom trigger is being held in edit mode.
func (s *State) Zooming() bool { return s.zooming }

// finite maps NaN and infinite stick readings to a centred stick.
func finite(v float32) float32 {
	if math32.IsNaN(v) || math32.IsInf(v, 0) {
		return 0
	}
	return v
}

// clamp returns lo for NaN.
func clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
