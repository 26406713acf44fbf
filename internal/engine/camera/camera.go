// Package camera provides the host orbit camera and the per-face basis
// remapping used by wide field-of-view rendering.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flexfov/pkg/math"
)

// Preset is a host camera distance preset. Wide FOV edit mode cycles it.
type Preset int

const (
	PresetFar Preset = iota + 1
	PresetClose
)

var presetDistance = map[Preset]float32{
	PresetFar:   600,
	PresetClose: 300,
}

// OrbitLimits bounds the orbit.
type OrbitLimits struct {
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32 // radians
}

// OrbitCamera circles a center point at a distance, pitch and yaw.
type OrbitCamera struct {
	Center   math.Vec3
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	Limits          OrbitLimits
	DragSensitivity float32 // radians per drag unit
	ZoomSensitivity float32 // fraction of distance per wheel step

	preset Preset
}

// NewOrbitCamera returns a camera on the far preset.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance: presetDistance[PresetFar],
		Pitch:    0.3,
		Limits: OrbitLimits{
			MinDistance: 100,
			MaxDistance: 5000,
			MinPitch:    -1.2,
			MaxPitch:    1.4,
		},
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		preset:          PresetFar,
	}
}

// Position returns the eye in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	offset := math.Vec3{X: cp * sy, Y: sp, Z: cp * cy}
	return c.Center.Add(offset.Scale(c.Distance))
}

// Basis returns the true camera basis, looking at the center with +Y up.
func (c *OrbitCamera) Basis() Basis {
	eye := c.Position()
	back := eye.Sub(c.Center).Normalize()
	right := math.Vec3{Y: 1}.Cross(back).Normalize()
	return NewBasis(right, back.Cross(right), back, eye)
}

// HandleDrag orbits by a mouse drag or stick delta.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.Limits.MinPitch, c.Limits.MaxPitch)
}

// HandleZoom moves in or out proportionally to the current distance.
func (c *OrbitCamera) HandleZoom(steps float32) {
	d := c.Distance * (1 - steps*c.ZoomSensitivity)
	c.Distance = clamp(d, c.Limits.MinDistance, c.Limits.MaxDistance)
}

// Preset returns the active preset.
func (c *OrbitCamera) Preset() Preset {
	return c.preset
}

// SetPreset switches preset and returns the previous one.
func (c *OrbitCamera) SetPreset(p Preset) Preset {
	prev := c.preset
	if d, ok := presetDistance[p]; ok {
		c.preset = p
		c.Distance = d
	}
	return prev
}

// CycleMode flips between the far and close presets.
func (c *OrbitCamera) CycleMode() {
	if c.preset == PresetFar {
		c.SetPreset(PresetClose)
	} else {
		c.SetPreset(PresetFar)
	}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
