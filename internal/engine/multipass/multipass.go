// Package multipass drives the per-frame scene traversals: one ordinary
// pass when wide FOV is off, otherwise a sky pass and one pass per cube
// face, with markers telling playback where to switch render targets.
package multipass

import (
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/activation"
	"github.com/Faultbox/flexfov/internal/engine/cmdstream"
	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/logger"
)

// Traverser runs the host's scene traversal for one pass. Each call must
// only append to the command stream; it may be called seven times a frame.
type Traverser interface {
	Traverse(pass face.Pass)
}

// TraverseFunc adapts a function to Traverser.
type TraverseFunc func(pass face.Pass)

// Traverse calls f(pass).
func (f TraverseFunc) Traverse(pass face.Pass) { f(pass) }

// Positioner reports where the next recorded command will land.
type Positioner interface {
	Position() int
}

// Targets are the playback-time actions the markers trigger.
type Targets interface {
	// BindFace switches rendering to cube face f.
	BindFace(f face.Face)
	// Composite draws the finished cube map to the screen.
	Composite()
}

// Marker names recorded in the hook list.
const (
	CompositeMarker = "composite"
	facePrefix      = "face:"
)

// FaceMarker returns the hook name for face f.
func FaceMarker(f face.Face) string {
	return facePrefix + f.String()
}

// FrameStats summarises one RenderFrame call.
type FrameStats struct {
	Active  bool
	Passes  []face.Pass
	Markers []string
}

// Driver issues the traversals for a frame.
type Driver struct {
	policy  *activation.Policy
	stream  Positioner
	hooks   *cmdstream.Hooks
	targets Targets
	log     *zap.Logger

	wasActive bool
}

// NewDriver creates a driver that records markers for stream into hooks.
func NewDriver(policy *activation.Policy, stream Positioner, hooks *cmdstream.Hooks, targets Targets) *Driver {
	return &Driver{
		policy:  policy,
		stream:  stream,
		hooks:   hooks,
		targets: targets,
		log:     logger.Named("multipass"),
	}
}

// RenderFrame traverses the scene for one frame. Hooks from the previous
// frame are dropped first.
func (d *Driver) RenderFrame(scene activation.Scene, t Traverser) FrameStats {
	d.hooks.Reset()

	active := d.policy.IsActive(scene)
	if active != d.wasActive {
		d.log.Info("wide fov rendering", zap.Bool("active", active))
		d.wasActive = active
	}

	if !active {
		t.Traverse(face.Single())
		return FrameStats{Passes: []face.Pass{face.Single()}}
	}

	stats := FrameStats{
		Active:  true,
		Passes:  make([]face.Pass, 0, face.Count+1),
		Markers: make([]string, 0, face.Count+1),
	}

	// The sky lands on the default framebuffer, underneath the composite.
	t.Traverse(face.Sky())
	stats.Passes = append(stats.Passes, face.Sky())

	for _, f := range face.All {
		name := FaceMarker(f)
		d.hooks.Mark(d.stream.Position(), name, func() { d.targets.BindFace(f) })
		stats.Markers = append(stats.Markers, name)

		pass := face.On(f)
		t.Traverse(pass)
		stats.Passes = append(stats.Passes, pass)
	}

	d.hooks.Mark(d.stream.Position(), CompositeMarker, d.targets.Composite)
	stats.Markers = append(stats.Markers, CompositeMarker)

	return stats
}
