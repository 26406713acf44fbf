// Package flexfov wires the wide field-of-view subsystems together and
// exposes the hooks a fixed-function host calls while it renders a frame.
package flexfov

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/config"
	"github.com/Faultbox/flexfov/internal/engine/activation"
	"github.com/Faultbox/flexfov/internal/engine/billboard"
	"github.com/Faultbox/flexfov/internal/engine/camera"
	"github.com/Faultbox/flexfov/internal/engine/cmdstream"
	"github.com/Faultbox/flexfov/internal/engine/composite"
	"github.com/Faultbox/flexfov/internal/engine/controls"
	"github.com/Faultbox/flexfov/internal/engine/cubemap"
	"github.com/Faultbox/flexfov/internal/engine/debug"
	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/fog"
	"github.com/Faultbox/flexfov/internal/engine/gpu"
	"github.com/Faultbox/flexfov/internal/engine/lighting"
	"github.com/Faultbox/flexfov/internal/engine/multipass"
	"github.com/Faultbox/flexfov/internal/engine/shader"
	"github.com/Faultbox/flexfov/internal/logger"
	"github.com/Faultbox/flexfov/pkg/math"
)

// Host is what the embedding renderer supplies.
type Host struct {
	Device gpu.Device
	Stream *cmdstream.Stream

	// Cues and Cameras are optional.
	Cues    controls.Cues
	Cameras controls.CameraModes

	// UnloadShader, if set, runs right before the composite draw.
	UnloadShader func()
}

// System is the wide field-of-view subsystem.
type System struct {
	cfg  config.FlexFOVConfig
	host Host
	log  *zap.Logger

	policy   *activation.Policy
	controls *controls.State
	remap    camera.Remapper
	fog      fog.Planes
	hooks    cmdstream.Hooks
	driver   *multipass.Driver

	cube *cubemap.Manager
	comp *composite.Pass

	active bool
	last   multipass.FrameStats

	fatal func(msg string, fields ...zap.Field)
}

// New creates the subsystem. GPU resources are created by Init.
func New(cfg config.FlexFOVConfig, host Host) *System {
	excluded := make([]activation.Action, 0, len(cfg.ExcludedActions))
	for _, a := range cfg.ExcludedActions {
		excluded = append(excluded, activation.Action(a))
	}

	s := &System{
		cfg:    cfg,
		host:   host,
		log:    logger.Named("flexfov"),
		policy: activation.New(cfg.Enabled, excluded...),
		fatal:  logger.Fatal,
	}

	ctl := controls.DefaultConfig()
	ctl.FOV = cfg.FOV
	ctl.HoldFrames = cfg.HoldFrames
	ctl.ScrollRate = cfg.ScrollRate
	ctl.FrameRate = cfg.FrameRate
	s.controls = controls.New(ctl, s.policy, host.Cues, host.Cameras)

	s.driver = multipass.NewDriver(s.policy, host.Stream, &s.hooks, s)
	return s
}

// Init allocates the cube render target and compiles the composite shader.
// A shader that fails to build aborts the process with its diagnostic.
func (s *System) Init() error {
	cube, err := cubemap.New(s.host.Device, s.cfg.Seamless)
	if err != nil {
		return fmt.Errorf("flexfov init: %w", err)
	}

	comp, err := composite.New(s.host.Device, s.host.UnloadShader)
	if err != nil {
		cube.Destroy()
		if errors.Is(err, shader.ErrBuild) {
			s.fatal("composite shader failed to build", zap.Error(err))
		}
		return fmt.Errorf("flexfov init: %w", err)
	}

	s.cube = cube
	s.comp = comp
	s.log.Info("initialized",
		zap.Int32("face_size", cube.Size()),
		zap.Float32("fov", s.controls.FOV()),
		zap.Bool("enabled", s.policy.Enabled()))
	return nil
}

// Close releases GPU resources.
func (s *System) Close() {
	if s.comp != nil {
		s.comp.Destroy()
		s.comp = nil
	}
	if s.cube != nil {
		s.cube.Destroy()
		s.cube = nil
	}
}

// IsOn reports whether wide FOV renders for the given scene.
func (s *System) IsOn(scene activation.Scene) bool {
	return s.cube != nil && s.policy.IsActive(scene)
}

// Policy returns the activation policy.
func (s *System) Policy() *activation.Policy {
	return s.policy
}

// Controls returns the control state machine.
func (s *System) Controls() *controls.State {
	return s.controls
}

// UpdateInput runs the control state machine for one frame. It may blank
// primary and mirror so the host does not act on the same input.
func (s *System) UpdateInput(scene activation.Scene, primary, mirror *controls.Controller) {
	s.controls.Update(scene, primary, mirror)
}

// ProcessRoot replaces the host's root traversal. It records one pass when
// wide FOV is off, otherwise the sky pass and six face passes together with
// the playback markers.
func (s *System) ProcessRoot(scene activation.Scene, t multipass.Traverser) multipass.FrameStats {
	s.active = s.IsOn(scene)
	if s.active {
		s.cube.Resize(false)
	}

	if s.cube == nil {
		s.hooks.Reset()
		t.Traverse(face.Single())
		s.last = multipass.FrameStats{Passes: []face.Pass{face.Single()}}
		return s.last
	}

	s.last = s.driver.RenderFrame(scene, t)
	s.log.Debug("frame recorded",
		zap.Bool("active", s.last.Active),
		zap.Int("passes", len(s.last.Passes)),
		zap.Int("markers", len(s.last.Markers)))
	return s.last
}

// Active reports whether the frame being recorded or played renders wide.
func (s *System) Active() bool {
	return s.active
}

// CommitCamera installs the camera for pass. Face passes get the basis
// rotated onto their face.
func (s *System) CommitCamera(pass face.Pass, b camera.Basis) camera.FaceBasis {
	return s.remap.Commit(pass, b)
}

// SetLightDirection rotates a light direction into the face bound at
// playback time.
func (s *System) SetLightDirection(dir *lighting.Direction) {
	pass := face.Single()
	if s.cube != nil {
		pass = s.cube.Current()
	}
	lighting.Apply(s.active, pass, dir)
}

// SetFogPlanes records the near and far planes of the current projection.
func (s *System) SetFogPlanes(near, far float32) {
	if s.active {
		s.fog.Capture(near, far)
	}
}

// FogScale returns the radial fog depth for a vertex. ok is false when the
// host should keep its own planar fog.
func (s *System) FogScale(modelView math.Mat4, v [3]float32) (z, w float32, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	return s.fog.Scale(modelView, v)
}

// Billboard orients a sprite toward the true camera position. ok is false
// when the host should use its own billboard.
func (s *System) Billboard(pass face.Pass, mode billboard.Mode, src mgl32.Mat4, pos, cam mgl32.Vec3) (mgl32.Mat4, bool) {
	return billboard.Apply(s.active, pass, mode, src, pos, cam)
}

// Play executes the recorded stream, switching render targets at the
// markers.
func (s *System) Play() int {
	return s.host.Stream.Play(&s.hooks, s.host.Device.Flush)
}

// Resize reallocates the cube faces if the screen's larger side changed.
func (s *System) Resize() bool {
	if s.cube == nil {
		return false
	}
	return s.cube.Resize(false)
}

// Params returns the composite uniforms for the current state.
func (s *System) Params() composite.Params {
	return composite.Params{
		Pitch:         s.remap.TruePitch(),
		FOV:           s.controls.FOV(),
		Zoom:          s.controls.Zoom(),
		FaceGrid:      s.controls.UseFaceGrid(),
		AltProjection: s.controls.UseAltProjection(),
		ControlsOn:    s.controls.ControlsOn(),
		Zooming:       s.controls.Zooming(),
	}
}

// BindFace implements multipass.Targets.
func (s *System) BindFace(f face.Face) {
	if err := s.cube.BindFace(f); err != nil {
		s.log.Error("binding cube face", zap.Stringer("face", f), zap.Error(err))
	}
}

// Composite implements multipass.Targets.
func (s *System) Composite() {
	s.comp.Draw(s.cube.ColorTexture(), s.Params())
	s.cube.Release()
}

// SaveFaces writes the six faces of the last frame as one image.
func (s *System) SaveFaces(c *debug.Capture) (string, error) {
	if s.cube == nil {
		return "", errors.New("flexfov not initialized")
	}
	return c.SaveFaces(s.cube.ReadFace, int(s.cube.Size()))
}
