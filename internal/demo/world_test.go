package demo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flexfov/internal/config"
	"github.com/Faultbox/flexfov/internal/engine/activation"
	"github.com/Faultbox/flexfov/internal/engine/billboard"
	"github.com/Faultbox/flexfov/internal/engine/camera"
	"github.com/Faultbox/flexfov/internal/engine/cmdstream"
	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/fog"
	"github.com/Faultbox/flexfov/internal/engine/gpu/gputest"
	"github.com/Faultbox/flexfov/internal/engine/renderer"
	"github.com/Faultbox/flexfov/internal/flexfov"
)

type drawCall struct {
	mesh  renderer.Mesh
	state renderer.DrawState
}

type drawRecorder struct {
	begins int
	draws  []drawCall
}

func (r *drawRecorder) Begin(width, height int32, sky mgl32.Vec4) { r.begins++ }

func (r *drawRecorder) Draw(mesh renderer.Mesh, d renderer.DrawState) {
	r.draws = append(r.draws, drawCall{mesh, d})
}

type fixture struct {
	world  *World
	sys    *flexfov.System
	stream *cmdstream.Stream
	draw   *drawRecorder
	gpu    *gputest.Recorder
	cam    *camera.OrbitCamera
}

func newFixture(t *testing.T, enabled bool) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.FlexFOV.Enabled = enabled

	f := &fixture{
		stream: &cmdstream.Stream{},
		draw:   &drawRecorder{},
		gpu:    gputest.New(800, 600),
		cam:    camera.NewOrbitCamera(),
	}
	f.sys = flexfov.New(cfg.FlexFOV, flexfov.Host{Device: f.gpu, Stream: f.stream})
	if err := f.sys.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(f.sys.Close)

	f.world = NewWorld(cfg.Scene, f.sys, f.stream, f.draw, f.cam, f.gpu.Dimensions)
	return f
}

func (f *fixture) frame() {
	f.stream.Reset()
	f.sys.ProcessRoot(activation.Snapshot{Present: true}, f.world)
	f.sys.Play()
}

func TestProjectionFlipsFacePasses(t *testing.T) {
	single := Projection(face.Single(), 60, 4.0/3.0, 10, 4000)
	front := Projection(face.On(face.Front), 60, 4.0/3.0, 10, 4000)

	if single[5] <= 0 {
		t.Errorf("single pass y scale = %v, want positive", single[5])
	}
	if front[5] >= 0 {
		t.Errorf("face pass y scale = %v, want flipped", front[5])
	}
	// 90° square frustum: |x scale| == |y scale| == 1.
	if math32.Abs(front[0]-1) > 1e-5 || math32.Abs(front[5]+1) > 1e-5 {
		t.Errorf("face pass scales = %v, %v, want 1, -1", front[0], front[5])
	}
	if Projection(face.Sky(), 60, 2, 10, 4000) != Projection(face.Single(), 60, 2, 10, 4000) {
		t.Error("sky pass should use the host projection")
	}
}

func TestFogStartMatchesProjection(t *testing.T) {
	cfg := config.Default().Scene
	got := FogStart(cfg)

	clip := mgl32.Perspective(mgl32.DegToRad(60), 1, cfg.Near, cfg.Far).
		Mul4x1(mgl32.Vec4{0, 0, -cfg.FogStart * cfg.Far, 1})
	want := clip.Z() / clip.W()
	if math32.Abs(got-want) > 1e-4 {
		t.Errorf("FogStart = %v, want %v", got, want)
	}
	if got <= -1 || got >= 1 {
		t.Errorf("FogStart = %v outside NDC", got)
	}
}

func TestWorldLayout(t *testing.T) {
	f := newFixture(t, false)
	if got, want := len(f.world.Props), groundTiles*groundTiles+12; got != want {
		t.Errorf("props = %d, want %d", got, want)
	}
	if len(f.world.Sprites) != 16 {
		t.Errorf("sprites = %d, want 16", len(f.world.Sprites))
	}
}

func TestSingleFrame(t *testing.T) {
	f := newFixture(t, false)
	f.frame()

	if f.draw.begins != 1 {
		t.Errorf("begins = %d, want 1", f.draw.begins)
	}
	want := len(f.world.Props) + len(f.world.Sprites)
	if len(f.draw.draws) != want {
		t.Fatalf("draws = %d, want %d", len(f.draw.draws), want)
	}
	if f.gpu.Count("AttachCubeFace") != 1 {
		t.Error("single frame bound cube faces")
	}

	// Host billboards face the screen: no rotation in the modelview.
	last := f.draw.draws[len(f.draw.draws)-1]
	if last.mesh != renderer.MeshSprite {
		t.Fatalf("last draw = %s, want sprite", last.mesh)
	}
	size := f.world.Sprites[len(f.world.Sprites)-1].Size
	if last.state.ModelView[0] != size || last.state.ModelView[5] != size || last.state.ModelView[1] != 0 {
		t.Errorf("host billboard is rotated: %v", last.state.ModelView)
	}
}

func TestActiveFrame(t *testing.T) {
	f := newFixture(t, true)
	f.gpu.Reset()
	f.frame()

	if f.draw.begins != 1 {
		t.Errorf("begins = %d, want only the sky pass", f.draw.begins)
	}
	perFace := len(f.world.Props) + len(f.world.Sprites)
	if len(f.draw.draws) != face.Count*perFace {
		t.Fatalf("draws = %d, want %d", len(f.draw.draws), face.Count*perFace)
	}
	if f.gpu.Count("AttachCubeFace") != face.Count || f.gpu.Count("DrawQuad") != 1 {
		t.Error("cube faces or composite missing from playback")
	}

	// Fog follows the true distance to the first ground tile.
	planes := fog.Planes{Near: 10, Far: 4000}
	eye := f.cam.Position()
	tile := f.world.Props[0].Model.Col(3)
	d := mgl32.Vec3{tile.X() - eye.X, tile.Y() - eye.Y, tile.Z() - eye.Z}.Len()
	z, w := planes.Depth(d)
	for i, fc := range face.All {
		got := f.draw.draws[i*perFace].state.FogDepth
		if math32.Abs(got-z/w) > 1e-4 {
			t.Errorf("%s fog depth = %v, want %v", fc, got, z/w)
		}
	}

	// The light seen on each face is the front light rotated onto it.
	front := f.draw.draws[0].state.Light
	left := f.draw.draws[perFace].state.Light
	if math32.Abs(left.X()+front.Z()) > 1e-5 || math32.Abs(left.Z()-front.X()) > 1e-5 {
		t.Errorf("left light %v is not front %v rotated", left, front)
	}
}

func TestActiveSpritesFaceCamera(t *testing.T) {
	f := newFixture(t, true)
	f.frame()

	eye := f.cam.Position()
	view := mgl32.Mat4(camera.ForFace(f.cam.Basis(), face.Front).ViewMatrix())
	inv := view.Inv()
	for i, s := range f.world.Sprites {
		if s.Mode != billboard.ModeCylinder {
			continue
		}
		// Sprite +Z in world space, taken from the front face draw.
		call := f.draw.draws[len(f.world.Props)+i]
		fwd := inv.Mul4(call.state.ModelView).Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
		toEye := mgl32.Vec3{eye.X - s.Pos.X(), 0, eye.Z - s.Pos.Z()}.Normalize()
		if fwd.Dot(toEye) < 0.99 {
			t.Errorf("sprite %d faces %v, want %v", i, fwd, toEye)
		}
	}
}
