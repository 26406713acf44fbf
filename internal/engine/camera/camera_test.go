package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/pkg/math"
)

const eps = 1e-5

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < eps
}

// tiltedBasis is an orthonormal camera looking down and to the side.
func tiltedBasis() Basis {
	cam := NewOrbitCamera()
	cam.Pitch = 0.4
	cam.Yaw = 0.7
	cam.Center = math.Vec3{X: 10, Y: 20, Z: 30}
	return cam.Basis()
}

func TestRemapOrthonormal(t *testing.T) {
	in := tiltedBasis()

	for _, f := range face.All {
		b := Remap(in, f)
		axes := []math.Vec4{b.Right, b.Up, b.Back}
		for i, a := range axes {
			if !near(a.Length3(), 1) {
				t.Errorf("%s: axis %d length = %f, want 1", f, i, a.Length3())
			}
			for j := i + 1; j < len(axes); j++ {
				if d := a.Dot3(axes[j]); !near(d, 0) {
					t.Errorf("%s: axes %d,%d dot = %f, want 0", f, i, j, d)
				}
			}
		}
		if b.Position != in.Position {
			t.Errorf("%s: position changed", f)
		}

		// Handedness is preserved: right x up = back.
		c := b.Right.XYZ().Cross(b.Up.XYZ())
		if !near(c.Dot(b.Back.XYZ()), 1) {
			t.Errorf("%s: basis is not right-handed", f)
		}
	}
}

func TestRemapTable(t *testing.T) {
	in := Basis{
		Right: math.Vec4{1, 0, 0, 1},
		Up:    math.Vec4{0, 1, 0, 2},
		Back:  math.Vec4{0, 0, 1, 3},
	}

	tests := []struct {
		face            face.Face
		right, up, back math.Vec4
	}{
		{face.Front, in.Right, in.Up, in.Back},
		{face.Left, in.Back.Neg(), in.Up, in.Right},
		{face.Right, in.Back, in.Up, in.Right.Neg()},
		{face.Back, in.Right.Neg(), in.Up, in.Back.Neg()},
		{face.Down, in.Right, in.Back.Neg(), in.Up},
		{face.Up, in.Right, in.Back, in.Up.Neg()},
	}

	for _, tt := range tests {
		got := Remap(in, tt.face)
		if got.Right != tt.right || got.Up != tt.up || got.Back != tt.back {
			t.Errorf("%s: got (%v %v %v), want (%v %v %v)",
				tt.face, got.Right, got.Up, got.Back, tt.right, tt.up, tt.back)
		}
	}
}

func TestPitch(t *testing.T) {
	in := tiltedBasis()

	front := ForFace(in, face.Front)
	want := float32(gomath.Asin(float64(-in.Back[1])))
	if !near(front.Pitch, want) {
		t.Errorf("front pitch = %f, want %f", front.Pitch, want)
	}
	if front.Pitch != Pitch(in) {
		t.Errorf("front pitch = %f, want exactly %f", front.Pitch, Pitch(in))
	}

	for _, f := range face.All {
		p := ForFace(in, f).Pitch
		if p < -gomath.Pi/2 || p > gomath.Pi/2 {
			t.Errorf("%s: pitch %f outside [-90, 90] degrees", f, p)
		}
	}

	// Denormalised input must not produce NaN.
	bad := in
	bad.Back[1] = -1.0001
	if p := Pitch(bad); gomath.IsNaN(float64(p)) || !near(p, gomath.Pi/2) {
		t.Errorf("clamped pitch = %f, want pi/2", p)
	}
}

func TestBillboardRollUpsideDown(t *testing.T) {
	b := Basis{
		Right: math.Vec4{0, 1, 0, 0},
		Up:    math.Vec4{1, -0.5, 0, 0},
		Back:  math.Vec4{0, 0, 1, 0},
	}
	if got := BillboardRoll(b); got != 180 {
		t.Errorf("BillboardRoll() = %f, want 180", got)
	}

	b.Up[1] = 0.5
	if got := BillboardRoll(b); got != 0 {
		t.Errorf("BillboardRoll() upright = %f, want 0", got)
	}
}

func TestBillboardRollLevel(t *testing.T) {
	b := NewBasis(math.Vec3{X: 1}, math.Vec3{Y: 1}, math.Vec3{Z: 1}, math.Vec3{})
	if got := BillboardRoll(b); !near(got, -90) {
		t.Errorf("BillboardRoll() level = %f, want -90", got)
	}
}

func TestRemapperCommit(t *testing.T) {
	var r Remapper
	in := tiltedBasis()

	sky := r.Commit(face.Sky(), in)
	if sky.Basis != in {
		t.Error("sky pass should keep the input basis")
	}

	up := r.Commit(face.On(face.Up), in)
	if up.Basis != Remap(in, face.Up) {
		t.Error("face pass should install the remapped basis")
	}
	if r.TruePitch() != Pitch(in) {
		t.Errorf("TruePitch() = %f, want un-rotated pitch %f", r.TruePitch(), Pitch(in))
	}
	if r.Last().Face != face.Up {
		t.Errorf("Last().Face = %s, want up", r.Last().Face)
	}
}

func TestOrbitBasisLooksAtCenter(t *testing.T) {
	cam := NewOrbitCamera()
	b := cam.Basis()

	view := b.ViewMatrix()
	p := view.TransformAffine([3]float32{0, 0, 0})
	// Rounding grows with distance; compare off-axis error relative to depth.
	tol := 1e-6 * float64(-p.Z)
	if p.Z >= 0 || gomath.Abs(float64(p.X)) > tol || gomath.Abs(float64(p.Y)) > tol {
		t.Errorf("center in view space = %v, want on -Z axis", p)
	}
}

func TestCycleMode(t *testing.T) {
	cam := NewOrbitCamera()
	cam.CycleMode()
	if cam.Preset() != PresetClose || cam.Distance != 300 {
		t.Errorf("after one cycle: preset %d distance %v", cam.Preset(), cam.Distance)
	}
	cam.CycleMode()
	if cam.Preset() != PresetFar || cam.Distance != 600 {
		t.Errorf("after two cycles: preset %d distance %v", cam.Preset(), cam.Distance)
	}
	if prev := cam.SetPreset(Preset(9)); prev != PresetFar || cam.Preset() != PresetFar {
		t.Errorf("unknown preset changed state: prev %d now %d", prev, cam.Preset())
	}
}

func TestOrbitLimits(t *testing.T) {
	cam := NewOrbitCamera()
	cam.HandleDrag(0, 1e6)
	if cam.Pitch != cam.Limits.MaxPitch {
		t.Errorf("Pitch = %v, want clamped to %v", cam.Pitch, cam.Limits.MaxPitch)
	}
	for i := 0; i < 100; i++ {
		cam.HandleZoom(5)
	}
	if cam.Distance != cam.Limits.MinDistance {
		t.Errorf("Distance = %v, want clamped to %v", cam.Distance, cam.Limits.MinDistance)
	}
	if d := cam.Position().Sub(cam.Center).Length(); !near(d/cam.Distance, 1) {
		t.Errorf("eye distance %v, want %v", d, cam.Distance)
	}
}
