package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/pkg/math"
)

// Basis is a camera orientation as three axis rows plus the eye position.
// Each row carries its translation term in the fourth lane, so swapping
// rows keeps the view transform consistent.
type Basis struct {
	Right    math.Vec4
	Up       math.Vec4
	Back     math.Vec4
	Position math.Vec3
}

// NewBasis builds a basis from world-space axes and an eye position,
// filling in the translation lanes.
func NewBasis(right, up, back, eye math.Vec3) Basis {
	return Basis{
		Right:    right.Vec4(-right.Dot(eye)),
		Up:       up.Vec4(-up.Dot(eye)),
		Back:     back.Vec4(-back.Dot(eye)),
		Position: eye,
	}
}

// ViewMatrix returns the view transform described by the basis.
func (b Basis) ViewMatrix() math.Mat4 {
	return math.Mat4{
		b.Right[0], b.Up[0], b.Back[0], 0,
		b.Right[1], b.Up[1], b.Back[1], 0,
		b.Right[2], b.Up[2], b.Back[2], 0,
		b.Right[3], b.Up[3], b.Back[3], 1,
	}
}

// Remap rotates the basis onto the given cube face. The rotations are pure
// axis swaps and negations, so an orthonormal input stays orthonormal.
func Remap(b Basis, f face.Face) Basis {
	out := b
	switch f {
	case face.Front:
	case face.Left:
		out.Right = b.Back.Neg()
		out.Back = b.Right
	case face.Right:
		out.Right = b.Back
		out.Back = b.Right.Neg()
	case face.Back:
		out.Right = b.Right.Neg()
		out.Back = b.Back.Neg()
	case face.Down:
		out.Back = b.Up
		out.Up = b.Back.Neg()
	case face.Up:
		out.Back = b.Up.Neg()
		out.Up = b.Back
	}
	return out
}

// Pitch returns asin(-back.y) in radians. The argument is clamped so a
// slightly denormalised basis still yields a value in [-pi/2, pi/2].
func Pitch(b Basis) float32 {
	y := -b.Back[1]
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	return math32.Asin(y)
}

// BillboardRoll returns the signed roll, in degrees, that upright sprites
// need under this basis.
func BillboardRoll(b Basis) float32 {
	r := b.Right
	roll := math32.Atan2(r[1], math32.Sqrt(r[0]*r[0]+r[2]*r[2]))*180/math32.Pi - 90

	// atan2 lands on exactly zero when the face is seen upside down.
	if roll == 0 && b.Up[1] < 0 {
		roll = 180
	}
	return roll
}

// FaceBasis is a remapped basis together with the scalars later stages read.
type FaceBasis struct {
	Basis
	Face          face.Face
	Pitch         float32
	BillboardRoll float32
}

// ForFace remaps b onto f and derives pitch and billboard roll.
func ForFace(b Basis, f face.Face) FaceBasis {
	rb := Remap(b, f)
	return FaceBasis{
		Basis:         rb,
		Face:          f,
		Pitch:         Pitch(rb),
		BillboardRoll: BillboardRoll(rb),
	}
}

// Remapper is the camera-commit hook. The host calls Commit once per
// traversal, right after it has computed the un-rotated camera.
type Remapper struct {
	truePitch float32
	last      FaceBasis
}

// Commit installs the basis for the given pass. Sky and single passes get
// the input basis back unchanged.
func (r *Remapper) Commit(pass face.Pass, b Basis) FaceBasis {
	r.truePitch = Pitch(b)

	f, ok := pass.Face()
	if !ok {
		r.last = FaceBasis{
			Basis:         b,
			Face:          face.Front,
			Pitch:         r.truePitch,
			BillboardRoll: BillboardRoll(b),
		}
		return r.last
	}

	r.last = ForFace(b, f)
	return r.last
}

// TruePitch returns the pitch of the last un-rotated camera. The composite
// shader uses it to keep "up" pointing up.
func (r *Remapper) TruePitch() float32 {
	return r.truePitch
}

// Last returns the most recently committed face basis.
func (r *Remapper) Last() FaceBasis {
	return r.last
}
