package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestIdentityMul(t *testing.T) {
	m := Translate(1, 2, 3)
	if got := Identity().Mul(m); got != m {
		t.Errorf("I*M = %v, want %v", got, m)
	}
	if got := m.Mul(Identity()); got != m {
		t.Errorf("M*I = %v, want %v", got, m)
	}
}

func TestMulComposesTranslations(t *testing.T) {
	got := Translate(1, 0, 0).Mul(Translate(0, 2, 3))
	if want := Translate(1, 2, 3); got != want {
		t.Errorf("Translate product = %v, want %v", got, want)
	}
}

func TestMulOrder(t *testing.T) {
	// Column vectors: (A*B)*p applies B first.
	scale := Mat4{0: 2, 5: 2, 10: 2, 15: 1}
	p := [3]float32{1, 1, 1}
	got := Translate(10, 0, 0).Mul(scale).TransformAffine(p)
	if want := (Vec3{12, 2, 2}); got != want {
		t.Errorf("T*S*p = %v, want %v", got, want)
	}
}

func TestCol(t *testing.T) {
	m := Translate(4, 5, 6)
	if got := m.Col(3); got != (Vec4{4, 5, 6, 1}) {
		t.Errorf("Col(3) = %v", got)
	}
}

func TestPerspectiveMapsPlanes(t *testing.T) {
	const near, far = 10, 4000
	m := Perspective(math32.Pi/2, 1.5, near, far)

	for _, tc := range []struct {
		z, ndc float32
	}{
		{-near, -1},
		{-far, 1},
	} {
		clip := m.MulVec4(Vec4{0, 0, tc.z, 1})
		if got := clip[2] / clip[3]; abs(got-tc.ndc) > 1e-4 {
			t.Errorf("z=%v: ndc %v, want %v", tc.z, got, tc.ndc)
		}
		if clip[3] != -tc.z {
			t.Errorf("z=%v: w = %v, want %v", tc.z, clip[3], -tc.z)
		}
	}

	if got := m[0] * 1.5; abs(got-m[5]) > 1e-6 {
		t.Errorf("aspect not applied: m[0]=%v m[5]=%v", m[0], m[5])
	}
}

func TestViewFromBasisMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{10, 20, 30}
	m := ViewFromBasis(Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}, eye)
	got := m.TransformAffine(eye.Array())
	if got != (Vec3{}) {
		t.Errorf("ViewFromBasis eye: got %v, want origin", got)
	}

	// A point in front of the camera lands on -Z.
	front := m.TransformAffine([3]float32{10, 20, 25})
	if front.Z != -5 {
		t.Errorf("ViewFromBasis front: got z=%f, want -5", front.Z)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
