package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 column-major matrix, laid out as OpenGL expects. Element
// (row r, column c) is m[c*4+r]; m[12..14] hold the translation.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Perspective returns a right-handed projection mapping -near..-far to
// NDC -1..1. fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)
	return Mat4{
		0:  f / aspect,
		5:  f,
		10: (far + near) * nf,
		11: -1,
		14: 2 * far * near * nf,
	}
}

// ViewFromBasis builds a view matrix from camera axes and an eye position.
// right, up and back are the camera's world-space axes; back points away
// from the view direction.
func ViewFromBasis(right, up, back, eye Vec3) Mat4 {
	return Mat4{
		right.X, up.X, back.X, 0,
		right.Y, up.Y, back.Y, 0,
		right.Z, up.Z, back.Z, 0,
		-right.Dot(eye), -up.Dot(eye), -back.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Col returns column c.
func (m Mat4) Col(c int) Vec4 {
	return Vec4{m[c*4], m[c*4+1], m[c*4+2], m[c*4+3]}
}

// Mul returns m * other.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		col := m.MulVec4(other.Col(c))
		copy(out[c*4:c*4+4], col[:])
	}
	return out
}

// TransformAffine applies the upper 3x4 part to a point, without a
// perspective divide.
func (m Mat4) TransformAffine(p [3]float32) Vec3 {
	v := m.MulVec4(Vec4{p[0], p[1], p[2], 1})
	return Vec3{v[0], v[1], v[2]}
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}
