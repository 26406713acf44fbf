// Package billboard builds camera-facing sprite matrices that stay correct
// when the scene is rendered from a rotated cube face.
//
// The host's own billboards are aligned to the screen plane, which differs
// on every face. The matrices here are derived from world positions
// instead, so a sprite looks the same whichever face it lands on.
package billboard

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flexfov/internal/engine/face"
)

// Mode selects how a sprite is oriented.
type Mode int

const (
	// ModeNone leaves the host's billboard untouched.
	ModeNone Mode = iota
	// ModeSphere turns the sprite fully towards the camera.
	ModeSphere
	// ModeCylinder keeps the sprite upright and only turns it about Y.
	ModeCylinder
)

func (m Mode) String() string {
	switch m {
	case ModeSphere:
		return "sphere"
	case ModeCylinder:
		return "cylinder"
	}
	return "none"
}

var (
	worldUp  = mgl32.Vec3{0, 1, 0}
	fallback = mgl32.Vec3{0, 0, 1}
)

const epsilon = 1e-6

// Sphereboard returns src * T(pos) * R, where R turns the sprite's +Z
// towards cam with world up as the reference.
func Sphereboard(src mgl32.Mat4, pos, cam mgl32.Vec3) mgl32.Mat4 {
	forward := cam.Sub(pos)
	if forward.Len() < epsilon {
		forward = fallback
	}
	forward = forward.Normalize()

	right := worldUp.Cross(forward)
	if right.Len() < epsilon {
		// Looking straight up or down.
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := forward.Cross(right)

	return src.Mul4(frame(right, up, forward, pos))
}

// Cylboard is like Sphereboard but keeps the sprite's Y axis vertical.
func Cylboard(src mgl32.Mat4, pos, cam mgl32.Vec3) mgl32.Mat4 {
	v := mgl32.Vec3{cam.X() - pos.X(), 0, cam.Z() - pos.Z()}
	if v.Len() < epsilon {
		v = fallback
	}
	v = v.Normalize()
	dx, dz := v.X(), v.Z()

	return src.Mul4(frame(
		mgl32.Vec3{dz, 0, -dx},
		worldUp,
		mgl32.Vec3{dx, 0, dz},
		pos,
	))
}

func frame(right, up, forward, pos mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Mat4FromCols(
		right.Vec4(0),
		up.Vec4(0),
		forward.Vec4(0),
		pos.Vec4(1),
	)
}

// Apply returns the corrected billboard matrix for a sprite at pos seen
// from the true camera position cam. It reports false when the host
// should keep its own matrix: wide FOV inactive, sky or single pass, or
// ModeNone.
func Apply(active bool, pass face.Pass, mode Mode, src mgl32.Mat4, pos, cam mgl32.Vec3) (mgl32.Mat4, bool) {
	if !active {
		return src, false
	}
	if _, ok := pass.Face(); !ok {
		return src, false
	}

	switch mode {
	case ModeSphere:
		return Sphereboard(src, pos, cam), true
	case ModeCylinder:
		return Cylboard(src, pos, cam), true
	}
	return src, false
}
