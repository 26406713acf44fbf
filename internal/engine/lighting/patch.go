package lighting

import "github.com/Faultbox/flexfov/internal/engine/face"

// Direction is a light direction in camera space, in the host's signed
// byte format.
type Direction [3]int8

// Rotate maps a light direction given relative to the front face into the
// frame of face f, so the light hits the world from the same side on every
// face.
func Rotate(d Direction, f face.Face) Direction {
	x0, y0, z0 := d[0], d[1], d[2]

	switch f {
	case face.Left:
		return Direction{-z0, y0, x0}
	case face.Right:
		return Direction{z0, y0, -x0}
	case face.Back:
		return Direction{-x0, y0, -z0}
	case face.Up:
		return Direction{x0, z0, -y0}
	case face.Down:
		return Direction{x0, -z0, y0}
	}
	return d
}

// Apply rotates dir in place for the face being rendered. It does nothing
// when wide FOV is inactive or during the sky and single passes.
func Apply(active bool, pass face.Pass, dir *Direction) {
	if !active || dir == nil {
		return
	}
	f, ok := pass.Face()
	if !ok {
		return
	}
	*dir = Rotate(*dir, f)
}
