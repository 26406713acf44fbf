// Package fog rescales fixed-function fog depth so that fog follows the
// true distance to the camera on every cube face.
package fog

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flexfov/pkg/math"
)

// Planes holds the near and far planes of the projection in use.
type Planes struct {
	Near, Far float32
	captured  bool
}

// Capture records the planes of a projection setup. It is called once per
// projection node while wide FOV is active.
func (p *Planes) Capture(near, far float32) {
	p.Near = near
	p.Far = far
	p.captured = true
}

// Captured reports whether planes have been recorded.
func (p *Planes) Captured() bool {
	return p.captured
}

// Depth returns the clip-space z and w of the point (0, 0, -dist) pushed
// through a perspective projection with these planes.
func (p *Planes) Depth(dist float32) (z, w float32) {
	n, f := p.Near, p.Far
	z = (-dist*(n+f) + 2*n*f) / (n - f)
	return z, dist
}

// Scale returns the fog depth of vertex v under the modelview matrix m. It
// reports false, leaving the host's own values in place, until planes have
// been captured or when they coincide.
func (p *Planes) Scale(m math.Mat4, v [3]float32) (z, w float32, ok bool) {
	if !p.captured || p.Near == p.Far {
		return 0, 0, false
	}
	z, w = p.Depth(Distance(m, v))
	return z, w, true
}

// Distance is the Euclidean length of the modelview-transformed vertex.
func Distance(m math.Mat4, v [3]float32) float32 {
	e := m.TransformAffine(v)
	return math32.Sqrt(e.X*e.X + e.Y*e.Y + e.Z*e.Z)
}
