// Package face names the six cube-map faces and the render pass tag that is
// threaded through scene traversal and the per-face state patches.
package face

import "fmt"

// Face is one of the six cube-map render targets.
type Face uint8

// Faces in traversal order. The order matches draw order, so the composite
// always runs after every face has been filled.
const (
	Front Face = iota
	Left
	Right
	Back
	Up
	Down
)

// Count is the number of cube faces.
const Count = 6

// All lists the faces in traversal order.
var All = [Count]Face{Front, Left, Right, Back, Up, Down}

// String returns the face name.
func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Left:
		return "left"
	case Right:
		return "right"
	case Back:
		return "back"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("face(%d)", uint8(f))
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f < Count
}

// Kind distinguishes the three sorts of traversal pass.
type Kind uint8

const (
	// KindSingle is an ordinary one-pass render with wide FOV inactive.
	KindSingle Kind = iota
	// KindSky is the face-less background pass.
	KindSky
	// KindFace renders one cube face.
	KindFace
)

// Pass tags a single scene traversal. The zero value is a Single pass.
type Pass struct {
	kind Kind
	face Face
}

// Single returns the pass used when wide FOV is not active.
func Single() Pass { return Pass{kind: KindSingle} }

// Sky returns the background pass tag.
func Sky() Pass { return Pass{kind: KindSky} }

// On returns the pass that renders face f.
func On(f Face) Pass { return Pass{kind: KindFace, face: f} }

// Kind returns the pass kind.
func (p Pass) Kind() Kind { return p.kind }

// IsSky reports whether this is the background pass.
func (p Pass) IsSky() bool { return p.kind == KindSky }

// Face returns the face being rendered. ok is false for sky and single passes.
func (p Pass) Face() (f Face, ok bool) {
	if p.kind != KindFace {
		return 0, false
	}
	return p.face, true
}

// String returns a short label for logs.
func (p Pass) String() string {
	switch p.kind {
	case KindSky:
		return "sky"
	case KindFace:
		return p.face.String()
	}
	return "single"
}
