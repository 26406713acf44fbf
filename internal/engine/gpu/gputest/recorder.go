// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"strings"

	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/gpu"
)

// Alloc is one face image allocation.
type Alloc struct {
	Texture gpu.Texture
	Face    face.Face
	Format  gpu.Format
	Size    int32
}

// Recorder implements gpu.Device by logging every call. It keeps just
// enough state to answer queries made by code under test.
type Recorder struct {
	Width, Height int32

	// CompileErr, when set, is returned by CompileProgram.
	CompileErr error
	// AttachErr, when set, is returned by AttachCubeFace.
	AttachErr error

	Calls    []string
	Allocs   []Alloc
	Uniforms map[string]float32
	Enabled  map[gpu.Capability]bool
	Quads    [][]float32

	Bound       gpu.Framebuffer
	DepthWrites bool

	next uint32
}

// New returns a recorder with a w×h screen.
func New(w, h int32) *Recorder {
	return &Recorder{
		Width:    w,
		Height:   h,
		Uniforms: make(map[string]float32),
		Enabled:  make(map[gpu.Capability]bool),
	}
}

func (r *Recorder) log(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// Reset forgets recorded calls and allocations, keeping object state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Allocs = nil
	r.Quads = nil
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first call starting with prefix at or
// after from, or -1.
func (r *Recorder) Index(prefix string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if strings.HasPrefix(r.Calls[i], prefix) {
			return i
		}
	}
	return -1
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) Dimensions() (int32, int32) { return r.Width, r.Height }

func (r *Recorder) NewFramebuffer() gpu.Framebuffer {
	fb := gpu.Framebuffer(r.id())
	r.log("NewFramebuffer %d", fb)
	return fb
}

func (r *Recorder) DeleteFramebuffer(fb gpu.Framebuffer) { r.log("DeleteFramebuffer %d", fb) }

func (r *Recorder) BindFramebuffer(fb gpu.Framebuffer) {
	r.Bound = fb
	r.log("BindFramebuffer %d", fb)
}

func (r *Recorder) NewCubeTexture() gpu.Texture {
	t := gpu.Texture(r.id())
	r.log("NewCubeTexture %d", t)
	return t
}

func (r *Recorder) DeleteTexture(t gpu.Texture) { r.log("DeleteTexture %d", t) }

func (r *Recorder) AllocCubeFace(t gpu.Texture, f face.Face, format gpu.Format, size int32) {
	r.Allocs = append(r.Allocs, Alloc{Texture: t, Face: f, Format: format, Size: size})
	r.log("AllocCubeFace %d %s %s %d", t, f, format, size)
}

func (r *Recorder) AttachCubeFace(fb gpu.Framebuffer, color, depth gpu.Texture, f face.Face) error {
	r.Bound = fb
	r.log("AttachCubeFace %d %s", fb, f)
	return r.AttachErr
}

func (r *Recorder) BindCubeTexture(unit uint32, t gpu.Texture) {
	r.log("BindCubeTexture %d %d", unit, t)
}

func (r *Recorder) ReadCubeFace(t gpu.Texture, f face.Face, size int32) []byte {
	r.log("ReadCubeFace %d %s %d", t, f, size)
	pix := make([]byte, int(size)*int(size)*4)
	// Each row is filled with its index so flips are observable.
	for y := 0; y < int(size); y++ {
		for x := 0; x < int(size)*4; x++ {
			pix[y*int(size)*4+x] = byte(y)
		}
	}
	return pix
}

func (r *Recorder) Viewport(x, y, w, h int32) { r.log("Viewport %d %d %d %d", x, y, w, h) }

func (r *Recorder) Scissor(x, y, w, h int32) { r.log("Scissor %d %d %d %d", x, y, w, h) }

func (r *Recorder) Enable(c gpu.Capability) {
	r.Enabled[c] = true
	r.log("Enable %s", capName(c))
}

func (r *Recorder) Disable(c gpu.Capability) {
	r.Enabled[c] = false
	r.log("Disable %s", capName(c))
}

func capName(c gpu.Capability) string {
	switch c {
	case gpu.DepthTest:
		return "depth"
	case gpu.ScissorTest:
		return "scissor"
	case gpu.Blend:
		return "blend"
	case gpu.SeamlessCubeMap:
		return "seamless"
	}
	return "?"
}

func (r *Recorder) DepthMask(on bool) {
	r.DepthWrites = on
	r.log("DepthMask %t", on)
}

func (r *Recorder) ClearColor(red, g, b, a float32) { r.log("ClearColor %g %g %g %g", red, g, b, a) }

func (r *Recorder) Clear() { r.log("Clear") }

func (r *Recorder) BlendFunc(src, dst gpu.BlendFactor) {
	r.log("BlendFunc %s %s", factorName(src), factorName(dst))
}

func (r *Recorder) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gpu.BlendFactor) {
	r.log("BlendFuncSeparate %s %s %s %s",
		factorName(srcRGB), factorName(dstRGB), factorName(srcAlpha), factorName(dstAlpha))
}

func factorName(f gpu.BlendFactor) string {
	switch f {
	case gpu.One:
		return "one"
	case gpu.SrcAlpha:
		return "src_alpha"
	case gpu.OneMinusSrcAlpha:
		return "one_minus_src_alpha"
	}
	return "zero"
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	r.log("CompileProgram")
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	return gpu.Program(r.id()), nil
}

func (r *Recorder) DeleteProgram(p gpu.Program) { r.log("DeleteProgram %d", p) }

func (r *Recorder) UseProgram(p gpu.Program) { r.log("UseProgram %d", p) }

func (r *Recorder) Uniform1f(p gpu.Program, name string, v float32) {
	r.Uniforms[name] = v
	r.log("Uniform %s %g", name, v)
}

func (r *Recorder) Uniform1i(p gpu.Program, name string, v int32) {
	r.Uniforms[name] = float32(v)
	r.log("Uniform %s %d", name, v)
}

func (r *Recorder) DrawQuad(vertices []float32) {
	r.Quads = append(r.Quads, append([]float32(nil), vertices...))
	r.log("DrawQuad %d", len(vertices)/4)
}

func (r *Recorder) Flush() { r.log("Flush") }

var _ gpu.Device = (*Recorder)(nil)
