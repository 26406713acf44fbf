// Package gpu describes the graphics operations the wide field-of-view
// pipeline needs from the host backend.
package gpu

import "github.com/Faultbox/flexfov/internal/engine/face"

// Handles for backend objects. Zero is the default framebuffer, or no object.
type (
	Framebuffer uint32
	Texture     uint32
	Program     uint32
)

// Format is a texture storage format.
type Format int

const (
	// FormatRGBA8 stores 8-bit colour with alpha.
	FormatRGBA8 Format = iota
	// FormatDepth24 stores 24-bit depth.
	FormatDepth24
)

func (f Format) String() string {
	if f == FormatDepth24 {
		return "depth24"
	}
	return "rgba8"
}

// Capability is a toggleable pipeline state.
type Capability int

const (
	DepthTest Capability = iota
	ScissorTest
	Blend
	SeamlessCubeMap
)

// BlendFactor is a blend equation factor.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcAlpha
	OneMinusSrcAlpha
)

// Device is the graphics backend. Implementations are not safe for
// concurrent use; every call happens on the render thread.
type Device interface {
	// Dimensions returns the current screen size in pixels.
	Dimensions() (width, height int32)

	NewFramebuffer() Framebuffer
	DeleteFramebuffer(Framebuffer)
	BindFramebuffer(Framebuffer)

	// NewCubeTexture creates a cube texture with nearest filtering and
	// clamp-to-edge wrapping. Face images are allocated separately.
	NewCubeTexture() Texture
	DeleteTexture(Texture)
	// AllocCubeFace (re)specifies one face image of a cube texture.
	AllocCubeFace(t Texture, f face.Face, format Format, size int32)
	// AttachCubeFace attaches one face of the colour and depth textures to
	// the framebuffer and returns an error if it is incomplete.
	AttachCubeFace(fb Framebuffer, color, depth Texture, f face.Face) error
	BindCubeTexture(unit uint32, t Texture)
	// ReadCubeFace reads back an RGBA8 face image, bottom row first.
	ReadCubeFace(t Texture, f face.Face, size int32) []byte

	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	Enable(Capability)
	Disable(Capability)
	DepthMask(on bool)
	ClearColor(r, g, b, a float32)
	// Clear clears colour and depth.
	Clear()
	BlendFunc(src, dst BlendFactor)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)

	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(Program)
	UseProgram(Program)
	Uniform1f(p Program, name string, v float32)
	Uniform1i(p Program, name string, v int32)
	// DrawQuad draws triangles from interleaved x, y, u, v vertices.
	DrawQuad(vertices []float32)

	// Flush submits pending work before a render target switch.
	Flush()
}
