package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/shader"
)

// cubeTargets maps faces to cube map targets. The front face looks down
// -Z in camera space, which is the +Z face of the cube texture.
var cubeTargets = [face.Count]uint32{
	face.Front: gl.TEXTURE_CUBE_MAP_POSITIVE_Z,
	face.Left:  gl.TEXTURE_CUBE_MAP_NEGATIVE_X,
	face.Right: gl.TEXTURE_CUBE_MAP_POSITIVE_X,
	face.Back:  gl.TEXTURE_CUBE_MAP_NEGATIVE_Z,
	face.Up:    gl.TEXTURE_CUBE_MAP_POSITIVE_Y,
	face.Down:  gl.TEXTURE_CUBE_MAP_NEGATIVE_Y,
}

// CubeTarget returns the GL cube map target for a face.
func CubeTarget(f face.Face) uint32 {
	return cubeTargets[f]
}

// GL implements Device on an OpenGL 4.1 core context. The context must be
// current and gl.Init must have run before use.
type GL struct {
	size     func() (int32, int32)
	vao, vbo uint32
	vboCap   int
	uniforms map[Program]map[string]int32
}

// NewGL creates a device. size reports the drawable size in pixels.
func NewGL(size func() (int32, int32)) *GL {
	return &GL{
		size:     size,
		uniforms: make(map[Program]map[string]int32),
	}
}

func (d *GL) Dimensions() (int32, int32) {
	return d.size()
}

func (d *GL) NewFramebuffer() Framebuffer {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return Framebuffer(fbo)
}

func (d *GL) DeleteFramebuffer(fb Framebuffer) {
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (d *GL) BindFramebuffer(fb Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *GL) NewCubeTexture() Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	return Texture(tex)
}

func (d *GL) DeleteTexture(t Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *GL) AllocCubeFace(t Texture, f face.Face, format Format, size int32) {
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(t))
	switch format {
	case FormatDepth24:
		gl.TexImage2D(CubeTarget(f), 0, gl.DEPTH_COMPONENT24, size, size, 0, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT, nil)
	default:
		gl.TexImage2D(CubeTarget(f), 0, gl.RGBA8, size, size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	}
}

func (d *GL) AttachCubeFace(fb Framebuffer, color, depth Texture, f face.Face) error {
	target := CubeTarget(f)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, target, uint32(color), 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, target, uint32(depth), 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete on %s face: 0x%x", f, status)
	}
	return nil
}

func (d *GL) BindCubeTexture(unit uint32, t Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, uint32(t))
}

func (d *GL) ReadCubeFace(t Texture, f face.Face, size int32) []byte {
	pixels := make([]byte, int(size)*int(size)*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, CubeTarget(f), uint32(t), 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, size, size, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	gl.DeleteFramebuffers(1, &fbo)
	return pixels
}

func (d *GL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *GL) Scissor(x, y, width, height int32) {
	gl.Scissor(x, y, width, height)
}

func (d *GL) Enable(c Capability) {
	gl.Enable(glCapability(c))
}

func (d *GL) Disable(c Capability) {
	gl.Disable(glCapability(c))
}

func glCapability(c Capability) uint32 {
	switch c {
	case DepthTest:
		return gl.DEPTH_TEST
	case ScissorTest:
		return gl.SCISSOR_TEST
	case Blend:
		return gl.BLEND
	case SeamlessCubeMap:
		return gl.TEXTURE_CUBE_MAP_SEAMLESS
	}
	panic(fmt.Sprintf("gpu: unknown capability %d", c))
}

func (d *GL) DepthMask(on bool) {
	gl.DepthMask(on)
}

func (d *GL) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GL) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GL) BlendFunc(src, dst BlendFactor) {
	gl.BlendFunc(glBlend(src), glBlend(dst))
}

func (d *GL) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor) {
	gl.BlendFuncSeparate(glBlend(srcRGB), glBlend(dstRGB), glBlend(srcAlpha), glBlend(dstAlpha))
}

func glBlend(f BlendFactor) uint32 {
	switch f {
	case One:
		return gl.ONE
	case SrcAlpha:
		return gl.SRC_ALPHA
	case OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	}
	return gl.ZERO
}

func (d *GL) CompileProgram(vertexSrc, fragmentSrc string) (Program, error) {
	id, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	return Program(id), nil
}

func (d *GL) DeleteProgram(p Program) {
	delete(d.uniforms, p)
	gl.DeleteProgram(uint32(p))
}

func (d *GL) UseProgram(p Program) {
	gl.UseProgram(uint32(p))
}

// location caches uniform lookups per program.
func (d *GL) location(p Program, name string) int32 {
	locs, ok := d.uniforms[p]
	if !ok {
		locs = make(map[string]int32)
		d.uniforms[p] = locs
	}
	loc, ok := locs[name]
	if !ok {
		loc = shader.GetUniform(uint32(p), name)
		locs[name] = loc
	}
	return loc
}

func (d *GL) Uniform1f(p Program, name string, v float32) {
	if loc := d.location(p, name); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

func (d *GL) Uniform1i(p Program, name string, v int32) {
	if loc := d.location(p, name); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

func (d *GL) DrawQuad(vertices []float32) {
	if d.vao == 0 {
		gl.GenVertexArrays(1, &d.vao)
		gl.GenBuffers(1, &d.vbo)
		gl.BindVertexArray(d.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

		stride := int32(4 * 4)
		gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
		gl.EnableVertexAttribArray(1)
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if len(vertices) > d.vboCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		d.vboCap = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}

	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/4))
	gl.BindVertexArray(0)
}

func (d *GL) Flush() {
	gl.Flush()
}

// Release frees the quad buffers.
func (d *GL) Release() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		gl.DeleteBuffers(1, &d.vbo)
		d.vao, d.vbo, d.vboCap = 0, 0, 0
	}
}
