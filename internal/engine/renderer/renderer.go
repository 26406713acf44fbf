// Package renderer is the demo host's forward renderer: lit, fogged
// meshes and textured billboards drawn with one shader program.
package renderer

import (
	_ "embed"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/shader"
	"github.com/Faultbox/flexfov/internal/logger"
)

var (
	//go:embed scene.vert
	vertexSrc string
	//go:embed scene.frag
	fragmentSrc string
)

// Texture selects one of the renderer's textures.
type Texture int

const (
	TextureNone Texture = iota
	TextureGround
	TextureSprite
	textureCount
)

// DrawState is everything one draw call needs.
type DrawState struct {
	MVP       mgl32.Mat4
	ModelView mgl32.Mat4
	Color     mgl32.Vec4
	Light     mgl32.Vec3 // eye space, toward the light
	Lit       bool
	Texture   Texture
	FogDepth  float32 // NDC depth used for fog
}

// Fog holds the fog parameters shared by every draw.
type Fog struct {
	Start float32 // NDC depth where fog begins
	Color mgl32.Vec3
}

type meshBuffers struct {
	vao, vbo uint32
	count    int32
}

// Renderer draws the demo scene. It must be created after the GL context.
type Renderer struct {
	log     *zap.Logger
	program uint32

	locMVP       int32
	locModelView int32
	locColor     int32
	locLight     int32
	locLit       int32
	locTextured  int32
	locTexture   int32
	locFogDepth  int32
	locFogStart  int32
	locFogColor  int32

	meshes   [meshCount]meshBuffers
	textures [textureCount]uint32
	fog      Fog
}

// New initializes OpenGL and uploads the meshes and textures.
func New(ground, sprite *image.RGBA) (*Renderer, error) {
	r := &Renderer{log: logger.Named("renderer")}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	program, err := shader.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	r.program = program

	r.locMVP = shader.GetUniform(program, "uMVP")
	r.locModelView = shader.GetUniform(program, "uModelView")
	r.locColor = shader.GetUniform(program, "uColor")
	r.locLight = shader.GetUniform(program, "uLight")
	r.locLit = shader.GetUniform(program, "uLit")
	r.locTextured = shader.GetUniform(program, "uTextured")
	r.locTexture = shader.GetUniform(program, "uTexture")
	r.locFogDepth = shader.GetUniform(program, "uFogDepth")
	r.locFogStart = shader.GetUniform(program, "uFogStart")
	r.locFogColor = shader.GetUniform(program, "uFogColor")

	r.meshes[MeshCube] = upload(CubeVertices())
	r.meshes[MeshGround] = upload(GroundVertices(64))
	r.meshes[MeshSprite] = upload(SpriteVertices())

	r.textures[TextureGround] = uploadTexture(ground, true)
	r.textures[TextureSprite] = uploadTexture(sprite, false)

	r.fog = Fog{Start: 1}
	return r, nil
}

func upload(vertices []float32) meshBuffers {
	var m meshBuffers
	m.count = int32(len(vertices) / vertexStride)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m
}

func uploadTexture(img *image.RGBA, repeat bool) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	wrap := int32(gl.CLAMP_TO_EDGE)
	if repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// SetFog sets the fog used by later draws.
func (r *Renderer) SetFog(f Fog) {
	r.fog = f
}

// Begin targets the default framebuffer and clears it to the sky colour.
func (r *Renderer) Begin(width, height int32, sky mgl32.Vec4) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
	gl.Scissor(0, 0, width, height)
	gl.DepthMask(true)
	gl.ClearColor(sky[0], sky[1], sky[2], sky[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders one mesh.
func (r *Renderer) Draw(mesh Mesh, d DrawState) {
	m := r.meshes[mesh]
	if m.vao == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, &d.MVP[0])
	gl.UniformMatrix4fv(r.locModelView, 1, false, &d.ModelView[0])
	gl.Uniform4f(r.locColor, d.Color[0], d.Color[1], d.Color[2], d.Color[3])
	gl.Uniform3f(r.locLight, d.Light[0], d.Light[1], d.Light[2])
	gl.Uniform1i(r.locLit, boolInt(d.Lit))
	gl.Uniform1f(r.locFogDepth, d.FogDepth)
	gl.Uniform1f(r.locFogStart, r.fog.Start)
	gl.Uniform3f(r.locFogColor, r.fog.Color[0], r.fog.Color[1], r.fog.Color[2])

	tex := r.textures[d.Texture]
	gl.Uniform1i(r.locTextured, boolInt(tex != 0))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(r.locTexture, 0)

	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	gl.BindVertexArray(0)
}

// Unload drops the bound program so another pass can take over.
func (r *Renderer) Unload() {
	gl.UseProgram(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// ReadScreen reads the default framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadScreen(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for i := range r.meshes {
		m := &r.meshes[i]
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
			gl.DeleteBuffers(1, &m.vbo)
			*m = meshBuffers{}
		}
	}
	for i := range r.textures {
		if r.textures[i] != 0 {
			gl.DeleteTextures(1, &r.textures[i])
			r.textures[i] = 0
		}
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
