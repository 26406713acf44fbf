// Package composite draws the cube map onto the screen through the
// wide-angle warp shader.
package composite

import (
	_ "embed"
	"fmt"

	"github.com/Faultbox/flexfov/internal/engine/gpu"
)

var (
	//go:embed flexfov.vert
	vertexSrc string
	//go:embed flexfov.frag
	fragmentSrc string
)

// ReferenceAspect is the screen aspect whose UVs span [-1, 1] horizontally.
const ReferenceAspect float32 = 4.0 / 3.0

// referenceV is the vertical UV half-extent at every aspect.
const referenceV float32 = 3.0 / 4.0

// Params are the per-frame shader inputs.
type Params struct {
	Pitch         float32 // true camera pitch, radians
	FOV           float32 // degrees
	Zoom          float32 // Möbius zoom, [-1, 1]
	FaceGrid      bool
	AltProjection bool
	ControlsOn    bool
	Zooming       bool
}

// Aspect returns the UV half-extents for a w×h screen and the size of one
// pixel in UV units. Screens narrower than 4:3 shrink u, wider ones grow it.
func Aspect(w, h int32) (u, v, pixelSize float32) {
	if w <= 0 || h <= 0 {
		return 1, referenceV, 0
	}
	aspect := float32(w) / float32(h)
	v = referenceV
	if aspect < ReferenceAspect {
		u = v * aspect
	} else {
		u = aspect / ReferenceAspect
	}
	return u, v, u / float32(w) / 2
}

// corners of the two triangles covering clip space.
var corners = [6][2]float32{
	{-1, -1}, {1, -1}, {-1, 1},
	{-1, 1}, {1, 1}, {1, -1},
}

// Quad returns six interleaved x, y, u, v vertices with UVs scaled to the
// screen aspect.
func Quad(u, v float32) []float32 {
	out := make([]float32, 0, len(corners)*4)
	for _, c := range corners {
		out = append(out, c[0], c[1], c[0]*u, c[1]*v)
	}
	return out
}

// Pass is the composite draw. It holds the warp program.
type Pass struct {
	dev     gpu.Device
	program gpu.Program
	unload  func()

	quad      []float32
	quadW     int32
	quadH     int32
	pixelSize float32
}

// New compiles the warp shader. unload, if set, runs before the draw so
// the host can drop whatever program it has bound.
func New(dev gpu.Device, unload func()) (*Pass, error) {
	prog, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling composite shader: %w", err)
	}
	return &Pass{dev: dev, program: prog, unload: unload}, nil
}

func (p *Pass) updateQuad(w, h int32) {
	if p.quad != nil && w == p.quadW && h == p.quadH {
		return
	}
	u, v, px := Aspect(w, h)
	p.quad = Quad(u, v)
	p.quadW, p.quadH = w, h
	p.pixelSize = px
}

// Draw composites the cube texture over the default framebuffer. Cube
// contents are premultiplied, so the pass blends with ONE and restores
// ordinary alpha blending afterwards.
func (p *Pass) Draw(cube gpu.Texture, params Params) {
	d := p.dev
	w, h := d.Dimensions()

	d.Viewport(0, 0, w, h)
	d.Scissor(0, 0, w, h)
	d.BindFramebuffer(0)
	d.BlendFunc(gpu.One, gpu.OneMinusSrcAlpha)

	p.updateQuad(w, h)

	d.Disable(gpu.DepthTest)
	d.DepthMask(false)
	d.Enable(gpu.Blend)

	if p.unload != nil {
		p.unload()
	}

	d.UseProgram(p.program)
	d.Uniform1i(p.program, "cubeTex", 0)
	d.Uniform1f(p.program, "camPitch", params.Pitch)
	d.Uniform1f(p.program, "fov", params.FOV)
	d.Uniform1f(p.program, "mobiusZoom", params.Zoom)
	d.Uniform1f(p.program, "pixelSize", p.pixelSize)
	d.Uniform1i(p.program, "useRubix", boolInt(params.FaceGrid))
	d.Uniform1i(p.program, "useCube", boolInt(params.AltProjection))
	d.Uniform1i(p.program, "controlsOn", boolInt(params.ControlsOn))
	d.Uniform1i(p.program, "zooming", boolInt(params.Zooming))

	d.BindCubeTexture(0, cube)
	d.DrawQuad(p.quad)
	d.UseProgram(0)

	d.Enable(gpu.DepthTest)
	d.DepthMask(true)
	d.BlendFunc(gpu.SrcAlpha, gpu.OneMinusSrcAlpha)
}

// Destroy deletes the program.
func (p *Pass) Destroy() {
	if p.program != 0 {
		p.dev.DeleteProgram(p.program)
		p.program = 0
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
