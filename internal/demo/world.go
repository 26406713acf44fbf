package demo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flexfov/internal/config"
	"github.com/Faultbox/flexfov/internal/engine/billboard"
	"github.com/Faultbox/flexfov/internal/engine/camera"
	"github.com/Faultbox/flexfov/internal/engine/cmdstream"
	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/fog"
	"github.com/Faultbox/flexfov/internal/engine/lighting"
	"github.com/Faultbox/flexfov/internal/engine/renderer"
	"github.com/Faultbox/flexfov/internal/flexfov"
	"github.com/Faultbox/flexfov/pkg/math"
)

// Drawer executes draws at playback time.
type Drawer interface {
	Begin(width, height int32, sky mgl32.Vec4)
	Draw(mesh renderer.Mesh, d renderer.DrawState)
}

// Prop is a static mesh instance.
type Prop struct {
	Mesh    renderer.Mesh
	Model   mgl32.Mat4
	Color   mgl32.Vec4
	Texture renderer.Texture
	Lit     bool
}

// Sprite is a billboarded tree.
type Sprite struct {
	Pos  mgl32.Vec3
	Size float32
	Mode billboard.Mode
}

// Sun is a directional light in world space, as longitude and latitude in
// degrees.
type Sun struct {
	Longitude float32
	Latitude  float32
}

// World is the demo scene. Traverse records one pass of it.
type World struct {
	Props   []Prop
	Sprites []Sprite
	Sun     Sun
	Sky     mgl32.Vec4

	cfg    config.SceneConfig
	sys    *flexfov.System
	stream *cmdstream.Stream
	draw   Drawer
	cam    *camera.OrbitCamera
	size   func() (int32, int32)

	light mgl32.Vec3
}

const (
	groundTiles = 16
	groundSize  = 4000
)

// NewWorld lays out a tiled ground, a ring of pillars and a wider ring of
// trees around the origin.
func NewWorld(cfg config.SceneConfig, sys *flexfov.System, stream *cmdstream.Stream, draw Drawer, cam *camera.OrbitCamera, size func() (int32, int32)) *World {
	w := &World{
		Sun:    Sun{Longitude: 35, Latitude: 50},
		Sky:    mgl32.Vec4{0.55, 0.7, 0.9, 1},
		cfg:    cfg,
		sys:    sys,
		stream: stream,
		draw:   draw,
		cam:    cam,
		size:   size,
	}

	// Ground is split into tiles so each gets its own fog depth.
	tile := float32(groundSize) / groundTiles
	for i := 0; i < groundTiles; i++ {
		for j := 0; j < groundTiles; j++ {
			x := (float32(i) - groundTiles/2 + 0.5) * tile
			z := (float32(j) - groundTiles/2 + 0.5) * tile
			w.Props = append(w.Props, Prop{
				Mesh:    renderer.MeshGround,
				Model:   mgl32.Translate3D(x, 0, z).Mul4(mgl32.Scale3D(tile, 1, tile)),
				Color:   mgl32.Vec4{1, 1, 1, 1},
				Texture: renderer.TextureGround,
				Lit:     true,
			})
		}
	}

	pillarColors := []mgl32.Vec4{
		{0.85, 0.3, 0.25, 1},
		{0.25, 0.6, 0.85, 1},
		{0.9, 0.8, 0.3, 1},
		{0.5, 0.8, 0.4, 1},
	}
	for i := 0; i < 12; i++ {
		a := mgl32.DegToRad(float32(i) * 30)
		x, z := 500*math32.Sin(a), 500*math32.Cos(a)
		h := float32(150 + 50*(i%4))
		w.Props = append(w.Props, Prop{
			Mesh:  renderer.MeshCube,
			Model: mgl32.Translate3D(x, h/2, z).Mul4(mgl32.Scale3D(60, h, 60)),
			Color: pillarColors[i%len(pillarColors)],
			Lit:   true,
		})
	}

	for i := 0; i < 16; i++ {
		a := mgl32.DegToRad(float32(i)*22.5 + 11.25)
		mode := billboard.ModeCylinder
		if i%4 == 0 {
			mode = billboard.ModeSphere
		}
		w.Sprites = append(w.Sprites, Sprite{
			Pos:  mgl32.Vec3{900 * math32.Sin(a), 0, 900 * math32.Cos(a)},
			Size: 160,
			Mode: mode,
		})
	}
	return w
}

// Projection returns the projection matrix for pass. Face passes use a
// square 90° frustum, flipped vertically to match cube map orientation.
func Projection(pass face.Pass, fovY, aspect, near, far float32) mgl32.Mat4 {
	if _, ok := pass.Face(); ok {
		return mgl32.Scale3D(1, -1, 1).Mul4(mgl32.Perspective(mgl32.DegToRad(90), 1, near, far))
	}
	return mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
}

// FogStart returns the NDC depth at which fog begins.
func FogStart(cfg config.SceneConfig) float32 {
	p := fog.Planes{Near: cfg.Near, Far: cfg.Far}
	d := cfg.FogStart * cfg.Far
	z, w := p.Depth(d)
	return z / w
}

// Traverse implements multipass.Traverser. It only records commands; the
// flexfov hooks that depend on the bound face run when they play.
func (w *World) Traverse(pass face.Pass) {
	width, height := w.size()
	near, far := w.cfg.Near, w.cfg.Far

	trueBasis := w.cam.Basis()
	fb := w.sys.CommitCamera(pass, trueBasis)
	view := mgl32.Mat4(fb.ViewMatrix())
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	proj := Projection(pass, w.cfg.FOVY, aspect, near, far)
	w.sys.SetFogPlanes(near, far)

	if pass.Kind() != face.KindFace {
		sky := w.Sky
		w.stream.Append(func() { w.draw.Begin(width, height, sky) })
		if pass.Kind() == face.KindSky {
			return
		}
	}

	sun := lighting.SunDirection(w.Sun.Longitude, w.Sun.Latitude)
	dir := lighting.Quantize(lighting.ToCamera(sun,
		trueBasis.Right.XYZ(), trueBasis.Up.XYZ(), trueBasis.Back.XYZ()))
	w.stream.Append(func() {
		d := dir
		w.sys.SetLightDirection(&d)
		w.light = mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}.Mul(1.0 / 127)
	})

	for _, p := range w.Props {
		mv := view.Mul4(p.Model)
		w.record(p.Mesh, renderer.DrawState{
			MVP:       proj.Mul4(mv),
			ModelView: mv,
			Color:     p.Color,
			Lit:       p.Lit,
			Texture:   p.Texture,
			FogDepth:  w.fogDepth(proj, mv),
		})
	}

	eye := toMGL(trueBasis.Position)
	for _, s := range w.Sprites {
		mv, ok := w.sys.Billboard(pass, s.Mode, view, s.Pos, eye)
		if !ok {
			mv = screenAligned(view, s.Pos)
		}
		mv = mv.Mul4(mgl32.Scale3D(s.Size, s.Size, s.Size))
		w.record(renderer.MeshSprite, renderer.DrawState{
			MVP:       proj.Mul4(mv),
			ModelView: mv,
			Color:     mgl32.Vec4{1, 1, 1, 1},
			Texture:   renderer.TextureSprite,
			FogDepth:  w.fogDepth(proj, mv),
		})
	}
}

func (w *World) record(mesh renderer.Mesh, d renderer.DrawState) {
	w.stream.Append(func() {
		d.Light = w.light
		w.draw.Draw(mesh, d)
	})
}

// fogDepth samples fog at the object's origin. With wide FOV on it follows
// the true distance, otherwise the planar depth of the current projection.
func (w *World) fogDepth(proj, mv mgl32.Mat4) float32 {
	if z, wd, ok := w.sys.FogScale(math.Mat4(mv), [3]float32{}); ok && wd > 0 {
		return z / wd
	}
	clip := proj.Mul4x1(mv.Col(3))
	if clip.W() <= 0 {
		return -1
	}
	return clip.Z() / clip.W()
}

// screenAligned is the host's own billboard: the sprite faces the screen
// plane, which is only right for a single unrotated view.
func screenAligned(view mgl32.Mat4, pos mgl32.Vec3) mgl32.Mat4 {
	eye := view.Mul4x1(pos.Vec4(1))
	return mgl32.Translate3D(eye.X(), eye.Y(), eye.Z())
}

func toMGL(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
