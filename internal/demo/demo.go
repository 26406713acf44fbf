// Package demo is a small SDL2 host for the wide field-of-view renderer:
// it records its scene into a command stream, lets flexfov drive the
// passes and plays the stream back every frame.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/flexfov/internal/config"
	"github.com/Faultbox/flexfov/internal/engine/activation"
	"github.com/Faultbox/flexfov/internal/engine/audio"
	"github.com/Faultbox/flexfov/internal/engine/camera"
	"github.com/Faultbox/flexfov/internal/engine/cmdstream"
	"github.com/Faultbox/flexfov/internal/engine/controls"
	"github.com/Faultbox/flexfov/internal/engine/debug"
	"github.com/Faultbox/flexfov/internal/engine/gpu"
	"github.com/Faultbox/flexfov/internal/engine/input"
	"github.com/Faultbox/flexfov/internal/engine/renderer"
	"github.com/Faultbox/flexfov/internal/engine/texture"
	"github.com/Faultbox/flexfov/internal/engine/window"
	"github.com/Faultbox/flexfov/internal/flexfov"
	"github.com/Faultbox/flexfov/internal/logger"
)

// Demo is the host application.
type Demo struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	device   *gpu.GL
	input    *input.Input
	audio    *audio.Manager
	capture  *debug.Capture

	stream cmdstream.Stream
	camera *camera.OrbitCamera
	sys    *flexfov.System
	world  *World
	scene  activation.Snapshot

	dragging bool
}

// New creates the window, GL resources and the wide FOV subsystem.
func New(cfg *config.Config) (*Demo, error) {
	d := &Demo{
		cfg:    cfg,
		log:    logger.Named("demo"),
		camera: camera.NewOrbitCamera(),
		scene:  activation.Snapshot{Present: true},
	}

	var err error
	d.window, err = window.New("flexfov", cfg.Graphics)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	sprite := loadSprite(cfg.Scene.Sprite, d.log)
	ground := texture.Checker(64, 8, color.RGBA{R: 96, G: 140, B: 72, A: 255}, color.RGBA{R: 84, G: 124, B: 64, A: 255})
	d.renderer, err = renderer.New(ground, sprite)
	if err != nil {
		d.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	d.renderer.SetFog(renderer.Fog{Start: FogStart(cfg.Scene), Color: [3]float32{0.55, 0.7, 0.9}})

	d.device = gpu.NewGL(d.window.DrawableSize)
	d.input = input.New(input.DefaultKeys())
	d.capture = debug.NewCapture(cfg.Capture.Dir, "flexfov", cfg.Capture.Format, cfg.Capture.MaxSize)

	host := flexfov.Host{
		Device:       d.device,
		Stream:       &d.stream,
		Cameras:      d.camera,
		UnloadShader: d.renderer.Unload,
	}
	if a := d.initAudio(); a != nil {
		d.audio = a
		host.Cues = a
	}

	d.sys = flexfov.New(cfg.FlexFOV, host)
	if err := d.sys.Init(); err != nil {
		d.Close()
		return nil, err
	}

	d.world = NewWorld(cfg.Scene, d.sys, &d.stream, d.renderer, d.camera, d.window.DrawableSize)

	d.log.Info("demo initialized",
		zap.Int("props", len(d.world.Props)),
		zap.Int("sprites", len(d.world.Sprites)))
	return d, nil
}

// initAudio returns nil when audio is unavailable; cues are optional.
func (d *Demo) initAudio() *audio.Manager {
	a, err := audio.New(d.cfg.Audio.Volume, d.cfg.Audio.Muted)
	if err != nil {
		d.log.Warn("audio cues disabled", zap.Error(err))
		return nil
	}
	if err := a.Init(); err != nil {
		d.log.Warn("audio device unavailable", zap.Error(err))
		return nil
	}
	if err := a.LoadCueFiles(d.cfg.Audio.Cues); err != nil {
		d.log.Warn("keeping generated cues", zap.Error(err))
	}
	return a
}

func loadSprite(path string, log *zap.Logger) *image.RGBA {
	if path != "" {
		img, err := texture.Load(path)
		if err == nil {
			return img
		}
		log.Warn("using generated sprite", zap.String("path", path), zap.Error(err))
	}
	return texture.Tree(128)
}

// Run starts the main loop.
func (d *Demo) Run() error {
	d.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	d.log.Info("starting main loop")

	for d.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if d.input.Update() {
			d.running = false
			break
		}
		d.handleEvents()
		d.update(dt)
		d.render()
		d.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			d.window.SetTitle(fmt.Sprintf("flexfov - %.0f° - %d fps", d.sys.Params().FOV, frameCount))
			d.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (d *Demo) handleEvents() {
	for _, e := range d.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			d.sys.Resize()
		case input.EventKeyDown:
			d.handleKey(e.Key)
		case input.EventMouseDown:
			d.dragging = e.Button == sdl.BUTTON_LEFT
		case input.EventMouseUp:
			d.dragging = false
		case input.EventMouseMove:
			if d.dragging {
				d.camera.HandleDrag(float32(e.DX), float32(e.DY))
			}
		case input.EventMouseWheel:
			d.camera.HandleZoom(float32(e.Wheel))
		}
	}
}

func (d *Demo) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		d.running = false
	case sdl.SCANCODE_F:
		d.sys.Policy().SetEnabled(!d.sys.Policy().Enabled())
		d.log.Info("wide fov toggled", zap.Bool("enabled", d.sys.Policy().Enabled()))
	case sdl.SCANCODE_C:
		d.scene.Restricted = !d.scene.Restricted
		d.log.Info("camera restriction", zap.Bool("restricted", d.scene.Restricted))
	case sdl.SCANCODE_X:
		if d.scene.Current == activation.ActionCreditsCutscene {
			d.scene.Current = 0
		} else {
			d.scene.Current = activation.ActionCreditsCutscene
		}
		d.log.Info("scene action", zap.Uint32("action", uint32(d.scene.Current)))
	case sdl.SCANCODE_F3:
		if logger.Level() == zapcore.DebugLevel {
			logger.SetLevel(d.cfg.Logging.Level)
		} else {
			logger.SetLevel("debug")
		}
		d.log.Info("log level", zap.Stringer("level", logger.Level()))
	case sdl.SCANCODE_F10:
		if err := d.window.ToggleFullscreen(); err != nil {
			d.log.Warn("fullscreen toggle failed", zap.Error(err))
		}
	case sdl.SCANCODE_F5:
		d.saveSettings()
	case sdl.SCANCODE_F11:
		d.saveScreen()
	case sdl.SCANCODE_F12:
		d.saveFaces()
	}
}

// update feeds the controller to flexfov first. Whatever it leaves
// unsuppressed orbits the camera.
func (d *Demo) update(dt float64) {
	c := d.input.Controller()
	d.sys.UpdateInput(d.scene, &c, nil)

	const orbitRate = 5 // drag units per second per stick unit
	scale := float32(dt) * orbitRate
	d.camera.HandleDrag(c.StickX*scale, c.StickY*scale)
	if c.ButtonPressed&controls.ButtonStart != 0 {
		d.camera.CycleMode()
	}
}

func (d *Demo) render() {
	d.stream.Reset()
	stats := d.sys.ProcessRoot(d.scene, d.world)
	fired := d.sys.Play()
	if fired != len(stats.Markers) {
		d.log.Warn("markers did not all fire", zap.Int("recorded", len(stats.Markers)), zap.Int("fired", fired))
	}
}

func (d *Demo) saveScreen() {
	w, h := d.window.DrawableSize()
	img, err := debug.ScreenImage(d.renderer.ReadScreen(w, h), int(w), int(h))
	if err == nil {
		var name string
		name, err = d.capture.Save(img, "screen")
		if err == nil {
			d.log.Info("screen saved", zap.String("file", name))
			return
		}
	}
	d.log.Error("screen capture failed", zap.Error(err))
}

// saveSettings persists the live FOV and the enabled flag.
func (d *Demo) saveSettings() {
	d.cfg.FlexFOV.FOV = d.sys.Controls().FOV()
	d.cfg.FlexFOV.Enabled = d.sys.Policy().Enabled()
	if err := d.cfg.Save(); err != nil {
		d.log.Error("saving settings failed", zap.Error(err))
		return
	}
	d.log.Info("settings saved", zap.String("file", d.cfg.Path()))
}

func (d *Demo) saveFaces() {
	name, err := d.sys.SaveFaces(d.capture)
	if err != nil {
		d.log.Error("cube capture failed", zap.Error(err))
		return
	}
	d.log.Info("cube faces saved", zap.String("file", name))
}

// Close releases everything in reverse order of creation.
func (d *Demo) Close() {
	d.log.Info("closing demo")

	if d.sys != nil {
		d.sys.Close()
	}
	if d.device != nil {
		d.device.Release()
	}
	if d.audio != nil {
		d.audio.Close()
	}
	if d.input != nil {
		d.input.Close()
	}
	if d.renderer != nil {
		d.renderer.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}
