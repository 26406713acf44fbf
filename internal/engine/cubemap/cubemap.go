// Package cubemap manages the off-screen cube render target that the six
// face passes draw into.
package cubemap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/face"
	"github.com/Faultbox/flexfov/internal/engine/gpu"
	"github.com/Faultbox/flexfov/internal/logger"
)

// Manager owns one framebuffer plus a colour and a depth cube texture,
// each with square faces of side max(screen width, screen height).
type Manager struct {
	dev   gpu.Device
	log   *zap.Logger
	fbo   gpu.Framebuffer
	color gpu.Texture
	depth gpu.Texture
	size  int32

	current face.Pass
}

// New creates the render target sized to the current screen.
func New(dev gpu.Device, seamless bool) (*Manager, error) {
	m := &Manager{
		dev:     dev,
		log:     logger.Named("cubemap"),
		current: face.Single(),
	}

	if seamless {
		dev.Enable(gpu.SeamlessCubeMap)
	}
	m.fbo = dev.NewFramebuffer()
	m.color = dev.NewCubeTexture()
	m.depth = dev.NewCubeTexture()
	m.Resize(true)

	// Attach once so an incomplete target fails at startup, not mid-frame.
	if err := dev.AttachCubeFace(m.fbo, m.color, m.depth, face.Front); err != nil {
		m.Destroy()
		return nil, fmt.Errorf("creating cube map: %w", err)
	}
	dev.BindFramebuffer(0)

	return m, nil
}

// Resize re-specifies all twelve face images when the screen's larger
// dimension changed, or unconditionally when force is set. It reports
// whether storage was reallocated.
func (m *Manager) Resize(force bool) bool {
	w, h := m.dev.Dimensions()
	size := max(w, h, 1)
	if size == m.size && !force {
		return false
	}
	m.size = size

	for _, f := range face.All {
		m.dev.AllocCubeFace(m.color, f, gpu.FormatRGBA8, size)
		m.dev.AllocCubeFace(m.depth, f, gpu.FormatDepth24, size)
	}
	m.log.Info("cube map allocated", zap.Int32("size", size), zap.Int32("width", w), zap.Int32("height", h))
	return true
}

// BindFace makes face f the render target and clears it. The scissor test
// is lifted for the clear so the whole face is reset.
func (m *Manager) BindFace(f face.Face) error {
	d := m.dev
	if err := d.AttachCubeFace(m.fbo, m.color, m.depth, f); err != nil {
		return err
	}
	m.current = face.On(f)

	d.Viewport(0, 0, m.size, m.size)
	d.Disable(gpu.ScissorTest)
	d.DepthMask(true)
	d.ClearColor(0, 0, 0, 0)
	d.Clear()
	d.Enable(gpu.ScissorTest)

	// Premultiplied content needs its own alpha factors inside the face.
	d.BlendFuncSeparate(gpu.SrcAlpha, gpu.OneMinusSrcAlpha, gpu.One, gpu.OneMinusSrcAlpha)
	return nil
}

// Release marks the cube target unbound, after the composite.
func (m *Manager) Release() {
	m.current = face.Single()
}

// Current returns the pass whose face is bound as the render target.
func (m *Manager) Current() face.Pass {
	return m.current
}

// Size returns the face side length in pixels.
func (m *Manager) Size() int32 {
	return m.size
}

// ColorTexture returns the colour cube texture.
func (m *Manager) ColorTexture() gpu.Texture {
	return m.color
}

// ReadFace reads back one face of the colour texture as RGBA rows in
// readback order.
func (m *Manager) ReadFace(f face.Face) []byte {
	return m.dev.ReadCubeFace(m.color, f, m.size)
}

// Destroy releases the framebuffer and textures.
func (m *Manager) Destroy() {
	if m.fbo != 0 {
		m.dev.DeleteFramebuffer(m.fbo)
		m.fbo = 0
	}
	if m.color != 0 {
		m.dev.DeleteTexture(m.color)
		m.color = 0
	}
	if m.depth != 0 {
		m.dev.DeleteTexture(m.depth)
		m.depth = 0
	}
}
