package gpu

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/flexfov/internal/engine/face"
)

func TestCubeTargets(t *testing.T) {
	tests := []struct {
		face face.Face
		want uint32
	}{
		{face.Front, gl.TEXTURE_CUBE_MAP_POSITIVE_Z},
		{face.Left, gl.TEXTURE_CUBE_MAP_NEGATIVE_X},
		{face.Right, gl.TEXTURE_CUBE_MAP_POSITIVE_X},
		{face.Back, gl.TEXTURE_CUBE_MAP_NEGATIVE_Z},
		{face.Up, gl.TEXTURE_CUBE_MAP_POSITIVE_Y},
		{face.Down, gl.TEXTURE_CUBE_MAP_NEGATIVE_Y},
	}
	seen := make(map[uint32]bool)
	for _, tt := range tests {
		got := CubeTarget(tt.face)
		if got != tt.want {
			t.Errorf("CubeTarget(%s) = 0x%x, want 0x%x", tt.face, got, tt.want)
		}
		seen[got] = true
	}
	if len(seen) != face.Count {
		t.Errorf("faces share targets: %v", seen)
	}
}

func TestGLBlendFactors(t *testing.T) {
	tests := []struct {
		in   BlendFactor
		want uint32
	}{
		{Zero, gl.ZERO},
		{One, gl.ONE},
		{SrcAlpha, gl.SRC_ALPHA},
		{OneMinusSrcAlpha, gl.ONE_MINUS_SRC_ALPHA},
	}
	for _, tt := range tests {
		if got := glBlend(tt.in); got != tt.want {
			t.Errorf("glBlend(%d) = 0x%x, want 0x%x", tt.in, got, tt.want)
		}
	}
}

func TestGLCapabilities(t *testing.T) {
	if glCapability(SeamlessCubeMap) != gl.TEXTURE_CUBE_MAP_SEAMLESS {
		t.Error("seamless cube map capability mismatch")
	}
	if glCapability(ScissorTest) != gl.SCISSOR_TEST {
		t.Error("scissor capability mismatch")
	}

	defer func() {
		if recover() == nil {
			t.Error("unknown capability should panic")
		}
	}()
	glCapability(Capability(99))
}

func TestFormatString(t *testing.T) {
	if FormatRGBA8.String() != "rgba8" || FormatDepth24.String() != "depth24" {
		t.Error("unexpected format names")
	}
}
