// Package config handles flexfov configuration loading and management.
package config

import "fmt"

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	FlexFOV  FlexFOVConfig  `yaml:"flexfov"`
	Capture  CaptureConfig  `yaml:"capture"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`

	path string
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Volume float64 `yaml:"volume"`
	Muted  bool    `yaml:"muted"`
	// Cues maps a cue name (pinch, release, enable, disable, move) to a WAV
	// file. Cues without a file play a generated tone.
	Cues map[string]string `yaml:"cues"`
}

// FlexFOVConfig holds wide field-of-view settings.
type FlexFOVConfig struct {
	Enabled         bool     `yaml:"enabled"`
	FOV             float32  `yaml:"fov"`         // initial field of view, degrees
	HoldFrames      int      `yaml:"hold_frames"` // edit trigger hold before edit mode
	ScrollRate      float32  `yaml:"scroll_rate"` // degrees per second at full stick
	FrameRate       float32  `yaml:"frame_rate"`  // simulation frames per second
	ExcludedActions []uint32 `yaml:"excluded_actions"`
	Seamless        bool     `yaml:"seamless"`
}

// CaptureConfig holds cube-face capture settings.
type CaptureConfig struct {
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`   // png or webp
	MaxSize int    `yaml:"max_size"` // downscale faces larger than this; 0 keeps size
}

// SceneConfig holds settings for the demo scene.
type SceneConfig struct {
	FOVY     float32 `yaml:"fov_y"` // host camera vertical FOV with wide FOV off, degrees
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	FogStart float32 `yaml:"fog_start"` // fraction of the far plane where fog begins
	Sprite   string  `yaml:"sprite"`    // billboard image (png, bmp or tga); empty uses a checker
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Audio: AudioConfig{
			Volume: 0.6,
			Muted:  false,
		},
		FlexFOV: FlexFOVConfig{
			Enabled:    true,
			FOV:        180,
			HoldFrames: 5,
			ScrollRate: 90,
			FrameRate:  30,
			Seamless:   true,
		},
		Capture: CaptureConfig{
			Dir:     "captures",
			Format:  "png",
			MaxSize: 0,
		},
		Scene: SceneConfig{
			FOVY:     60,
			Near:     10,
			Far:      4000,
			FogStart: 0.5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
			Console:    true,
		},
	}
}

// Validate checks values that cannot be clamped into range.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.FlexFOV.FrameRate <= 0 {
		return fmt.Errorf("flexfov: frame_rate must be positive, got %v", c.FlexFOV.FrameRate)
	}
	if c.FlexFOV.HoldFrames < 0 {
		return fmt.Errorf("flexfov: hold_frames must not be negative, got %d", c.FlexFOV.HoldFrames)
	}
	if c.Scene.Near <= 0 || c.Scene.Far <= c.Scene.Near {
		return fmt.Errorf("scene: need 0 < near < far, got %v and %v", c.Scene.Near, c.Scene.Far)
	}
	switch c.Capture.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("capture: unknown format %q", c.Capture.Format)
	}
	return nil
}
