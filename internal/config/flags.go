package config

import (
	"flag"
	"os"
)

// cliFlags holds the command-line overrides. Only flags given on the command
// line are applied, so -fullscreen=false can override a file.
type cliFlags struct {
	fs  *flag.FlagSet
	set map[string]bool

	config        string
	logLevel      string
	logFile       string
	fov           float64
	noFlexFOV     bool
	mute          bool
	captureDir    string
	captureFormat string
	fullscreen    bool
	width         int
	height        int
}

var cli = newCLIFlags(flag.CommandLine)

func newCLIFlags(fs *flag.FlagSet) *cliFlags {
	f := &cliFlags{fs: fs, set: map[string]bool{}}
	fs.StringVar(&f.config, "config", "", "Path to config file")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "Write rotated logs to this file")
	fs.Float64Var(&f.fov, "fov", 0, "Initial field of view in degrees (90-360)")
	fs.BoolVar(&f.noFlexFOV, "disable-flexfov", false, "Start with wide field of view off")
	fs.BoolVar(&f.mute, "mute", false, "Mute audio cues")
	fs.StringVar(&f.captureDir, "capture-dir", "", "Directory for screen and cube captures")
	fs.StringVar(&f.captureFormat, "capture-format", "", "Capture format (png or webp)")
	fs.BoolVar(&f.fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.width, "width", 0, "Window width")
	fs.IntVar(&f.height, "height", 0, "Window height")
	return f
}

func (f *cliFlags) parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	f.fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return nil
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	// CommandLine exits on error.
	_ = cli.parse(os.Args[1:])
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return cli.config
}

func applyFlags(cfg *Config) {
	cli.apply(cfg)
}

func (f *cliFlags) apply(cfg *Config) {
	if f.set["log-level"] {
		cfg.Logging.Level = f.logLevel
	}
	if f.set["log-file"] {
		cfg.Logging.LogFile = f.logFile
	}
	if f.set["fov"] {
		cfg.FlexFOV.FOV = float32(f.fov)
	}
	if f.set["disable-flexfov"] {
		cfg.FlexFOV.Enabled = !f.noFlexFOV
	}
	if f.set["mute"] {
		cfg.Audio.Muted = f.mute
	}
	if f.set["capture-dir"] {
		cfg.Capture.Dir = f.captureDir
	}
	if f.set["capture-format"] {
		cfg.Capture.Format = f.captureFormat
	}
	if f.set["fullscreen"] {
		cfg.Graphics.Fullscreen = f.fullscreen
	}
	if f.set["width"] {
		cfg.Graphics.Width = f.width
	}
	if f.set["height"] {
		cfg.Graphics.Height = f.height
	}
}
