package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNopBeforeInit(t *testing.T) {
	// Helpers must be callable before Init.
	Debug("frame", zap.Int("passes", 7))
	Named("cubemap").Info("resize", zap.Int32("size", 720))
	Sync()
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "flexfov.log")

	// 1MB is the smallest size lumberjack allows.
	opts := Options{
		Level:      "debug",
		File:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	if err := Configure(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	pad := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Debugf("frame %d passes=7 %s", i, pad)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Fatal("main log file does not exist")
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}

	var logFiles []string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "flexfov") && strings.Contains(f.Name(), ".log") {
			logFiles = append(logFiles, f.Name())
		}
	}
	if len(logFiles) < 2 {
		t.Errorf("expected at least 2 log files (rotation), got %d: %v", len(logFiles), logFiles)
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			opts := Options{Level: tt.level, File: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}

			if err := Configure(opts); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestNamedLoggerTagsOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := Configure(Options{Level: "info", File: logFile}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("controls").Info("edit mode on")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "controls") {
		t.Errorf("expected logger name in output, got %q", content)
	}
}

func TestSetLevelAtRuntime(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "level.log")
	if err := Configure(Options{Level: "info", File: logFile}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Debug("hidden")
	SetLevel("debug")
	if Level() != zapcore.DebugLevel {
		t.Fatalf("Level() = %v, want debug", Level())
	}
	Debug("shown")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output after SetLevel: %q", out)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Configure(Options{Level: "warn", Console: &buf}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	Info("quiet")
	Warn("cube resized")
	Sync()

	if out := buf.String(); strings.Contains(out, "quiet") || !strings.Contains(out, "cube resized") {
		t.Errorf("console output = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"fatal": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
