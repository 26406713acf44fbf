package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Faultbox/flexfov/internal/engine/controls"
)

func TestVolumeExp(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
	}

	for _, tt := range tests {
		if got := volumeExp(tt.vol); got != tt.want {
			t.Errorf("volumeExp(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m, err := New(2.0, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.Volume() != 1.0 {
		t.Errorf("volume = %f, want 1.0 (clamped)", m.Volume())
	}
	if m.IsInitialized() {
		t.Error("manager should not open the speaker before Init")
	}

	for cue, tn := range defaultTones {
		want := time.Duration(len(tn.freqs)) * tn.note
		if got := m.Length(cue); got < want-time.Millisecond || got > want+time.Millisecond {
			t.Errorf("%s cue length = %v, want %v", cue, got, want)
		}
	}
}

func TestSetVolumeAndMute(t *testing.T) {
	m, err := New(0.6, false)
	if err != nil {
		t.Fatal(err)
	}

	m.SetVolume(-1)
	if m.Volume() != 0 {
		t.Errorf("volume = %f, want 0 (clamped)", m.Volume())
	}
	m.SetMuted(true)
	if !m.Muted() {
		t.Error("Muted() = false after SetMuted(true)")
	}
}

func TestPlayDebounce(t *testing.T) {
	m, err := New(1, false)
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Unix(100, 0)
	m.now = func() time.Time { return clock }

	m.Play(controls.CueMove)
	first := m.last[controls.CueMove]

	clock = clock.Add(time.Millisecond)
	m.Play(controls.CueMove)
	if !m.last[controls.CueMove].Equal(first) {
		t.Error("cue restarted while still sounding")
	}

	clock = clock.Add(time.Second)
	m.Play(controls.CueMove)
	if !m.last[controls.CueMove].Equal(clock) {
		t.Error("cue should play again once finished")
	}
}

func TestPlayMuted(t *testing.T) {
	m, err := New(1, true)
	if err != nil {
		t.Fatal(err)
	}
	m.Play(controls.CueEnable)
	if _, ok := m.last[controls.CueEnable]; ok {
		t.Error("muted manager should not schedule cues")
	}
	m.Play(controls.Cue(42))
}

func writeWAV(t *testing.T, dir string, sr beep.SampleRate, d time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, "cue.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s, err := generators.SineTone(sr, 440)
	if err != nil {
		t.Fatal(err)
	}
	wf := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(sr.N(d), s), wf); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCueFile(t *testing.T) {
	m, err := New(1, false)
	if err != nil {
		t.Fatal(err)
	}

	// Different sample rate forces resampling.
	path := writeWAV(t, t.TempDir(), 22050, 200*time.Millisecond)
	if err := m.LoadCueFiles(map[string]string{"pinch": path}); err != nil {
		t.Fatalf("LoadCueFiles: %v", err)
	}

	got := m.Length(controls.CuePinch)
	if got < 190*time.Millisecond || got > 210*time.Millisecond {
		t.Errorf("loaded cue length = %v, want about 200ms", got)
	}
}

func TestLoadCueErrors(t *testing.T) {
	m, err := New(1, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.LoadCue(controls.CueMove, bytes.NewReader([]byte("not a wav"))); err == nil {
		t.Error("LoadCue should reject garbage")
	}
	if err := m.LoadCueFile(controls.CueMove, filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("LoadCueFile should fail on a missing file")
	}
	err = m.LoadCueFiles(map[string]string{"boing": "x.wav"})
	if err == nil || !strings.Contains(err.Error(), "boing") {
		t.Errorf("unknown cue error = %v", err)
	}
}

func TestLoadCueFilesAllOrNothingOnUnknownName(t *testing.T) {
	m, err := New(1, false)
	if err != nil {
		t.Fatal(err)
	}
	before := m.Length(controls.CuePinch)
	path := writeWAV(t, t.TempDir(), 44100, 200*time.Millisecond)

	err = m.LoadCueFiles(map[string]string{"pinch": path, "boing": path, "zap": path})
	if err == nil || !strings.Contains(err.Error(), "boing") || !strings.Contains(err.Error(), "zap") {
		t.Fatalf("error = %v, want both unknown names", err)
	}
	if got := m.Length(controls.CuePinch); got != before {
		t.Errorf("pinch length = %v, want untouched %v", got, before)
	}
}

func TestLoadCueFilesReportsEveryBadFile(t *testing.T) {
	m, err := New(1, false)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	good := writeWAV(t, dir, 44100, 200*time.Millisecond)

	err = m.LoadCueFiles(map[string]string{
		"move":    good,
		"enable":  filepath.Join(dir, "missing-enable.wav"),
		"disable": filepath.Join(dir, "missing-disable.wav"),
	})
	if err == nil || !strings.Contains(err.Error(), "enable") || !strings.Contains(err.Error(), "disable") {
		t.Fatalf("error = %v, want both missing files", err)
	}
	if got := m.Length(controls.CueMove); got < 190*time.Millisecond || got > 210*time.Millisecond {
		t.Errorf("move cue length = %v, want the loaded 200ms file", got)
	}
}

func TestParseCue(t *testing.T) {
	for _, name := range []string{"pinch", "release", "disable", "enable", "move"} {
		cue, ok := ParseCue(name)
		if !ok || cue.String() != name {
			t.Errorf("ParseCue(%q) = %v, %v", name, cue, ok)
		}
	}
	if _, ok := ParseCue("nope"); ok {
		t.Error("ParseCue accepted an unknown name")
	}
}
