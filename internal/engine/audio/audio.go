// Package audio plays the short cues fired by the wide field-of-view
// controls.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/flexfov/internal/engine/controls"
	"github.com/Faultbox/flexfov/internal/logger"
)

// DefaultSampleRate is the playback sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

var format = beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}

// tone describes a synthesised default cue as a run of notes.
type tone struct {
	freqs []float64
	note  time.Duration
}

var defaultTones = map[controls.Cue]tone{
	controls.CuePinch:   {freqs: []float64{660, 880}, note: 40 * time.Millisecond},
	controls.CueRelease: {freqs: []float64{880, 660}, note: 40 * time.Millisecond},
	controls.CueDisable: {freqs: []float64{440, 330, 220}, note: 60 * time.Millisecond},
	controls.CueEnable:  {freqs: []float64{220, 330, 440}, note: 60 * time.Millisecond},
	controls.CueMove:    {freqs: []float64{1200}, note: 15 * time.Millisecond},
}

// Manager plays cues through a shared mixer. It implements controls.Cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	mixer       *beep.Mixer
	log         *zap.Logger

	volume float64 // 0.0 to 1.0
	muted  bool

	cues map[controls.Cue]*beep.Buffer
	last map[controls.Cue]time.Time
	now  func() time.Time
}

// New creates a manager with synthesised default cues.
func New(volume float64, muted bool) (*Manager, error) {
	m := &Manager{
		mixer:  &beep.Mixer{},
		log:    logger.Named("audio"),
		volume: clamp(volume, 0, 1),
		muted:  muted,
		cues:   make(map[controls.Cue]*beep.Buffer),
		last:   make(map[controls.Cue]time.Time),
		now:    time.Now,
	}
	for cue, t := range defaultTones {
		buf, err := synth(t)
		if err != nil {
			return nil, fmt.Errorf("synth %s cue: %w", cue, err)
		}
		m.cues[cue] = buf
	}
	return m, nil
}

func synth(t tone) (*beep.Buffer, error) {
	buf := beep.NewBuffer(format)
	n := format.SampleRate.N(t.note)
	for _, f := range t.freqs {
		s, err := generators.SineTone(format.SampleRate, f)
		if err != nil {
			return nil, err
		}
		buf.Append(&effects.Volume{Streamer: beep.Take(n, s), Base: 2, Volume: -2})
	}
	return buf, nil
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// LoadCue replaces a cue with WAV data.
func (m *Manager) LoadCue(cue controls.Cue, r io.Reader) error {
	streamer, f, err := wav.Decode(r)
	if err != nil {
		return fmt.Errorf("decode %s cue: %w", cue, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if f.SampleRate != format.SampleRate {
		s = beep.Resample(4, f.SampleRate, format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(format)
	buf.Append(s)

	m.mu.Lock()
	m.cues[cue] = buf
	m.mu.Unlock()
	return nil
}

// LoadCueFile replaces a cue with a WAV file.
func (m *Manager) LoadCueFile(cue controls.Cue, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s cue: %w", cue, err)
	}
	return m.LoadCue(cue, bytes.NewReader(data))
}

// LoadCueFiles applies a name to path map such as the audio.cues config
// section. Names are checked before anything loads, so an unknown name
// leaves every cue as it was. Unreadable files are skipped and reported
// together.
func (m *Manager) LoadCueFiles(paths map[string]string) error {
	names := slices.Sorted(maps.Keys(paths))

	cues := make([]controls.Cue, len(names))
	var unknown []error
	for i, name := range names {
		cue, ok := ParseCue(name)
		if !ok {
			unknown = append(unknown, fmt.Errorf("unknown cue %q", name))
		}
		cues[i] = cue
	}
	if len(unknown) > 0 {
		return errors.Join(unknown...)
	}

	var errs []error
	for i, name := range names {
		if err := m.LoadCueFile(cues[i], paths[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParseCue looks a cue up by name.
func ParseCue(name string) (controls.Cue, bool) {
	for cue := range defaultTones {
		if cue.String() == name {
			return cue, true
		}
	}
	return 0, false
}

// Length returns the playing time of a cue.
func (m *Manager) Length(cue controls.Cue) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.cues[cue]
	if !ok {
		return 0
	}
	return format.SampleRate.D(buf.Len())
}

// Play starts a cue. A cue that is still sounding is not restarted, so
// per-frame cues do not pile up.
func (m *Manager) Play(cue controls.Cue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, ok := m.cues[cue]
	if !ok {
		m.log.Warn("no such cue", zap.Stringer("cue", cue))
		return
	}
	if m.muted || m.volume <= 0 {
		return
	}

	now := m.now()
	if t, ok := m.last[cue]; ok && now.Sub(t) < format.SampleRate.D(buf.Len()) {
		return
	}
	m.last[cue] = now

	if !m.initialized {
		return
	}

	s := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExp(m.volume),
	}
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetMuted silences or restores cues.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether cues are silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// volumeExp converts a 0-1 volume to an effects.Volume exponent in base 2.
// Full volume is 0, half volume is -1.
func volumeExp(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
