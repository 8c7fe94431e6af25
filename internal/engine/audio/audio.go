// Package audio plays named feedback cues (bounce, whoosh, click) and
// optional looping music.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by operations that need the speaker.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager owns decoded clips and the speaker mixer.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	clips map[string]*beep.Buffer

	// music
	musicCtrl   *beep.Ctrl
	musicVolume *effects.Volume
	musicName   string

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	musicLevel   float64
	sfxLevel     float64
	muted        bool

	mixer *beep.Mixer
}

// New creates a new audio manager. Clips may be loaded before Init.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		clips:        make(map[string]*beep.Buffer),
		masterVolume: 1.0,
		musicLevel:   0.7,
		sfxLevel:     1.0,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker and starts the effect mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.musicCtrl = nil
	m.musicVolume = nil
	m.musicName = ""
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Load decodes WAV data and stores it under name, replacing any clip with
// the same name.
func (m *Manager) Load(name string, data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  m.sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	if format.SampleRate != m.sampleRate {
		buf.Append(beep.Resample(4, format.SampleRate, m.sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	m.clips[name] = buf
	return nil
}

// Has reports whether a clip is loaded under name.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clips[name]
	return ok
}

// Clips returns the loaded clip names in sorted order.
func (m *Manager) Clips() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.clips))
	for name := range m.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Duration returns the length of a loaded clip.
func (m *Manager) Duration(name string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.clips[name]
	if !ok {
		return 0, false
	}
	return m.sampleRate.D(buf.Len()), true
}

// Play starts a clip and returns immediately. Overlapping calls mix.
// Unknown names and an uninitialized speaker are ignored.
func (m *Manager) Play(name string) {
	m.mu.RLock()
	buf, ok := m.clips[name]
	initialized := m.initialized
	vol := m.effectiveVolume(m.sfxLevel)
	m.mu.RUnlock()

	if !ok {
		logger.Debug("unknown sound", zap.String("name", name))
		return
	}
	if !initialized {
		return
	}

	s := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExponent(vol),
		Silent:   vol <= 0,
	}

	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// PlayMusic loops a loaded clip as background music.
func (m *Manager) PlayMusic(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	buf, ok := m.clips[name]
	if !ok {
		return fmt.Errorf("music %q not loaded", name)
	}

	m.stopMusic()

	m.musicCtrl = &beep.Ctrl{Streamer: &loopStreamer{buf: buf}}
	m.musicVolume = &effects.Volume{Streamer: m.musicCtrl, Base: 2}
	m.musicName = name
	m.updateMusicVolume()

	speaker.Lock()
	m.mixer.Add(m.musicVolume)
	speaker.Unlock()
	return nil
}

// StopMusic stops the background music.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMusic()
}

func (m *Manager) stopMusic() {
	if m.musicCtrl != nil {
		// Ctrl with a nil streamer drains out of the mixer
		speaker.Lock()
		m.musicCtrl.Streamer = nil
		speaker.Unlock()
	}
	m.musicCtrl = nil
	m.musicVolume = nil
	m.musicName = ""
}

// PauseMusic pauses or resumes the background music.
func (m *Manager) PauseMusic(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.musicCtrl != nil {
		speaker.Lock()
		m.musicCtrl.Paused = paused
		speaker.Unlock()
	}
}

// MusicName returns the clip currently used as music.
func (m *Manager) MusicName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicName
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetMusicVolume sets the music volume (0.0 to 1.0).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLevel = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetSFXVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxLevel = clamp(vol, 0, 1)
}

// SetMuted silences everything without losing the volume levels.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.updateMusicVolume()
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetMusicVolume returns the music volume.
func (m *Manager) GetMusicVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicLevel
}

// GetSFXVolume returns the effect volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxLevel
}

// IsMuted reports whether output is muted.
func (m *Manager) IsMuted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

func (m *Manager) effectiveVolume(level float64) float64 {
	if m.muted {
		return 0
	}
	return m.masterVolume * level
}

func (m *Manager) updateMusicVolume() {
	if m.musicVolume == nil {
		return
	}
	vol := m.effectiveVolume(m.musicLevel)
	speaker.Lock()
	m.musicVolume.Silent = vol <= 0
	m.musicVolume.Volume = volumeExponent(vol)
	speaker.Unlock()
}

// volumeExponent maps a 0-1 volume onto the base-2 exponent effects.Volume
// expects. 1 -> 0, 0.5 -> -1.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// loopStreamer replays a buffer forever.
type loopStreamer struct {
	buf *beep.Buffer
	cur beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if l.buf.Len() == 0 {
		return 0, false
	}
	for n < len(samples) {
		if l.cur == nil {
			l.cur = l.buf.Streamer(0, l.buf.Len())
		}
		sn, sok := l.cur.Stream(samples[n:])
		n += sn
		if !sok || sn == 0 {
			l.cur = nil
		}
	}
	return n, true
}

func (l *loopStreamer) Err() error { return nil }
