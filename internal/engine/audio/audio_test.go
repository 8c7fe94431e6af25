package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
)

// encodeTone writes a short sine clip as WAV and returns the bytes.
func encodeTone(t *testing.T, rate beep.SampleRate, d time.Duration) []byte {
	t.Helper()

	tone, err := generators.SineTone(rate, 440)
	if err != nil {
		t.Fatalf("sine tone: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(rate.N(d), tone), format); err != nil {
		f.Close()
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return data
}

func TestVolumeExponent(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -1},
		{0.25, -2},
		{0.0, -100},
		{-1, -100},
	}

	for _, tt := range tests {
		got := volumeExponent(tt.vol)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("volumeExponent(%f) = %f, want %f", tt.vol, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNewManager(t *testing.T) {
	m := New()

	if m.GetMasterVolume() != 1.0 {
		t.Errorf("default master volume = %f, want 1.0", m.GetMasterVolume())
	}
	if m.GetMusicVolume() != 0.7 {
		t.Errorf("default music volume = %f, want 0.7", m.GetMusicVolume())
	}
	if m.GetSFXVolume() != 1.0 {
		t.Errorf("default SFX volume = %f, want 1.0", m.GetSFXVolume())
	}
	if m.IsInitialized() {
		t.Error("new manager should not be initialized")
	}
}

func TestSetVolumeClamps(t *testing.T) {
	m := New()

	m.SetMasterVolume(2.0)
	if m.GetMasterVolume() != 1.0 {
		t.Errorf("master volume = %f, want 1.0", m.GetMasterVolume())
	}
	m.SetSFXVolume(-1.0)
	if m.GetSFXVolume() != 0 {
		t.Errorf("sfx volume = %f, want 0", m.GetSFXVolume())
	}
	m.SetMusicVolume(0.3)
	if m.GetMusicVolume() != 0.3 {
		t.Errorf("music volume = %f, want 0.3", m.GetMusicVolume())
	}
}

func TestMuteZeroesEffectiveVolume(t *testing.T) {
	m := New()
	m.SetMuted(true)

	if !m.IsMuted() {
		t.Fatal("expected muted")
	}
	if v := m.effectiveVolume(1); v != 0 {
		t.Errorf("effective volume while muted = %f", v)
	}

	m.SetMuted(false)
	m.SetMasterVolume(0.5)
	if v := m.effectiveVolume(0.5); v != 0.25 {
		t.Errorf("effective volume = %f, want 0.25", v)
	}
}

func TestLoadClip(t *testing.T) {
	m := New()
	data := encodeTone(t, DefaultSampleRate, 100*time.Millisecond)

	if err := m.Load("bounce", data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.Has("bounce") {
		t.Fatal("clip not registered")
	}

	d, ok := m.Duration("bounce")
	if !ok {
		t.Fatal("Duration reported missing clip")
	}
	if d < 90*time.Millisecond || d > 110*time.Millisecond {
		t.Errorf("duration = %v, want ~100ms", d)
	}
}

func TestLoadResamples(t *testing.T) {
	m := New()
	data := encodeTone(t, 22050, 200*time.Millisecond)

	if err := m.Load("whoosh", data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, _ := m.Duration("whoosh")
	if d < 180*time.Millisecond || d > 220*time.Millisecond {
		t.Errorf("resampled duration = %v, want ~200ms", d)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	m := New()
	if err := m.Load("click", bytes.Repeat([]byte{0xff}, 64)); err == nil {
		t.Fatal("expected decode error")
	}
	if m.Has("click") {
		t.Error("failed load must not register a clip")
	}
}

func TestPlayWithoutSpeakerIsNoop(t *testing.T) {
	m := New()
	if err := m.Load("bounce", encodeTone(t, DefaultSampleRate, 10*time.Millisecond)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	m.Play("bounce")
	m.Play("missing")

	if err := m.PlayMusic("bounce"); err != ErrNotInitialized {
		t.Errorf("PlayMusic before Init = %v, want ErrNotInitialized", err)
	}
}

func TestClipsSorted(t *testing.T) {
	m := New()
	tone := encodeTone(t, DefaultSampleRate, 10*time.Millisecond)
	for _, name := range []string{"whoosh", "bounce", "click"} {
		if err := m.Load(name, tone); err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
	}

	got := m.Clips()
	want := []string{"bounce", "click", "whoosh"}
	if len(got) != len(want) {
		t.Fatalf("Clips() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clips()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoopStreamerWraps(t *testing.T) {
	buf := beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(10, beep.Silence(-1)))

	l := &loopStreamer{buf: buf}
	samples := make([][2]float64, 35)
	n, ok := l.Stream(samples)
	if !ok || n != 35 {
		t.Errorf("Stream = (%d, %v), want (35, true)", n, ok)
	}
}
