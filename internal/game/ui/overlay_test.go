package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/bouncer/internal/engine/input"
	"github.com/Faultbox/bouncer/internal/engine/ui2d"
	"github.com/Faultbox/bouncer/internal/game/sim"
)

type fakePainter struct {
	texts []string
}

func (p *fakePainter) Begin()                                   { p.texts = nil }
func (p *fakePainter) End()                                     {}
func (p *fakePainter) Resize(int, int)                          {}
func (p *fakePainter) ScreenSize() (int, int)                   { return 800, 600 }
func (p *fakePainter) Close()                                   {}
func (p *fakePainter) DrawRect(_, _, _, _ float32, _ ui2d.Color) {}

func (p *fakePainter) DrawRectOutline(_, _, _, _, _ float32, _ ui2d.Color) {}

func (p *fakePainter) DrawText(_, _ float32, text string, _ float32, _ ui2d.Color) {
	p.texts = append(p.texts, text)
}

func (p *fakePainter) MeasureText(text string, scale float32) (float32, float32) {
	return float32(len(text)) * 7 * scale, 13 * scale
}

type cues struct{ played []string }

func (c *cues) Play(name string) { c.played = append(c.played, name) }

func newTestOverlay(showFPS bool) (*Overlay, *fakePainter, *cues) {
	p := &fakePainter{}
	c := &cues{}
	return NewOverlay(ui2d.NewContextWith(p), c, showFPS), p, c
}

func click(o *Overlay, x, y float64) {
	in := o.Context().Input()
	in.Feed(input.Event{Type: input.EventButton, Button: input.ButtonLeft, Action: input.Press, X: x, Y: y})
}

func release(o *Overlay) {
	o.Context().Input().Feed(input.Event{Type: input.EventButton, Button: input.ButtonLeft, Action: input.Release})
}

// The menu is centred on an 800x600 screen: Play spans y 227..263 and
// Quit spans y 267..303.
const (
	buttonX = 400
	playY   = 240
	quitY   = 280
)

func TestMenuShownOnlyWhilePaused(t *testing.T) {
	o, p, _ := newTestOverlay(false)

	assert.Equal(t, sim.IntentNone, o.Draw(View{Paused: true}))
	assert.Contains(t, p.texts, "Play")
	assert.Contains(t, p.texts, "Quit")
	assert.Contains(t, p.texts, "Hits: 0")

	assert.Equal(t, sim.IntentNone, o.Draw(View{Paused: false, Hits: 3}))
	assert.NotContains(t, p.texts, "Play")
	assert.Contains(t, p.texts, "Hits: 3")
}

func TestPlayStartsAndBecomesResume(t *testing.T) {
	o, p, c := newTestOverlay(false)

	click(o, buttonX, playY)
	assert.Equal(t, sim.IntentStartGame, o.Draw(View{Paused: true}))
	assert.Equal(t, []string{sim.SoundClick}, c.played)
	release(o)

	o.Draw(View{Paused: true})
	assert.Contains(t, p.texts, "Resume")
	assert.NotContains(t, p.texts, "Play")
}

func TestQuitButton(t *testing.T) {
	o, _, c := newTestOverlay(false)

	click(o, buttonX, quitY)
	assert.Equal(t, sim.IntentQuit, o.Draw(View{Paused: true}))
	assert.Len(t, c.played, 1)
}

func TestClickIgnoredWhilePlaying(t *testing.T) {
	o, _, c := newTestOverlay(false)

	click(o, buttonX, playY)
	assert.Equal(t, sim.IntentNone, o.Draw(View{Paused: false}))
	assert.Empty(t, c.played)
}

func TestFPSShownWhenEnabled(t *testing.T) {
	o, p, _ := newTestOverlay(true)
	for range 30 {
		o.FPS.Update(1000.0 / 60)
	}
	o.Draw(View{})

	found := false
	for _, s := range p.texts {
		if len(s) > 3 && s[len(s)-2:] == "ms" {
			found = true
		}
	}
	assert.True(t, found, "texts: %v", p.texts)
}

func TestFPSCounter(t *testing.T) {
	var f FPSCounter
	for range 10 {
		f.Update(50)
	}
	assert.InDelta(t, 20.0, f.FPS(), 1e-9)
	assert.Equal(t, 50.0, f.FrameTime())

	// below half a second nothing is reported yet
	var g FPSCounter
	g.Update(100)
	assert.Zero(t, g.FPS())
}

func TestFPSColor(t *testing.T) {
	assert.Equal(t, float32(0.2), fpsColor(120).R)
	assert.Equal(t, float32(1), fpsColor(45).G)
	assert.Equal(t, float32(0.2), fpsColor(10).G)
}
