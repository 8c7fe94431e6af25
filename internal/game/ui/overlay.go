// Package ui composes the in-game overlay: the pause menu and the HUD.
package ui

import (
	"fmt"

	"github.com/Faultbox/bouncer/internal/engine/ui2d"
	"github.com/Faultbox/bouncer/internal/game/sim"
)

const (
	menuW = float32(320)
	menuH = float32(230)
	rowH  = float32(36)
)

// View is the slice of simulation state the overlay shows.
type View struct {
	Paused bool
	Hits   int
}

// Overlay draws the menu while paused and the HUD while playing. It never
// mutates the simulation; button presses come back as an intent.
type Overlay struct {
	ctx    *ui2d.Context
	sounds sim.Sounds

	FPS     FPSCounter
	ShowFPS bool

	started bool
}

// NewOverlay draws through ctx and plays the click cue through sounds.
func NewOverlay(ctx *ui2d.Context, sounds sim.Sounds, showFPS bool) *Overlay {
	return &Overlay{
		ctx:     ctx,
		sounds:  sounds,
		ShowFPS: showFPS,
	}
}

// Context returns the underlying widget context.
func (o *Overlay) Context() *ui2d.Context {
	return o.ctx
}

// Draw renders one frame of the overlay and returns what the player asked
// for.
func (o *Overlay) Draw(v View) sim.Intent {
	o.ctx.Begin()
	defer o.ctx.End()

	intent := sim.IntentNone
	if v.Paused {
		intent = o.menu(v)
	}
	o.hud(v)

	if intent != sim.IntentNone && o.sounds != nil {
		o.sounds.Play(sim.SoundClick)
	}
	if intent == sim.IntentStartGame {
		o.started = true
	}
	return intent
}

func (o *Overlay) menu(v View) sim.Intent {
	sw, sh := o.ctx.ScreenSize()
	x, y := (sw-menuW)/2, (sh-menuH)/2

	o.ctx.BeginWindow("menu", x, y, menuW, menuH, "Bouncer")
	defer o.ctx.EndWindow()

	intent := sim.IntentNone

	o.ctx.Row(rowH)
	play := "Play"
	if o.started {
		play = "Resume"
	}
	if o.ctx.Button("play", 0, play) {
		intent = sim.IntentStartGame
	}

	o.ctx.Row(rowH)
	if o.ctx.Button("quit", 0, "Quit") {
		intent = sim.IntentQuit
	}

	o.ctx.Row(rowH)
	o.ctx.LabelCentered(fmt.Sprintf("Hits: %d", v.Hits), ui2d.ColorHighlight)

	o.ctx.Row(rowH)
	o.ctx.LabelCentered("WASD move  Shift boost", ui2d.ColorTextDim)
	return intent
}

func (o *Overlay) hud(v View) {
	if !v.Paused {
		o.ctx.Text(10, 10, fmt.Sprintf("Hits: %d", v.Hits), ui2d.ColorText)
	}
	if !o.ShowFPS {
		return
	}

	line := fmt.Sprintf("%.0f fps %.1f ms", o.FPS.FPS(), o.FPS.FrameTime())
	w, _ := o.ctx.MeasureText(line)
	sw, _ := o.ctx.ScreenSize()
	o.ctx.Text(sw-w-10, 10, line, fpsColor(o.FPS.FPS()))
}

func fpsColor(fps float64) ui2d.Color {
	switch {
	case fps < 30:
		return ui2d.Color{R: 1, G: 0.2, B: 0.2, A: 1}
	case fps < 60:
		return ui2d.Color{R: 1, G: 1, B: 0.2, A: 1}
	default:
		return ui2d.Color{R: 0.2, G: 1, B: 0.2, A: 1}
	}
}
