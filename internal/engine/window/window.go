// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/bouncer/internal/engine/input"
	"github.com/Faultbox/bouncer/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	// In relative mode SDL stops reporting absolute positions; the cursor is
	// integrated from the relative motion so consumers always see positions.
	relative bool
	cursorX  float64
	cursorY  float64
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			logger.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		_ = sdl.GLSetSwapInterval(0)
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// GetSize returns the window size in screen coordinates.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels, which differs from
// GetSize on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// SetRelativeMouse captures or releases the pointer.
func (w *Window) SetRelativeMouse(on bool) {
	if on == w.relative {
		return
	}
	if !on {
		// hand the virtual cursor back to the OS
		w.sdlWindow.WarpMouseInWindow(int32(w.cursorX), int32(w.cursorY))
	}
	sdl.SetRelativeMouseMode(on)
	w.relative = on
}

// Cursor returns the last known pointer position.
func (w *Window) Cursor() (float64, float64) {
	if !w.relative {
		x, y, _ := sdl.GetMouseState()
		w.cursorX, w.cursorY = float64(x), float64(y)
	}
	return w.cursorX, w.cursorY
}

// PollEvents drains the SDL queue into in.
func (w *Window) PollEvents(in *input.Input) {
	in.Reset()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := w.translate(event); ok {
			in.Push(e)
		}
	}
}

func (w *Window) translate(event sdl.Event) (input.Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			dw, dh := w.DrawableSize()
			return input.Event{Type: input.EventResize, Width: dw, Height: dh}, true
		case sdl.WINDOWEVENT_ENTER:
			return input.Event{Type: input.EventCursorEnter, Entered: true}, true
		case sdl.WINDOWEVENT_LEAVE:
			return input.Event{Type: input.EventCursorEnter, Entered: false}, true
		}

	case *sdl.KeyboardEvent:
		ev := input.Event{
			Type: input.EventKey,
			Key:  translateKey(e.Keysym.Scancode),
			Mods: translateMods(e.Keysym.Mod),
		}
		switch {
		case e.Type == sdl.KEYUP:
			ev.Action = input.Release
		case e.Repeat != 0:
			ev.Action = input.Repeat
		default:
			ev.Action = input.Press
		}
		return ev, true

	case *sdl.MouseMotionEvent:
		if w.relative {
			w.cursorX += float64(e.XRel)
			w.cursorY += float64(e.YRel)
		} else {
			w.cursorX, w.cursorY = float64(e.X), float64(e.Y)
		}
		return input.Event{Type: input.EventPointerMove, X: w.cursorX, Y: w.cursorY}, true

	case *sdl.MouseButtonEvent:
		action := input.Release
		if e.Type == sdl.MOUSEBUTTONDOWN {
			action = input.Press
		}
		x, y := w.cursorX, w.cursorY
		if !w.relative {
			x, y = float64(e.X), float64(e.Y)
		}
		return input.Event{
			Type:   input.EventButton,
			Action: action,
			Button: int(e.Button),
			X:      x,
			Y:      y,
		}, true

	case *sdl.MouseWheelEvent:
		sx, sy := float64(e.X), float64(e.Y)
		if e.Direction == uint32(sdl.MOUSEWHEEL_FLIPPED) {
			sx, sy = -sx, -sy
		}
		return input.Event{Type: input.EventScroll, ScrollX: sx, ScrollY: sy}, true
	}

	return input.Event{}, false
}

var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_P:      input.KeyP,
	sdl.SCANCODE_R:      input.KeyR,
	sdl.SCANCODE_M:      input.KeyM,
	sdl.SCANCODE_SPACE:  input.KeySpace,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_LSHIFT: input.KeyLeftShift,
	sdl.SCANCODE_RSHIFT: input.KeyRightShift,
	sdl.SCANCODE_F1:     input.KeyF1,
	sdl.SCANCODE_F12:    input.KeyF12,
}

func translateKey(sc sdl.Scancode) input.Key {
	if k, ok := scancodes[sc]; ok {
		return k
	}
	return input.KeyUnknown
}

func translateMods(mod uint16) input.Mods {
	var m input.Mods
	if mod&uint16(sdl.KMOD_SHIFT) != 0 {
		m |= input.ModShift
	}
	if mod&uint16(sdl.KMOD_CTRL) != 0 {
		m |= input.ModCtrl
	}
	if mod&uint16(sdl.KMOD_ALT) != 0 {
		m |= input.ModAlt
	}
	if mod&uint16(sdl.KMOD_GUI) != 0 {
		m |= input.ModSuper
	}
	return m
}
