package ui2d

import "fmt"

const (
	textScale = float32(2)
	padding   = float32(8)
	titleBarH = float32(30)
)

// Context is the immediate-mode UI: widgets are declared every frame between
// Begin and End and report interaction as return values.
type Context struct {
	painter Painter
	input   *InputState

	hotWidget    string
	activeWidget string

	currentWindow *WindowState

	// Layout cursor inside the current window
	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState is the geometry of the window being drawn.
type WindowState struct {
	ID   string
	X, Y float32
	W, H float32
}

// NewContext creates the GL renderer and a context drawing through it.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return NewContextWith(r), nil
}

// NewContextWith creates a context drawing through p.
func NewContextWith(p Painter) *Context {
	return &Context{
		painter: p,
		input:   &InputState{},
	}
}

// Close releases resources.
func (c *Context) Close() {
	if c.painter != nil {
		c.painter.Close()
	}
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.painter.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// ScreenSize returns the current screen dimensions.
func (c *Context) ScreenSize() (float32, float32) {
	w, h := c.painter.ScreenSize()
	return float32(w), float32(h)
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.hotWidget = ""
	c.painter.Begin()
}

// End finishes the UI frame.
func (c *Context) End() {
	c.painter.End()
	c.input.EndFrame()
}

// Hot reports whether the pointer was over a widget this frame.
func (c *Context) Hot() bool {
	return c.hotWidget != ""
}

// BeginWindow starts a panel. An empty title omits the title bar.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) {
	c.currentWindow = &WindowState{ID: id, X: x, Y: y, W: w, H: h}

	c.painter.DrawRect(x, y, w, h, ColorPanelBg)
	c.painter.DrawRectOutline(x, y, w, h, 1, ColorPanelBorder)

	c.cursorX = x + padding
	c.cursorY = y + padding
	if title != "" {
		c.painter.DrawRect(x+1, y+1, w-2, titleBarH-1, ColorButtonNormal)
		_, th := c.painter.MeasureText(title, textScale)
		c.painter.DrawText(x+padding, y+(titleBarH-th)/2, title, textScale, ColorText)
		c.cursorY += titleBarH
	}
	c.rowH = 0
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	c.currentWindow = nil
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + padding
	c.cursorY += c.rowH + 4
	c.rowH = height
}

// Spacer adds vertical space.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Button draws a button and returns true if it was clicked this frame.
// A zero width fills the window.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x, y, h := c.cursorX, c.cursorY, c.rowH
	if h == 0 {
		h = 28
	}
	if width == 0 {
		width = c.currentWindow.W - padding*2
	}

	fullID := c.currentWindow.ID + "_" + id
	hovered := Rect{x, y, width, h}.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = fullID
		// click on press; consume the event so only one button gets it
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = fullID
			clicked = true
			c.input.MouseLeftClicked = false
			c.input.MouseLeftPressed = false
		}
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	color := ColorButtonNormal
	if c.activeWidget == fullID {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}
	c.painter.DrawRect(x, y, width, h, color)
	c.painter.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)

	tw, th := c.painter.MeasureText(label, textScale)
	c.painter.DrawText(x+(width-tw)/2, y+(h-th)/2, label, textScale, ColorText)

	c.cursorX += width + 4
	return clicked
}

// Label draws a text label.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	c.painter.DrawText(c.cursorX, c.cursorY, text, textScale, color)
	w, _ := c.painter.MeasureText(text, textScale)
	c.cursorX += w + 4
}

// LabelCentered draws text centred in the window.
func (c *Context) LabelCentered(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	tw, _ := c.painter.MeasureText(text, textScale)
	content := c.currentWindow.W - padding*2
	x := max(c.currentWindow.X+padding+(content-tw)/2, c.currentWindow.X+padding)
	c.painter.DrawText(x, c.cursorY, text, textScale, color)
}

// Text draws free-standing text at a screen position, outside any window.
func (c *Context) Text(x, y float32, text string, color Color) {
	c.painter.DrawText(x, y, text, textScale, color)
}

// MeasureText returns the size of text at the widget scale.
func (c *Context) MeasureText(text string) (float32, float32) {
	return c.painter.MeasureText(text, textScale)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
