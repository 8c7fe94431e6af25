package ui

// FPSCounter averages the frame rate over half-second windows.
type FPSCounter struct {
	fps       float64
	frameTime float64 // ms
	accumMs   float64
	frames    int
}

// Update records one frame that took deltaMs milliseconds.
func (f *FPSCounter) Update(deltaMs float64) {
	f.frameTime = deltaMs
	f.frames++
	f.accumMs += deltaMs

	if f.accumMs >= 500 {
		f.fps = float64(f.frames) / (f.accumMs / 1000)
		f.frames = 0
		f.accumMs = 0
	}
}

// FPS returns the last averaged frame rate.
func (f *FPSCounter) FPS() float64 {
	return f.fps
}

// FrameTime returns the duration of the last frame in milliseconds.
func (f *FPSCounter) FrameTime() float64 {
	return f.frameTime
}
