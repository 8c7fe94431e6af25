// Package debug provides developer aids for the running game.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshotter writes frame captures as PNG files.
type Screenshotter struct {
	dir    string
	prefix string
	now    func() time.Time

	last string // timestamp of the previous capture
	seq  int    // captures within the same second
}

// NewScreenshotter writes into dir; an empty dir means the working
// directory.
func NewScreenshotter(dir, prefix string) *Screenshotter {
	return &Screenshotter{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the name the next capture will be written to.
func (s *Screenshotter) Filename() string {
	stamp := s.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s.png", s.prefix, stamp)
	if stamp == s.last {
		name = fmt.Sprintf("%s_%s_%d.png", s.prefix, stamp, s.seq+1)
	}
	return filepath.Join(s.dir, name)
}

// FromGL converts bottom-up RGBA rows, as returned by glReadPixels, into a
// top-down image.
func FromGL(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d",
			width, height, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Save writes a capture of GL pixels and returns the file path.
func (s *Screenshotter) Save(pixels []byte, width, height int) (string, error) {
	img, err := FromGL(pixels, width, height)
	if err != nil {
		return "", err
	}

	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.Filename()
	stamp := s.now().Format("2006-01-02_15-04-05")
	if stamp == s.last {
		s.seq++
	} else {
		s.last, s.seq = stamp, 0
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}
