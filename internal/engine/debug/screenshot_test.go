package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromGLFlipsRows(t *testing.T) {
	// 1x2: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}

	img, err := FromGL(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromGL: %v", err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top pixel should be blue")
	}
	if r, _, _, _ := img.At(0, 1).RGBA(); r == 0 {
		t.Errorf("bottom pixel should be red")
	}
}

func TestFromGLSizeMismatch(t *testing.T) {
	if _, err := FromGL(make([]byte, 10), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FromGL(nil, 0, 0); err == nil {
		t.Error("expected error for empty capture")
	}
}

func TestSaveWritesUniqueFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshotter(dir, "bouncer")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	pixels := make([]byte, 4*4*4)
	first, err := s.Save(pixels, 4, 4)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := s.Save(pixels, 4, 4)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if first == second {
		t.Fatalf("captures in the same second collided: %s", first)
	}
	if filepath.Base(first) != "bouncer_2024-05-01_12-00-00.png" {
		t.Errorf("unexpected name %s", first)
	}

	f, err := os.Open(second)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
