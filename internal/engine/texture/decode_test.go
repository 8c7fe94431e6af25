package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255}) // top-left red
	img.Set(1, 2, color.RGBA{0, 0, 255, 255}) // bottom-right blue
	return img
}

func TestDecodeFlipsRows(t *testing.T) {
	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png": func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) },
		"bmp": func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) },
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf, testImage()); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Bounds().Dx() != 2 || got.Bounds().Dy() != 3 {
				t.Fatalf("size = %v, want 2x3", got.Bounds())
			}
			if c := got.RGBAAt(0, 2); c.R != 255 || c.B != 0 {
				t.Errorf("red pixel should move to the last row, got %v", c)
			}
			if c := got.RGBAAt(1, 0); c.B != 255 || c.R != 0 {
				t.Errorf("blue pixel should move to the first row, got %v", c)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode of garbage should fail")
	}
}

func TestFlipVerticalTwiceIsIdentity(t *testing.T) {
	img := testImage()
	orig := append([]byte(nil), img.Pix...)
	FlipVertical(img)
	FlipVertical(img)
	if !bytes.Equal(orig, img.Pix) {
		t.Error("flipping twice should restore the image")
	}
}
