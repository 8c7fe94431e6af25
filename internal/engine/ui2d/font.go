package ui2d

import (
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is baked into the atlas; anything else renders as '?'.
const (
	firstGlyph = ' '
	lastGlyph  = '~'
	atlasCols  = 16
)

// Atlas is a fixed-width glyph sheet rasterised from basicfont.Face7x13.
// Glyph coverage is stored in the alpha channel.
type Atlas struct {
	Image         *image.RGBA
	GlyphW        int
	GlyphH        int
	cols, rows    int
	width, height float32
}

// NewAtlas rasterises the printable ASCII range.
func NewAtlas() *Atlas {
	face := basicfont.Face7x13
	gw, gh := face.Width, face.Height
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasCols - 1) / atlasCols

	img := image.NewRGBA(image.Rect(0, 0, atlasCols*gw, rows*gh))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		idx := int(r - firstGlyph)
		col, row := idx%atlasCols, idx/atlasCols
		d.Dot = fixed.P(col*gw, row*gh+face.Ascent)
		d.DrawString(string(r))
	}

	return &Atlas{
		Image:  img,
		GlyphW: gw,
		GlyphH: gh,
		cols:   atlasCols,
		rows:   rows,
		width:  float32(img.Bounds().Dx()),
		height: float32(img.Bounds().Dy()),
	}
}

// GlyphUV returns the texture coordinates of r's cell.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	idx := int(r - firstGlyph)
	x := float32((idx % a.cols) * a.GlyphW)
	y := float32((idx / a.cols) * a.GlyphH)
	return x / a.width, y / a.height, (x + float32(a.GlyphW)) / a.width, (y + float32(a.GlyphH)) / a.height
}

// Measure returns the size of text drawn at scale. Newlines start a new
// line.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines, cur, longest := 1, 0, 0
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		longest = max(longest, cur)
	}
	return float32(longest*a.GlyphW) * scale, float32(lines*a.GlyphH) * scale
}

// upload creates the GL texture. Nearest filtering keeps the bitmap crisp
// at integer scales.
func (a *Atlas) upload() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := a.Image.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(a.Image.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}
