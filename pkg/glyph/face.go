package glyph

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Face draws and measures glyph codes. ASCII and the accented Latin entries
// come from the 7x13 bitmap font; Greek letters and the radical sign use the
// custom bitmaps in the extended table.
type Face struct {
	base   *basicfont.Face
	ascent int
	height int
}

// NewFace returns the default 7x13 face.
func NewFace() *Face {
	base := basicfont.Face7x13
	return &Face{base: base, ascent: base.Ascent, height: base.Height}
}

// Height is the height of one text line in pixels.
func (f *Face) Height() int {
	return f.height
}

// Advance returns the horizontal advance of code in pixels.
func (f *Face) Advance(code byte) int {
	if g := byCode[code]; g != nil {
		return g.Advance
	}
	if code >= 0x20 && code < 0x7F {
		return f.runeAdvance(rune(code))
	}
	return f.runeAdvance(rune(Placeholder))
}

// TextWidth sums the advances of every code in text.
func (f *Face) TextWidth(text []byte) int {
	w := 0
	for _, c := range text {
		w += f.Advance(c)
	}
	return w
}

func (f *Face) runeAdvance(r rune) int {
	adv, ok := f.base.GlyphAdvance(r)
	if !ok {
		adv, _ = f.base.GlyphAdvance(rune(Placeholder))
	}
	return adv.Round()
}

// DrawGlyph draws code with its cell's top-left corner at (x, y) and returns
// the advance.
func (f *Face) DrawGlyph(dst draw.Image, code byte, x, y int, c color.Color) int {
	if g := byCode[code]; g != nil {
		if g.Rows != nil {
			f.drawBitmap(dst, g, x, y, c)
		} else {
			f.drawRune(dst, g.Rune, x, y, c)
		}
		return g.Advance
	}
	if code < 0x20 || code >= 0x7F {
		code = Placeholder
	}
	f.drawRune(dst, rune(code), x, y, c)
	return f.runeAdvance(rune(code))
}

// drawBitmap sits the custom glyph on the font's baseline.
func (f *Face) drawBitmap(dst draw.Image, g *Glyph, x, y int, c color.Color) {
	top := y + f.ascent - g.Height
	if top < y {
		top = y
	}
	for row, bits := range g.Rows {
		for col := 0; col < g.Width; col++ {
			if bits&(1<<(g.Width-1-col)) != 0 {
				dst.Set(x+col, top+row, c)
			}
		}
	}
}

func (f *Face) drawRune(dst draw.Image, r rune, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.base,
		Dot:  fixed.P(x, y+f.ascent),
	}
	d.DrawString(string(r))
}
