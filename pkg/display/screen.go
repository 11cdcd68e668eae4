// Package display is the in-memory framebuffer the viewer draws into.
package display

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"texview/pkg/glyph"
)

// Screen size in pixels.
const (
	Width  = 320
	Height = 240
)

var (
	Paper = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	Ink   = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	Dim   = color.RGBA{0x80, 0x80, 0x80, 0xFF}
)

// Screen is a 320x240 RGBA framebuffer. Drawing outside the bounds is
// clipped.
type Screen struct {
	img  *image.RGBA
	face *glyph.Face

	Fg, Bg color.RGBA
}

// NewScreen returns a screen cleared to the background colour.
func NewScreen(face *glyph.Face) *Screen {
	s := &Screen{
		img:  image.NewRGBA(image.Rect(0, 0, Width, Height)),
		face: face,
		Fg:   Ink,
		Bg:   Paper,
	}
	s.Clear()
	return s
}

// Face is the glyph face used for text.
func (s *Screen) Face() *glyph.Face {
	return s.face
}

// Clear fills the whole screen with the background colour.
func (s *Screen) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.Bg), image.Point{}, draw.Src)
}

// DrawText draws glyph codes with the first cell's top-left corner at (x, y).
func (s *Screen) DrawText(text []byte, x, y int) {
	for _, c := range text {
		x += s.face.DrawGlyph(s.img, c, x, y, s.Fg)
	}
}

// DrawRule draws a horizontal bar of thickness t.
func (s *Screen) DrawRule(x, y, w, t int) {
	s.FillRect(x, y, w, t, s.Fg)
}

// PrintString draws UTF-8 text, mapping it through the glyph alphabet.
func (s *Screen) PrintString(str string, x, y int) {
	s.DrawText(glyph.Encode(str), x, y)
}

// FillRect fills a w×h rectangle.
func (s *Screen) FillRect(x, y, w, h int, c color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// RGBA returns the pixels as RGBA8888 bytes, row by row. The slice aliases
// the framebuffer.
func (s *Screen) RGBA() []byte {
	return s.img.Pix
}

// Image returns the framebuffer.
func (s *Screen) Image() *image.RGBA {
	return s.img
}

// SaveScreenshot encodes the framebuffer as a PNG and writes it to filename.
func (s *Screen) SaveScreenshot(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, s.img)
}
