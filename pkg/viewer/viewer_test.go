package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"
	"testing"

	"texview/pkg/compiler"
	"texview/pkg/display"
	"texview/pkg/document"
	"texview/pkg/glyph"
	"texview/pkg/layout"
	"texview/pkg/vfs"
)

type fixedWidth struct{ w int }

func (f fixedWidth) Advance(byte) int { return f.w }

type textCall struct {
	text string
	x, y int
}

// surface records what a frame drew.
type surface struct {
	cleared int
	texts   []textCall
	prints  []string
	rects   int
}

func (s *surface) DrawText(text []byte, x, y int) {
	s.texts = append(s.texts, textCall{string(text), x, y})
}
func (s *surface) DrawRule(x, y, w, t int) {}
func (s *surface) Clear() { s.cleared++ }
func (s *surface) PrintString(str string, x, y int) { s.prints = append(s.prints, str) }
func (s *surface) FillRect(x, y, w, h int, c color.Color) { s.rects++ }

func testEngine() *layout.Engine {
	return &layout.Engine{
		Metrics: document.Metrics{Glyphs: fixedWidth{6}, LineHeight: 10, SubDescent: 3, FracGap: 2, FracBar: 1, FracPad: 4},
		Left:    8, Right: 312,
		Top: 24, Bottom: 124,
		Leading:  2,
		SupRaise: 4, SupDown: 1, SubShift: 6,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadLines stores a document of n numbered lines as DOC1 and loads it.
func loadLines(t *testing.T, n int) *Viewer {
	t.Helper()
	var lines []string
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("Line %d", i))
	}
	disk := vfs.NewDocumentDisk()
	if err := disk.Write("DOC1", compiler.Compile(strings.Join(lines, "\n"))); err != nil {
		t.Fatal(err)
	}
	v := New(testEngine(), quietLogger())
	if err := v.Load(disk, "DOC1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return v
}

func TestLoad(t *testing.T) {
	v := loadLines(t, 30)
	if v.Missing() || v.Document() == nil || !v.Document().Measured() {
		t.Fatal("document not loaded and measured")
	}
	// 30 rows of 12 px in a 100 px viewport
	if v.MaxScroll() != 260 {
		t.Errorf("MaxScroll = %d, want 260", v.MaxScroll())
	}
	if v.Scroll() != 0 || v.Percent() != 0 {
		t.Errorf("Scroll = %d, Percent = %d", v.Scroll(), v.Percent())
	}
}

func TestHandle(t *testing.T) {
	v := loadLines(t, 30)

	steps := []struct {
		in     Intent
		scroll int
	}{
		{ScrollDown, 8},
		{ScrollUp, 0},
		{ScrollUp, 0},
		{PageNext, 88},
		{PageNext, 176},
		{PageNext, 260},
		{ScrollDown, 260},
		{PagePrev, 172},
		{Home, 0},
		{End, 260},
		{None, 260},
	}
	for i, s := range steps {
		if !v.Handle(s.in) {
			t.Fatalf("step %d: %v closed the viewer", i, s.in)
		}
		if v.Scroll() != s.scroll {
			t.Errorf("step %d: after %v scroll = %d, want %d", i, s.in, v.Scroll(), s.scroll)
		}
	}
	if v.Percent() != 100 {
		t.Errorf("Percent at end = %d", v.Percent())
	}
	if v.Handle(Exit) {
		t.Error("Exit did not close the viewer")
	}
}

func TestShortDocumentDoesNotScroll(t *testing.T) {
	v := loadLines(t, 3)
	for _, in := range []Intent{ScrollDown, PageNext, End} {
		v.Handle(in)
		if v.Scroll() != 0 {
			t.Errorf("%v scrolled a document that fits: %d", in, v.Scroll())
		}
	}
}

func TestLoadMissing(t *testing.T) {
	v := New(testEngine(), quietLogger())
	err := v.Load(vfs.NewDocumentDisk(), "GHOST")
	if !errors.Is(err, vfs.ErrDocumentNotFound) {
		t.Fatalf("Load() error = %v, want ErrDocumentNotFound", err)
	}
	if !v.Missing() {
		t.Error("fallback screen not active")
	}

	s := &surface{}
	v.Render(s)
	if s.cleared != 1 || len(s.prints) == 0 || s.prints[0] != "GHOST not found." {
		t.Errorf("fallback screen = %q", s.prints)
	}
	if len(s.texts) != 0 {
		t.Errorf("fallback drew document text: %v", s.texts)
	}

	// navigation on the fallback screen is harmless
	if !v.Handle(PageNext) || v.Scroll() != 0 {
		t.Error("navigation on the fallback screen misbehaved")
	}
}

func TestLoadEmpty(t *testing.T) {
	disk := vfs.NewDocumentDisk()
	disk.Write("EMPTY", compiler.Compile(""))
	v := New(testEngine(), quietLogger())
	if err := v.Load(disk, "EMPTY"); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Load() error = %v, want ErrEmptyDocument", err)
	}
	if !v.Missing() {
		t.Error("empty document should show the fallback screen")
	}
}

func TestRender(t *testing.T) {
	v := loadLines(t, 30)
	v.ScrollStep = 12

	s := &surface{}
	v.Render(s)
	if len(s.texts) == 0 || s.texts[0] != (textCall{"Line 0", 8, 24}) {
		t.Fatalf("first text = %+v", s.texts)
	}
	if s.prints[0] != "DOC1" {
		t.Errorf("status line = %q", s.prints)
	}

	v.Handle(ScrollDown)
	s = &surface{}
	v.Render(s)
	if s.texts[0] != (textCall{"Line 1", 8, 24}) {
		t.Errorf("after scrolling one row, first text = %+v", s.texts[0])
	}
	for i := 1; i < len(s.texts); i++ {
		if s.texts[i].y <= s.texts[i-1].y {
			t.Errorf("rows out of order or repeated: %+v", s.texts)
		}
	}
}

func TestScrollTo(t *testing.T) {
	v := loadLines(t, 30)
	for _, tt := range []struct{ in, want int }{{-5, 0}, {100, 100}, {1000, 260}} {
		v.ScrollTo(tt.in)
		if v.Scroll() != tt.want {
			t.Errorf("ScrollTo(%d) = %d, want %d", tt.in, v.Scroll(), tt.want)
		}
	}
}

func TestSetEngineClampsScroll(t *testing.T) {
	v := loadLines(t, 30)
	v.Handle(End)

	e := testEngine()
	e.Bottom = 240 // taller viewport, less to scroll
	v.SetEngine(e)
	if v.MaxScroll() != 360-216 || v.Scroll() != v.MaxScroll() {
		t.Errorf("MaxScroll = %d, Scroll = %d", v.MaxScroll(), v.Scroll())
	}
}

func TestRenderOnScreen(t *testing.T) {
	face := glyph.NewFace()
	disk := vfs.NewDocumentDisk()
	disk.Write("DOC1", compiler.Compile(`The ratio is \frac{A}{B+1}.`))

	v := New(layout.NewEngine(document.DefaultMetrics(face)), quietLogger())
	if err := v.Load(disk, "DOC1"); err != nil {
		t.Fatal(err)
	}
	screen := display.NewScreen(face)
	v.Render(screen)

	ink := 0
	img := screen.Image()
	for y := layout.DefaultTop; y < layout.DefaultTop+40; y++ {
		for x := layout.DefaultLeft; x < layout.DefaultRight; x++ {
			if img.RGBAAt(x, y) == display.Ink {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Error("document not drawn on the screen")
	}
}

func TestIntentForKey(t *testing.T) {
	keys := map[rune]Intent{
		'j': ScrollDown, 'k': ScrollUp, 'n': PageNext, ' ': PageNext, 'p': PagePrev,
		'g': Home, 'G': End, 'q': Exit, 'x': None,
	}
	for r, want := range keys {
		if got := IntentForKey(r); got != want {
			t.Errorf("IntentForKey(%q) = %v, want %v", r, got, want)
		}
	}
	if PageNext.String() != "PageNext" || Intent(99).String() != "Intent(?)" {
		t.Error("Intent.String mismatch")
	}
}
