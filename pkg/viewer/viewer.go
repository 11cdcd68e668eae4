// Package viewer is the state machine behind the document screen: it loads a
// compiled document, keeps the scroll offset in range and renders frames.
package viewer

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"texview/pkg/display"
	"texview/pkg/document"
	"texview/pkg/layout"
)

// ErrEmptyDocument is returned by Load for a document with no content.
var ErrEmptyDocument = errors.New("empty document")

// Store opens compiled documents by name.
type Store interface {
	Open(name string) ([]byte, error)
}

// Surface is what a frame is rendered onto.
type Surface interface {
	layout.Canvas
	Clear()
	PrintString(s string, x, y int)
	FillRect(x, y, w, h int, c color.Color)
}

const (
	statusY   = 4
	ruleY     = 19
	barX      = 314
	barW      = 3
	minThumbH = 6
)

// Viewer shows one document at a time.
type Viewer struct {
	engine *layout.Engine
	log    *slog.Logger

	// ScrollStep is the distance moved by ScrollUp and ScrollDown.
	ScrollStep int

	name      string
	doc       *document.Document
	missing   bool
	scroll    int
	maxScroll int
}

// New returns a viewer drawing with engine. A nil logger logs to
// slog.Default().
func New(engine *layout.Engine, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	return &Viewer{engine: engine, log: log.With("component", "viewer"), ScrollStep: 8}
}

// Load opens, parses and measures the named document. On failure the viewer
// switches to the fallback screen and the error is returned.
func (v *Viewer) Load(store Store, name string) error {
	v.name = name
	v.scroll, v.maxScroll = 0, 0

	data, err := store.Open(name)
	if err != nil {
		v.showFallback()
		v.log.Warn("document unavailable", "name", name, "err", err)
		return fmt.Errorf("load %s: %w", name, err)
	}

	// the tree copies what it needs, so data is dropped here
	doc := document.Load(data)
	size := len(data)

	if doc.Empty() {
		v.showFallback()
		v.log.Warn("document is empty", "name", name)
		return fmt.Errorf("load %s: %w", name, ErrEmptyDocument)
	}

	v.doc, v.missing = doc, false
	v.measure()
	v.log.Info("document loaded", "name", name, "bytes", size, "nodes", len(doc.Root), "max_scroll", v.maxScroll)
	return nil
}

// SetEngine switches to new geometry or glyph metrics and re-measures the
// document, keeping the scroll offset in range.
func (v *Viewer) SetEngine(engine *layout.Engine) {
	v.engine = engine
	if v.doc != nil {
		v.doc.Invalidate()
		v.measure()
	}
}

func (v *Viewer) measure() {
	v.doc.Measure(v.engine.Metrics)
	v.maxScroll = v.engine.MaxScroll(v.doc.Root)
	v.scroll = layout.ClampScroll(v.scroll, v.maxScroll)
}

func (v *Viewer) showFallback() {
	v.doc, v.missing = nil, true
}

// Handle applies an intent. It returns false when the viewer should close.
func (v *Viewer) Handle(in Intent) bool {
	if v.doc != nil {
		v.maxScroll = v.engine.MaxScroll(v.doc.Root)
	}

	switch in {
	case Exit:
		return false
	case ScrollDown:
		v.scroll += v.ScrollStep
	case ScrollUp:
		v.scroll -= v.ScrollStep
	case PageNext:
		v.scroll += v.page()
	case PagePrev:
		v.scroll -= v.page()
	case Home:
		v.scroll = 0
	case End:
		v.scroll = v.maxScroll
	}
	v.scroll = layout.ClampScroll(v.scroll, v.maxScroll)
	return true
}

// ScrollTo moves to offset, clamped to the document.
func (v *Viewer) ScrollTo(offset int) {
	v.scroll = layout.ClampScroll(offset, v.maxScroll)
}

// page is one viewport less one text line, so the last line stays in view.
func (v *Viewer) page() int {
	return max(v.engine.Viewport()-v.engine.LineHeight-v.engine.Leading, v.ScrollStep)
}

// Render draws the current frame.
func (v *Viewer) Render(s Surface) {
	s.Clear()
	if v.missing || v.doc == nil {
		v.renderFallback(s)
		return
	}

	e := v.engine
	e.Draw(s, v.doc.Root, e.Top-v.scroll)

	// the status band covers anything drawn above Top
	s.FillRect(0, 0, display.Width, e.Top, display.Paper)
	s.PrintString(v.name, e.Left, statusY)
	status := fmt.Sprintf("%3d%%", v.Percent())
	s.PrintString(status, e.Right-e.TextWidth([]byte(status)), statusY)
	s.FillRect(e.Left, ruleY, e.Right-e.Left, 1, display.Dim)

	v.renderScrollBar(s)
}

func (v *Viewer) renderFallback(s Surface) {
	s.PrintString(v.name+" not found.", 8, 8)
	s.PrintString("Compile one with: texview -in doc.tex", 8, 24)
	s.PrintString("q: quit", 8, 48)
}

func (v *Viewer) renderScrollBar(s Surface) {
	if v.maxScroll == 0 {
		return
	}
	e := v.engine
	track := e.Viewport()
	content := track + v.maxScroll
	thumb := max(track*track/content, minThumbH)
	top := e.Top + (track-thumb)*v.scroll/v.maxScroll

	s.FillRect(barX, e.Top, barW, track, display.Dim)
	s.FillRect(barX, top, barW, thumb, display.Ink)
}

// Percent is how far through the document the view is.
func (v *Viewer) Percent() int {
	if v.maxScroll == 0 {
		return 100
	}
	return v.scroll * 100 / v.maxScroll
}

// Name is the document name last passed to Load.
func (v *Viewer) Name() string { return v.name }

// Missing reports whether the fallback screen is showing.
func (v *Viewer) Missing() bool { return v.missing }

// Document returns the loaded document, or nil.
func (v *Viewer) Document() *document.Document { return v.doc }

// Scroll is the current scroll offset.
func (v *Viewer) Scroll() int { return v.scroll }

// MaxScroll is the largest scroll offset for the loaded document.
func (v *Viewer) MaxScroll() int { return v.maxScroll }
